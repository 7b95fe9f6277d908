package domain

// ImportFormat identifies the raw input format accepted by the parser.
type ImportFormat string

const (
	ImportFormatTabular  ImportFormat = "TABULAR"
	ImportFormatFreeform ImportFormat = "FREEFORM"
)

func (f ImportFormat) String() string { return string(f) }

func (f ImportFormat) IsValid() bool {
	switch f {
	case ImportFormatTabular, ImportFormatFreeform:
		return true
	}
	return false
}

// RuleColumn names a CandidateRecord field that validation and correction
// rules can be scoped to.
type RuleColumn string

const (
	RuleColumnPlayer RuleColumn = "PLAYER"
	RuleColumnSource RuleColumn = "SOURCE"
	RuleColumnChest  RuleColumn = "CHEST"
)

func (c RuleColumn) String() string { return string(c) }

func (c RuleColumn) IsValid() bool {
	switch c {
	case RuleColumnPlayer, RuleColumnSource, RuleColumnChest:
		return true
	}
	return false
}

// RuleKind identifies one of the three rule collections of a clan.
type RuleKind string

const (
	RuleKindValidation RuleKind = "VALIDATION"
	RuleKindCorrection RuleKind = "CORRECTION"
	RuleKindScoring    RuleKind = "SCORING"
)

func (k RuleKind) String() string { return string(k) }

func (k RuleKind) IsValid() bool {
	switch k {
	case RuleKindValidation, RuleKindCorrection, RuleKindScoring:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity (used in audit logs).
type EntityType string

const (
	EntityTypeChestEntry     EntityType = "CHEST_ENTRY"
	EntityTypeValidationRule EntityType = "VALIDATION_RULE"
	EntityTypeCorrectionRule EntityType = "CORRECTION_RULE"
	EntityTypeScoringRule    EntityType = "SCORING_RULE"
	EntityTypeClan           EntityType = "CLAN"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeChestEntry, EntityTypeValidationRule,
		EntityTypeCorrectionRule, EntityTypeScoringRule, EntityTypeClan:
		return true
	}
	return false
}

// RuleEntityType maps a rule kind to its audit entity type.
func RuleEntityType(kind RuleKind) EntityType {
	switch kind {
	case RuleKindValidation:
		return EntityTypeValidationRule
	case RuleKindCorrection:
		return EntityTypeCorrectionRule
	default:
		return EntityTypeScoringRule
	}
}

// AuditAction is the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate        AuditAction = "CREATE"
	AuditActionUpdate        AuditAction = "UPDATE"
	AuditActionDelete        AuditAction = "DELETE"
	AuditActionImport        AuditAction = "IMPORT"
	AuditActionBatchEditData AuditAction = "BATCH_EDIT_DATA"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionImport, AuditActionBatchEditData:
		return true
	}
	return false
}
