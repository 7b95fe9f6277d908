package domain

import "time"

// EntryFilter defines parameters for searching and paginating chest entries
// within a clan.
type EntryFilter struct {
	// Player performs an exact match on the player column.
	Player *string

	// Chest performs an exact match on the chest column.
	Chest *string

	// Search performs ILIKE '%...%' over player, chest, and source.
	Search *string

	// CollectedFrom / CollectedTo bound collected_date inclusively.
	CollectedFrom *time.Time
	CollectedTo   *time.Time

	// Scored filters entries that have (true) or lack (false) a score.
	Scored *bool

	// SortBy: "collected_date", "player", "score", "created_at".
	// Default: "collected_date".
	SortBy string

	// SortOrder: "ASC" or "DESC". Default: "DESC".
	SortOrder string

	// Limit is the page size. Default: 50, max: 500.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}
