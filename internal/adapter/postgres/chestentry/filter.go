package chestentry

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	sortByCollectedDate = "collected_date"
	sortByPlayer        = "player"
	sortByScore         = "score"
	sortByCreatedAt     = "created_at"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalizeFilter applies defaults and clamps paging values.
func normalizeFilter(f *domain.EntryFilter) {
	switch f.SortBy {
	case sortByCollectedDate, sortByPlayer, sortByScore, sortByCreatedAt:
		// valid
	default:
		f.SortBy = sortByCollectedDate
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
		// valid
	default:
		f.SortOrder = sortOrderDESC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// applyFilter adds the filter's WHERE conditions to a select builder.
func applyFilter(b sq.SelectBuilder, f domain.EntryFilter) sq.SelectBuilder {
	if f.Player != nil {
		b = b.Where(sq.Eq{"player": *f.Player})
	}
	if f.Chest != nil {
		b = b.Where(sq.Eq{"chest": *f.Chest})
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + *f.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"player": pattern},
			sq.ILike{"chest": pattern},
			sq.ILike{"source": pattern},
		})
	}
	if f.CollectedFrom != nil {
		b = b.Where(sq.GtOrEq{"collected_date": *f.CollectedFrom})
	}
	if f.CollectedTo != nil {
		b = b.Where(sq.LtOrEq{"collected_date": *f.CollectedTo})
	}
	if f.Scored != nil {
		if *f.Scored {
			b = b.Where(sq.NotEq{"score": nil})
		} else {
			b = b.Where(sq.Eq{"score": nil})
		}
	}
	return b
}
