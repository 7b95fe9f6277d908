package chestdata

import (
	"context"
	"fmt"

	"github.com/ravenhall/clanchest-backend/internal/domain"
	"github.com/ravenhall/clanchest-backend/internal/parser"
	"github.com/ravenhall/clanchest-backend/pkg/ctxutil"
)

// BuildPreview parses the raw payload and runs every parsed record through
// the clan's rule pipeline: validation annotates, correction substitutes,
// scoring assigns. Performs no persistence; one rule snapshot is read at
// invocation time and used for the whole batch.
func (s *Service) BuildPreview(ctx context.Context, input PreviewInput) (*PreviewResult, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if len(input.Raw) > s.cfg.MaxRawBytes {
		return nil, domain.NewValidationError("raw", fmt.Sprintf("payload exceeds %d bytes", s.cfg.MaxRawBytes))
	}

	lines, err := parser.Parse(input.Raw, input.Format)
	if err != nil {
		return nil, err
	}
	if len(lines) > s.cfg.MaxBatchRows {
		return nil, domain.NewValidationError("raw", fmt.Sprintf("batch exceeds %d rows", s.cfg.MaxBatchRows))
	}

	snap, err := s.loadSnapshot(ctx, input.ClanID)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{Rows: make([]PreviewRow, 0, len(lines))}

	for _, line := range lines {
		if line.Err != nil {
			result.Rows = append(result.Rows, PreviewRow{
				Line:       line.Line,
				ParseError: line.Err.Reason,
			})
			result.ErrorCount++
			continue
		}

		row := PreviewRow{Line: line.Line, Original: line.Record}

		// Validation runs on the parsed record; the pipeline flows
		// strictly forward, so a later correction does not clear a
		// violation within the same preview.
		row.Violations = snap.Validate(line.Record)

		corrected, applied := snap.Correct(line.Record)
		row.Corrections = applied

		if score, ok := snap.Score(&corrected); ok {
			corrected.Score = &score
			row.Score = corrected.Score
		} else {
			result.UnscoredCount++
		}
		row.Corrected = &corrected

		if len(row.Violations) > 0 {
			result.ViolationCount++
		}
		result.ParsedCount++
		result.Rows = append(result.Rows, row)
	}

	s.log.DebugContext(ctx, "preview built",
		"clan_id", input.ClanID,
		"format", input.Format,
		"parsed", result.ParsedCount,
		"errors", result.ErrorCount,
		"unscored", result.UnscoredCount,
	)

	return result, nil
}
