// Package parser converts raw chest log text into candidate records.
// Pure function: text in, domain structs out. It never consults rules and
// never touches the database; malformed lines become ParseErrors collected
// alongside successful records, parsing always continues.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// ParseError describes one unparseable line or block. Non-fatal: it is
// surfaced in the preview next to the successfully parsed records.
type ParseError struct {
	// Line is the 1-based input line the error was detected on.
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// LineResult is one parser output: either a record or a parse error.
// Exactly one of Record and Err is set. Output order follows input order;
// Line is the stable identity of a preview row.
type LineResult struct {
	Line   int
	Record *domain.CandidateRecord
	Err    *ParseError
}

// Parse converts raw input in the given format into an ordered sequence of
// line results. An unknown format is the only fatal error.
func Parse(raw string, format domain.ImportFormat) ([]LineResult, error) {
	switch format {
	case domain.ImportFormatTabular:
		return parseTabular(raw), nil
	case domain.ImportFormatFreeform:
		return parseFreeform(raw), nil
	default:
		return nil, fmt.Errorf("parse: unknown format %q: %w", format, domain.ErrValidation)
	}
}

// levelPattern matches "Level N" and "Level N-M" source descriptors.
var levelPattern = regexp.MustCompile(`\bLevel\s+(\d+)(?:\s*-\s*(\d+))?\b`)

// extractLevels pulls an embedded level expression out of a source
// descriptor. Absence of a level expression leaves both values nil.
// An inverted range such as "Level 25-20" is malformed: records must
// never leave the parser with min_level above max_level.
func extractLevels(source string) (minLevel, maxLevel *int, err error) {
	m := levelPattern.FindStringSubmatch(source)
	if m == nil {
		return nil, nil, nil
	}

	lo, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return nil, nil, nil
	}
	minLevel = &lo

	if m[2] != "" {
		hi, convErr := strconv.Atoi(m[2])
		if convErr == nil {
			if hi < lo {
				return nil, nil, fmt.Errorf("inverted level range %d-%d in source %q", lo, hi, source)
			}
			maxLevel = &hi
		}
	}
	return minLevel, maxLevel, nil
}

// dateLayouts are the accepted day-month-year spellings, tried in order.
var dateLayouts = []string{"02.01.2006", "02/01/2006", "02-01-2006"}

// parseDate parses a day-month-year date at day precision (midnight UTC).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
