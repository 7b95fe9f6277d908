package parser

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// Tabular column order: player, source, chest, collected date.
const tabularColumns = 4

// parseTabular reads delimited rows, one record per line. Tab is the
// primary delimiter; a line without tabs falls back to semicolons.
// A malformed row yields a ParseError for that line and parsing continues.
func parseTabular(raw string) []LineResult {
	var results []LineResult

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := splitRow(line)
		if len(fields) != tabularColumns {
			results = append(results, LineResult{
				Line: lineNo,
				Err: &ParseError{
					Line:   lineNo,
					Reason: fmt.Sprintf("expected %d columns, got %d", tabularColumns, len(fields)),
				},
			})
			continue
		}

		collected, err := parseDate(fields[3])
		if err != nil {
			results = append(results, LineResult{
				Line: lineNo,
				Err:  &ParseError{Line: lineNo, Reason: err.Error()},
			})
			continue
		}

		source := strings.TrimSpace(fields[1])
		minLevel, maxLevel, err := extractLevels(source)
		if err != nil {
			results = append(results, LineResult{
				Line: lineNo,
				Err:  &ParseError{Line: lineNo, Reason: err.Error()},
			})
			continue
		}

		results = append(results, LineResult{
			Line: lineNo,
			Record: &domain.CandidateRecord{
				Player:        strings.TrimSpace(fields[0]),
				Source:        source,
				MinLevel:      minLevel,
				MaxLevel:      maxLevel,
				Chest:         strings.TrimSpace(fields[2]),
				CollectedDate: collected,
			},
		})
	}

	return results
}

// splitRow splits one delimited row into raw column values.
func splitRow(line string) []string {
	if strings.Contains(line, "\t") {
		return strings.Split(line, "\t")
	}
	return strings.Split(line, ";")
}
