package parser

import (
	"bufio"
	"strings"

	"github.com/ravenhall/clanchest-backend/internal/domain"
)

// Freeform line prefixes as they appear in the in-game chest log.
const (
	fromPrefix   = "From:"
	sourcePrefix = "Source:"
)

// block is a group of consecutive non-blank lines.
type block struct {
	startLine int
	lines     []string
}

// parseFreeform reads the in-game chest log format. Each record is a block
// of lines separated by blank lines:
//
//	Wooden Chest
//	From: Sharpe
//	Source: Level 25 Crypt
//	11.03.2024
//
// The first line is the chest name, "From:" carries the player, "Source:"
// carries the source descriptor with an optional embedded level expression,
// and the remaining line is the collection date. A malformed block yields a
// ParseError tagged with the block's first line.
func parseFreeform(raw string) []LineResult {
	var results []LineResult

	for _, b := range splitBlocks(raw) {
		results = append(results, parseBlock(b))
	}

	return results
}

// splitBlocks groups input lines into blank-line separated blocks.
func splitBlocks(raw string) []block {
	var blocks []block
	var current *block

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			if current != nil {
				blocks = append(blocks, *current)
				current = nil
			}
			continue
		}

		if current == nil {
			current = &block{startLine: lineNo}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

// parseBlock converts one freeform block into a record or a parse error.
func parseBlock(b block) LineResult {
	fail := func(reason string) LineResult {
		return LineResult{
			Line: b.startLine,
			Err:  &ParseError{Line: b.startLine, Reason: reason},
		}
	}

	var rec domain.CandidateRecord
	var dateSeen bool

	for i, line := range b.lines {
		switch {
		case strings.HasPrefix(line, fromPrefix):
			rec.Player = strings.TrimSpace(strings.TrimPrefix(line, fromPrefix))
		case strings.HasPrefix(line, sourcePrefix):
			rec.Source = strings.TrimSpace(strings.TrimPrefix(line, sourcePrefix))
		case i == 0:
			rec.Chest = line
		default:
			collected, err := parseDate(line)
			if err != nil {
				return fail(err.Error())
			}
			rec.CollectedDate = collected
			dateSeen = true
		}
	}

	if rec.Chest == "" {
		return fail("missing chest name")
	}
	if rec.Player == "" {
		return fail("missing \"From:\" line")
	}
	if rec.Source == "" {
		return fail("missing \"Source:\" line")
	}
	if !dateSeen {
		return fail("missing date line")
	}

	var levelErr error
	rec.MinLevel, rec.MaxLevel, levelErr = extractLevels(rec.Source)
	if levelErr != nil {
		return fail(levelErr.Error())
	}

	return LineResult{Line: b.startLine, Record: &rec}
}
