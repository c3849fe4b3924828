// Package codec converts between CSV text and rows of string fields.
//
// The dialect is the one produced by common spreadsheet exports of
// flashcard data: comma separated, double-quote quoting, doubled quotes
// inside quoted fields, \n row terminators and \r ignored on read.
//
// [Parse] is total: every input yields rows, malformed quoting degrades
// instead of failing. [Escape] applies minimal quoting and [Unescape] is its
// exact inverse.
package codec

import "strings"

// scanState is the parser state between two input bytes.
type scanState int

const (
	stateUnquoted scanState = iota
	stateQuoted
)

const (
	quote      = '"'
	comma      = ','
	newline    = '\n'
	carriage   = '\r'
	endOfInput = -1
)

// Parse splits text into rows of fields.
//
// Outside quotes a '"' enters quoted mode regardless of its position in the
// field, so ab"cd"ef scans as the single field abcdef. Inside quotes "" is a
// literal quote and a lone '"' leaves quoted mode. An unterminated quote
// absorbs the rest of the input. A final row without a trailing newline is
// kept.
//
// Rows with no fields, or with a single blank field, are dropped.
func Parse(text string) [][]string {
	sc := scanner{text: text}

	return filterRows(sc.run())
}

// scanner holds the accumulators of a single Parse call.
type scanner struct {
	text  string
	pos   int
	state scanState

	field strings.Builder
	row   []string
	rows  [][]string
}

func (s *scanner) run() [][]string {
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		s.pos++

		switch s.state {
		case stateUnquoted:
			s.unquoted(c)
		case stateQuoted:
			s.quoted(c)
		}
	}

	if s.field.Len() > 0 || len(s.row) > 0 {
		s.endField()
		s.endRow()
	}

	return s.rows
}

func (s *scanner) unquoted(c byte) {
	switch c {
	case quote:
		s.state = stateQuoted
	case comma:
		s.endField()
	case newline:
		s.endField()
		s.endRow()
	case carriage:
	default:
		s.field.WriteByte(c)
	}
}

func (s *scanner) quoted(c byte) {
	if c != quote {
		s.field.WriteByte(c)

		return
	}

	if s.peek() == quote {
		s.field.WriteByte(quote)
		s.pos++

		return
	}

	s.state = stateUnquoted
}

// peek returns the next unread byte, or endOfInput at end of input.
func (s *scanner) peek() int {
	if s.pos >= len(s.text) {
		return endOfInput
	}

	return int(s.text[s.pos])
}

func (s *scanner) endField() {
	s.row = append(s.row, s.field.String())
	s.field.Reset()
}

func (s *scanner) endRow() {
	s.rows = append(s.rows, s.row)
	s.row = nil
}

func filterRows(rows [][]string) [][]string {
	kept := rows[:0]

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		kept = append(kept, row)
	}

	if len(kept) == 0 {
		return nil
	}

	return kept
}
