package deck

import (
	"fmt"
	"io"
	"strings"

	"github.com/calvinalkan/flashcard/internal/codec"
)

// minFields is the number of fields a row needs to become a card.
const minFields = 2

// FromRows maps parsed rows to cards. Rows with fewer than two fields are
// skipped; fields after the second are ignored. Front and back are trimmed.
func FromRows(rows [][]string) []Card {
	cards := make([]Card, 0, len(rows))

	for _, row := range rows {
		if len(row) < minFields {
			continue
		}

		cards = append(cards, Card{
			Front: strings.TrimSpace(row[0]),
			Back:  strings.TrimSpace(row[1]),
		})
	}

	return cards
}

// Parse builds a deck from CSV text. It never fails.
func Parse(text string) *Deck {
	return &Deck{cards: FromRows(codec.Parse(text))}
}

// Decode reads r to the end and parses its content as a deck.
// Only read errors are returned.
func Decode(r io.Reader) (*Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}

	return Parse(string(data)), nil
}

// Marshal serializes cards, one "front,back\n" row per card, quoting fields
// only where needed.
func Marshal(cards []Card) []byte {
	var b strings.Builder

	for _, card := range cards {
		codec.AppendRow(&b, card.Front, card.Back)
	}

	return []byte(b.String())
}
