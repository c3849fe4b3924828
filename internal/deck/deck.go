// Package deck holds flashcards and maps them to and from CSV.
//
// A deck file has one card per row: the first field is the front, the
// second the back. Extra fields are ignored on read and never written.
package deck

import (
	"errors"
	"fmt"
	"slices"
)

// ErrIndexOutOfRange is returned when a card index does not exist.
var ErrIndexOutOfRange = errors.New("card index out of range")

// Card is a single flashcard.
type Card struct {
	Front string
	Back  string
}

// Deck is an ordered collection of cards. Order is display and storage
// order; duplicates are allowed. Indices are 0-based and stay valid until
// the next Append or Remove.
//
// A Deck is not safe for concurrent use.
type Deck struct {
	cards []Card
}

// New returns a deck holding a copy of cards.
func New(cards ...Card) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Card returns the card at index i.
func (d *Deck) Card(i int) (Card, error) {
	if err := d.checkIndex(i); err != nil {
		return Card{}, err
	}

	return d.cards[i], nil
}

// Cards returns a copy of all cards in order.
func (d *Deck) Cards() []Card {
	return slices.Clone(d.cards)
}

// Append adds card to the end of the deck. Values are stored verbatim.
func (d *Deck) Append(card Card) {
	d.cards = append(d.cards, card)
}

// Update replaces the card at index i. Values are stored verbatim.
func (d *Deck) Update(i int, card Card) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}

	d.cards[i] = card

	return nil
}

// SetFront replaces the front of the card at index i.
func (d *Deck) SetFront(i int, front string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}

	d.cards[i].Front = front

	return nil
}

// SetBack replaces the back of the card at index i.
func (d *Deck) SetBack(i int, back string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}

	d.cards[i].Back = back

	return nil
}

// Remove deletes the card at index i and returns it. Later cards shift down
// by one.
func (d *Deck) Remove(i int) (Card, error) {
	if err := d.checkIndex(i); err != nil {
		return Card{}, err
	}

	removed := d.cards[i]
	d.cards = slices.Delete(d.cards, i, i+1)

	return removed, nil
}

func (d *Deck) checkIndex(i int) error {
	if i < 0 || i >= len(d.cards) {
		return fmt.Errorf("%w: %d (deck has %d cards)", ErrIndexOutOfRange, i, len(d.cards))
	}

	return nil
}
