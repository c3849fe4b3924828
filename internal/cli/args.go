package cli

import (
	"fmt"
	"strconv"

	"github.com/calvinalkan/flashcard/internal/deck"
	"github.com/calvinalkan/flashcard/internal/store"
)

// deckArg returns the normalized deck name from args[0] and rejects
// anything beyond maxArgs positional arguments.
func deckArg(args []string, maxArgs int) (string, error) {
	if len(args) == 0 {
		return "", store.ErrDeckNameRequired
	}

	if len(args) > maxArgs {
		return "", fmt.Errorf("%w: %v", errTooManyArgs, args[maxArgs:])
	}

	return store.NormalizeName(args[0])
}

// parseCardNumber parses a 1-based card number.
func parseCardNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", errInvalidCardNumber, s)
	}

	return n, nil
}

// cardIndex converts the 1-based card number n into an index of d.
func cardIndex(d *deck.Deck, n int) (int, error) {
	if n > d.Len() {
		return 0, fmt.Errorf("%w: %d (deck has %d cards)", deck.ErrIndexOutOfRange, n, d.Len())
	}

	return n - 1, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}

	return fmt.Sprintf("%d %ss", n, word)
}
