package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/flashcard/internal/deck"
)

const (
	formatList = "list"
	formatCSV  = "csv"

	noCardsMessage = "No cards available"
)

// ShowCmd returns the show command.
func ShowCmd(d *deps) *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.StringP("format", "f", formatList, "Output `format`: list|csv")

	return &Command{
		Flags: fs,
		Usage: "show <name> [flags]",
		Short: "Print the cards of a deck",
		Long: "Print the cards of a deck numbered from 1, or with --format csv the deck\n" +
			"re-serialized as CSV (what the next save would write).",
		Exec: func(_ context.Context, io *IO, args []string) error {
			format, _ := fs.GetString("format")

			return execShow(io, d, args, format)
		},
	}
}

func execShow(io *IO, d *deps, args []string, format string) error {
	if format != formatList && format != formatCSV {
		return fmt.Errorf("%w: %s", errUnknownFormat, format)
	}

	name, err := deckArg(args, 1)
	if err != nil {
		return err
	}

	dk, err := d.store.Load(name)
	if err != nil {
		return err
	}

	if format == formatCSV {
		io.Printf("%s", deck.Marshal(dk.Cards()))

		return nil
	}

	if dk.Len() == 0 {
		io.Println(noCardsMessage)

		return nil
	}

	for i, card := range dk.Cards() {
		prefix := fmt.Sprintf("%d. ", i+1)
		pad := strings.Repeat(" ", len(prefix))

		io.Printf("%sfront: %s\n", prefix, card.Front)
		io.Printf("%sback:  %s\n", pad, card.Back)
	}

	return nil
}
