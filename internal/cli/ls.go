package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"
)

// LsCmd returns the ls command.
func LsCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Usage: "ls",
		Short: "List decks",
		Long:  "List all decks in the deck directory, sorted by name, with their card counts.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", errTooManyArgs, args)
			}

			return execLs(ctx, io, d)
		},
	}
}

func execLs(ctx context.Context, io *IO, d *deps) error {
	entries, err := d.store.List(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Err != nil {
			io.Warn(fmt.Sprintf("%s: %v", entry.Path, entry.Err), "check the file permissions or remove the file")

			continue
		}

		io.Printf("%s (%s)\n", entry.Name, plural(entry.Cards, "card"))
	}

	return nil
}
