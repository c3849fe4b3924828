package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

var errNewNameRequired = errors.New("new deck name is required")

// MvCmd returns the mv command.
func MvCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("mv", flag.ContinueOnError),
		Usage: "mv <old> <new>",
		Short: "Rename a deck",
		Long:  "Rename a deck. The .csv suffix is optional. Fails if <new> already exists.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			oldName, err := deckArg(args, 2)
			if err != nil {
				return err
			}

			if len(args) < 2 {
				return errNewNameRequired
			}

			newName, err := d.store.Rename(oldName, args[1])
			if err != nil {
				return err
			}

			io.Printf("Renamed %s -> %s\n", oldName, newName)

			return nil
		},
	}
}
