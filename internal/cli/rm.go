package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// RmCmd returns the rm command.
func RmCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <name>",
		Short: "Delete a deck",
		Exec: func(_ context.Context, io *IO, args []string) error {
			name, err := deckArg(args, 1)
			if err != nil {
				return err
			}

			if err := d.store.Delete(name); err != nil {
				return err
			}

			io.Println("Deleted", name)

			return nil
		},
	}
}
