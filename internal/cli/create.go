package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// CreateCmd returns the create command.
func CreateCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("create", flag.ContinueOnError),
		Usage: "create <name>",
		Short: "Create an empty deck",
		Long:  "Create an empty deck file <name>.csv in the deck directory. Fails if the deck exists.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			name, err := deckArg(args, 1)
			if err != nil {
				return err
			}

			name, err = d.store.Create(name)
			if err != nil {
				return err
			}

			io.Println("Created", name)

			return nil
		},
	}
}
