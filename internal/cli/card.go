package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/flashcard/internal/deck"
)

var errFrontBackRequired = errors.New("front and back are required")

// AddCmd returns the add command.
func AddCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("add", flag.ContinueOnError),
		Usage: "add <name> <front> <back>",
		Short: "Append a card to a deck",
		Long:  "Append a card to a deck. Front and back are stored verbatim.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			name, err := deckArg(args, 3)
			if err != nil {
				return err
			}

			if len(args) < 3 {
				return errFrontBackRequired
			}

			card := deck.Card{Front: args[1], Back: args[2]}

			var number int

			err = d.store.Update(name, func(dk *deck.Deck) error {
				dk.Append(card)
				number = dk.Len()

				return nil
			})
			if err != nil {
				return err
			}

			io.Printf("Added card %d to %s\n", number, name)

			return nil
		},
	}
}

// EditCmd returns the edit command.
func EditCmd(d *deps) *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.String("front", "", "New front `text`")
	fs.String("back", "", "New back `text`")

	return &Command{
		Flags: fs,
		Usage: "edit <name> <n> [flags]",
		Short: "Change the front or back of card n",
		Long:  "Change the front and/or back of card n (numbered from 1). Text is stored verbatim.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execEdit(io, d, fs, args)
		},
	}
}

func execEdit(io *IO, d *deps, fs *flag.FlagSet, args []string) error {
	name, number, err := cardArgs(args)
	if err != nil {
		return err
	}

	setFront, setBack := fs.Changed("front"), fs.Changed("back")
	if !setFront && !setBack {
		return errNothingToEdit
	}

	front, _ := fs.GetString("front")
	back, _ := fs.GetString("back")

	err = d.store.Update(name, func(dk *deck.Deck) error {
		i, idxErr := cardIndex(dk, number)
		if idxErr != nil {
			return idxErr
		}

		if setFront {
			if err := dk.SetFront(i, front); err != nil {
				return err
			}
		}

		if setBack {
			return dk.SetBack(i, back)
		}

		return nil
	})
	if err != nil {
		return err
	}

	io.Printf("Updated card %d in %s\n", number, name)

	return nil
}

// DelCmd returns the del command.
func DelCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("del", flag.ContinueOnError),
		Usage: "del <name> <n>",
		Short: "Remove card n from a deck",
		Long:  "Remove card n (numbered from 1). Later cards move up by one.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			name, number, err := cardArgs(args)
			if err != nil {
				return err
			}

			var removed deck.Card

			err = d.store.Update(name, func(dk *deck.Deck) error {
				i, idxErr := cardIndex(dk, number)
				if idxErr != nil {
					return idxErr
				}

				removed, idxErr = dk.Remove(i)

				return idxErr
			})
			if err != nil {
				return err
			}

			io.Printf("Deleted card %d from %s: %s\n", number, name, removed.Front)

			return nil
		},
	}
}

// cardArgs parses "<name> <n>".
func cardArgs(args []string) (string, int, error) {
	name, err := deckArg(args, 2)
	if err != nil {
		return "", 0, err
	}

	if len(args) < 2 {
		return "", 0, errCardNumberRequired
	}

	number, err := parseCardNumber(args[1])
	if err != nil {
		return "", 0, err
	}

	return name, number, nil
}
