package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
)

// ImportCmd returns the import command.
func ImportCmd(d *deps) *Command {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.StringP("name", "n", "", "Deck `name` (default Imported_<unix millis>)")

	return &Command{
		Flags: fs,
		Usage: "import <file> [flags]",
		Short: "Import a CSV file as a new deck",
		Long: "Copy a CSV file into the deck directory as a new deck. Use - to read from stdin.\n" +
			"The file is stored as is; rows with fewer than two fields are ignored when reading.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			name, _ := fs.GetString("name")

			return execImport(ctx, o, d, args, name)
		},
	}
}

func execImport(ctx context.Context, o *IO, d *deps, args []string, name string) error {
	if len(args) == 0 {
		return errFileRequired
	}

	if len(args) > 1 {
		return fmt.Errorf("%w: %v", errTooManyArgs, args[1:])
	}

	src := args[0]

	var r io.Reader

	if src == "-" {
		r = d.in
		if r == nil {
			r = os.Stdin
		}
	} else {
		if !filepath.IsAbs(src) {
			src = filepath.Join(d.cfg.EffectiveCwd, src)
		}

		file, openErr := d.fs.Open(src)
		if openErr != nil {
			return fmt.Errorf("opening import file: %w", openErr)
		}

		defer func() { _ = file.Close() }()

		r = file
	}

	name, cards, err := d.store.Import(ctx, r, name)
	if err != nil {
		return err
	}

	o.Printf("Imported %s (%s)\n", name, plural(cards, "card"))

	return nil
}
