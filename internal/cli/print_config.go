package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/flashcard/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(d *deps) *Command {
	fs := flag.NewFlagSet("print-config", flag.ContinueOnError)
	fs.Bool("json", false, "Print the merged config file contents as JSON")

	return &Command{
		Flags: fs,
		Usage: "print-config [flags]",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", errTooManyArgs, args)
			}

			if asJSON, _ := fs.GetBool("json"); asJSON {
				data, err := config.Format(d.cfg)
				if err != nil {
					return err
				}

				io.Println(data)

				return nil
			}

			execPrintConfig(io, d)

			return nil
		},
	}
}

func execPrintConfig(io *IO, d *deps) {
	cfg := d.cfg

	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("deck_dir=" + cfg.DeckDirAbs)
	io.Println("log_level=" + cfg.LogLevel)

	if cfg.Editor != "" {
		io.Println("editor=" + cfg.Editor)
	}

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")

		return
	}

	if cfg.Sources.Global != "" {
		io.Println("global_config=" + cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		io.Println("project_config=" + cfg.Sources.Project)
	}
}
