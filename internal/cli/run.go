// Package cli implements the fc command line: global flag parsing, config
// loading and the deck commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/flashcard/internal/config"
	"github.com/calvinalkan/flashcard/internal/fs"
	"github.com/calvinalkan/flashcard/internal/logging"
	"github.com/calvinalkan/flashcard/internal/store"
)

// deps carries the state commands need at execution time. It is filled
// in after global flags and config are resolved, so commands can be
// constructed earlier for the usage listing.
type deps struct {
	cfg   config.Config
	fs    fs.FS
	store *store.Store
	in    io.Reader
	env   map[string]string
}

func allCommands(d *deps) []*Command {
	return []*Command{
		LsCmd(d),
		CreateCmd(d),
		ImportCmd(d),
		RmCmd(d),
		MvCmd(d),
		ShowCmd(d),
		AddCmd(d),
		EditCmd(d),
		DelCmd(d),
		StudyCmd(d),
		EditorCmd(d),
		PrintConfigCmd(d),
	}
}

// Run is the main entry point. Returns exit code.
// sigCh may be nil; a signal on it cancels the running command.
func Run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	d := &deps{in: in, env: env}
	commands := allCommands(d)

	globals := flag.NewFlagSet("fc", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	deckDir := globals.String("deck-dir", "", "Override deck `dir`ectory")
	logLevel := globals.String("log-level", "", "Log `level`: debug|info|warn|error")
	help := globals.BoolP("help", "h", false, "Show help")

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	if err := globals.Parse(rest); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, commands)

		return 1
	}

	if *help || globals.NArg() == 0 {
		printUsage(out, globals, commands)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:  *workDir,
		ConfigPath:       *configPath,
		DeckDirOverride:  *deckDir,
		HasDeckDirFlag:   globals.Changed("deck-dir"),
		LogLevelOverride: *logLevel,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, commands)

		return 1
	}

	logger, err := logging.New(errOut, cfg.LogLevel)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	d.cfg = cfg
	d.fs = fs.NewReal()
	d.store = store.New(d.fs, cfg.DeckDirAbs, store.WithLogger(logger))

	name := globals.Arg(0)

	cmd := findCommand(commands, name)
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		printUsage(errOut, globals, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	o := NewIO(out, errOut)

	if code := cmd.Run(ctx, o, globals.Args()[1:]); code != 0 {
		return code
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		fprintln(errOut, "interrupted")

		return 1
	}

	return o.Finish()
}

func findCommand(commands []*Command, name string) *Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, "fc - flashcard decks stored as CSV files")
	fprintln(w)
	fprintln(w, "Usage: fc [global flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	fprint(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, "Run 'fc <command> --help' for command details.")
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprint(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}
