package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/flashcard/internal/store"
)

// EditorCmd returns the editor command.
func EditorCmd(d *deps) *Command {
	return &Command{
		Flags: flag.NewFlagSet("editor", flag.ContinueOnError),
		Usage: "editor <name>",
		Short: "Open a deck file in your editor",
		Long: "Open the deck's CSV file in an editor and report its card count afterwards.\n" +
			"Editor priority: config editor, $EDITOR, vi, nano.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execEditor(ctx, o, d, args)
		},
	}
}

func execEditor(ctx context.Context, o *IO, d *deps, args []string) error {
	name, err := deckArg(args, 1)
	if err != nil {
		return err
	}

	exists, err := d.store.Exists(name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", store.ErrDeckNotFound, name)
	}

	path, err := d.store.Path(name)
	if err != nil {
		return err
	}

	editor, err := resolveEditor(d.cfg.Editor, d.env)
	if err != nil {
		return err
	}

	if err := runEditor(ctx, editor, path, d.in, o.out, o.errOut); err != nil {
		return err
	}

	dk, err := d.store.Load(name)
	if err != nil {
		return err
	}

	o.Printf("%s: %s\n", name, plural(dk.Len(), "card"))

	return nil
}

// resolveEditor checks for an available editor using the env map.
// Priority: configured editor -> $EDITOR -> vi -> nano -> error.
func resolveEditor(configured string, env map[string]string) (string, error) {
	for _, editor := range []string{configured, env["EDITOR"], "vi", "nano"} {
		if editor == "" {
			continue
		}

		if _, err := exec.LookPath(editor); err == nil {
			return editor, nil
		}
	}

	return "", errNoEditorFound
}

func runEditor(ctx context.Context, editor, path string, in io.Reader, out, errOut io.Writer) error {
	if in == nil {
		in = os.Stdin
	}

	// zed returns immediately unless told to wait
	args := []string{path}
	if filepath.Base(editor) == "zed" {
		args = []string{"--wait", path}
	}

	cmd := exec.CommandContext(ctx, editor, args...)
	cmd.Stdin = in
	cmd.Stdout = out
	cmd.Stderr = errOut

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", errEditorFailed, editor, exitErr.ExitCode())
		}

		return fmt.Errorf("%w: %w", errEditorFailed, runErr)
	}

	return nil
}
