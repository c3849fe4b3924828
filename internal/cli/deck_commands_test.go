package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/flashcard/internal/cli"
)

func TestLsCommand(t *testing.T) {
	t.Parallel()

	t.Run("no deck dir prints nothing", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)

		if got := c.MustRun("ls"); got != "" {
			t.Errorf("stdout=%q, want empty", got)
		}
	})

	t.Run("lists decks sorted with card counts", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteDeck("german", "Q1,A1\nQ2,A2\n")
		c.WriteDeck("french", "Q1,A1\n")
		c.MustRun("create", "empty")

		got := c.MustRun("ls")
		want := "empty (0 cards)\nfrench (1 card)\ngerman (2 cards)"

		if got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("ignores non-csv files", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteDeck("german", "Q1,A1\n")
		c.WriteFile(".flashcards/notes.txt", "hello")

		if got, want := c.MustRun("ls"), "german (1 card)"; got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}
	})

	t.Run("rejects arguments", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		cli.AssertContains(t, c.MustFail("ls", "german"), "too many arguments")
	})
}

func TestCreateCommand(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{name: "creates deck", args: []string{"create", "german"}, wantStdout: "Created german"},
		{name: "strips csv suffix", args: []string{"create", "german.csv"}, wantStdout: "Created german"},
		{name: "trims whitespace", args: []string{"create", "  german  "}, wantStdout: "Created german"},
		{name: "requires name", args: []string{"create"}, wantStderr: "deck name is required"},
		{name: "rejects path separators", args: []string{"create", "a/b"}, wantStderr: "invalid deck name"},
		{name: "rejects hidden names", args: []string{"create", ".secret"}, wantStderr: "invalid deck name"},
		{name: "rejects extra args", args: []string{"create", "a", "b"}, wantStderr: "too many arguments"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)

			if tt.wantStderr != "" {
				cli.AssertContains(t, c.MustFail(tt.args...), tt.wantStderr)

				return
			}

			if got := c.MustRun(tt.args...); got != tt.wantStdout {
				t.Errorf("stdout=%q, want=%q", got, tt.wantStdout)
			}

			if got := c.ReadDeck("german"); got != "" {
				t.Errorf("new deck content=%q, want empty", got)
			}
		})
	}

	t.Run("fails when deck exists", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteDeck("german", "Q1,A1\n")

		cli.AssertContains(t, c.MustFail("create", "german"), "deck already exists: german")

		if got, want := c.ReadDeck("german"), "Q1,A1\n"; got != want {
			t.Errorf("existing deck modified: %q", got)
		}
	})
}

func TestImportCommand(t *testing.T) {
	t.Parallel()

	const export = "1:Wer haftet,Der Inhaber\n\"Was ist A, B?\",\"Antwort\"\n"

	t.Run("imports file under given name", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteFile("export.csv", export)

		if got, want := c.MustRun("import", "export.csv", "--name", "german"), "Imported german (2 cards)"; got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}

		// Bytes are stored as read, quoting included.
		if got := c.ReadDeck("german"); got != export {
			t.Errorf("deck content=%q, want=%q", got, export)
		}

		stdout := c.MustRun("show", "german")
		cli.AssertContains(t, stdout, "1. front: 1:Wer haftet")
		cli.AssertContains(t, stdout, "2. front: Was ist A, B?")
	})

	t.Run("default name is Imported_ with timestamp", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteFile("export.csv", export)

		stdout := c.MustRun("import", "export.csv")
		if !strings.HasPrefix(stdout, "Imported Imported_") {
			t.Errorf("stdout=%q, want prefix %q", stdout, "Imported Imported_")
		}

		cli.AssertContains(t, c.MustRun("ls"), "(2 cards)")
	})

	t.Run("reads stdin for dash", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)

		stdout, stderr, exitCode := c.RunWithInput("a,b\nc\n", "import", "-", "--name", "piped")
		if exitCode != 0 {
			t.Fatalf("exitCode=%d, stderr=%q", exitCode, stderr)
		}

		cli.AssertContains(t, stdout, "Imported piped (1 card)")
	})

	t.Run("absolute path outside working dir", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		other := cli.NewCLI(t)
		path := other.WriteFile("export.csv", export)

		cli.AssertContains(t, c.MustRun("import", path, "-n", "german"), "Imported german")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		cli.AssertContains(t, c.MustFail("import", "nope.csv"), "opening import file")
	})

	t.Run("requires file", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		cli.AssertContains(t, c.MustFail("import"), "file is required")
	})

	t.Run("refuses to overwrite existing deck", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteDeck("german", "Q1,A1\n")
		c.WriteFile("export.csv", export)

		cli.AssertContains(t, c.MustFail("import", "export.csv", "--name", "german"), "deck already exists")

		if got := c.ReadDeck("german"); got != "Q1,A1\n" {
			t.Errorf("existing deck modified: %q", got)
		}
	})
}

func TestRmCommand(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteDeck("german", "Q1,A1\n")

	if got, want := c.MustRun("rm", "german.csv"), "Deleted german"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	if got := c.MustRun("ls"); got != "" {
		t.Errorf("ls after rm=%q, want empty", got)
	}

	cli.AssertContains(t, c.MustFail("rm", "german"), "deck not found: german")
}

func TestMvCommand(t *testing.T) {
	t.Parallel()

	t.Run("renames deck", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteDeck("german", "Q1,A1\n")

		if got, want := c.MustRun("mv", "german", "deutsch.csv"), "Renamed german -> deutsch"; got != want {
			t.Errorf("stdout=%q, want=%q", got, want)
		}

		if got := c.ReadDeck("deutsch"); got != "Q1,A1\n" {
			t.Errorf("renamed content=%q", got)
		}

		if got, want := c.MustRun("ls"), "deutsch (1 card)"; got != want {
			t.Errorf("ls=%q, want=%q", got, want)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		c.WriteDeck("german", "Q1,A1\n")
		c.WriteDeck("french", "Q2,A2\n")

		cli.AssertContains(t, c.MustFail("mv", "german", "french"), "deck already exists: french")

		if got := c.ReadDeck("french"); got != "Q2,A2\n" {
			t.Errorf("target overwritten: %q", got)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		cli.AssertContains(t, c.MustFail("mv", "german", "french"), "deck not found: german")
	})

	t.Run("requires new name", func(t *testing.T) {
		t.Parallel()

		c := cli.NewCLI(t)
		cli.AssertContains(t, c.MustFail("mv", "german"), "new deck name is required")
	})
}
