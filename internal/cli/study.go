package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/calvinalkan/flashcard/internal/deck"
)

const studyHelp = `Commands:
  f, flip, <enter>   Turn the card over
  n, next            Next card
  p, prev            Previous card
  g, goto <n>        Jump to card n
  h, help            Show this help
  q, quit            Stop studying`

// StudyCmd returns the study command.
func StudyCmd(d *deps) *Command {
	fs := flag.NewFlagSet("study", flag.ContinueOnError)
	fs.Bool("shuffle", false, "Study the cards in random order")

	return &Command{
		Flags: fs,
		Usage: "study <name> [flags]",
		Short: "Study a deck card by card",
		Long: "Step through a deck interactively. Each card starts on its front;\n" +
			"moving to another card turns it back to the front.\n\n" + studyHelp,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			shuffle, _ := fs.GetBool("shuffle")

			return execStudy(ctx, o, d, args, shuffle)
		},
	}
}

func execStudy(ctx context.Context, o *IO, d *deps, args []string, shuffle bool) error {
	name, err := deckArg(args, 1)
	if err != nil {
		return err
	}

	dk, err := d.store.Load(name)
	if err != nil {
		return err
	}

	cards := dk.Cards()
	if len(cards) == 0 {
		o.Println(noCardsMessage)

		return nil
	}

	if shuffle {
		rand.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}

	input := newPrompter(d.in)
	defer func() { _ = input.Close() }()

	s := &session{cards: cards}

	o.Printf("Studying %s (%s). Type h for help.\n", name, plural(len(cards), "card"))
	s.print(o)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := input.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if s.handle(o, line) {
			return nil
		}
	}
}

// session is the viewer state: the card shown and which side faces up.
type session struct {
	cards []deck.Card
	pos   int
	back  bool
}

// handle runs one viewer command and reports whether to quit.
func (s *session) handle(o *IO, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

	switch cmd {
	case "", "f", "flip":
		s.flip()
	case "n", "next":
		if !s.next() {
			o.Println("Already at the last card.")

			return false
		}
	case "p", "prev":
		if !s.prev() {
			o.Println("Already at the first card.")

			return false
		}
	case "g", "goto":
		n, err := parseCardNumber(strings.TrimSpace(arg))
		if err == nil && !s.jump(n) {
			err = fmt.Errorf("%w: %d (deck has %d cards)", deck.ErrIndexOutOfRange, n, len(s.cards))
		}

		if err != nil {
			o.Println(err)

			return false
		}
	case "h", "help", "?":
		o.Println(studyHelp)

		return false
	case "q", "quit", "exit":
		return true
	default:
		o.Printf("Unknown command %q. Type h for help.\n", cmd)

		return false
	}

	s.print(o)

	return false
}

func (s *session) flip() {
	s.back = !s.back
}

func (s *session) next() bool {
	if s.pos >= len(s.cards)-1 {
		return false
	}

	s.pos++
	s.back = false

	return true
}

func (s *session) prev() bool {
	if s.pos == 0 {
		return false
	}

	s.pos--
	s.back = false

	return true
}

// jump moves to the 1-based card n.
func (s *session) jump(n int) bool {
	if n < 1 || n > len(s.cards) {
		return false
	}

	s.pos = n - 1
	s.back = false

	return true
}

func (s *session) print(o *IO) {
	card := s.cards[s.pos]

	side, text := "front", card.Front
	if s.back {
		side, text = "back", card.Back
	}

	o.Printf("[%d/%d] %s\n%s\n", s.pos+1, len(s.cards), side, text)
}

type prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// newPrompter uses liner for an interactive terminal and a plain line
// scanner for anything else (pipes, files, tests).
func newPrompter(in io.Reader) prompter {
	if in == nil {
		in = os.Stdin
	}

	if f, ok := in.(*os.File); ok && isTerminal(f) && liner.TerminalSupported() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)

		return &linerPrompter{state: state}
	}

	return &scanPrompter{scanner: bufio.NewScanner(in)}
}

// isTerminal reports whether f is a tty. A character device such as
// /dev/null is not enough; only a terminal answers the termios ioctl.
func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), ioctlReadTermios)

	return err == nil
}

type linerPrompter struct {
	state *liner.State
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		p.state.AppendHistory(line)
	}

	return line, err
}

func (p *linerPrompter) Close() error {
	return p.state.Close()
}

type scanPrompter struct {
	scanner *bufio.Scanner
}

func (p *scanPrompter) Prompt(string) (string, error) {
	if p.scanner.Scan() {
		return p.scanner.Text(), nil
	}

	if err := p.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*scanPrompter) Close() error {
	return nil
}
