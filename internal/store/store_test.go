package store_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/flashcard/internal/deck"
	"github.com/calvinalkan/flashcard/internal/fs"
	"github.com/calvinalkan/flashcard/internal/logging"
	"github.com/calvinalkan/flashcard/internal/store"
)

func newStore(t *testing.T, opts ...store.Option) (*store.Store, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "decks")

	return store.New(fs.NewReal(), dir, opts...), dir
}

// seedDeck creates name holding cards.
func seedDeck(t *testing.T, s *store.Store, name string, cards ...deck.Card) {
	t.Helper()

	_, err := s.Create(name)
	require.NoError(t, err)

	require.NoError(t, s.Update(name, func(d *deck.Deck) error {
		for _, card := range cards {
			d.Append(card)
		}

		return nil
	}))
}

func Test_NormalizeName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "german", want: "german"},
		{input: "german.csv", want: "german"},
		{input: "  spaced name  ", want: "spaced name"},
		{input: "", wantErr: store.ErrDeckNameRequired},
		{input: "   ", wantErr: store.ErrDeckNameRequired},
		{input: ".csv", wantErr: store.ErrDeckNameRequired},
		{input: "a/b", wantErr: store.ErrInvalidDeckName},
		{input: `a\b`, wantErr: store.ErrInvalidDeckName},
		{input: "..", wantErr: store.ErrInvalidDeckName},
		{input: ".locks", wantErr: store.ErrInvalidDeckName},
	}

	for _, testCase := range testCases {
		got, err := store.NormalizeName(testCase.input)

		if testCase.wantErr != nil {
			require.ErrorIs(t, err, testCase.wantErr, "input %q", testCase.input)

			continue
		}

		require.NoError(t, err, "input %q", testCase.input)
		assert.Equal(t, testCase.want, got)
	}
}

func Test_Create_Then_List_Shows_Empty_Deck(t *testing.T) {
	t.Parallel()

	s, dir := newStore(t)

	name, err := s.Create("german.csv")
	require.NoError(t, err)
	assert.Equal(t, "german", name)

	content, err := os.ReadFile(filepath.Join(dir, "german.csv"))
	require.NoError(t, err)
	assert.Empty(t, content)

	entries, err := s.List(context.Background())
	require.NoError(t, err)

	want := []store.Entry{{Name: "german", Path: filepath.Join(dir, "german.csv")}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func Test_Create_Returns_ErrDeckExists_When_Deck_Exists(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	_, err := s.Create("german")
	require.NoError(t, err)

	_, err = s.Create("german")
	require.ErrorIs(t, err, store.ErrDeckExists)
}

func Test_List_Returns_Nothing_When_Dir_Missing(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	entries, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func Test_List_Counts_Cards_And_Skips_Other_Files(t *testing.T) {
	t.Parallel()

	s, dir := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir.csv"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("q,a\n\nonly\nq2,a2"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x,y\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x,y\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.csv"), []byte("x,y\n"), 0o600))

	entries, err := s.List(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, 1, entries[0].Cards)
	assert.Equal(t, "b", entries[1].Name)
	assert.Equal(t, 2, entries[1].Cards)
}

func Test_List_Sorts_By_Name(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	// Sorted by file name "a.csv" would come last, after "a-b.csv" and "a.b.csv".
	for _, name := range []string{"a.b", "a-b", "a"} {
		_, err := s.Create(name)
		require.NoError(t, err)
	}

	entries, err := s.List(context.Background())
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name)
	}

	assert.Equal(t, []string{"a", "a-b", "a.b"}, names)
}

func Test_List_Skips_Files_Whose_Name_Does_Not_Resolve_Back(t *testing.T) {
	t.Parallel()

	s, dir := newStore(t)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, " x .csv"), []byte("q,a\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv.csv"), []byte("q,a\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.csv"), []byte("q,a\nq2,a2\n"), 0o600))

	entries, err := s.List(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].Name)
	assert.Equal(t, 2, entries[0].Cards)

	// Every listed name loads the file it was listed for.
	for _, entry := range entries {
		d, loadErr := s.Load(entry.Name)
		require.NoError(t, loadErr)
		assert.Equal(t, entry.Cards, d.Len())
	}
}

func Test_List_Returns_Error_When_Context_Cancelled(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	_, err := s.Create("german")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func Test_Update_Then_Load_Round_Trips_Cards(t *testing.T) {
	t.Parallel()

	s, dir := newStore(t)

	cards := []deck.Card{
		{Front: "Was ist A, B?", Back: "Antwort"},
		{Front: `Sag "Hallo"`, Back: "Zeile 1\nZeile 2"},
	}

	seedDeck(t, s, "german", cards...)

	raw, err := os.ReadFile(filepath.Join(dir, "german.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(deck.Marshal(cards)), string(raw))

	loaded, err := s.Load("german")
	require.NoError(t, err)
	assert.Equal(t, cards, loaded.Cards())
}

func Test_Load_Returns_ErrDeckNotFound_When_Missing(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	_, err := s.Load("missing")
	require.ErrorIs(t, err, store.ErrDeckNotFound)
}

func Test_Load_Trims_Values_And_Drops_Short_Rows(t *testing.T) {
	t.Parallel()

	s, dir := newStore(t)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw.csv"),
		[]byte("  q1 , a1 \r\n\r\nonlyquestion\r\n\"q, 2\",\"a2\""), 0o600))

	d, err := s.Load("raw")
	require.NoError(t, err)

	want := []deck.Card{{Front: "q1", Back: "a1"}, {Front: "q, 2", Back: "a2"}}
	assert.Equal(t, want, d.Cards())
}

func Test_Update_Applies_Mutation_Under_Lock(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	seedDeck(t, s, "german", deck.Card{Front: "q", Back: "a"})

	err := s.Update("german", func(d *deck.Deck) error {
		d.Append(deck.Card{Front: " new ", Back: "card"})

		return d.SetBack(0, "answer")
	})
	require.NoError(t, err)

	d, err := s.Load("german")
	require.NoError(t, err)

	// Leading/trailing whitespace is trimmed again on the next read.
	want := []deck.Card{{Front: "q", Back: "answer"}, {Front: "new", Back: "card"}}
	assert.Equal(t, want, d.Cards())
}

func Test_Update_Does_Not_Write_When_Callback_Fails(t *testing.T) {
	t.Parallel()

	s, dir := newStore(t)
	seedDeck(t, s, "german", deck.Card{Front: "q", Back: "a"})

	before, err := os.ReadFile(filepath.Join(dir, "german.csv"))
	require.NoError(t, err)

	err = s.Update("german", func(d *deck.Deck) error {
		d.Append(deck.Card{Front: "x", Back: "y"})

		_, removeErr := d.Remove(7)

		return removeErr
	})
	require.ErrorIs(t, err, deck.ErrIndexOutOfRange)

	after, err := os.ReadFile(filepath.Join(dir, "german.csv"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func Test_Update_Returns_ErrDeckNotFound_When_Missing(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	err := s.Update("missing", func(*deck.Deck) error { return nil })
	require.ErrorIs(t, err, store.ErrDeckNotFound)
}

func Test_Delete_Removes_Deck(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	_, err := s.Create("german")
	require.NoError(t, err)

	require.NoError(t, s.Delete("german.csv"))

	exists, err := s.Exists("german")
	require.NoError(t, err)
	assert.False(t, exists)

	require.ErrorIs(t, s.Delete("german"), store.ErrDeckNotFound)
}

func Test_Rename_Moves_Deck(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)
	seedDeck(t, s, "old", deck.Card{Front: "q", Back: "a"})

	name, err := s.Rename("old", "new.csv")
	require.NoError(t, err)
	assert.Equal(t, "new", name)

	_, err = s.Load("old")
	require.ErrorIs(t, err, store.ErrDeckNotFound)

	d, err := s.Load("new")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

func Test_Rename_Fails_When_Target_Exists_Or_Source_Missing(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t)

	_, err := s.Create("a")
	require.NoError(t, err)

	_, err = s.Create("b")
	require.NoError(t, err)

	_, err = s.Rename("a", "b")
	require.ErrorIs(t, err, store.ErrDeckExists)

	_, err = s.Rename("missing", "c")
	require.ErrorIs(t, err, store.ErrDeckNotFound)

	_, err = s.Rename("missing", "missing.csv")
	require.ErrorIs(t, err, store.ErrDeckNotFound)

	name, err := s.Rename("a", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "a", name)
}

func Test_Import_Copies_Bytes_Verbatim(t *testing.T) {
	t.Parallel()

	s, dir := newStore(t)
	src := "1:Wer haftet,Der Inhaber\r\n\"Was ist A, B?\",\"Antwort\"\r\n"

	name, cards, err := s.Import(context.Background(), strings.NewReader(src), "bwl")
	require.NoError(t, err)
	assert.Equal(t, "bwl", name)
	assert.Equal(t, 2, cards)

	raw, err := os.ReadFile(filepath.Join(dir, "bwl.csv"))
	require.NoError(t, err)
	assert.Equal(t, src, string(raw))

	_, _, err = s.Import(context.Background(), strings.NewReader(src), "bwl")
	require.ErrorIs(t, err, store.ErrDeckExists)
}

func Test_Import_Generates_Unique_Names(t *testing.T) {
	t.Parallel()

	fixed := time.UnixMilli(1700000000123)
	s, _ := newStore(t, store.WithClock(func() time.Time { return fixed }))

	first, _, err := s.Import(context.Background(), strings.NewReader("a,b\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "Imported_1700000000123", first)

	second, _, err := s.Import(context.Background(), strings.NewReader("c,d\n"), "  ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second, "Imported_1700000000123_"), second)
	assert.NotEqual(t, first, second)
}

type failingWriteFS struct {
	*fs.Real
}

var errDiskFull = errors.New("disk full")

func (f failingWriteFS) WriteFileAtomic(string, []byte, os.FileMode) error {
	return errDiskFull
}

func Test_Create_And_Import_Surface_Write_Errors(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "decks")
	s := store.New(failingWriteFS{Real: fs.NewReal()}, dir)

	_, err := s.Create("german")
	require.ErrorIs(t, err, errDiskFull)

	_, _, err = s.Import(context.Background(), strings.NewReader("q,a\n"), "other")
	require.ErrorIs(t, err, errDiskFull)
}

func Test_Store_Logs_Debug_Events(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := logging.New(&buf, "debug")
	require.NoError(t, err)

	s, _ := newStore(t, store.WithLogger(logger))

	_, err = s.Create("german")
	require.NoError(t, err)

	_, err = s.Load("german")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `msg="deck created" deck=german`)
	assert.Contains(t, buf.String(), `msg="deck loaded" deck=german`)
}
