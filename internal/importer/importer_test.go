package importer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeyer/kartenbox/internal/deckstore"
	"github.com/lmeyer/kartenbox/internal/domain"
)

type memGateway struct {
	mu   sync.Mutex
	data map[string]string
}

func (g *memGateway) Get(_ context.Context, key string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.data[key]
	return v, ok, nil
}

func (g *memGateway) Set(_ context.Context, key, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data[key] = value
	return nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunImportsDecksFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spanish-basics.md", `
Q: Hola
A: Hello
---
Q: Adios
A: Goodbye
`)
	writeFile(t, dir, "go_quiz.md", `
Q: Which of these is a Go keyword?
O: * func
O: function
O: def
O: fn
`)
	writeFile(t, dir, "notes.txt", "Q: not markdown\nA: ignored")

	repo := deckstore.New(&memGateway{data: map[string]string{}}, nil, deckstore.Config{})
	ctx := context.Background()

	res, err := Run(ctx, repo, dir, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 2, res.DecksCreated)
	assert.Equal(t, 3, res.CardsCreated)
	assert.Equal(t, 0, res.CardsSkipped)
	assert.Empty(t, res.Errors)

	col, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, col, 2)

	names := []string{col[0].Name, col[1].Name}
	assert.Contains(t, names, "spanish basics")
	assert.Contains(t, names, "go quiz")

	quizDeck := col[0]
	if quizDeck.Name != "go quiz" {
		quizDeck = col[1]
	}
	require.Len(t, quizDeck.Cards, 1)
	assert.Equal(t, domain.CardTypeQuiz, quizDeck.Cards[0].Type)
	assert.Equal(t, 0, quizDeck.Cards[0].CorrectAnswerIndex)
}

func TestRunSkipsCardsAlreadyInCollection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spanish.md", `
Q: Hola
A: Hello
---
Q: Adios
A: Goodbye
`)

	repo := deckstore.New(&memGateway{data: map[string]string{}}, nil, deckstore.Config{})
	ctx := context.Background()

	deck, err := repo.CreateDeck(ctx, deckstore.CreateDeckInput{Name: "existing"})
	require.NoError(t, err)
	_, err = repo.CreateCard(ctx, deck.ID, deckstore.CardInput{
		Type:     domain.CardTypeStandard,
		Question: "hola",
		Answer:   "HELLO",
	})
	require.NoError(t, err)

	res, err := Run(ctx, repo, dir, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, res.DecksCreated)
	assert.Equal(t, 1, res.CardsCreated, "only the unseen card is imported")
	assert.Equal(t, 1, res.CardsSkipped)
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "spanish.md", "Q: Hola\nA: Hello")

	repo := deckstore.New(&memGateway{data: map[string]string{}}, nil, deckstore.Config{})
	ctx := context.Background()

	_, err := Run(ctx, repo, dir, t.TempDir())
	require.NoError(t, err)

	res, err := Run(ctx, repo, dir, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, res.DecksCreated, "a second import of the same files creates nothing")
	assert.Equal(t, 1, res.CardsSkipped)

	col, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, col, 1)
}

func TestDeckNameFor(t *testing.T) {
	testCases := map[string]string{
		"spanish-basics.md": "spanish basics",
		"go_quiz.md":        "go quiz",
		"Plain.md":          "Plain",
	}
	for in, want := range testCases {
		if got := deckNameFor(in); got != want {
			t.Errorf("deckNameFor(%q) = %q, want %q", in, got, want)
		}
	}
}
