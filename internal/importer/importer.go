// Package importer turns a directory (or git repository) of markdown card
// files into decks. Each .md file becomes one deck named after the file;
// cards already present anywhere in the collection are skipped by content
// fingerprint.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lmeyer/kartenbox/internal/deckstore"
	"github.com/lmeyer/kartenbox/internal/domain"
	"github.com/lmeyer/kartenbox/internal/gitsource"
	"github.com/lmeyer/kartenbox/internal/parser"
)

// Repository is the slice of the deck store the importer needs.
type Repository interface {
	Load(ctx context.Context) (domain.Collection, error)
	ImportDeck(ctx context.Context, name, color string, cards []deckstore.CardInput) (*domain.Deck, error)
}

// Result summarizes one import run.
type Result struct {
	DecksCreated int
	CardsCreated int
	CardsSkipped int
	Errors       []error
}

// Run imports every markdown deck under source into the repository. A git
// URL source is cloned (or pulled) into cacheDir first.
func Run(ctx context.Context, repo Repository, source, cacheDir string) (*Result, error) {
	if gitsource.IsGitURL(source) {
		localPath, err := gitsource.Materialize(ctx, cacheDir, source)
		if err != nil {
			return nil, err
		}
		source = localPath
	}

	col, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, deck := range col {
		for _, card := range deck.Cards {
			if !card.IsPassthrough() {
				seen[cardFingerprint(card)] = true
			}
		}
	}

	res := &Result{}
	palette := domain.PaletteColors()
	fileIndex := 0

	walkErr := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		inputs, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			res.Errors = append(res.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}

		var fresh []deckstore.CardInput
		for _, in := range inputs {
			fp := Fingerprint(in)
			if seen[fp] {
				res.CardsSkipped++
				continue
			}
			seen[fp] = true
			fresh = append(fresh, in)
		}
		if len(fresh) == 0 {
			return nil
		}

		name := deckNameFor(d.Name())
		color := palette[fileIndex%len(palette)]
		fileIndex++

		deck, importErr := repo.ImportDeck(ctx, name, color, fresh)
		if importErr != nil {
			res.Errors = append(res.Errors, fmt.Errorf("importing %s: %w", path, importErr))
			return nil
		}

		res.DecksCreated++
		res.CardsCreated += len(deck.Cards)
		slog.Info("deck imported from file", "file", path, "deck_id", deck.ID, "cards", len(deck.Cards))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", source, walkErr)
	}

	slog.Info("import complete",
		"decks_created", res.DecksCreated,
		"cards_created", res.CardsCreated,
		"cards_skipped", res.CardsSkipped,
		"errors", len(res.Errors),
	)
	return res, nil
}

// deckNameFor derives a deck name from a markdown file name: extension
// stripped, separators spaced out.
func deckNameFor(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.TrimSpace(name)
}
