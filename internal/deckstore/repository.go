// Package deckstore owns the deck collection: loading it from the blob
// store, normalizing legacy card shapes, and applying mutations. Every
// mutation is a full read-modify-write of the collection; there is no
// partial persistence.
package deckstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lmeyer/kartenbox/internal/domain"
)

// collectionKey is the single storage key the whole collection lives under.
const collectionKey = "decks"

// Gateway is the persistence boundary the repository depends on. The
// sqlite-backed storage.DB satisfies it; tests inject fakes.
type Gateway interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Config carries repository policy knobs.
type Config struct {
	// SeedExampleCards populates newly created decks with a few example
	// cards, as the mobile app does on first use.
	SeedExampleCards bool
}

// Repository is the deck/card store. All operations serialize on an internal
// mutex so that two interleaved mutations can never each read the same
// pre-mutation collection and silently drop one another's write.
type Repository struct {
	gw       Gateway
	log      *slog.Logger
	validate *validator.Validate
	cfg      Config

	mu         sync.Mutex
	lastDeckID int64
}

// New builds a repository over the given gateway.
func New(gw Gateway, log *slog.Logger, cfg Config) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{
		gw:       gw,
		log:      log,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Load returns the full collection. An absent key yields an empty
// collection; a stored blob that fails to parse yields ErrCorruptCollection
// and leaves the stored data untouched. Legacy card shapes are normalized to
// the current tagged shape during decoding, without writing back.
func (r *Repository) Load(ctx context.Context) (domain.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *Repository) load(ctx context.Context) (domain.Collection, error) {
	raw, ok, err := r.gw.Get(ctx, collectionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if !ok {
		return domain.Collection{}, nil
	}

	var col domain.Collection
	if err := json.Unmarshal([]byte(raw), &col); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptCollection, err)
	}
	return col, nil
}

func (r *Repository) save(ctx context.Context, col domain.Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := r.gw.Set(ctx, collectionKey, string(data)); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// CreateDeck appends a new deck to the collection and persists it. The deck
// id is derived from the creation time and bumped until unique.
func (r *Repository) CreateDeck(ctx context.Context, in CreateDeckInput) (*domain.Deck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	col, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	deck, err := domain.NewDeck(r.nextDeckID(col), in.Name, in.Description, in.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if r.cfg.SeedExampleCards {
		deck.Cards, err = exampleCards(deck.ID)
		if err != nil {
			return nil, err
		}
	}

	col = append(col, deck)
	if err := r.save(ctx, col); err != nil {
		return nil, err
	}

	r.log.Info("deck created", "deck_id", deck.ID, "name", deck.Name, "cards", len(deck.Cards))
	return &deck, nil
}

// UpdateDeck replaces the name, description and color of an existing deck.
// Fields left nil keep their prior value; id and cards are immutable here.
func (r *Repository) UpdateDeck(ctx context.Context, deckID string, in UpdateDeckInput) (*domain.Deck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	col, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := col.FindDeck(deckID)
	if i == -1 {
		return nil, fmt.Errorf("deck %s: %w", deckID, domain.ErrDeckNotFound)
	}

	deck := &col[i]
	if in.Name != nil {
		name, err := trimmedName(*in.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		deck.Name = name
	}
	if in.Description != nil {
		deck.Description = *in.Description
	}
	if in.Color != nil {
		deck.Color = *in.Color
	}

	if err := r.save(ctx, col); err != nil {
		return nil, err
	}

	r.log.Info("deck updated", "deck_id", deck.ID)
	out := *deck
	return &out, nil
}

// DeleteDeck removes a deck. Deleting a deck that is already gone reports
// ErrDeckNotFound rather than succeeding silently.
func (r *Repository) DeleteDeck(ctx context.Context, deckID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, err := r.load(ctx)
	if err != nil {
		return err
	}

	i := col.FindDeck(deckID)
	if i == -1 {
		return fmt.Errorf("deck %s: %w", deckID, domain.ErrDeckNotFound)
	}

	col = append(col[:i], col[i+1:]...)
	if err := r.save(ctx, col); err != nil {
		return err
	}

	r.log.Info("deck deleted", "deck_id", deckID)
	return nil
}

// CreateCard appends a new card to the given deck and persists the
// collection. The card id is scoped under the deck.
func (r *Repository) CreateCard(ctx context.Context, deckID string, in CardInput) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	col, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := col.FindDeck(deckID)
	if i == -1 {
		return nil, fmt.Errorf("deck %s: %w", deckID, domain.ErrDeckNotFound)
	}
	deck := &col[i]

	card, err := buildCard(nextCardID(deck), deck.ID, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	deck.Cards = append(deck.Cards, card)
	if err := r.save(ctx, col); err != nil {
		return nil, err
	}

	r.log.Info("card created", "deck_id", deck.ID, "card_id", card.ID, "type", card.Type)
	return &card, nil
}

// UpdateCard replaces a card's variant fields in place. Its position in the
// deck, its id and its creation time are preserved.
func (r *Repository) UpdateCard(ctx context.Context, deckID, cardID string, in CardInput) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	col, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	i := col.FindDeck(deckID)
	if i == -1 {
		return nil, fmt.Errorf("deck %s: %w", deckID, domain.ErrDeckNotFound)
	}
	deck := &col[i]

	j := deck.FindCard(cardID)
	if j == -1 {
		return nil, fmt.Errorf("card %s: %w", cardID, domain.ErrCardNotFound)
	}
	prev := deck.Cards[j]

	card, err := buildCard(cardID, deck.ID, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	card.CreatedAt = prev.CreatedAt
	card.LastReviewed = prev.LastReviewed

	deck.Cards[j] = card
	if err := r.save(ctx, col); err != nil {
		return nil, err
	}

	r.log.Info("card updated", "deck_id", deck.ID, "card_id", card.ID, "type", card.Type)
	return &card, nil
}

// DeleteCard removes a card from a deck and persists the collection.
func (r *Repository) DeleteCard(ctx context.Context, deckID, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, err := r.load(ctx)
	if err != nil {
		return err
	}

	i := col.FindDeck(deckID)
	if i == -1 {
		return fmt.Errorf("deck %s: %w", deckID, domain.ErrDeckNotFound)
	}
	deck := &col[i]

	j := deck.FindCard(cardID)
	if j == -1 {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrCardNotFound)
	}

	deck.Cards = append(deck.Cards[:j], deck.Cards[j+1:]...)
	if err := r.save(ctx, col); err != nil {
		return err
	}

	r.log.Info("card deleted", "deck_id", deckID, "card_id", cardID)
	return nil
}

// ImportDeck creates a deck together with a batch of cards in a single
// read-modify-write cycle. Used by the markdown importer; imported decks are
// never seeded with example cards.
func (r *Repository) ImportDeck(ctx context.Context, name, color string, cards []CardInput) (*domain.Deck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	deck, err := domain.NewDeck(r.nextDeckID(col), name, "", color)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	for n, in := range cards {
		if err := r.validate.Struct(in); err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", domain.ErrValidation, n+1, err)
		}
		card, err := buildCard(fmt.Sprintf("%s-card-%d", deck.ID, n+1), deck.ID, in)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", domain.ErrValidation, n+1, err)
		}
		deck.Cards = append(deck.Cards, card)
	}

	col = append(col, deck)
	if err := r.save(ctx, col); err != nil {
		return nil, err
	}

	r.log.Info("deck imported", "deck_id", deck.ID, "name", deck.Name, "cards", len(deck.Cards))
	return &deck, nil
}

// nextDeckID derives a deck id from the current time in milliseconds, bumped
// past the last issued id and past any id already in the collection so rapid
// successive creates stay unique.
func (r *Repository) nextDeckID(col domain.Collection) string {
	id := time.Now().UnixMilli()
	if id <= r.lastDeckID {
		id = r.lastDeckID + 1
	}
	for col.FindDeck(strconv.FormatInt(id, 10)) != -1 {
		id++
	}
	r.lastDeckID = id
	return strconv.FormatInt(id, 10)
}

// nextCardID derives a card id scoped under its deck, in the same
// <deckId>-card-<millis> form the mobile app used, bumped until unique
// within the deck.
func nextCardID(deck *domain.Deck) string {
	n := time.Now().UnixMilli()
	for {
		id := fmt.Sprintf("%s-card-%d", deck.ID, n)
		if deck.FindCard(id) == -1 {
			return id
		}
		n++
	}
}

// exampleCards returns the starter cards seeded into newly created decks,
// ids numbered under the deck the way the mobile app numbered its seeds.
func exampleCards(deckID string) ([]domain.Card, error) {
	cards := []domain.Card{
		domain.NewStandardCard(deckID+"-card-1", deckID,
			"What is a flashcard?",
			"A card with a prompt on one side and the answer on the other."),
		domain.NewStandardCard(deckID+"-card-2", deckID,
			"How do you flip a card?",
			"Tap it."),
	}
	quiz, err := domain.NewQuizCard(deckID+"-card-3", deckID,
		"Which side of a flashcard do you see first?",
		[]string{"The answer", "The question", "Both", "Neither"}, 1)
	if err != nil {
		return nil, err
	}
	return append(cards, quiz), nil
}
