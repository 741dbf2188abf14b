package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Deck is a named, colored group of cards. Card order is insertion order and
// is preserved through storage.
type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Cards       []Card    `json:"cards"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Collection is the full persisted state: an ordered sequence of decks,
// serialized as one JSON blob.
type Collection []Deck

// NewDeck builds a deck with the given id and trimmed user-supplied fields.
// An empty color falls back to the palette default.
func NewDeck(id, name, description, color string) (Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Deck{}, ErrDeckNameEmpty
	}
	if color == "" {
		color = DefaultColor
	}
	return Deck{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(description),
		Color:       color,
		Cards:       []Card{},
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// UnmarshalJSON decodes a stored deck and repairs each contained card's
// deckId to match the owning deck. Stored data predating the deckId field,
// or copied between decks, comes out consistent after every load.
func (d *Deck) UnmarshalJSON(data []byte) error {
	type deckAlias Deck
	var a deckAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Deck(a)
	for i := range d.Cards {
		if !d.Cards[i].IsPassthrough() {
			d.Cards[i].DeckID = d.ID
		}
	}
	return nil
}

// FindCard returns the index of the card with the given id, or -1.
func (d *Deck) FindCard(cardID string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// FindDeck returns the index of the deck with the given id, or -1.
func (c Collection) FindDeck(deckID string) int {
	for i := range c {
		if c[i].ID == deckID {
			return i
		}
	}
	return -1
}
