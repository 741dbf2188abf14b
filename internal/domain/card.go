package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CardType tags the two card variants the collection stores today.
type CardType string

const (
	// CardTypeStandard is a plain question/answer card.
	CardTypeStandard CardType = "card"
	// CardTypeQuiz is a multiple-choice card.
	CardTypeQuiz CardType = "quiz"
)

// Card is a single study item. It is a tagged union: Type selects which of
// the variant fields are meaningful. Standard cards carry Question/Answer,
// quiz cards carry Question/Options/CorrectAnswerIndex.
//
// Two legacy shapes are accepted on decode only: untagged cards exposing
// front/back fields are rewritten to the standard variant, and cards carrying
// an unrecognized type tag round-trip byte-for-byte through the retained raw
// message. The current shape is the only shape ever written back out.
type Card struct {
	ID                 string
	DeckID             string
	Type               CardType
	Question           string
	Answer             string
	Options            []string
	CorrectAnswerIndex int
	CreatedAt          *time.Time
	LastReviewed       *time.Time

	// raw holds the original bytes of a card that matched neither known
	// shape, so it survives a load/save cycle unchanged.
	raw json.RawMessage
}

// cardJSON is the wire shape. Front/Back only ever appear in stored legacy
// data; they are never written. Pointer fields distinguish absent from zero.
type cardJSON struct {
	ID                 string     `json:"id,omitempty"`
	DeckID             string     `json:"deckId,omitempty"`
	Type               CardType   `json:"type,omitempty"`
	Question           string     `json:"question,omitempty"`
	Answer             string     `json:"answer,omitempty"`
	Options            []string   `json:"options,omitempty"`
	CorrectAnswerIndex *int       `json:"correctAnswerIndex,omitempty"`
	Front              *string    `json:"front,omitempty"`
	Back               *string    `json:"back,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	LastReviewed       *time.Time `json:"lastReviewed,omitempty"`
}

// NewStandardCard builds a question/answer card owned by the given deck.
func NewStandardCard(id, deckID, question, answer string) Card {
	now := time.Now().UTC()
	return Card{
		ID:        id,
		DeckID:    deckID,
		Type:      CardTypeStandard,
		Question:  question,
		Answer:    answer,
		CreatedAt: &now,
	}
}

// NewQuizCard builds a multiple-choice card owned by the given deck.
// It fails if the options or the answer index violate the quiz invariant.
func NewQuizCard(id, deckID, question string, options []string, correctAnswerIndex int) (Card, error) {
	now := time.Now().UTC()
	c := Card{
		ID:                 id,
		DeckID:             deckID,
		Type:               CardTypeQuiz,
		Question:           question,
		Options:            options,
		CorrectAnswerIndex: correctAnswerIndex,
		CreatedAt:          &now,
	}
	if err := c.Validate(); err != nil {
		return Card{}, err
	}
	return c, nil
}

// migrateLegacyCard rewrites an untagged front/back card into the standard
// variant. Common fields carry over untouched.
func migrateLegacyCard(w cardJSON) Card {
	c := Card{
		ID:           w.ID,
		DeckID:       w.DeckID,
		Type:         CardTypeStandard,
		CreatedAt:    w.CreatedAt,
		LastReviewed: w.LastReviewed,
	}
	if w.Front != nil {
		c.Question = *w.Front
	}
	if w.Back != nil {
		c.Answer = *w.Back
	}
	return c
}

// Validate checks the variant invariants. Passthrough cards (no recognized
// type) are deliberately not validated.
func (c *Card) Validate() error {
	switch c.Type {
	case CardTypeStandard:
		return nil
	case CardTypeQuiz:
		if len(c.Options) < 2 {
			return ErrQuizTooFewOptions
		}
		if c.CorrectAnswerIndex < 0 || c.CorrectAnswerIndex >= len(c.Options) {
			return ErrQuizAnswerIndexOutOfRange
		}
		return nil
	default:
		return nil
	}
}

// MarkReviewed stamps the card with a review time.
func (c *Card) MarkReviewed(at time.Time) {
	t := at.UTC()
	c.LastReviewed = &t
}

// UnmarshalJSON decodes a stored card, normalizing legacy shapes as it goes:
// a recognized type tag is taken at face value, an untagged front/back pair
// becomes a standard card, and anything else is retained raw so it can be
// written back unchanged.
func (c *Card) UnmarshalJSON(data []byte) error {
	var w cardJSON
	if err := json.Unmarshal(data, &w); err != nil {
		// Structurally incompatible card: keep it opaque rather than fail
		// the whole collection load.
		*c = Card{raw: append(json.RawMessage(nil), data...)}
		return nil
	}

	switch w.Type {
	case CardTypeStandard, CardTypeQuiz:
		*c = Card{
			ID:           w.ID,
			DeckID:       w.DeckID,
			Type:         w.Type,
			Question:     w.Question,
			Answer:       w.Answer,
			Options:      w.Options,
			CreatedAt:    w.CreatedAt,
			LastReviewed: w.LastReviewed,
		}
		if w.CorrectAnswerIndex != nil {
			c.CorrectAnswerIndex = *w.CorrectAnswerIndex
		}
	case "":
		if w.Front != nil || w.Back != nil {
			*c = migrateLegacyCard(w)
			return nil
		}
		*c = Card{raw: append(json.RawMessage(nil), data...)}
	default:
		// Unknown tag: a newer schema than this build understands.
		*c = Card{raw: append(json.RawMessage(nil), data...)}
	}
	return nil
}

// MarshalJSON writes the current shape only. Passthrough cards re-emit their
// original bytes.
func (c Card) MarshalJSON() ([]byte, error) {
	if c.Type != CardTypeStandard && c.Type != CardTypeQuiz {
		if c.raw != nil {
			return c.raw, nil
		}
		return nil, fmt.Errorf("cannot encode card %q: unknown type %q", c.ID, c.Type)
	}

	w := cardJSON{
		ID:           c.ID,
		DeckID:       c.DeckID,
		Type:         c.Type,
		Question:     c.Question,
		CreatedAt:    c.CreatedAt,
		LastReviewed: c.LastReviewed,
	}
	switch c.Type {
	case CardTypeStandard:
		w.Answer = c.Answer
	case CardTypeQuiz:
		w.Options = c.Options
		idx := c.CorrectAnswerIndex
		w.CorrectAnswerIndex = &idx
	}
	return json.Marshal(w)
}

// IsPassthrough reports whether the card was retained as opaque raw bytes
// because it matched no known shape.
func (c *Card) IsPassthrough() bool {
	return c.Type != CardTypeStandard && c.Type != CardTypeQuiz && c.raw != nil
}
