package deckstore

import (
	"fmt"
	"strings"

	"github.com/lmeyer/kartenbox/internal/domain"
)

// CreateDeckInput carries the user-supplied fields for a new deck.
type CreateDeckInput struct {
	Name        string `validate:"required"`
	Description string
	Color       string `validate:"omitempty,hexcolor"`
}

// UpdateDeckInput is a partial deck update: nil fields keep their prior
// value.
type UpdateDeckInput struct {
	Name        *string
	Description *string
	Color       *string `validate:"omitempty,hexcolor"`
}

// CardInput carries the variant-specific fields for a new or edited card.
// Answer is meaningful for standard cards, Options and CorrectAnswerIndex
// for quiz cards.
type CardInput struct {
	Type               domain.CardType `validate:"required,oneof=card quiz"`
	Question           string
	Answer             string
	Options            []string
	CorrectAnswerIndex int `validate:"min=0"`
}

// buildCard dispatches to the variant constructor for the input's type.
func buildCard(id, deckID string, in CardInput) (domain.Card, error) {
	switch in.Type {
	case domain.CardTypeStandard:
		return domain.NewStandardCard(id, deckID, in.Question, in.Answer), nil
	case domain.CardTypeQuiz:
		return domain.NewQuizCard(id, deckID, in.Question, in.Options, in.CorrectAnswerIndex)
	default:
		return domain.Card{}, fmt.Errorf("unknown card type %q", in.Type)
	}
}

func trimmedName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domain.ErrDeckNameEmpty
	}
	return s, nil
}
