package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lmeyer/kartenbox/internal/deckstore"
	"github.com/lmeyer/kartenbox/internal/domain"
)

// handleIndex renders the deck grid with the create-deck form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	col, err := s.repo.Load(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "index", map[string]any{
		"Decks":   col,
		"Palette": domain.PaletteColors(),
	})
}

// handleCreateDeck creates a deck from the form and returns to the grid.
func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	in := deckstore.CreateDeckInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Color:       deckColorFromForm(r),
	}
	deck, err := s.repo.CreateDeck(r.Context(), in)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/decks/"+deck.ID, http.StatusSeeOther)
}

// handleDeckDetail renders one deck with its cards and card forms. An
// ?edit=<cardId> query pre-fills the form with that card for editing.
func (s *Server) handleDeckDetail(w http.ResponseWriter, r *http.Request) {
	col, err := s.repo.Load(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	i := col.FindDeck(r.PathValue("id"))
	if i == -1 {
		s.renderError(w, r, fmt.Errorf("deck %s: %w", r.PathValue("id"), domain.ErrDeckNotFound))
		return
	}
	deck := col[i]

	var editing *domain.Card
	if editID := r.URL.Query().Get("edit"); editID != "" {
		if j := deck.FindCard(editID); j != -1 {
			editing = &deck.Cards[j]
		}
	}

	s.render(w, r, "deck", map[string]any{
		"Deck":    deck,
		"Editing": editing,
		"Palette": domain.PaletteColors(),
	})
}

// handleUpdateDeck applies the edit-deck form.
func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("id")
	name := r.PostFormValue("name")
	description := r.PostFormValue("description")
	color := deckColorFromForm(r)

	in := deckstore.UpdateDeckInput{
		Name:        &name,
		Description: &description,
	}
	if color != "" {
		in.Color = &color
	}

	if _, err := s.repo.UpdateDeck(r.Context(), deckID, in); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/decks/"+deckID, http.StatusSeeOther)
}

// handleDeleteDeck removes a deck and re-renders the grid fragment.
func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteDeck(r.Context(), r.PathValue("id")); err != nil {
		s.renderError(w, r, err)
		return
	}
	col, err := s.repo.Load(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "deck_list", map[string]any{"Decks": col})
}

// handleCreateCard appends a card built from the card form.
func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("id")
	in, err := cardInputFromForm(r)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	if _, err := s.repo.CreateCard(r.Context(), deckID, in); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/decks/"+deckID, http.StatusSeeOther)
}

// handleUpdateCard replaces a card's fields from the card form.
func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("id")
	in, err := cardInputFromForm(r)
	if err != nil {
		s.renderError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	if _, err := s.repo.UpdateCard(r.Context(), deckID, r.PathValue("cardId"), in); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/decks/"+deckID, http.StatusSeeOther)
}

// handleDeleteCard removes a card and re-renders the card list fragment.
func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("id")
	if err := s.repo.DeleteCard(r.Context(), deckID, r.PathValue("cardId")); err != nil {
		s.renderError(w, r, err)
		return
	}

	col, err := s.repo.Load(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	i := col.FindDeck(deckID)
	if i == -1 {
		s.renderError(w, r, fmt.Errorf("deck %s: %w", deckID, domain.ErrDeckNotFound))
		return
	}
	s.render(w, r, "card_list", map[string]any{"Deck": col[i]})
}

// deckColorFromForm prefers a picked custom hex over the palette swatch.
func deckColorFromForm(r *http.Request) string {
	if custom := strings.TrimSpace(r.PostFormValue("custom_color")); custom != "" {
		return custom
	}
	return r.PostFormValue("color")
}

// cardInputFromForm builds a CardInput from the shared card form. Quiz
// options arrive one per line in a textarea; the correct option is selected
// by its 1-based position.
func cardInputFromForm(r *http.Request) (deckstore.CardInput, error) {
	in := deckstore.CardInput{
		Type:     domain.CardType(r.PostFormValue("type")),
		Question: r.PostFormValue("question"),
	}

	switch in.Type {
	case domain.CardTypeStandard:
		in.Answer = r.PostFormValue("answer")
	case domain.CardTypeQuiz:
		for _, line := range strings.Split(r.PostFormValue("options"), "\n") {
			if opt := strings.TrimSpace(line); opt != "" {
				in.Options = append(in.Options, opt)
			}
		}
		correct, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("correct")))
		if err != nil {
			return deckstore.CardInput{}, fmt.Errorf("correct option must be a number: %v", err)
		}
		in.CorrectAnswerIndex = correct - 1
	default:
		return deckstore.CardInput{}, fmt.Errorf("unknown card type %q", in.Type)
	}

	return in, nil
}
