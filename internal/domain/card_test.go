package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalLegacyCard(t *testing.T) {
	data := []byte(`{"id":"c1","front":"Hola","back":"Hello","deckId":"d1","createdAt":"2024-03-01T10:00:00Z"}`)

	var c Card
	require.NoError(t, json.Unmarshal(data, &c))

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, CardTypeStandard, c.Type)
	assert.Equal(t, "Hola", c.Question)
	assert.Equal(t, "Hello", c.Answer)
	assert.Equal(t, "d1", c.DeckID)
	require.NotNil(t, c.CreatedAt)
	assert.False(t, c.IsPassthrough())
}

func TestUnmarshalLegacyCardWritesCurrentShape(t *testing.T) {
	data := []byte(`{"id":"c1","front":"Hola","back":"Hello"}`)

	var c Card
	require.NoError(t, json.Unmarshal(data, &c))

	out, err := json.Marshal(c)
	require.NoError(t, err)

	assert.NotContains(t, string(out), `"front"`)
	assert.NotContains(t, string(out), `"back"`)
	assert.Contains(t, string(out), `"type":"card"`)
	assert.Contains(t, string(out), `"question":"Hola"`)
	assert.Contains(t, string(out), `"answer":"Hello"`)
}

func TestMigrationIsIdempotent(t *testing.T) {
	data := []byte(`{"id":"c1","front":"Hola","back":"Hello"}`)

	var once Card
	require.NoError(t, json.Unmarshal(data, &once))
	onceBytes, err := json.Marshal(once)
	require.NoError(t, err)

	var twice Card
	require.NoError(t, json.Unmarshal(onceBytes, &twice))
	twiceBytes, err := json.Marshal(twice)
	require.NoError(t, err)

	assert.Equal(t, string(onceBytes), string(twiceBytes))
	assert.Equal(t, once, twice)
}

func TestUnmarshalCurrentShapePassesThroughUnchanged(t *testing.T) {
	data := []byte(`{"id":"c2","deckId":"d1","type":"quiz","question":"2+2?","options":["3","4","5","6"],"correctAnswerIndex":1}`)

	var c Card
	require.NoError(t, json.Unmarshal(data, &c))

	assert.Equal(t, CardTypeQuiz, c.Type)
	assert.Equal(t, []string{"3", "4", "5", "6"}, c.Options)
	assert.Equal(t, 1, c.CorrectAnswerIndex)
	require.NoError(t, c.Validate())
}

func TestQuizAnswerIndexZeroSurvivesRoundTrip(t *testing.T) {
	quiz, err := NewQuizCard("c1", "d1", "Pick the first", []string{"right", "wrong"}, 0)
	require.NoError(t, err)

	out, err := json.Marshal(quiz)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"correctAnswerIndex":0`)

	var back Card
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, 0, back.CorrectAnswerIndex)
}

func TestUnknownShapeRoundTripsRaw(t *testing.T) {
	data := []byte(`{"id":"c9","type":"cloze","text":"{{fill}} in the blank"}`)

	var c Card
	require.NoError(t, json.Unmarshal(data, &c))
	assert.True(t, c.IsPassthrough())

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))
}

func TestQuizValidation(t *testing.T) {
	_, err := NewQuizCard("c1", "d1", "2+2?", []string{"3", "4"}, 2)
	assert.ErrorIs(t, err, ErrQuizAnswerIndexOutOfRange)

	_, err = NewQuizCard("c1", "d1", "2+2?", []string{"4"}, 0)
	assert.ErrorIs(t, err, ErrQuizTooFewOptions)

	_, err = NewQuizCard("c1", "d1", "2+2?", []string{"3", "4", "5", "6"}, -1)
	assert.ErrorIs(t, err, ErrQuizAnswerIndexOutOfRange)

	_, err = NewQuizCard("c1", "d1", "2+2?", []string{"3", "4", "5", "6"}, 1)
	assert.NoError(t, err)
}

func TestDeckUnmarshalRepairsCardDeckID(t *testing.T) {
	data := []byte(`{
		"id": "d1",
		"name": "Spanish",
		"color": "#1E88E5",
		"createdAt": "2024-03-01T10:00:00Z",
		"cards": [
			{"id":"c1","front":"Hola","back":"Hello"},
			{"id":"c2","type":"card","question":"Adios","answer":"Bye","deckId":"stale"}
		]
	}`)

	var d Deck
	require.NoError(t, json.Unmarshal(data, &d))

	require.Len(t, d.Cards, 2)
	assert.Equal(t, "d1", d.Cards[0].DeckID)
	assert.Equal(t, "d1", d.Cards[1].DeckID)
}

func TestNewDeckValidation(t *testing.T) {
	_, err := NewDeck("d1", "   ", "", "#1E88E5")
	assert.ErrorIs(t, err, ErrDeckNameEmpty)

	deck, err := NewDeck("d1", "  Spanish  ", " basics ", "")
	require.NoError(t, err)
	assert.Equal(t, "Spanish", deck.Name)
	assert.Equal(t, "basics", deck.Description)
	assert.Equal(t, DefaultColor, deck.Color)
	assert.NotNil(t, deck.Cards)
}

func TestCollectionRoundTrip(t *testing.T) {
	quiz, err := NewQuizCard("d1-card-2", "d1", "2+2?", []string{"3", "4", "5", "6"}, 1)
	require.NoError(t, err)

	deck, err := NewDeck("d1", "Math", "numbers", "#43A047")
	require.NoError(t, err)
	deck.Cards = []Card{NewStandardCard("d1-card-1", "d1", "1+1?", "2"), quiz}

	col := Collection{deck}
	first, err := json.Marshal(col)
	require.NoError(t, err)

	var back Collection
	require.NoError(t, json.Unmarshal(first, &back))
	second, err := json.Marshal(back)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	require.Len(t, back, 1)
	assert.Equal(t, deck.Name, back[0].Name)
	require.Len(t, back[0].Cards, 2)
	assert.Equal(t, CardTypeQuiz, back[0].Cards[1].Type)
}
