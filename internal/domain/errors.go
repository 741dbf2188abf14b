// Package domain defines the deck and card entities and their invariants.
package domain

import "errors"

var (
	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrDeckNameEmpty is returned when a deck name is empty after trimming.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckNotFound is returned when no deck with the given id exists.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound is returned when no card with the given id exists in
	// the referenced deck.
	ErrCardNotFound = errors.New("card not found")

	// ErrQuizTooFewOptions is returned when a quiz card has fewer than two
	// answer options.
	ErrQuizTooFewOptions = errors.New("quiz card needs at least two options")

	// ErrQuizAnswerIndexOutOfRange is returned when a quiz card's correct
	// answer index does not point at one of its options.
	ErrQuizAnswerIndexOutOfRange = errors.New("quiz answer index out of range")

	// ErrCorruptCollection is returned when the stored blob cannot be parsed
	// as a collection. The stored data is left untouched.
	ErrCorruptCollection = errors.New("stored collection is corrupt")
)
