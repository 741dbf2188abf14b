package importer

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/lmeyer/kartenbox/internal/deckstore"
	"github.com/lmeyer/kartenbox/internal/domain"
)

// normalize concatenates a card's content after cleaning each part. It trims
// whitespace, lowercases, and normalizes line endings for each field before
// joining them, so formatting churn in a source file does not change a
// card's identity.
func normalize(question, answer string, options []string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	parts := []string{normalizePart(question), normalizePart(answer)}
	for _, opt := range options {
		parts = append(parts, normalizePart(opt))
	}

	// Joined with newlines so adjacent fields cannot run together and
	// collide, e.g. "question"+"answer" vs "questiona"+"nswer".
	return strings.Join(parts, "\n")
}

// Fingerprint returns the SHA-256 content hash of a card input as a hex
// string. Two cards with the same fingerprint are considered the same card.
func Fingerprint(in deckstore.CardInput) string {
	sum := sha256.Sum256([]byte(normalize(in.Question, in.Answer, in.Options)))
	return fmt.Sprintf("%x", sum)
}

// cardFingerprint hashes an already-stored card with the same scheme, so
// imports can be checked against the existing collection.
func cardFingerprint(c domain.Card) string {
	sum := sha256.Sum256([]byte(normalize(c.Question, c.Answer, c.Options)))
	return fmt.Sprintf("%x", sum)
}
