// Package parser reads the markdown card format used for deck imports.
//
// A card is a block of prefixed lines:
//
//	Q: What is the capital of France?
//	A: Paris
//
// Quiz cards replace the answer with option lines, where a leading '*' marks
// the correct option:
//
//	Q: Which of these is a Go keyword?
//	O: * func
//	O: function
//	O: def
//	O: fn
//
// Cards are separated by a new Q: line or an explicit '---' line. Question
// and answer blocks may span multiple lines.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/lmeyer/kartenbox/internal/deckstore"
	"github.com/lmeyer/kartenbox/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	optionPrefix   = "O:"
	correctMarker  = "*"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
)

// ParseFile reads a file from the given path and extracts all card inputs.
func ParseFile(path string) ([]deckstore.CardInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all card inputs.
func Parse(r io.Reader) ([]deckstore.CardInput, error) {
	scanner := bufio.NewScanner(r)
	var cards []deckstore.CardInput
	var current deckstore.CardInput
	var currentBlock []string
	currentState := seeking

	flushBlock := func() {
		if len(currentBlock) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(currentBlock, "\n"))
		switch currentState {
		case readingQuestion:
			current.Question = content
		case readingAnswer:
			current.Answer = content
		}
		currentBlock = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Question != "" {
			if len(current.Options) > 0 {
				current.Type = domain.CardTypeQuiz
				current.Answer = ""
			} else {
				current.Type = domain.CardTypeStandard
			}
			cards = append(cards, current)
		}
		current = deckstore.CardInput{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		isQ := strings.HasPrefix(line, questionPrefix)
		isA := strings.HasPrefix(line, answerPrefix)
		isO := strings.HasPrefix(line, optionPrefix)
		isSeparator := strings.TrimSpace(line) == "---"

		if isSeparator {
			finishCard()
			continue
		}

		switch {
		case isQ:
			if currentState != seeking {
				finishCard()
			}
			currentState = readingQuestion
			currentBlock = append(currentBlock, trimPrefix(line, questionPrefix))
		case isA:
			flushBlock()
			currentState = readingAnswer
			currentBlock = append(currentBlock, trimPrefix(line, answerPrefix))
		case isO:
			flushBlock()
			currentState = seeking
			opt := trimPrefix(line, optionPrefix)
			if rest, ok := strings.CutPrefix(opt, correctMarker); ok {
				current.CorrectAnswerIndex = len(current.Options)
				opt = strings.TrimSpace(rest)
			}
			current.Options = append(current.Options, opt)
		case currentState != seeking:
			currentBlock = append(currentBlock, line)
		}
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// trimPrefix strips a card prefix plus at most one following space, so
// content keeps any deliberate deeper indentation.
func trimPrefix(line, prefix string) string {
	content := line[len(prefix):]
	if strings.HasPrefix(content, " ") {
		content = content[1:]
	}
	return content
}
