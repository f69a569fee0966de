package quiz

import (
	"errors"
	"math/rand/v2"

	"github.com/akarpov/flashka/internal/deck"
)

// DefaultArity is the standard number of answer options per question.
const DefaultArity = 4

// ErrInvalidCard is returned when the target card is missing term or
// definition text. The caller should skip the card rather than render a
// broken question.
var ErrInvalidCard = errors.New("quiz: card has empty term or definition text")

// Question is a single multiple-choice question. It is derived state:
// regenerated fresh on every card visit so the correct answer's position
// cannot be memorized, and never persisted.
type Question struct {
	Term          string
	CorrectAnswer string
	Choices       []string
}

// CorrectIndex returns the position of the correct answer within Choices.
func (q *Question) CorrectIndex() int {
	for i, c := range q.Choices {
		if c == q.CorrectAnswer {
			return i
		}
	}
	return -1
}

// Generate builds a multiple-choice question for the card at index.
//
// Wrong options are drawn from the distinct definition texts of the other
// cards in the deck. The total option count is min(arity, distinct
// definition texts in the deck), so small decks still produce a valid,
// smaller question. When fewer distinct wrong candidates exist than needed,
// the pool is cycled to pad the count; duplicate visible choices are an
// accepted degraded mode for tiny decks. The final choice order is a
// uniform shuffle.
func Generate(d *deck.Deck, index, arity int) (*Question, error) {
	card := d.Card(index)
	if card.Term.Text == "" || card.Definition.Text == "" {
		return nil, ErrInvalidCard
	}

	correct := card.Definition.Text

	// Distinct definition texts, deck order. Equality is on text, not card
	// identity: two cards sharing a definition count once.
	seen := make(map[string]bool)
	var wrongPool []string
	distinct := 0
	for i := 0; i < d.Len(); i++ {
		def := d.Card(i).Definition.Text
		if def == "" || seen[def] {
			continue
		}
		seen[def] = true
		distinct++
		if def != correct {
			wrongPool = append(wrongPool, def)
		}
	}

	total := arity
	if distinct < total {
		total = distinct
	}
	if total < 1 {
		total = 1
	}
	wrongNeeded := total - 1

	choices := make([]string, 0, total)
	if wrongNeeded <= len(wrongPool) {
		choices = append(choices, wrongPool[:wrongNeeded]...)
	} else {
		choices = append(choices, wrongPool...)
		for i := 0; len(choices) < wrongNeeded; i++ {
			choices = append(choices, wrongPool[i%len(wrongPool)])
		}
	}
	choices = append(choices, correct)

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	return &Question{
		Term:          card.Term.Text,
		CorrectAnswer: correct,
		Choices:       choices,
	}, nil
}
