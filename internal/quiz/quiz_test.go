package quiz

import (
	"errors"
	"testing"

	"github.com/akarpov/flashka/internal/deck"
)

func buildDeck(t *testing.T, cards ...deck.Card) *deck.Deck {
	t.Helper()
	d, err := deck.Build([]deck.Module{{ID: 1, Name: "Test", Cards: cards}})
	if err != nil {
		t.Fatalf("deck.Build: %v", err)
	}
	return d
}

func card(id int, term, def string) deck.Card {
	return deck.Card{
		ID:         id,
		Term:       deck.Side{Text: term, Lang: "en"},
		Definition: deck.Side{Text: def, Lang: "ru"},
	}
}

func countOf(choices []string, want string) int {
	n := 0
	for _, c := range choices {
		if c == want {
			n++
		}
	}
	return n
}

func TestGenerate_FullArity(t *testing.T) {
	d := buildDeck(t,
		card(1, "cat", "кот"),
		card(2, "dog", "пёс"),
		card(3, "bread", "хлеб"),
		card(4, "milk", "молоко"),
		card(5, "water", "вода"),
	)

	q, err := Generate(d, 0, DefaultArity)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if q.Term != "cat" {
		t.Errorf("Term = %q, want %q", q.Term, "cat")
	}
	if q.CorrectAnswer != "кот" {
		t.Errorf("CorrectAnswer = %q, want %q", q.CorrectAnswer, "кот")
	}
	if len(q.Choices) != 4 {
		t.Errorf("len(Choices) = %d, want 4", len(q.Choices))
	}
	if countOf(q.Choices, "кот") != 1 {
		t.Errorf("correct answer appears %d times, want exactly 1", countOf(q.Choices, "кот"))
	}
	if q.CorrectIndex() < 0 {
		t.Error("CorrectIndex = -1, correct answer missing from choices")
	}
}

func TestGenerate_SmallDeckShrinksQuestion(t *testing.T) {
	// 3 cards with definitions x, y, y: 2 distinct definitions, so the
	// question has 2 options total (1 wrong + correct).
	d := buildDeck(t,
		card(1, "A", "x"),
		card(2, "B", "y"),
		card(3, "C", "y"),
	)

	q, err := Generate(d, 0, DefaultArity)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(q.Choices) != 2 {
		t.Errorf("len(Choices) = %d, want 2", len(q.Choices))
	}
	if countOf(q.Choices, "x") != 1 {
		t.Errorf("correct answer appears %d times, want exactly 1", countOf(q.Choices, "x"))
	}
	if countOf(q.Choices, "y") != 1 {
		t.Errorf("wrong option appears %d times, want exactly 1", countOf(q.Choices, "y"))
	}
}

func TestGenerate_SingleCardDeck(t *testing.T) {
	d := buildDeck(t, card(1, "cat", "кот"))

	q, err := Generate(d, 0, DefaultArity)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(q.Choices) != 1 || q.Choices[0] != "кот" {
		t.Errorf("Choices = %v, want just the correct answer", q.Choices)
	}
}

func TestGenerate_DuplicateDefinitionsCountOnce(t *testing.T) {
	// Definitions: кот, пёс, пёс, хлеб → 3 distinct, question asks for 4
	// options but only 3 exist.
	d := buildDeck(t,
		card(1, "cat", "кот"),
		card(2, "dog", "пёс"),
		card(3, "hound", "пёс"),
		card(4, "bread", "хлеб"),
	)

	q, err := Generate(d, 0, DefaultArity)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(q.Choices) != 3 {
		t.Errorf("len(Choices) = %d, want 3 (distinct definitions)", len(q.Choices))
	}
}

func TestGenerate_ReshufflesOnRepeatVisits(t *testing.T) {
	cards := []deck.Card{
		card(1, "q", "correct"),
	}
	for i := 2; i <= 12; i++ {
		cards = append(cards, card(i, "t", string(rune('a'+i))))
	}
	d := buildDeck(t, cards...)

	first, err := Generate(d, 0, DefaultArity)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// With 4 options the correct slot must move across regenerations;
	// 40 attempts make a fixed position vanishingly unlikely.
	moved := false
	for i := 0; i < 40; i++ {
		q, err := Generate(d, 0, DefaultArity)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if q.CorrectIndex() != first.CorrectIndex() {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("correct answer index never changed across regenerations")
	}
}

func TestGenerate_InvalidCard(t *testing.T) {
	d := buildDeck(t,
		card(1, "", "кот"),
		card(2, "dog", ""),
		card(3, "ok", "пёс"),
	)

	if _, err := Generate(d, 0, DefaultArity); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("empty term: err = %v, want ErrInvalidCard", err)
	}
	if _, err := Generate(d, 1, DefaultArity); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("empty definition: err = %v, want ErrInvalidCard", err)
	}
	if _, err := Generate(d, 2, DefaultArity); err != nil {
		t.Errorf("valid card: err = %v, want nil", err)
	}
}
