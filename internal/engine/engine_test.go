package engine

import (
	"testing"

	"github.com/akarpov/flashka/internal/deck"
)

func testDeck(t *testing.T, n int) *deck.Deck {
	t.Helper()
	var cards []deck.Card
	for i := 1; i <= n; i++ {
		cards = append(cards, deck.Card{
			ID:         i,
			Term:       deck.Side{Text: "term", Lang: "en"},
			Definition: deck.Side{Text: "def", Lang: "ru"},
		})
	}
	d, err := deck.Build([]deck.Module{{ID: 1, Name: "Test", Cards: cards}})
	if err != nil {
		t.Fatalf("deck.Build: %v", err)
	}
	return d
}

func TestFullPass_LearningMode(t *testing.T) {
	s := NewSession(testDeck(t, 4), ModeLearning)

	judgments := []bool{true, false, true, true}
	for _, known := range judgments {
		if !s.Judge(known) {
			t.Fatal("Judge returned false mid-deck")
		}
	}

	if !s.Finished() {
		t.Error("session not finished after full pass")
	}

	correct, incorrect := s.Counters()
	if correct != 3 || incorrect != 1 {
		t.Errorf("counters = %d/%d, want 3/1", correct, incorrect)
	}
	if correct+incorrect != 4 {
		t.Errorf("counter sum = %d, want deck size 4", correct+incorrect)
	}
	if got := len(s.Outcomes()); got != 4 {
		t.Errorf("outcomes has %d entries, want 4", got)
	}
}

func TestRecordOutcome_IdempotentPerCard(t *testing.T) {
	s := NewSession(testDeck(t, 2), ModeTest)

	if !s.RecordOutcome(OutcomeCorrect) {
		t.Fatal("first RecordOutcome returned false")
	}
	if s.RecordOutcome(OutcomeIncorrect) {
		t.Error("second RecordOutcome on same card was not a no-op")
	}

	correct, incorrect := s.Counters()
	if correct != 1 || incorrect != 0 {
		t.Errorf("counters = %d/%d, want 1/0 after duplicate answer", correct, incorrect)
	}
	if s.Outcomes()[1] != OutcomeCorrect {
		t.Errorf("outcome overwritten by ignored duplicate: %v", s.Outcomes()[1])
	}
}

func TestRecordOutcome_NoOpAfterFinish(t *testing.T) {
	s := NewSession(testDeck(t, 1), ModeTest)
	s.RecordOutcome(OutcomeCorrect)
	s.Advance()

	if !s.Finished() {
		t.Fatal("expected finished after last card")
	}
	if s.RecordOutcome(OutcomeIncorrect) {
		t.Error("RecordOutcome after finish was not a no-op")
	}
}

func TestTerminateEarly_DefaultsUnansweredToIncorrect(t *testing.T) {
	s := NewSession(testDeck(t, 5), ModeTest)

	s.RecordOutcome(OutcomeCorrect)
	s.Advance()
	s.RecordOutcome(OutcomeIncorrect)
	s.Advance()

	s.TerminateEarly()

	if !s.Finished() {
		t.Error("not finished after TerminateEarly")
	}

	outcomes := s.Outcomes()
	if len(outcomes) != 5 {
		t.Fatalf("outcomes has %d entries, want 5", len(outcomes))
	}
	if outcomes[1] != OutcomeCorrect {
		t.Errorf("answered card overwritten: outcomes[1] = %v", outcomes[1])
	}
	for id := 3; id <= 5; id++ {
		if outcomes[id] != OutcomeIncorrect {
			t.Errorf("outcomes[%d] = %v, want incorrect", id, outcomes[id])
		}
	}

	correct, incorrect := s.Counters()
	if correct != 1 || incorrect != 4 {
		t.Errorf("counters = %d/%d, want 1/4", correct, incorrect)
	}

	// Calling again must not double count.
	s.TerminateEarly()
	correct, incorrect = s.Counters()
	if correct != 1 || incorrect != 4 {
		t.Errorf("counters after repeat = %d/%d, want 1/4", correct, incorrect)
	}
}

func TestAdvance_SeparateFromAnswerInTestMode(t *testing.T) {
	s := NewSession(testDeck(t, 2), ModeTest)

	s.RecordOutcome(OutcomeCorrect)
	if s.Finished() {
		t.Error("finished before explicit advance")
	}
	if s.Index() != 0 {
		t.Errorf("index moved without Advance: %d", s.Index())
	}

	s.Advance()
	if s.Index() != 1 {
		t.Errorf("index = %d after Advance, want 1", s.Index())
	}
}

func TestToggleReveal_ResetsOnAdvance(t *testing.T) {
	s := NewSession(testDeck(t, 2), ModeLearning)

	s.ToggleReveal()
	if !s.Revealed() {
		t.Error("not revealed after toggle")
	}

	s.Judge(true)
	if s.Revealed() {
		t.Error("reveal flag carried over to next card")
	}
}

func TestDuplicateCardIDs_CountOnce(t *testing.T) {
	// Duplicate ids degrade aggregation but must not inflate counters.
	cards := []deck.Card{
		{ID: 7, Term: deck.Side{Text: "a"}, Definition: deck.Side{Text: "x"}},
		{ID: 7, Term: deck.Side{Text: "b"}, Definition: deck.Side{Text: "y"}},
	}
	d, err := deck.Build([]deck.Module{{ID: 1, Cards: cards}})
	if err != nil {
		t.Fatalf("deck.Build: %v", err)
	}

	s := NewSession(d, ModeLearning)
	s.Judge(true)
	s.Judge(false)

	correct, incorrect := s.Counters()
	if correct+incorrect != 1 {
		t.Errorf("counter sum = %d, want 1 for one distinct id", correct+incorrect)
	}
	if len(s.Outcomes()) != 1 {
		t.Errorf("outcomes has %d entries, want 1", len(s.Outcomes()))
	}
}
