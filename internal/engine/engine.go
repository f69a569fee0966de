package engine

import (
	"github.com/akarpov/flashka/internal/deck"
)

// Mode selects the interaction policy layered on the session machine.
type Mode string

const (
	// ModeLearning presents each card for a binary known/unknown judgment
	// (swipe or explicit control) and advances automatically.
	ModeLearning Mode = "learning"

	// ModeTest presents each card as a multiple-choice question; answering
	// locks the card and advancing is a separate explicit action.
	ModeTest Mode = "test"
)

// Outcome is the recorded result for one card.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Session drives one pass through a deck. It replaces the free-standing
// page-level counters of the old runners with a single value owned by the
// caller; two sessions never share state.
//
// All methods are synchronous and must be called from a single goroutine
// (the UI event loop). Callers serialize user input while an answer is
// being processed.
type Session struct {
	deck     *deck.Deck
	mode     Mode
	index    int
	outcomes map[int]Outcome
	answered map[int]bool // answered card positions, guards re-answering

	correct   int
	incorrect int

	finished bool
	revealed bool
}

// NewSession starts a session at the first card with empty outcomes.
func NewSession(d *deck.Deck, mode Mode) *Session {
	return &Session{
		deck:     d,
		mode:     mode,
		outcomes: make(map[int]Outcome),
		answered: make(map[int]bool),
	}
}

// Mode returns the session's interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// Deck returns the deck under study.
func (s *Session) Deck() *deck.Deck { return s.deck }

// Index returns the current card position.
func (s *Session) Index() int { return s.index }

// Finished reports whether the session reached its terminal state.
func (s *Session) Finished() bool { return s.finished }

// Current returns the card under study, or false once the session finished.
func (s *Session) Current() (deck.Card, bool) {
	if s.finished || s.index >= s.deck.Len() {
		return deck.Card{}, false
	}
	return s.deck.Card(s.index), true
}

// Revealed reports whether the current card's definition side is showing.
// This is explicit state, not derived from presentation.
func (s *Session) Revealed() bool { return s.revealed }

// ToggleReveal flips the current card. No-op once finished.
func (s *Session) ToggleReveal() {
	if s.finished {
		return
	}
	s.revealed = !s.revealed
}

// Answered reports whether the current card already has a recorded outcome.
func (s *Session) Answered() bool {
	return s.answered[s.index]
}

// RecordOutcome writes the outcome for the current card. It is an idempotent
// no-op when the session is finished or the current card was already
// answered, so duplicate input events cannot double count. Counters move
// only on the first write for a card id.
func (s *Session) RecordOutcome(o Outcome) bool {
	if s.finished || s.answered[s.index] {
		return false
	}

	card, ok := s.Current()
	if !ok {
		return false
	}

	s.answered[s.index] = true
	if _, dup := s.outcomes[card.ID]; !dup {
		switch o {
		case OutcomeCorrect:
			s.correct++
		default:
			s.incorrect++
		}
	}
	s.outcomes[card.ID] = o
	return true
}

// Advance moves to the next card, finishing the session when the deck is
// exhausted. The reveal flag resets so each card starts on its term side.
func (s *Session) Advance() {
	if s.finished {
		return
	}
	s.index++
	s.revealed = false
	if s.index >= s.deck.Len() {
		s.finished = true
	}
}

// Judge records a learning-mode judgment and advances in one step: swiping
// a card away both answers and moves on.
func (s *Session) Judge(known bool) bool {
	o := OutcomeIncorrect
	if known {
		o = OutcomeCorrect
	}
	if !s.RecordOutcome(o) {
		return false
	}
	s.Advance()
	return true
}

// TerminateEarly marks every card without a recorded outcome as incorrect
// and finishes the session immediately. Cards already answered keep their
// result. Safe to call repeatedly.
func (s *Session) TerminateEarly() {
	if s.finished {
		return
	}
	for _, id := range s.deck.CardIDs() {
		if _, ok := s.outcomes[id]; !ok {
			s.outcomes[id] = OutcomeIncorrect
			s.incorrect++
		}
	}
	s.finished = true
}

// Counters returns the cached correct/incorrect tallies. They are written
// by the same operation that records an outcome, so they never drift from
// the outcomes map.
func (s *Session) Counters() (correct, incorrect int) {
	return s.correct, s.incorrect
}

// Outcomes returns a copy of the per-card results recorded so far.
func (s *Session) Outcomes() map[int]Outcome {
	out := make(map[int]Outcome, len(s.outcomes))
	for id, o := range s.outcomes {
		out[id] = o
	}
	return out
}

// Progress returns the fraction of the deck already passed, for progress
// bar rendering.
func (s *Session) Progress() float64 {
	if s.deck.Len() == 0 {
		return 0
	}
	return float64(s.index) / float64(s.deck.Len())
}
