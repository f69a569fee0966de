package results

import (
	"time"

	"github.com/akarpov/flashka/internal/deck"
	"github.com/akarpov/flashka/internal/engine"
)

// CardResult is one card's outcome inside a submission payload.
type CardResult struct {
	CardID int    `json:"card_id"`
	Result string `json:"result"`
}

// SessionResult groups the per-card outcomes of one module under the
// session type ("learning" or "test").
type SessionResult struct {
	Type        string       `json:"type"`
	CardsResult []CardResult `json:"cards_result"`
}

// ModuleSubmission is the payload for a single-module session.
type ModuleSubmission struct {
	ModuleID int           `json:"module_id"`
	Time     string        `json:"time"`
	Result   SessionResult `json:"result"`
}

// ModuleEntry is one module's result inside a category submission.
type ModuleEntry struct {
	ModuleID int           `json:"module_id"`
	Result   SessionResult `json:"result"`
}

// CategorySubmission is the payload for a session spanning the modules of
// a category. Every module of the roster appears, even with zero cards,
// so the server sees the complete module list.
type CategorySubmission struct {
	CategoryID int           `json:"category_id"`
	Time       string        `json:"time"`
	ModulesRes []ModuleEntry `json:"modules_res"`
}

// Timestamp renders t for the results API: ISO-8601 in UTC with the 'T'
// separator replaced by a space and the trailing 'Z' dropped, keeping the
// value human-sortable.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.000")
}

// BuildModuleSubmission builds the payload for a session over exactly one
// module. Cards are listed in module order; a card missing from outcomes is
// defensively defaulted to incorrect rather than omitted.
func BuildModuleSubmission(d *deck.Deck, outcomes map[int]engine.Outcome, mode engine.Mode, now time.Time) ModuleSubmission {
	m := d.Modules()[0]
	return ModuleSubmission{
		ModuleID: m.ID,
		Time:     Timestamp(now),
		Result:   moduleResult(m, outcomes, mode),
	}
}

// BuildCategorySubmission builds the payload for a category session: one
// entry per module in roster order, each listing only that module's cards.
func BuildCategorySubmission(categoryID int, d *deck.Deck, outcomes map[int]engine.Outcome, mode engine.Mode, now time.Time) CategorySubmission {
	sub := CategorySubmission{
		CategoryID: categoryID,
		Time:       Timestamp(now),
	}
	for _, m := range d.Modules() {
		sub.ModulesRes = append(sub.ModulesRes, ModuleEntry{
			ModuleID: m.ID,
			Result:   moduleResult(m, outcomes, mode),
		})
	}
	return sub
}

func moduleResult(m deck.Module, outcomes map[int]engine.Outcome, mode engine.Mode) SessionResult {
	cards := make([]CardResult, 0, len(m.Cards))
	for _, c := range m.Cards {
		o, ok := outcomes[c.ID]
		if !ok {
			o = engine.OutcomeIncorrect
		}
		cards = append(cards, CardResult{CardID: c.ID, Result: string(o)})
	}
	return SessionResult{
		Type:        string(mode),
		CardsResult: cards,
	}
}
