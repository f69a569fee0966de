package deck

import "errors"

// ErrEmptyDeck is returned when the selected modules contain no cards at all.
// There is nothing to study, so a session cannot start.
var ErrEmptyDeck = errors.New("deck: selected modules contain no cards")

// Side is one face of a flashcard.
type Side struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Card is a single flashcard as served by the module API.
type Card struct {
	ID         int  `json:"id"`
	Term       Side `json:"term"`
	Definition Side `json:"definition"`
}

// Module is a named collection of cards. Results are always reported
// against modules, so module boundaries survive deck flattening.
type Module struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// Deck is the ordered, read-only card sequence for one session. It is built
// once at session start and never mutated. Each card keeps a back-reference
// to its owning module so outcomes can be grouped per module afterwards.
type Deck struct {
	cards     []Card
	moduleIDs []int // owning module id, parallel to cards
	modules   []Module
}

// Build flattens the cards of the given modules, in input order, preserving
// card order within each module. Modules without cards still count toward
// the module roster. Returns ErrEmptyDeck if no cards remain.
func Build(modules []Module) (*Deck, error) {
	d := &Deck{
		modules: make([]Module, len(modules)),
	}
	copy(d.modules, modules)

	for _, m := range modules {
		for _, c := range m.Cards {
			d.cards = append(d.cards, c)
			d.moduleIDs = append(d.moduleIDs, m.ID)
		}
	}

	if len(d.cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return d, nil
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Card returns the card at position i.
func (d *Deck) Card(i int) Card {
	return d.cards[i]
}

// ModuleID returns the owning module id of the card at position i.
func (d *Deck) ModuleID(i int) int {
	return d.moduleIDs[i]
}

// Modules returns the module roster the deck was built from, in input order.
func (d *Deck) Modules() []Module {
	return d.modules
}

// CardIDs returns the ids of all cards in deck order.
func (d *Deck) CardIDs() []int {
	ids := make([]int, len(d.cards))
	for i, c := range d.cards {
		ids[i] = c.ID
	}
	return ids
}
