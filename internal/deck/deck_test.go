package deck

import (
	"errors"
	"testing"
)

func card(id int, term, def string) Card {
	return Card{
		ID:         id,
		Term:       Side{Text: term, Lang: "en"},
		Definition: Side{Text: def, Lang: "ru"},
	}
}

func TestBuild_FlattensInModuleOrder(t *testing.T) {
	modules := []Module{
		{ID: 10, Name: "Animals", Cards: []Card{card(1, "cat", "кот"), card(2, "dog", "пёс")}},
		{ID: 20, Name: "Food", Cards: []Card{card(3, "bread", "хлеб")}},
	}

	d, err := Build(modules)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}

	wantIDs := []int{1, 2, 3}
	for i, want := range wantIDs {
		if got := d.Card(i).ID; got != want {
			t.Errorf("Card(%d).ID = %d, want %d", i, got, want)
		}
	}

	wantModules := []int{10, 10, 20}
	for i, want := range wantModules {
		if got := d.ModuleID(i); got != want {
			t.Errorf("ModuleID(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestBuild_KeepsEmptyModulesInRoster(t *testing.T) {
	modules := []Module{
		{ID: 10, Name: "Empty"},
		{ID: 20, Name: "Full", Cards: []Card{card(1, "cat", "кот")}},
	}

	d, err := Build(modules)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(d.Modules()) != 2 {
		t.Errorf("Modules roster = %d entries, want 2", len(d.Modules()))
	}
	if d.Modules()[0].ID != 10 {
		t.Errorf("roster[0].ID = %d, want 10", d.Modules()[0].ID)
	}
}

func TestBuild_EmptyDeck(t *testing.T) {
	_, err := Build([]Module{{ID: 1, Name: "Empty"}})
	if !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("err = %v, want ErrEmptyDeck", err)
	}

	_, err = Build(nil)
	if !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("err for nil modules = %v, want ErrEmptyDeck", err)
	}
}

func TestCardIDs(t *testing.T) {
	d, err := Build([]Module{
		{ID: 10, Cards: []Card{card(5, "a", "x"), card(7, "b", "y")}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ids := d.CardIDs()
	if len(ids) != 2 || ids[0] != 5 || ids[1] != 7 {
		t.Errorf("CardIDs = %v, want [5 7]", ids)
	}
}
