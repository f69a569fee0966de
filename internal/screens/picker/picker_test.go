package picker

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/akarpov/flashka/internal/api"
	"github.com/akarpov/flashka/internal/deck"
	"github.com/akarpov/flashka/internal/engine"
	"github.com/akarpov/flashka/internal/router"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testUser() *api.User {
	return &api.User{
		ID:   1,
		Name: "masha",
		Modules: []api.ModuleInfo{
			{ID: 10, Name: "Animals"},
			{ID: 20, Name: "Food"},
		},
		Categories: []api.CategoryInfo{
			{ID: 3, Name: "Basics"},
		},
	}
}

func TestEntriesFromRoster(t *testing.T) {
	p := New(nil, nil, engine.ModeLearning, testUser())

	if len(p.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(p.entries))
	}
	if p.entries[0].kind != kindModule || p.entries[0].name != "Animals" {
		t.Errorf("first entry = %+v, want module Animals", p.entries[0])
	}
	if p.entries[2].kind != kindCategory || p.entries[2].name != "Basics" {
		t.Errorf("last entry = %+v, want category Basics", p.entries[2])
	}
}

func TestNilUserYieldsEmptyPicker(t *testing.T) {
	p := New(nil, nil, engine.ModeLearning, nil)
	if len(p.entries) != 0 {
		t.Errorf("expected no entries, got %d", len(p.entries))
	}
}

func TestFilterNarrowsList(t *testing.T) {
	p := New(nil, nil, engine.ModeLearning, testUser())

	p.Update(keyPress('/'))
	if !p.filter.Focused() {
		t.Fatal("'/' should focus the filter")
	}

	p.Update(keyPress('f'))
	p.Update(keyPress('o'))

	visible := p.visible()
	if len(visible) != 1 || visible[0].name != "Food" {
		t.Fatalf("expected only Food, got %+v", visible)
	}

	// Esc clears the filter and restores the full list.
	p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if p.filter.Focused() {
		t.Error("esc should blur the filter")
	}
	if len(p.visible()) != 3 {
		t.Errorf("expected full list after clearing, got %d", len(p.visible()))
	}
}

func TestNavigationClamps(t *testing.T) {
	p := New(nil, nil, engine.ModeLearning, testUser())

	p.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if p.selected != 0 {
		t.Errorf("selection should clamp at top, got %d", p.selected)
	}

	for i := 0; i < 10; i++ {
		p.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if p.selected != 2 {
		t.Errorf("selection should clamp at bottom, got %d", p.selected)
	}
}

func TestDeckReadyPushesStudyScreen(t *testing.T) {
	p := New(nil, nil, engine.ModeTest, testUser())

	_, cmd := p.Update(deckReadyMsg{
		title: "Animals",
		modules: []deck.Module{{
			ID:    10,
			Name:  "Animals",
			Cards: []deck.Card{{ID: 1, Term: deck.Side{Text: "cat"}, Definition: deck.Side{Text: "кот"}}},
		}},
	})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatal("expected PushScreenMsg")
	}
}

func TestLoadFailureShowsError(t *testing.T) {
	p := New(nil, nil, engine.ModeLearning, testUser())
	p.loading = true

	p.Update(loadFailedMsg{err: errTest})
	if p.loading {
		t.Error("loading should clear on failure")
	}
	if p.errMsg == "" {
		t.Error("expected an error message")
	}

	// Any key dismisses the error.
	p.Update(keyPress('x'))
	if p.errMsg != "" {
		t.Error("key press should dismiss the error")
	}
}

var errTest = errFake("server unavailable")

type errFake string

func (e errFake) Error() string { return string(e) }
