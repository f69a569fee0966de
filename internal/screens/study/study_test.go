package study

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/akarpov/flashka/internal/api"
	"github.com/akarpov/flashka/internal/deck"
	"github.com/akarpov/flashka/internal/engine"
	"github.com/akarpov/flashka/internal/gesture"
	"github.com/akarpov/flashka/internal/router"
	"github.com/akarpov/flashka/internal/screens/summary"
	"github.com/akarpov/flashka/internal/ui/layout"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testModules() []deck.Module {
	return []deck.Module{{
		ID:   10,
		Name: "Animals",
		Cards: []deck.Card{
			{ID: 1, Term: deck.Side{Text: "cat", Lang: "en"}, Definition: deck.Side{Text: "кот", Lang: "ru"}},
			{ID: 2, Term: deck.Side{Text: "dog", Lang: "en"}, Definition: deck.Side{Text: "пёс", Lang: "ru"}},
			{ID: 3, Term: deck.Side{Text: "fox", Lang: "en"}, Definition: deck.Side{Text: "лиса", Lang: "ru"}},
		},
	}}
}

func newTestScreen(mode engine.Mode) *StudyScreen {
	client := api.New("http://localhost:0", "test-token")
	return New(client, nil, Params{
		Mode:    mode,
		Title:   "Animals",
		Modules: testModules(),
	})
}

func TestLearningFlipAndJudge(t *testing.T) {
	s := newTestScreen(engine.ModeLearning)

	if s.sess.Revealed() {
		t.Fatal("card should start on its term side")
	}

	s.Update(specialKey(tea.KeySpace))
	if !s.sess.Revealed() {
		t.Error("space should flip the card")
	}

	s.Update(specialKey(tea.KeyRight))
	if s.sess.Index() != 1 {
		t.Errorf("right should judge and advance, index = %d", s.sess.Index())
	}
	if s.sess.Revealed() {
		t.Error("new card should start unrevealed")
	}

	correct, incorrect := s.sess.Counters()
	if correct != 1 || incorrect != 0 {
		t.Errorf("counters = %d/%d, want 1/0", correct, incorrect)
	}

	s.Update(specialKey(tea.KeyLeft))
	correct, incorrect = s.sess.Counters()
	if correct != 1 || incorrect != 1 {
		t.Errorf("counters = %d/%d, want 1/1", correct, incorrect)
	}
}

func TestLearningFinishReplacesWithSummary(t *testing.T) {
	s := newTestScreen(engine.ModeLearning)

	s.Update(specialKey(tea.KeyRight))
	s.Update(specialKey(tea.KeyRight))
	_, cmd := s.Update(specialKey(tea.KeyLeft))

	if !s.sess.Finished() {
		t.Fatal("session should be finished after judging all cards")
	}
	if cmd == nil {
		t.Fatal("expected a command after the last judgment")
	}
	msg := cmd()
	rep, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if _, ok := rep.Screen.(*summary.SummaryScreen); !ok {
		t.Fatalf("expected summary screen, got %T", rep.Screen)
	}
}

func TestGestureJudgesCard(t *testing.T) {
	s := newTestScreen(engine.ModeLearning)

	s.gest.Start(10, 5)
	s.gest.Move(150, 7)
	s.handleGesture(s.gest.End())

	correct, _ := s.sess.Counters()
	if correct != 1 {
		t.Errorf("swipe right should count correct, got %d", correct)
	}
	if s.sess.Index() != 1 {
		t.Errorf("swipe should advance, index = %d", s.sess.Index())
	}
}

func TestGestureTapFlips(t *testing.T) {
	s := newTestScreen(engine.ModeLearning)

	s.gest.Start(10, 5)
	s.handleGesture(s.gest.End())

	if !s.sess.Revealed() {
		t.Error("tap should flip the card")
	}
	if s.sess.Index() != 0 {
		t.Error("tap should not advance")
	}
}

func TestGestureCancelSnapsBack(t *testing.T) {
	s := newTestScreen(engine.ModeLearning)

	s.gest.Start(10, 5)
	s.gest.Move(60, 6) // past drag threshold, short of decision threshold
	s.handleGesture(s.gest.End())

	correct, incorrect := s.sess.Counters()
	if correct != 0 || incorrect != 0 {
		t.Errorf("cancelled drag must not judge, counters = %d/%d", correct, incorrect)
	}
	if s.sess.Index() != 0 {
		t.Error("cancelled drag must not advance")
	}
}

func TestGestureIgnoredInTestMode(t *testing.T) {
	s := newTestScreen(engine.ModeTest)

	s.gest.Start(10, 5)
	s.gest.Move(200, 5)
	s.handleGesture(gesture.Known)

	correct, incorrect := s.sess.Counters()
	if correct != 0 || incorrect != 0 {
		t.Errorf("swipes must not judge in test mode, counters = %d/%d", correct, incorrect)
	}
}

func TestTestModeAnswerLocksAndAdvances(t *testing.T) {
	s := newTestScreen(engine.ModeTest)

	if s.q == nil {
		t.Fatal("expected a prepared question")
	}

	// Answer with the correct choice's number key.
	idx := s.q.CorrectIndex()
	s.Update(keyPress(rune('1' + idx)))

	if !s.mc.Locked {
		t.Fatal("answer should lock the question")
	}
	correct, _ := s.sess.Counters()
	if correct != 1 {
		t.Errorf("correct answer should count, got %d", correct)
	}
	if s.sess.Index() != 0 {
		t.Error("locking must not auto-advance")
	}

	// Further answers are ignored while locked.
	s.Update(keyPress('1'))
	correct, incorrect := s.sess.Counters()
	if correct != 1 || incorrect != 0 {
		t.Errorf("locked question must not re-count, counters = %d/%d", correct, incorrect)
	}

	// Enter advances to a fresh question.
	s.Update(specialKey(tea.KeyEnter))
	if s.sess.Index() != 1 {
		t.Errorf("enter should advance, index = %d", s.sess.Index())
	}
	if s.mc.Locked {
		t.Error("next question should start unlocked")
	}
}

func TestTestModeFinish(t *testing.T) {
	s := newTestScreen(engine.ModeTest)

	var finished tea.Cmd
	for i := 0; i < 3; i++ {
		idx := s.q.CorrectIndex()
		s.Update(keyPress(rune('1' + idx)))
		_, finished = s.Update(specialKey(tea.KeyEnter))
	}

	if !s.sess.Finished() {
		t.Fatal("session should finish after the last card")
	}
	if finished == nil {
		t.Fatal("expected a command after the last advance")
	}
	if _, ok := finished().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg after finish")
	}
}

func TestTestModeSkippedCardCountsIncorrect(t *testing.T) {
	client := api.New("http://localhost:0", "test-token")
	s := New(client, nil, Params{
		Mode:  engine.ModeTest,
		Title: "Animals",
		Modules: []deck.Module{{
			ID:   10,
			Name: "Animals",
			Cards: []deck.Card{
				{ID: 1, Term: deck.Side{Text: "cat"}, Definition: deck.Side{Text: "кот"}},
				{ID: 2, Term: deck.Side{Text: "dog"}}, // no definition: unanswerable
				{ID: 3, Term: deck.Side{Text: "fox"}, Definition: deck.Side{Text: "лиса"}},
			},
		}},
	})

	// Only the two valid cards ever present a question; the middle card is
	// skipped during preparation.
	var cmd tea.Cmd
	for i := 0; i < 2; i++ {
		idx := s.q.CorrectIndex()
		s.Update(keyPress(rune('1' + idx)))
		_, cmd = s.Update(specialKey(tea.KeyEnter))
	}

	if !s.sess.Finished() {
		t.Fatal("session should finish after the last answerable card")
	}
	correct, incorrect := s.sess.Counters()
	if correct != 2 || incorrect != 1 {
		t.Errorf("counters = %d/%d, want 2/1", correct, incorrect)
	}
	outcomes := s.sess.Outcomes()
	if len(outcomes) != 3 {
		t.Fatalf("outcomes cover %d cards, want all 3", len(outcomes))
	}
	if outcomes[2] != engine.OutcomeIncorrect {
		t.Errorf("skipped card outcome = %q, want incorrect", outcomes[2])
	}
	if cmd == nil {
		t.Fatal("expected summary handoff after finish")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg after finish")
	}
}

func TestTestModeAllCardsInvalidFinishesImmediately(t *testing.T) {
	client := api.New("http://localhost:0", "test-token")
	s := New(client, nil, Params{
		Mode:  engine.ModeTest,
		Title: "Broken",
		Modules: []deck.Module{{
			ID:   10,
			Name: "Broken",
			Cards: []deck.Card{
				{ID: 1, Term: deck.Side{Text: "cat"}},
				{ID: 2, Term: deck.Side{Text: "dog"}},
			},
		}},
	})

	if !s.sess.Finished() {
		t.Fatal("all-invalid deck should finish during preparation")
	}
	correct, incorrect := s.sess.Counters()
	if correct != 0 || incorrect != 2 {
		t.Errorf("counters = %d/%d, want 0/2", correct, incorrect)
	}
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("Init should hand off to the summary")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg from Init")
	}
}

func TestLastCardHintOffersFinish(t *testing.T) {
	s := newTestScreen(engine.ModeTest)

	// Mid-deck, a locked answer advertises the next card.
	s.Update(keyPress(rune('1' + s.q.CorrectIndex())))
	if !hintsContain(s.KeyHints(), "Next card") {
		t.Error("mid-deck locked hints should offer the next card")
	}
	if hintsContain(s.KeyHints(), "Finish") {
		t.Error("mid-deck locked hints must not offer finish")
	}

	// Advance to the last card and lock it.
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress(rune('1' + s.q.CorrectIndex())))
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress(rune('1' + s.q.CorrectIndex())))

	if !s.onLastCard() {
		t.Fatal("expected to be on the final card")
	}
	if !hintsContain(s.KeyHints(), "Finish") {
		t.Error("last-card locked hints should offer finish")
	}
	if hintsContain(s.KeyHints(), "Next card") {
		t.Error("last-card locked hints must not offer a next card")
	}
}

func hintsContain(hints []layout.KeyHint, desc string) bool {
	for _, h := range hints {
		if h.Description == desc {
			return true
		}
	}
	return false
}

func TestQuitConfirmButtons(t *testing.T) {
	s := newTestScreen(engine.ModeLearning)

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("esc should open the end-early dialog")
	}
	if s.quitYes.Active || !s.quitNo.Active {
		t.Fatal("dialog should focus the keep-going button first")
	}

	// Enter on the focused No button dismisses without ending.
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a decision command from the button")
	}
	s.Update(cmd())
	if s.confirmQuit || s.sess.Finished() {
		t.Fatal("confirming No should dismiss the dialog without ending")
	}

	// Reopen, switch focus to Yes, confirm.
	s.Update(specialKey(tea.KeyEscape))
	s.Update(specialKey(tea.KeyLeft))
	if !s.quitYes.Active || s.quitNo.Active {
		t.Fatal("left should move focus to the end-session button")
	}
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a decision command from the button")
	}
	_, cmd = s.Update(cmd())
	if !s.sess.Finished() {
		t.Fatal("confirming Yes should end the session")
	}
	correct, incorrect := s.sess.Counters()
	if correct != 0 || incorrect != 3 {
		t.Errorf("counters = %d/%d, want 0/3", correct, incorrect)
	}
	if cmd == nil {
		t.Fatal("expected summary handoff after early end")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg after early end")
	}
}

func TestQuitConfirmTerminatesEarly(t *testing.T) {
	s := newTestScreen(engine.ModeLearning)

	s.Update(specialKey(tea.KeyRight)) // one correct
	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("esc should open the end-early dialog")
	}

	// N keeps going.
	s.Update(keyPress('n'))
	if s.confirmQuit || s.sess.Finished() {
		t.Fatal("n should dismiss the dialog without ending")
	}

	// Y ends, defaulting unanswered cards to incorrect.
	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if !s.sess.Finished() {
		t.Fatal("y should end the session")
	}
	correct, incorrect := s.sess.Counters()
	if correct != 1 || incorrect != 2 {
		t.Errorf("counters = %d/%d, want 1/2", correct, incorrect)
	}
	if cmd == nil {
		t.Fatal("expected summary handoff after early end")
	}
}

func TestEmptyDeckShowsError(t *testing.T) {
	client := api.New("http://localhost:0", "test-token")
	s := New(client, nil, Params{
		Mode:    engine.ModeLearning,
		Title:   "Empty",
		Modules: []deck.Module{{ID: 1, Name: "Empty"}},
	})

	if s.errMsg == "" {
		t.Fatal("expected an error for an empty deck")
	}

	// Any key goes back.
	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
