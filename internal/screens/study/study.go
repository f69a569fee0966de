package study

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/google/uuid"

	"github.com/akarpov/flashka/internal/api"
	"github.com/akarpov/flashka/internal/deck"
	"github.com/akarpov/flashka/internal/engine"
	"github.com/akarpov/flashka/internal/gesture"
	"github.com/akarpov/flashka/internal/quiz"
	"github.com/akarpov/flashka/internal/results"
	"github.com/akarpov/flashka/internal/router"
	"github.com/akarpov/flashka/internal/screen"
	"github.com/akarpov/flashka/internal/screens/summary"
	"github.com/akarpov/flashka/internal/store"
	"github.com/akarpov/flashka/internal/ui/components"
	"github.com/akarpov/flashka/internal/ui/layout"
)

// Params describes what a study session runs over. CategoryID is zero when
// the learner picked a single module rather than a category.
type Params struct {
	Mode       engine.Mode
	Title      string
	CategoryID int
	Modules    []deck.Module
}

// StudyScreen runs one session over a deck, in either learning or test
// mode. Both modes share the session machine; the mode only changes how a
// card is answered and advanced.
type StudyScreen struct {
	client  *api.Client
	history store.HistoryRepo
	params  Params

	d    *deck.Deck
	sess *engine.Session
	gest *gesture.Interpreter

	// Test mode: current question and its selector.
	q  *quiz.Question
	mc components.MultiChoice

	sessionID   string
	started     time.Time
	confirmQuit bool
	quitYes     components.Button
	quitNo      components.Button
	errMsg      string
}

// quitDecisionMsg carries the end-early dialog's answer.
type quitDecisionMsg struct {
	end bool
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)

// New builds the deck from the given modules and starts a fresh session.
func New(client *api.Client, history store.HistoryRepo, params Params) *StudyScreen {
	s := &StudyScreen{
		client:    client,
		history:   history,
		params:    params,
		gest:      gesture.New(),
		sessionID: uuid.New().String(),
		started:   time.Now(),
	}

	d, err := deck.Build(params.Modules)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.d = d
	s.sess = engine.NewSession(d, params.Mode)

	if params.Mode == engine.ModeTest {
		s.prepareQuestion()
	}
	return s
}

func (s *StudyScreen) Init() tea.Cmd {
	// A deck whose cards all got skipped during question preparation is
	// already finished; hand off to the summary immediately.
	if s.sess != nil && s.sess.Finished() {
		_, cmd := s.finish()
		return cmd
	}
	return nil
}

// HandlesEsc marks esc as session input: it opens the end-early dialog
// instead of navigating back.
func (s *StudyScreen) HandlesEsc() bool {
	return true
}

func (s *StudyScreen) Title() string {
	if s.params.Mode == engine.ModeTest {
		return "Test: " + s.params.Title
	}
	return "Study: " + s.params.Title
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "←→", Description: "Switch"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Y/N", Description: "Shortcuts"},
		}
	}
	if s.params.Mode == engine.ModeTest {
		if s.mc.Locked {
			next := "Next card"
			if s.onLastCard() {
				next = "Finish"
			}
			return []layout.KeyHint{
				{Key: "Enter", Description: next},
				{Key: "Esc", Description: "End early"},
			}
		}
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓", Description: "Move"},
			{Key: "Esc", Description: "End early"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "→ / drag right", Description: "Know it"},
		{Key: "← / drag left", Description: "Still learning"},
		{Key: "Esc", Description: "End early"},
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.handleKey(msg)

	case quitDecisionMsg:
		s.confirmQuit = false
		if msg.end && s.sess != nil {
			s.sess.TerminateEarly()
			return s.finish()
		}
		return s, nil

	case tea.MouseClickMsg:
		if s.canJudge() {
			m := msg.Mouse()
			s.gest.Start(float64(m.X), float64(m.Y))
		}
		return s, nil

	case tea.MouseMotionMsg:
		m := msg.Mouse()
		s.gest.Move(float64(m.X), float64(m.Y))
		return s, nil

	case tea.MouseReleaseMsg:
		m := msg.Mouse()
		s.gest.Move(float64(m.X), float64(m.Y))
		return s.handleGesture(s.gest.End())
	}

	return s, nil
}

// openQuitConfirm arms the end-early dialog with "keep going" focused.
func (s *StudyScreen) openQuitConfirm() {
	s.confirmQuit = true
	s.quitYes = components.NewButton("Yes, end session", false, func() tea.Cmd {
		return func() tea.Msg { return quitDecisionMsg{end: true} }
	})
	s.quitNo = components.NewButton("No, keep going", true, func() tea.Cmd {
		return func() tea.Msg { return quitDecisionMsg{end: false} }
	})
}

// onLastCard reports whether the current card is the deck's final one.
func (s *StudyScreen) onLastCard() bool {
	return s.sess != nil && s.sess.Index() == s.d.Len()-1
}

// canJudge reports whether learning-mode swipe input applies right now.
func (s *StudyScreen) canJudge() bool {
	return s.errMsg == "" && !s.confirmQuit &&
		s.params.Mode == engine.ModeLearning &&
		s.sess != nil && !s.sess.Finished()
}

func (s *StudyScreen) handleGesture(kind gesture.Kind) (screen.Screen, tea.Cmd) {
	if !s.canJudge() {
		return s, nil
	}
	switch kind {
	case gesture.Flip:
		s.sess.ToggleReveal()
	case gesture.Known:
		s.sess.Judge(true)
		return s.afterAnswer()
	case gesture.Unknown:
		s.sess.Judge(false)
		return s.afterAnswer()
	}
	return s, nil
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.sess.TerminateEarly()
			return s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		case "left", "right", "tab":
			s.quitYes.Active = !s.quitYes.Active
			s.quitNo.Active = !s.quitNo.Active
		case "enter":
			var cmd tea.Cmd
			if s.quitYes.Active {
				s.quitYes, cmd = s.quitYes.Update(msg)
			} else {
				s.quitNo, cmd = s.quitNo.Update(msg)
			}
			return s, cmd
		}
		return s, nil
	}

	if key == "esc" {
		s.openQuitConfirm()
		return s, nil
	}

	if s.sess == nil || s.sess.Finished() {
		return s, nil
	}

	if s.params.Mode == engine.ModeTest {
		return s.handleTestKey(msg)
	}

	switch key {
	case " ", "space", "enter":
		s.sess.ToggleReveal()
	case "right", "l":
		s.sess.Judge(true)
		return s.afterAnswer()
	case "left", "h":
		s.sess.Judge(false)
		return s.afterAnswer()
	}
	return s, nil
}

func (s *StudyScreen) handleTestKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.mc.Locked {
		switch msg.String() {
		case "enter", " ", "space", "right", "n":
			s.sess.Advance()
			if s.sess.Finished() {
				return s.finish()
			}
			s.prepareQuestion()
			if s.sess.Finished() {
				return s.finish()
			}
		}
		return s, nil
	}

	wasLocked := s.mc.Locked
	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)

	if s.mc.Locked && !wasLocked {
		if s.mc.IsCorrect() {
			s.sess.RecordOutcome(engine.OutcomeCorrect)
		} else {
			s.sess.RecordOutcome(engine.OutcomeIncorrect)
		}
	}
	return s, cmd
}

// afterAnswer checks for session completion after a learning judgment.
func (s *StudyScreen) afterAnswer() (screen.Screen, tea.Cmd) {
	if s.sess.Finished() {
		return s.finish()
	}
	return s, nil
}

// prepareQuestion generates the question for the current card, skipping
// cards that cannot produce one. A skipped card still gets an incorrect
// outcome so the session ends with every card accounted for. Each visit
// regenerates, so choice order never repeats between passes.
func (s *StudyScreen) prepareQuestion() {
	for !s.sess.Finished() {
		q, err := quiz.Generate(s.d, s.sess.Index(), quiz.DefaultArity)
		if err == nil {
			s.q = q
			s.mc = components.NewMultiChoice(q.Term, q.Choices, q.CorrectIndex())
			return
		}
		if errors.Is(err, quiz.ErrInvalidCard) {
			s.sess.RecordOutcome(engine.OutcomeIncorrect)
			s.sess.Advance()
			continue
		}
		s.errMsg = err.Error()
		return
	}
}

// finish hands the completed session off to the summary screen, which owns
// result submission and history recording. The summary replaces this screen
// so Esc returns to the picker, not a dead session.
func (s *StudyScreen) finish() (screen.Screen, tea.Cmd) {
	correct, incorrect := s.sess.Counters()
	outcomes := s.sess.Outcomes()
	duration := time.Since(s.started)

	var submit func(context.Context) error
	if s.params.CategoryID != 0 {
		sub := results.BuildCategorySubmission(s.params.CategoryID, s.d, outcomes, s.params.Mode, time.Now())
		submit = func(ctx context.Context) error {
			return s.client.SubmitCategoryResult(ctx, sub)
		}
	} else {
		sub := results.BuildModuleSubmission(s.d, outcomes, s.params.Mode, time.Now())
		submit = func(ctx context.Context) error {
			return s.client.SubmitModuleResult(ctx, sub)
		}
	}

	client, history, params := s.client, s.history, s.params
	cfg := summary.Config{
		Title:     s.params.Title,
		Mode:      s.params.Mode,
		Total:     s.d.Len(),
		Correct:   correct,
		Incorrect: incorrect,
		Duration:  duration,
		SessionID: s.sessionID,
		Submit:    submit,
		History:   s.history,
		Restart: func() screen.Screen {
			return New(client, history, params)
		},
	}

	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(cfg)}
	}
}
