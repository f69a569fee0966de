package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akarpov/flashka/internal/engine"
	"github.com/akarpov/flashka/internal/router"
	"github.com/akarpov/flashka/internal/screen"
	"github.com/akarpov/flashka/internal/store"
	"github.com/akarpov/flashka/internal/ui/layout"
	"github.com/akarpov/flashka/internal/ui/theme"
)

// Config carries everything a finished session hands to the summary:
// the tallies to display, the prepared submission to send, and a factory
// for restarting the same session.
type Config struct {
	Title     string
	Mode      engine.Mode
	Total     int
	Correct   int
	Incorrect int
	Duration  time.Duration
	SessionID string

	// Submit sends the prepared result payload. The payload is captured in
	// the closure, so a retry re-sends the identical value.
	Submit func(context.Context) error

	History store.HistoryRepo

	// Restart builds a fresh study screen over the same material.
	Restart func() screen.Screen
}

type submitState int

const (
	submitPending submitState = iota
	submitOK
	submitFailed
)

// SummaryScreen shows the session outcome and owns result submission.
type SummaryScreen struct {
	cfg       Config
	state     submitState
	submitErr error
	recorded  bool
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary screen; submission starts on Init.
func New(cfg Config) *SummaryScreen {
	return &SummaryScreen{cfg: cfg}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return s.submit()
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "S", Description: "Study again"},
		{Key: "Esc", Description: "Back"},
	}
	if s.state == submitFailed {
		hints = append([]layout.KeyHint{{Key: "R", Description: "Retry upload"}}, hints...)
	}
	return hints
}

type submitDoneMsg struct {
	err error
}

// submit sends the result payload and, on the first attempt only, records
// the session in local history.
func (s *SummaryScreen) submit() tea.Cmd {
	cfg := s.cfg
	first := !s.recorded
	s.recorded = true
	s.state = submitPending

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var err error
		if cfg.Submit != nil {
			err = cfg.Submit(ctx)
		}

		if first && cfg.History != nil {
			_ = cfg.History.Append(ctx, store.SessionRecord{
				SessionID:    cfg.SessionID,
				Mode:         string(cfg.Mode),
				Title:        cfg.Title,
				Total:        cfg.Total,
				Correct:      cfg.Correct,
				Incorrect:    cfg.Incorrect,
				DurationSecs: int(cfg.Duration.Seconds()),
				Submitted:    err == nil,
				FinishedAt:   time.Now(),
			})
		}

		return submitDoneMsg{err: err}
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		if msg.err != nil {
			s.state = submitFailed
			s.submitErr = msg.err
		} else {
			s.state = submitOK
			s.submitErr = nil
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r", "R":
			if s.state == submitFailed {
				return s, s.submit()
			}
		case "s", "S", "enter":
			if s.cfg.Restart != nil {
				restart := s.cfg.Restart
				return s, func() tea.Msg {
					return router.ReplaceScreenMsg{Screen: restart()}
				}
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	heading := "Session complete!"
	if s.cfg.Mode == engine.ModeTest {
		heading = "Test complete!"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(heading))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(s.cfg.Title))
	b.WriteString("\n\n")

	mins := int(s.cfg.Duration.Minutes())
	secs := int(s.cfg.Duration.Seconds()) % 60
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	accuracy := 0.0
	if s.cfg.Total > 0 {
		accuracy = float64(s.cfg.Correct) / float64(s.cfg.Total)
	}
	statsLine := fmt.Sprintf("Cards: %d        Correct: %d        Incorrect: %d        Score: %.0f%%",
		s.cfg.Total, s.cfg.Correct, s.cfg.Incorrect, accuracy*100)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	var statusLine string
	var statusStyle lipgloss.Style
	switch s.state {
	case submitPending:
		statusLine = "Uploading results..."
		statusStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	case submitOK:
		statusLine = "Results saved to server"
		statusStyle = lipgloss.NewStyle().Foreground(theme.Success)
	case submitFailed:
		statusLine = fmt.Sprintf("Upload failed: %v — press R to retry", s.submitErr)
		statusStyle = lipgloss.NewStyle().Foreground(theme.Error)
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(statusStyle.Render(statusLine)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press S to study this again, Esc to go back"))

	return b.String()
}
