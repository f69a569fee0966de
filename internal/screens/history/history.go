package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akarpov/flashka/internal/screen"
	"github.com/akarpov/flashka/internal/store"
	"github.com/akarpov/flashka/internal/ui/layout"
	"github.com/akarpov/flashka/internal/ui/theme"
)

const recentLimit = 50

type historyLoadedMsg struct {
	records []store.SessionRecord
	err     error
}

// HistoryScreen displays recent sessions from the local store. It works
// without a server connection.
type HistoryScreen struct {
	repo    store.HistoryRepo
	records []store.SessionRecord
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates the history screen; records load on Init.
func New(repo store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo}
}

func (h *HistoryScreen) Init() tea.Cmd {
	repo := h.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		recs, err := repo.Recent(ctx, recentLimit)
		return historyLoadedMsg{records: recs, err: err}
	}
}

func (h *HistoryScreen) Title() string {
	return "History"
}

func (h *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (h *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(historyLoadedMsg); ok {
		h.loaded = true
		if msg.err != nil {
			h.errMsg = msg.err.Error()
		} else {
			h.records = msg.records
		}
	}
	return h, nil
}

func (h *HistoryScreen) View(width, height int) string {
	if !h.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if h.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n  Error: " + h.errMsg)
	}
	if len(h.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No sessions yet. Study something first!")
	}

	var b strings.Builder
	b.WriteString("\n")

	header := fmt.Sprintf("  %-16s %-10s %-24s %-12s %-8s %s",
		"When", "Mode", "Material", "Score", "Time", "Synced")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(header))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(
		"  " + strings.Repeat("─", max(width-6, 0))))
	b.WriteString("\n")

	for _, rec := range h.records {
		when := rec.FinishedAt.Local().Format("Jan 02 15:04")

		title := truncateTitle(rec.Title, 22)

		score := fmt.Sprintf("%d/%d", rec.Correct, rec.Total)

		mins := rec.DurationSecs / 60
		secs := rec.DurationSecs % 60
		dur := fmt.Sprintf("%d:%02d", mins, secs)

		synced := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		if rec.Submitted {
			synced = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		}

		line := fmt.Sprintf("  %-16s %-10s %-24s %-12s %-8s ",
			when, rec.Mode, title, score, dur)
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line) + synced)
		b.WriteString("\n")
	}

	return b.String()
}

// truncateTitle shortens a title to at most width cells, counting runes so
// non-ASCII module names never get cut mid-character.
func truncateTitle(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
