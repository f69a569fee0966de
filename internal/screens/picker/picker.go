package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akarpov/flashka/internal/api"
	"github.com/akarpov/flashka/internal/deck"
	"github.com/akarpov/flashka/internal/engine"
	"github.com/akarpov/flashka/internal/router"
	"github.com/akarpov/flashka/internal/screen"
	"github.com/akarpov/flashka/internal/screens/study"
	"github.com/akarpov/flashka/internal/store"
	"github.com/akarpov/flashka/internal/ui/components"
	"github.com/akarpov/flashka/internal/ui/layout"
	"github.com/akarpov/flashka/internal/ui/theme"
)

type entryKind int

const (
	kindModule entryKind = iota
	kindCategory
)

type entry struct {
	kind entryKind
	id   int
	name string
}

// deckReadyMsg carries the loaded modules for the chosen material.
type deckReadyMsg struct {
	title      string
	categoryID int
	modules    []deck.Module
}

type loadFailedMsg struct {
	err error
}

// PickerScreen lists the user's modules and categories for selection.
// The same screen serves both modes; the mode only changes which study
// screen gets pushed.
type PickerScreen struct {
	client  *api.Client
	history store.HistoryRepo
	mode    engine.Mode

	entries  []entry
	selected int
	filter   components.FilterInput

	loading bool
	errMsg  string
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a picker over the user's module and category rosters.
func New(client *api.Client, history store.HistoryRepo, mode engine.Mode, user *api.User) *PickerScreen {
	p := &PickerScreen{
		client:  client,
		history: history,
		mode:    mode,
		filter:  components.NewFilterInput("filter..."),
	}
	if user != nil {
		for _, m := range user.Modules {
			p.entries = append(p.entries, entry{kind: kindModule, id: m.ID, name: m.Name})
		}
		for _, c := range user.Categories {
			p.entries = append(p.entries, entry{kind: kindCategory, id: c.ID, name: c.Name})
		}
	}
	return p
}

func (p *PickerScreen) Init() tea.Cmd {
	return nil
}

// HandlesEsc claims esc while the filter is focused, so esc clears the
// filter instead of leaving the screen.
func (p *PickerScreen) HandlesEsc() bool {
	return p.filter.Focused()
}

func (p *PickerScreen) Title() string {
	if p.mode == engine.ModeTest {
		return "Pick material to test"
	}
	return "Pick material to study"
}

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	if p.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "/", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

// visible returns the entries matching the current filter text.
func (p *PickerScreen) visible() []entry {
	q := strings.ToLower(strings.TrimSpace(p.filter.Value()))
	if q == "" {
		return p.entries
	}
	var out []entry
	for _, e := range p.entries {
		if strings.Contains(strings.ToLower(e.name), q) {
			out = append(out, e)
		}
	}
	return out
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deckReadyMsg:
		p.loading = false
		return p, func() tea.Msg {
			return router.PushScreenMsg{
				Screen: study.New(p.client, p.history, study.Params{
					Mode:       p.mode,
					Title:      msg.title,
					CategoryID: msg.categoryID,
					Modules:    msg.modules,
				}),
			}
		}

	case loadFailedMsg:
		p.loading = false
		p.errMsg = msg.err.Error()
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

func (p *PickerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if p.loading {
		return p, nil
	}
	if p.errMsg != "" {
		p.errMsg = ""
		return p, nil
	}

	key := msg.String()

	if p.filter.Focused() {
		switch key {
		case "enter":
			p.filter.Blur()
			p.selected = 0
		case "esc":
			p.filter.Reset()
			p.filter.Blur()
			p.selected = 0
		default:
			var cmd tea.Cmd
			p.filter, cmd = p.filter.Update(msg)
			p.selected = 0
			return p, cmd
		}
		return p, nil
	}

	visible := p.visible()

	switch key {
	case "/":
		return p, p.filter.Focus()
	case "up", "k":
		if p.selected > 0 {
			p.selected--
		}
	case "down", "j":
		if p.selected < len(visible)-1 {
			p.selected++
		}
	case "enter":
		if p.selected >= 0 && p.selected < len(visible) {
			p.loading = true
			return p, p.load(visible[p.selected])
		}
	}
	return p, nil
}

// load fetches the cards behind the chosen entry. Categories resolve to
// their module roster first, then all modules load in one request so the
// deck keeps roster order.
func (p *PickerScreen) load(e entry) tea.Cmd {
	client := p.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if e.kind == kindModule {
			modules, err := client.ModulesByIDs(ctx, []int{e.id})
			if err != nil {
				return loadFailedMsg{err: err}
			}
			return deckReadyMsg{title: e.name, modules: modules}
		}

		cat, err := client.Category(ctx, e.id)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		ids := make([]int, 0, len(cat.Modules))
		for _, m := range cat.Modules {
			ids = append(ids, m.ID)
		}
		modules, err := client.ModulesByIDs(ctx, ids)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return deckReadyMsg{title: cat.Name, categoryID: cat.ID, modules: modules}
	}
}

func (p *PickerScreen) View(width, height int) string {
	if p.loading {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Loading cards...")
	}
	if p.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to continue.", p.errMsg))
	}

	var b strings.Builder

	b.WriteString("  " + p.filter.View())
	b.WriteString("\n\n")

	visible := p.visible()
	if len(visible) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Nothing to show"))
		return b.String()
	}

	lastKind := entryKind(-1)
	for i, e := range visible {
		if e.kind != lastKind {
			header := "Modules"
			if e.kind == kindCategory {
				header = "Categories"
			}
			if lastKind != entryKind(-1) {
				b.WriteString("\n")
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render("  " + header))
			b.WriteString("\n")
			lastKind = e.kind
		}

		line := "    " + e.name
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == p.selected {
			line = "  ▸ " + e.name
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
