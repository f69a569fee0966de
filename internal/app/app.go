package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akarpov/flashka/internal/api"
	"github.com/akarpov/flashka/internal/router"
	"github.com/akarpov/flashka/internal/screen"
	"github.com/akarpov/flashka/internal/screens/home"
	"github.com/akarpov/flashka/internal/store"
	"github.com/akarpov/flashka/internal/ui/layout"
)

// Options carries the collaborators the UI needs.
type Options struct {
	Client  *api.Client
	History store.HistoryRepo
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	home   *home.HomeScreen
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Client, opts.History)
	return AppModel{
		router: router.New(homeScreen),
		home:   homeScreen,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.home.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				// Screens with their own esc handling (quit confirm, filter)
				// get the key first; they swallow it by returning a non-nil
				// model change. The router Pop only fires when the active
				// screen did not claim it.
				if claimsEsc(m.router.Active()) {
					break
				}
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// EscHandler is implemented by screens that consume the esc key themselves
// (confirmation dialogs, filter inputs) instead of navigating back.
type EscHandler interface {
	HandlesEsc() bool
}

func claimsEsc(s screen.Screen) bool {
	if h, ok := s.(EscHandler); ok {
		return h.HandlesEsc()
	}
	return false
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	userName := ""
	if u := m.home.User(); u != nil {
		userName = u.Name
	}

	header := layout.RenderHeader(title, userName, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. Mouse cell motion is enabled so the
// flashcard view can track drags.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
