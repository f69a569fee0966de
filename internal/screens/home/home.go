package home

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/akarpov/flashka/internal/api"
	"github.com/akarpov/flashka/internal/engine"
	"github.com/akarpov/flashka/internal/router"
	"github.com/akarpov/flashka/internal/screen"
	"github.com/akarpov/flashka/internal/screens/history"
	"github.com/akarpov/flashka/internal/screens/picker"
	"github.com/akarpov/flashka/internal/store"
	"github.com/akarpov/flashka/internal/ui/components"
	"github.com/akarpov/flashka/internal/ui/theme"
)

// userLoadedMsg carries the profile fetched at startup.
type userLoadedMsg struct {
	user *api.User
	err  error
}

// HomeScreen is the entry screen: it loads the profile and offers the
// study, test and history flows.
type HomeScreen struct {
	client  *api.Client
	history store.HistoryRepo

	menu    components.Menu
	user    *api.User
	loadErr string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. The profile loads asynchronously on Init;
// study and test stay disabled until it arrives.
func New(client *api.Client, historyRepo store.HistoryRepo) *HomeScreen {
	h := &HomeScreen{
		client:  client,
		history: historyRepo,
	}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

// User returns the loaded profile, nil until the fetch completes.
func (h *HomeScreen) User() *api.User {
	return h.user
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	loaded := h.user != nil

	pushPicker := func(mode engine.Mode) func() tea.Cmd {
		return func() tea.Cmd {
			user := h.user
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: picker.New(h.client, h.history, mode, user),
				}
			}
		}
	}

	return []components.MenuItem{
		{Label: "STUDY", Disabled: !loaded, Action: pushPicker(engine.ModeLearning)},
		{Label: "TAKE A TEST", Disabled: !loaded, Action: pushPicker(engine.ModeTest)},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.history)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadUser()
}

func (h *HomeScreen) loadUser() tea.Cmd {
	client := h.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := client.Me(ctx)
		return userLoadedMsg{user: user, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case userLoadedMsg:
		if msg.err != nil {
			h.loadErr = msg.err.Error()
			return h, nil
		}
		h.user = msg.user
		h.loadErr = ""
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		h.menu.Selected = selected
		return h, nil

	case tea.KeyMsg:
		if h.loadErr != "" && msg.String() == "r" {
			h.loadErr = ""
			return h, h.loadUser()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("FLASHKA"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("flashcards in your terminal"))
	b.WriteString("\n\n")

	switch {
	case h.loadErr != "":
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Could not load your profile: " + h.loadErr))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Press R to retry. History still works offline."))
	case h.user == nil:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Loading your profile..."))
	default:
		line := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(welcomeLine(h.user))
		b.WriteString(line)
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return b.String()
}

func welcomeLine(u *api.User) string {
	var parts []string
	parts = append(parts, "Welcome back, "+u.Name)
	if n := len(u.Modules); n > 0 {
		parts = append(parts, plural(n, "module"))
	}
	if n := len(u.Categories); n > 0 {
		parts = append(parts, plural(n, "category"))
	}
	return strings.Join(parts, "  ·  ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if noun == "category" {
		return strconv.Itoa(n) + " categories"
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func (h *HomeScreen) Title() string {
	return "Home"
}
