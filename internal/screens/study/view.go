package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/akarpov/flashka/internal/engine"
	"github.com/akarpov/flashka/internal/ui/components"
	"github.com/akarpov/flashka/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirmQuit {
		return s.renderQuitConfirm(width)
	}
	if s.sess == nil || s.sess.Finished() {
		return ""
	}

	var b strings.Builder

	b.WriteString(s.renderStatusLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if s.params.Mode == engine.ModeTest {
		b.WriteString(s.renderQuestion(width))
	} else {
		b.WriteString(s.renderFlashcard(width))
	}

	return b.String()
}

// renderStatusLine shows position, counters and the progress bar.
func (s *StudyScreen) renderStatusLine(width int) string {
	correct, incorrect := s.sess.Counters()

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Card %d/%d", s.sess.Index()+1, s.sess.Deck().Len()))

	right := lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d", correct)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ") +
		lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("✗ %d", incorrect))

	bar := components.NewProgressBar("", s.sess.Progress(), false, width/3).View()
	mid := lipgloss.NewStyle().Render(bar)

	gap1 := width/3 - lipgloss.Width(left)
	if gap1 < 1 {
		gap1 = 1
	}
	gap2 := width - lipgloss.Width(left) - gap1 - lipgloss.Width(mid) - lipgloss.Width(right) - 4
	if gap2 < 1 {
		gap2 = 1
	}

	return left + strings.Repeat(" ", gap1) + mid + strings.Repeat(" ", gap2) + right
}

// renderFlashcard draws the current card face. A drag in progress shifts
// the card horizontally and tints the border toward the pending judgment.
func (s *StudyScreen) renderFlashcard(width int) string {
	card, ok := s.sess.Current()
	if !ok {
		return ""
	}

	face := card.Term
	faceLabel := "term"
	if s.sess.Revealed() {
		face = card.Definition
		faceLabel = "definition"
	}

	border := theme.Border
	hint := ""
	dx := s.gest.DeltaX()
	switch {
	case dx > s.gest.DecisionThreshold:
		border = theme.Success
		hint = "release: know it"
	case dx < -s.gest.DecisionThreshold:
		border = theme.Error
		hint = "release: still learning"
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(theme.BgCard).
		Padding(2, 4).
		Width(min(width-10, 56)).
		Align(lipgloss.Center)

	body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(face.Text)
	if face.Lang != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%s · %s", faceLabel, face.Lang))
	}

	rendered := cardStyle.Render(body)

	// Shift the card with the drag, clamped so it stays on screen.
	offset := int(dx / 4)
	maxOffset := (width - lipgloss.Width(rendered)) / 2
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < -maxOffset {
		offset = -maxOffset
	}

	centered := lipgloss.PlaceHorizontal(width, lipgloss.Center, rendered)
	if offset != 0 {
		pos := lipgloss.Left
		pad := maxOffset + offset
		if pad < 0 {
			pad = 0
		}
		centered = lipgloss.PlaceHorizontal(width, pos,
			strings.Repeat(" ", pad)+rendered)
	}

	out := centered
	if hint != "" {
		out += "\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(border).
			Bold(true).
			Render(hint)
	}
	return out
}

// renderQuestion draws the test-mode multiple-choice prompt.
func (s *StudyScreen) renderQuestion(width int) string {
	if s.q == nil {
		return ""
	}

	block := s.mc.View()
	out := lipgloss.PlaceHorizontal(width, lipgloss.Center, block)

	if s.mc.Locked {
		status := "Correct!"
		style := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		if !s.mc.IsCorrect() {
			status = "Not quite"
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		}
		out += "\n" + lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(style.Render(status))
		hint := "Press Enter for the next card"
		if s.onLastCard() {
			hint = "Press Enter to finish"
		}
		out += "\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(hint)
	} else {
		out += "\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Select (1-4) or use arrows + Enter")
	}
	return out
}

func (s *StudyScreen) renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Unanswered cards will count as incorrect."))
	b.WriteString("\n\n")

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		s.quitYes.View(), "   ", s.quitNo.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, buttons))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("←/→ to switch · Enter to confirm"))

	return b.String()
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
