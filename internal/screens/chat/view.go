package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tanmay/resona/internal/transcript"
	"github.com/tanmay/resona/internal/ui/layout"
	"github.com/tanmay/resona/internal/ui/theme"
)

const (
	hintPanelWidth = 32
	statusHeight   = 3
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (c *ChatScreen) View(width, height int) string {
	switch c.phase {
	case phaseLoading:
		return c.renderLoading(width, height)
	case phaseConfirm:
		return renderConfirm(width, height)
	}

	if c.session == nil {
		return c.renderStartupError(width, height)
	}
	return c.renderMain(width, height)
}

func (c *ChatScreen) renderMain(width, height int) string {
	var b strings.Builder

	topicBar := c.renderTopicBar(width)
	b.WriteString(topicBar)
	b.WriteString("\n")

	logH := height - lipgloss.Height(topicBar) - statusHeight - 1
	if logH < 1 {
		logH = 1
	}

	var logBlock string
	if layout.IsCompactWidth(width) {
		logBlock = lipgloss.NewStyle().
			Width(width).
			Height(logH).
			Render(c.renderLog(width-2, logH))
	} else {
		paneW := width - hintPanelWidth - 3
		pane := lipgloss.NewStyle().
			Width(paneW).
			Height(logH).
			Render(c.renderLog(paneW, logH))
		logBlock = lipgloss.JoinHorizontal(lipgloss.Top, " ", pane, " ", c.renderHintPanel(hintPanelWidth))
	}
	b.WriteString(logBlock)
	b.WriteString("\n")

	b.WriteString(c.renderStatus(width))
	return b.String()
}

// renderTopicBar shows where the session is: position in the window on
// the left, position in the whole curriculum on the right.
func (c *ChatScreen) renderTopicBar(width int) string {
	n := len(c.window)

	var left string
	if topic, ok := c.currentTopic(); ok {
		left = fmt.Sprintf("  Topic %d of %d: %s", c.turn+1, n, topic.Name)
	} else {
		left = "  Wrapping up"
	}
	leftStyled := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(left)

	overall := c.session.StartIndex() + c.turn + 1
	if overall > c.reg.Len() {
		overall = c.reg.Len()
	}
	rightStyled := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("curriculum %d/%d", overall, c.reg.Len()))

	bar := leftStyled
	pad := width - lipgloss.Width(leftStyled) - lipgloss.Width(rightStyled) - 4
	if pad > 0 {
		bar += strings.Repeat(" ", pad) + rightStyled
	}

	lines := []string{bar}
	if layout.IsCompactWidth(width) {
		if kw := c.keywordLine(width - 4); kw != "" {
			lines = append(lines, kw)
		}
	}
	lines = append(lines, lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("─", max(width-4, 0))))

	return strings.Join(lines, "\n")
}

// keywordLine is the single-line keyword hint used on narrow terminals.
func (c *ChatScreen) keywordLine(width int) string {
	topic, ok := c.currentTopic()
	if !ok {
		return ""
	}
	kws := c.reg.KeywordsFor(topic.Name)
	if len(kws) == 0 {
		return ""
	}
	line := "  💡 " + strings.Join(kws, " · ")
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(truncate(line, width))
}

// renderHintPanel is the boxed keyword and resource panel shown on wide
// terminals.
func (c *ChatScreen) renderHintPanel(width int) string {
	topic, ok := c.currentTopic()
	if !ok {
		return ""
	}

	var parts []string
	parts = append(parts, lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render("💡 Key ideas"))

	kws := c.reg.KeywordsFor(topic.Name)
	if len(kws) == 0 {
		parts = append(parts, theme.Hint.Render("none listed"))
	}
	for _, kw := range kws {
		parts = append(parts, theme.Body.Render("• "+kw))
	}

	if res := c.reg.ResourceFor(topic.Name); res != nil {
		parts = append(parts, "")
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Render("📖 Review"))
		parts = append(parts, theme.Body.Render(res.Label))
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Underline(true).
			Render(res.URL))
	}

	return theme.Card.Width(width).Render(strings.Join(parts, "\n"))
}

// renderLog renders the visible slice of the conversation.
func (c *ChatScreen) renderLog(width, height int) string {
	lines := c.renderLogLines(width)
	if len(lines) <= height {
		return strings.Join(lines, "\n")
	}
	top := len(lines) - height - c.scrollUp
	if top < 0 {
		top = 0
	}
	return strings.Join(lines[top:top+height], "\n")
}

func (c *ChatScreen) renderLogLines(width int) []string {
	if width < 10 {
		width = 10
	}

	companionLabel := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("AI Companion")
	participantLabel := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("You")

	var lines []string
	for _, m := range c.messages {
		if m.Role == transcript.RoleCompanion {
			lines = append(lines, companionLabel)
		} else {
			lines = append(lines, participantLabel)
		}

		style := theme.Body
		if m.Role == transcript.RoleParticipant && transcript.IsSkipMarker(m.Content) {
			style = theme.Hint
		}
		wrapped := style.Width(width).Render(m.Content)
		lines = append(lines, strings.Split(wrapped, "\n")...)
		lines = append(lines, "")
	}
	return lines
}

// renderStatus is the fixed-height strip under the log: the input, the
// spinner or the error banner, depending on phase.
func (c *ChatScreen) renderStatus(width int) string {
	divider := lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("─", max(width-4, 0)))

	switch c.phase {
	case phaseThinking:
		label := "Thinking..."
		if c.finishing {
			label = "Grading your session..."
		}
		frame := spinnerFrames[c.spinFrame%len(spinnerFrames)]
		line := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %s %s", frame, label))
		return divider + "\n" + line + "\n"

	case phaseFailed:
		msg := "  ✗ " + truncate(c.errMsg, width-6)
		msgStyle := lipgloss.NewStyle().Foreground(theme.Error)
		if c.rateLimited {
			msg = "  ⏳ Rate limited: " + truncate(c.errMsg, width-20)
			msgStyle = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		choices := "  [R] Try again   [F] Finish with what we have"
		return divider + "\n" + msgStyle.Render(msg) + "\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(choices)

	default:
		answer := "  Answer: " + c.input.View()
		return divider + "\n" + answer + "\n"
	}
}

func (c *ChatScreen) renderLoading(width, height int) string {
	frame := spinnerFrames[c.spinFrame%len(spinnerFrames)]
	content := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("%s Starting your session...", frame)) +
		"\n\n" +
		theme.Hint.Render("your learning companion is getting ready")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (c *ChatScreen) renderStartupError(width, height int) string {
	msg := lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Render("Couldn't start the session")

	detail := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(truncate(c.errMsg, max(width-10, 20)))

	choices := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("[R] Try again   [Esc] Quit")

	content := msg + "\n\n" + detail + "\n\n" + choices
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderConfirm(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Finish session early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("Your answers so far will be graded and saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Success).
		Render("[Y] Yes, finish now"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// logViewHeight mirrors renderMain's layout math for scroll clamping,
// using the dimensions captured from the last window size message.
func (c *ChatScreen) logViewHeight() int {
	chrome := 3 + statusHeight
	if layout.IsCompactWidth(c.width) {
		chrome++
	}
	h := layout.ContentHeight(c.height) - chrome
	if h < 1 {
		return 1
	}
	return h
}

func (c *ChatScreen) maxScroll() int {
	paneW := c.width - 2
	if !layout.IsCompactWidth(c.width) {
		paneW = c.width - hintPanelWidth - 3
	}
	lines := len(c.renderLogLines(paneW))
	visible := c.logViewHeight()
	if lines <= visible {
		return 0
	}
	return lines - visible
}

func truncate(s string, limit int) string {
	if limit < 4 {
		limit = 4
	}
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
