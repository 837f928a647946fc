package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tanmay/resona/internal/grading"
	"github.com/tanmay/resona/internal/router"
	"github.com/tanmay/resona/internal/screen"
	sess "github.com/tanmay/resona/internal/session"
	"github.com/tanmay/resona/internal/ui/components"
	"github.com/tanmay/resona/internal/ui/layout"
	"github.com/tanmay/resona/internal/ui/theme"
)

// SummaryScreen displays the graded outcome of a finished session.
type SummaryScreen struct {
	session     *sess.Session
	outcome     *sess.Outcome
	homeFactory func() screen.Screen
	menu        components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. homeFactory builds the screen shown when
// the participant starts over.
func New(session *sess.Session, outcome *sess.Outcome, homeFactory func() screen.Screen) *SummaryScreen {
	items := []components.MenuItem{
		{Label: "Start another session", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: homeFactory()}
			}
		}},
		{Label: "Exit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &SummaryScreen{
		session:     session,
		outcome:     outcome,
		homeFactory: homeFactory,
		menu:        components.NewMenu(items),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		home := s.homeFactory()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: home} }
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	out := s.outcome
	if out == nil {
		return ""
	}
	res := out.Result

	var b strings.Builder

	// Title.
	b.WriteString(theme.Title.Width(width).Render("Session complete!"))
	b.WriteString("\n\n")

	// Who and how much ground was covered.
	covered := s.session.CoveredTopics()
	noun := "topics"
	if len(covered) == 1 {
		noun = "topic"
	}
	b.WriteString(theme.Subtitle.Width(width).
		Render(fmt.Sprintf("%s · %d %s discussed", s.session.ParticipantID(), len(covered), noun)))
	b.WriteString("\n\n")

	// Score line with the pass/fail badge.
	badge := theme.Pass.Render(res.Status)
	if res.Status != grading.StatusPass {
		badge = theme.Fail.Render(res.Status)
	}
	scoreLine := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("Score: %d/100", res.Score)) + "   " + badge
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, scoreLine))
	b.WriteString("\n")

	if !res.Graded {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).
				Render("default grade (the evaluator was unreachable)")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))

	// Sub-scores, when the evaluator provided them.
	if res.Correctness != 0 || res.Understanding != 0 || res.Explanation != 0 {
		b.WriteString(sectionHeader(width, divider, "Breakdown"))

		barWidth := min(width-16, 48)
		bars := []struct {
			label string
			value int
		}{
			{"Correctness  ", res.Correctness},
			{"Understanding", res.Understanding},
			{"Explanation  ", res.Explanation},
		}
		for _, bar := range bars {
			pb := components.NewProgressBar(bar.label, float64(bar.value)/100, true, barWidth)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, pb.View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Feedback.
	if res.Feedback != "" {
		b.WriteString(sectionHeader(width, divider, "Feedback"))
		fb := lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(min(width-8, 72)).
			Render(res.Feedback)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, fb))
		b.WriteString("\n\n")
	}

	// Study links for the topics that came up.
	if links := s.resourceLines(); len(links) > 0 {
		b.WriteString(sectionHeader(width, divider, "Keep studying"))
		for _, line := range links {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if out.SaveErr != nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).
				Render(fmt.Sprintf("⚠ This session could not be saved: %v", out.SaveErr))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))

	return b.String()
}

// sectionHeader renders a dim centered label over a divider line.
func sectionHeader(width int, divider, label string) string {
	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")
	return b.String()
}

// resourceLines builds the study link lines for the covered topics,
// one name line and one link line per topic that has a resource.
func (s *SummaryScreen) resourceLines() []string {
	var lines []string
	for _, topic := range s.session.CoveredTopics() {
		if topic.Resource == nil {
			continue
		}
		lines = append(lines,
			lipgloss.NewStyle().Foreground(theme.Text).
				Render(fmt.Sprintf("📖 %s · %s", topic.Name, topic.Resource.Label)),
			lipgloss.NewStyle().Foreground(theme.TextDim).Underline(true).
				Render(topic.Resource.URL))
	}
	return lines
}
