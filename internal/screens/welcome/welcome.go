package welcome

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/router"
	"github.com/tanmay/resona/internal/screen"
	"github.com/tanmay/resona/internal/store"
	"github.com/tanmay/resona/internal/ui/components"
	"github.com/tanmay/resona/internal/ui/layout"
	"github.com/tanmay/resona/internal/ui/theme"
)

const idCharLimit = 40

type stage int

const (
	stageInput stage = iota
	stageReady
)

// progressMsg carries the participant's stored progress after lookup.
type progressMsg struct {
	participantID string
	index         int
	sessions      int
	err           error
}

// WelcomeScreen reads the participant ID and routes onward: the review
// ID opens the review panel, anything else replaces the stack with the
// chat screen. Returning participants see where they left off first.
type WelcomeScreen struct {
	st            *store.Store
	reg           *curriculum.Registry
	isReview      func(string) bool
	chatFactory   func(participantID string) screen.Screen
	reviewFactory func() screen.Screen

	input         components.TextInput
	stage         stage
	participantID string
	startIndex    int
	errMsg        string
	transitioned  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. The factories build the screens this one
// routes to, so the package stays free of screen-to-screen imports.
func New(st *store.Store, reg *curriculum.Registry, isReview func(string) bool, chatFactory func(participantID string) screen.Screen, reviewFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		st:            st,
		reg:           reg,
		isReview:      isReview,
		chatFactory:   chatFactory,
		reviewFactory: reviewFactory,
		input:         components.NewTextInput("your student ID", idCharLimit),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if w.stage == stageReady {
		return []layout.KeyHint{
			{Key: "any key", Description: "Start session"},
			{Key: "Esc", Description: "Change ID"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		return w.handleProgress(msg)

	case tea.KeyPressMsg:
		return w.handleKey(msg)
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) handleProgress(msg progressMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		w.errMsg = fmt.Sprintf("Could not read saved progress: %v", msg.err)
		return w, nil
	}

	w.participantID = msg.participantID
	w.startIndex = msg.index
	w.errMsg = ""

	// First session ever: nothing to resume, go straight in.
	if msg.sessions == 0 {
		return w, w.transition()
	}

	w.stage = stageReady
	return w, nil
}

func (w *WelcomeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if w.stage == stageReady {
		if msg.String() == "esc" {
			w.stage = stageInput
			return w, nil
		}
		return w, w.transition()
	}

	switch msg.String() {
	case "enter":
		id := strings.TrimSpace(w.input.Value())
		if id == "" {
			return w, nil
		}
		if w.isReview(id) {
			w.input.Reset()
			reviewScreen := w.reviewFactory()
			return w, func() tea.Msg {
				return router.PushScreenMsg{Screen: reviewScreen}
			}
		}
		return w, w.lookupProgress(id)

	case "esc":
		return w, tea.Quit
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// lookupProgress reads the participant's cursor and session count off
// the store so the ready stage can show what they are resuming.
func (w *WelcomeScreen) lookupProgress(id string) tea.Cmd {
	st := w.st
	return func() tea.Msg {
		ctx := context.Background()
		index, err := st.LatestProgress(ctx, id)
		if err != nil {
			return progressMsg{participantID: id, err: err}
		}
		recs, err := st.SessionsFor(ctx, id)
		if err != nil {
			return progressMsg{participantID: id, err: err}
		}
		return progressMsg{participantID: id, index: index, sessions: len(recs)}
	}
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	chatScreen := w.chatFactory(w.participantID)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: chatScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	// height is the content area; add the frame back before judging
	// whether the tall banner art fits.
	sections = append(sections, RenderBanner(width, height+layout.HeaderHeight+layout.FooterHeight))
	sections = append(sections, "")

	subtitle := theme.Subtitle.Render(fmt.Sprintf("%s · %s", w.reg.Subject(), w.reg.Audience()))
	sections = append(sections, subtitle)
	sections = append(sections, "")
	sections = append(sections, "")

	if w.stage == stageReady {
		sections = append(sections, w.readySections()...)
	} else {
		sections = append(sections, w.inputSections()...)
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (w *WelcomeScreen) inputSections() []string {
	var sections []string

	prompt := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Enter your student ID to begin")
	sections = append(sections, prompt)
	sections = append(sections, "")
	sections = append(sections, w.input.View())

	if w.errMsg != "" {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Render(w.errMsg))
	}

	sections = append(sections, "")
	hint := theme.Hint.Render("press Enter to continue")
	sections = append(sections, hint)

	return sections
}

func (w *WelcomeScreen) readySections() []string {
	var sections []string

	greeting := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("Welcome back, %s!", w.participantID))
	sections = append(sections, greeting)
	sections = append(sections, "")

	total := w.reg.Len()
	if w.startIndex >= total {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render(fmt.Sprintf("🎉 You've completed all %d topics! Starting over from the beginning.", total)))
	} else {
		topic, _ := w.reg.TopicAt(w.startIndex)
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Render(fmt.Sprintf("📚 Topic %d of %d: %s", w.startIndex+1, total, topic.Name)))
	}

	sections = append(sections, "")
	sections = append(sections, theme.Hint.Render("press any key to start"))

	return sections
}
