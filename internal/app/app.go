package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/tanmay/resona/internal/config"
	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/review"
	"github.com/tanmay/resona/internal/router"
	"github.com/tanmay/resona/internal/screen"
	"github.com/tanmay/resona/internal/screens/chat"
	reviewscreen "github.com/tanmay/resona/internal/screens/review"
	"github.com/tanmay/resona/internal/screens/summary"
	"github.com/tanmay/resona/internal/screens/welcome"
	"github.com/tanmay/resona/internal/session"
	"github.com/tanmay/resona/internal/store"
	"github.com/tanmay/resona/internal/ui/layout"
)

// Deps carries the wired services the TUI runs on.
type Deps struct {
	Config     *config.Config
	Store      *store.Store
	Controller *session.Controller
	Review     *review.Service
	Registry   *curriculum.Registry
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	registry *curriculum.Registry
	width    int
	height   int
}

// newAppModel wires the screen factories. The welcome factory refers to
// itself through the summary screen (a finished session leads back to a
// fresh welcome), hence the forward declaration.
func newAppModel(deps Deps) AppModel {
	var newWelcome func() screen.Screen

	newSummary := func(s *session.Session, out *session.Outcome) screen.Screen {
		return summary.New(s, out, func() screen.Screen { return newWelcome() })
	}
	newChat := func(participantID string) screen.Screen {
		return chat.New(deps.Controller, deps.Registry, participantID, newSummary)
	}
	newReview := func() screen.Screen {
		return reviewscreen.New(deps.Review)
	}
	newWelcome = func() screen.Screen {
		return welcome.New(deps.Store, deps.Registry, deps.Config.IsReviewID, newChat, newReview)
	}

	return AppModel{
		router:   router.New(newWelcome()),
		registry: deps.Registry,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The router sees it too: screens track the size for their own
		// scroll math.

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Esc is deliberately not handled here. Each screen owns it:
		// the welcome screen quits, the chat screen asks before
		// finishing, the review panel walks back up its modes.
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

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

	header := layout.RenderHeader(title, m.registry.Subject(), m.width)

	footerHints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); len(hints) > 0 {
			footerHints = hints
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

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
