package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/router"
	"github.com/tanmay/resona/internal/screen"
	sess "github.com/tanmay/resona/internal/session"
	"github.com/tanmay/resona/internal/transcript"
	"github.com/tanmay/resona/internal/ui/components"
	"github.com/tanmay/resona/internal/ui/layout"
)

const (
	answerCharLimit = 500
	spinnerInterval = 120 * time.Millisecond
)

type phase int

const (
	phaseLoading phase = iota // Begin in flight
	phaseActive               // waiting for the participant
	phaseThinking             // a model call in flight
	phaseFailed               // generation failed, banner with choices
	phaseConfirm              // confirm finishing early
)

// ChatScreen is the live session surface: the conversation log, the
// answer input and the topic hint panel.
type ChatScreen struct {
	ctrl           *sess.Controller
	reg            *curriculum.Registry
	participantID  string
	summaryFactory func(s *sess.Session, out *sess.Outcome) screen.Screen

	session *sess.Session
	input   components.TextInput
	phase   phase

	// messages, window and turn are the screen's own copy of session
	// state. View renders from them so a model call mutating the
	// session off-thread never races a render.
	messages []transcript.Message
	window   []curriculum.Topic
	turn     int

	errMsg        string
	rateLimited   bool
	confirmReturn phase
	finishing     bool
	scrollUp      int
	spinFrame     int
	width         int
	height        int
	transitioned  bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a ChatScreen for one participant. summaryFactory builds
// the screen shown once the session has an outcome.
func New(ctrl *sess.Controller, reg *curriculum.Registry, participantID string, summaryFactory func(s *sess.Session, out *sess.Outcome) screen.Screen) *ChatScreen {
	return &ChatScreen{
		ctrl:           ctrl,
		reg:            reg,
		participantID:  participantID,
		summaryFactory: summaryFactory,
		input:          components.NewTextInput("Type your answer...", answerCharLimit),
	}
}

func (c *ChatScreen) Title() string {
	return "Reflection Session"
}

func (c *ChatScreen) Init() tea.Cmd {
	return tea.Batch(
		c.beginCmd(),
		spinnerTick(),
		c.input.Init(),
	)
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	switch c.phase {
	case phaseActive:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Ctrl+S", Description: "Skip topic"},
			{Key: "Esc", Description: "Finish early"},
			{Key: "↑↓", Description: "Scroll"},
		}
	case phaseFailed:
		if c.session == nil {
			return []layout.KeyHint{
				{Key: "R", Description: "Retry"},
				{Key: "Esc", Description: "Quit"},
			}
		}
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "F", Description: "Finish with what we have"},
			{Key: "↑↓", Description: "Scroll"},
		}
	case phaseConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Finish now"},
			{Key: "N", Description: "Keep going"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		return c, nil

	case beginMsg:
		return c.handleBegin(msg)

	case turnMsg:
		return c.handleTurn(msg)

	case finishMsg:
		return c, c.transitionToSummary(msg.outcome)

	case spinnerTickMsg:
		c.spinFrame++
		return c, spinnerTick()

	case tea.KeyPressMsg:
		return c.handleKey(msg)
	}

	// Everything else (blink ticks and the like) feeds the input.
	if c.phase == phaseActive {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *ChatScreen) handleBegin(msg beginMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		c.phase = phaseFailed
		c.setError(msg.err)
		return c, nil
	}
	c.session = msg.session
	c.messages = c.session.Log()
	c.window = c.session.Window()
	c.turn = c.session.Turn()
	c.phase = phaseActive
	c.scrollUp = 0
	return c, nil
}

func (c *ChatScreen) handleTurn(msg turnMsg) (screen.Screen, tea.Cmd) {
	// The session keeps the participant's side of a failed turn, so
	// refresh the display copy on both paths.
	if c.session != nil {
		c.messages = c.session.Log()
		c.turn = c.session.Turn()
	}

	if msg.err != nil {
		c.phase = phaseFailed
		c.setError(msg.err)
		return c, nil
	}

	if msg.event.Done {
		return c, c.transitionToSummary(msg.event.Outcome)
	}

	c.phase = phaseActive
	c.errMsg = ""
	c.input.Reset()
	c.scrollUp = 0
	return c, c.input.Init()
}

func (c *ChatScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Scrolling works in every phase except the confirm dialog.
	if c.phase != phaseConfirm {
		switch key {
		case "up":
			c.scroll(1)
			return c, nil
		case "down":
			c.scroll(-1)
			return c, nil
		case "pgup":
			c.scroll(c.logViewHeight())
			return c, nil
		case "pgdown":
			c.scroll(-c.logViewHeight())
			return c, nil
		}
	}

	switch c.phase {
	case phaseActive:
		switch key {
		case "enter":
			return c.submitAnswer()
		case "ctrl+s":
			return c.submitSkip()
		case "esc":
			c.confirmReturn = phaseActive
			c.phase = phaseConfirm
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd

	case phaseFailed:
		switch key {
		case "r", "R":
			return c.retry()
		case "f", "F":
			if c.session != nil {
				return c.finish()
			}
		case "esc":
			if c.session == nil {
				// Startup never produced a session; nothing to salvage.
				return c, tea.Quit
			}
			c.confirmReturn = phaseFailed
			c.phase = phaseConfirm
			return c, nil
		}
		return c, nil

	case phaseConfirm:
		switch key {
		case "y", "Y":
			return c.finish()
		case "n", "N", "esc":
			c.phase = c.confirmReturn
			return c, nil
		}
		return c, nil
	}

	return c, nil
}

func (c *ChatScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return c, nil
	}

	// Echo the answer immediately; the controller records the same
	// entry on its side.
	c.messages = append(c.messages, transcript.Message{Role: transcript.RoleParticipant, Content: text})
	c.finishing = c.lastTurn()
	c.phase = phaseThinking
	c.scrollUp = 0

	ctrl, s := c.ctrl, c.session
	return c, func() tea.Msg {
		ev, err := ctrl.Answer(context.Background(), s, text)
		return turnMsg{event: ev, err: err}
	}
}

func (c *ChatScreen) submitSkip() (screen.Screen, tea.Cmd) {
	topic, ok := c.currentTopic()
	if !ok {
		return c, nil
	}

	c.messages = append(c.messages, transcript.Message{Role: transcript.RoleParticipant, Content: transcript.SkipMarker(topic.Name)})
	c.finishing = c.lastTurn()
	c.phase = phaseThinking
	c.scrollUp = 0

	ctrl, s := c.ctrl, c.session
	return c, func() tea.Msg {
		ev, err := ctrl.Skip(context.Background(), s)
		return turnMsg{event: ev, err: err}
	}
}

func (c *ChatScreen) retry() (screen.Screen, tea.Cmd) {
	if c.session == nil {
		c.phase = phaseLoading
		c.errMsg = ""
		return c, c.beginCmd()
	}

	c.phase = phaseThinking
	ctrl, s := c.ctrl, c.session
	return c, func() tea.Msg {
		ev, err := ctrl.Retry(context.Background(), s)
		return turnMsg{event: ev, err: err}
	}
}

func (c *ChatScreen) finish() (screen.Screen, tea.Cmd) {
	c.finishing = true
	c.phase = phaseThinking

	ctrl, s := c.ctrl, c.session
	return c, func() tea.Msg {
		return finishMsg{outcome: ctrl.Finish(context.Background(), s)}
	}
}

func (c *ChatScreen) beginCmd() tea.Cmd {
	ctrl, id := c.ctrl, c.participantID
	return func() tea.Msg {
		s, err := ctrl.Begin(context.Background(), id)
		return beginMsg{session: s, err: err}
	}
}

func (c *ChatScreen) transitionToSummary(out *sess.Outcome) tea.Cmd {
	if c.transitioned {
		return nil
	}
	c.transitioned = true
	summaryScreen := c.summaryFactory(c.session, out)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summaryScreen}
	}
}

// lastTurn reports that the turn being submitted is the final one of
// the window, so the call grades instead of asking a follow-up.
func (c *ChatScreen) lastTurn() bool {
	return c.session != nil && c.turn+1 >= len(c.window)
}

// currentTopic returns the topic under discussion from the screen's
// snapshot of the window.
func (c *ChatScreen) currentTopic() (curriculum.Topic, bool) {
	if c.turn < 0 || c.turn >= len(c.window) {
		return curriculum.Topic{}, false
	}
	return c.window[c.turn], true
}

func (c *ChatScreen) setError(err error) {
	c.rateLimited = llm.IsRateLimit(err)
	c.errMsg = err.Error()
}

func (c *ChatScreen) scroll(up int) {
	c.scrollUp += up
	if c.scrollUp < 0 {
		c.scrollUp = 0
	}
	if limit := c.maxScroll(); c.scrollUp > limit {
		c.scrollUp = limit
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
