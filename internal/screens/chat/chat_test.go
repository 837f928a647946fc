package chat

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/router"
	"github.com/tanmay/resona/internal/screen"
	sess "github.com/tanmay/resona/internal/session"
	"github.com/tanmay/resona/internal/store"
	"github.com/tanmay/resona/internal/transcript"
)

const gradedEvaluation = `Correctness: 90
Understanding: 80
Explanation: 70
Score: 82
Status: Pass
Feedback: Solid grasp of oscillation basics.`

// stubScreen stands in for the summary screen.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "summary" }
func (s *stubScreen) Title() string                           { return "Summary" }

type summaryCalls struct {
	outcomes []*sess.Outcome
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testRegistry(t *testing.T, names ...string) *curriculum.Registry {
	t.Helper()
	topics := make([]curriculum.Topic, len(names))
	for i, n := range names {
		topics[i] = curriculum.Topic{
			Name:     n,
			Keywords: []string{"period", "frequency"},
			Resource: &curriculum.Resource{Label: "Khan Academy", URL: "https://example.com/waves"},
		}
	}
	reg, err := curriculum.NewRegistry(curriculum.Curriculum{
		Subject:  "Waves and Modern Physics",
		Audience: "grade 12 students",
		Topics:   topics,
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func newTestChat(t *testing.T, topics []string, responses ...llm.MockResponse) (*ChatScreen, *summaryCalls) {
	t.Helper()
	st := openTestStore(t)
	reg := testRegistry(t, topics...)
	mock := llm.NewMockProvider(responses...)
	ctrl := sess.NewController(reg, st, mock, sess.DefaultConfig())

	calls := &summaryCalls{}
	c := New(ctrl, reg, "riya-17", func(_ *sess.Session, out *sess.Outcome) screen.Screen {
		calls.outcomes = append(calls.outcomes, out)
		return &stubScreen{}
	})
	c.width = 100
	c.height = 30
	return c, calls
}

// startSession runs the begin command synchronously and feeds the
// result back through Update.
func startSession(t *testing.T, c *ChatScreen) screen.Screen {
	t.Helper()
	scr, _ := c.Update(c.beginCmd()())
	cs := scr.(*ChatScreen)
	if cs.phase != phaseActive {
		t.Fatalf("phase after begin = %d, want phaseActive (err %q)", cs.phase, cs.errMsg)
	}
	return scr
}

func enterKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func escKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEscape}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestChat_BeginShowsGreetingAndTopic(t *testing.T) {
	c, _ := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
	)
	scr := startSession(t, c)

	cs := scr.(*ChatScreen)
	if len(cs.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(cs.messages))
	}
	view := cs.View(100, 24)
	if !strings.Contains(view, "Topic 1 of 2: Pendulum and Mass Spring") {
		t.Errorf("view missing topic bar:\n%s", view)
	}
	if !strings.Contains(view, "Tell me about pendulums") {
		t.Error("view missing the companion greeting")
	}
	if !strings.Contains(view, "Key ideas") || !strings.Contains(view, "period") {
		t.Error("view missing the keyword panel")
	}
	if !strings.Contains(view, "curriculum 1/2") {
		t.Error("view missing the curriculum position")
	}
}

func TestChat_BeginFailureOffersRetry(t *testing.T) {
	c, _ := newTestChat(t, []string{"Wave form"},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Text: "Hi! What is a wave?"},
	)

	scr, _ := c.Update(c.beginCmd()())
	cs := scr.(*ChatScreen)
	if cs.phase != phaseFailed || cs.session != nil {
		t.Fatalf("phase = %d session = %v, want failed with no session", cs.phase, cs.session)
	}
	if view := cs.View(100, 24); !strings.Contains(view, "Couldn't start the session") {
		t.Errorf("view missing startup error:\n%s", view)
	}

	scr, cmd := cs.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("expected a retry command")
	}
	scr, _ = scr.Update(cmd())
	if scr.(*ChatScreen).phase != phaseActive {
		t.Errorf("phase after retried begin = %d, want phaseActive", scr.(*ChatScreen).phase)
	}
}

func TestChat_AnswerAdvances(t *testing.T) {
	c, _ := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: "Nice! Now, what is a wave?"},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	cs.input.Model.SetValue("The period depends on length.")
	scr, cmd := cs.Update(enterKey())
	cs = scr.(*ChatScreen)
	if cs.phase != phaseThinking {
		t.Fatalf("phase = %d, want phaseThinking", cs.phase)
	}
	// The participant's answer is echoed before the model replies.
	if last := cs.messages[len(cs.messages)-1]; last.Content != "The period depends on length." {
		t.Errorf("echoed message = %q", last.Content)
	}

	scr, _ = scr.Update(cmd())
	cs = scr.(*ChatScreen)
	if cs.phase != phaseActive {
		t.Fatalf("phase = %d, want phaseActive", cs.phase)
	}
	if len(cs.messages) != 3 {
		t.Errorf("messages = %d, want 3", len(cs.messages))
	}
	if cs.input.Value() != "" {
		t.Errorf("input not cleared, got %q", cs.input.Value())
	}
	if view := cs.View(100, 24); !strings.Contains(view, "Topic 2 of 2: Wave form") {
		t.Error("topic bar did not advance")
	}
}

func TestChat_EmptyAnswerIgnored(t *testing.T) {
	c, _ := newTestChat(t, []string{"Wave form", "Sound Waves"},
		llm.MockResponse{Text: "Hi! What is a wave?"},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	cs.input.Model.SetValue("   ")
	_, cmd := cs.Update(enterKey())
	if cmd != nil {
		t.Error("expected no command for a blank answer")
	}
	if cs.phase != phaseActive {
		t.Error("phase should stay active")
	}
}

func TestChat_SkipShowsMarker(t *testing.T) {
	c, _ := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: "No worries! What is a wave?"},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	scr, cmd := cs.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	cs = scr.(*ChatScreen)
	if cs.phase != phaseThinking {
		t.Fatalf("phase = %d, want phaseThinking", cs.phase)
	}
	last := cs.messages[len(cs.messages)-1]
	if !transcript.IsSkipMarker(last.Content) {
		t.Errorf("echoed skip = %q, want a skip marker", last.Content)
	}
	if !strings.Contains(last.Content, "Pendulum and Mass Spring") {
		t.Errorf("marker names wrong topic: %q", last.Content)
	}

	scr, _ = scr.Update(cmd())
	if scr.(*ChatScreen).phase != phaseActive {
		t.Error("phase should return to active after the follow-up")
	}
}

func TestChat_FinalTurnReplacesWithSummary(t *testing.T) {
	c, calls := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: "Nice! Now, what is a wave?"},
		llm.MockResponse{Text: gradedEvaluation},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	cs.input.Model.SetValue("Length sets the period.")
	scr, cmd := cs.Update(enterKey())
	scr, _ = scr.Update(cmd())
	cs = scr.(*ChatScreen)

	cs.input.Model.SetValue("A wave transports energy, not matter.")
	scr, cmd = cs.Update(enterKey())
	cs = scr.(*ChatScreen)
	if !cs.finishing {
		t.Error("final turn should mark the session as finishing")
	}

	scr, cmd = scr.Update(cmd())
	if cmd == nil {
		t.Fatal("expected a summary transition command")
	}
	msg := cmd()
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if len(calls.outcomes) != 1 {
		t.Fatalf("summary factory calls = %d, want 1", len(calls.outcomes))
	}
	if got := calls.outcomes[0].Result.Score; got != 82 {
		t.Errorf("outcome score = %d, want 82", got)
	}
}

func TestChat_GenerationFailureBannerThenRetry(t *testing.T) {
	c, _ := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Text: "Nice! Now, what is a wave?"},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	cs.input.Model.SetValue("The period depends on length.")
	scr, cmd := cs.Update(enterKey())
	scr, _ = scr.Update(cmd())
	cs = scr.(*ChatScreen)
	if cs.phase != phaseFailed {
		t.Fatalf("phase = %d, want phaseFailed", cs.phase)
	}
	// The answer stays visible while the banner shows.
	if last := cs.messages[len(cs.messages)-1]; last.Role != transcript.RoleParticipant {
		t.Error("failed turn should keep the participant's answer in the log")
	}
	if view := cs.View(100, 24); !strings.Contains(view, "[R] Try again") {
		t.Errorf("view missing retry choices:\n%s", view)
	}

	scr, cmd = cs.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("expected a retry command")
	}
	scr, _ = scr.Update(cmd())
	cs = scr.(*ChatScreen)
	if cs.phase != phaseActive {
		t.Fatalf("phase after retry = %d, want phaseActive", cs.phase)
	}
	// Greeting, answer, follow-up; the answer appears exactly once.
	if len(cs.messages) != 3 {
		t.Errorf("messages = %d, want 3", len(cs.messages))
	}
}

func TestChat_RateLimitBanner(t *testing.T) {
	c, _ := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	cs.input.Model.SetValue("The period depends on length.")
	scr, cmd := cs.Update(enterKey())
	scr, _ = scr.Update(cmd())
	cs = scr.(*ChatScreen)

	if !cs.rateLimited {
		t.Error("rateLimited = false for a rate limit error")
	}
	if view := cs.View(100, 24); !strings.Contains(view, "Rate limited") {
		t.Errorf("view missing rate limit banner:\n%s", view)
	}
}

func TestChat_EscConfirmsThenFinishes(t *testing.T) {
	c, calls := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: gradedEvaluation},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	scr, _ = cs.Update(escKey())
	cs = scr.(*ChatScreen)
	if cs.phase != phaseConfirm {
		t.Fatalf("phase = %d, want phaseConfirm", cs.phase)
	}
	if view := cs.View(100, 24); !strings.Contains(view, "Finish session early?") {
		t.Error("view missing confirm dialog")
	}

	// N backs out.
	scr, _ = cs.Update(keyPress('n'))
	cs = scr.(*ChatScreen)
	if cs.phase != phaseActive {
		t.Fatalf("phase after n = %d, want phaseActive", cs.phase)
	}

	// Esc again, then Y grades and hands off to the summary.
	scr, _ = cs.Update(escKey())
	scr, cmd := scr.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a finish command")
	}
	scr, cmd = scr.Update(cmd())
	if cmd == nil {
		t.Fatal("expected a summary transition command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg after finishing")
	}
	if len(calls.outcomes) != 1 || calls.outcomes[0].Result.Score != 82 {
		t.Errorf("outcomes = %+v, want one with score 82", calls.outcomes)
	}
}

func TestChat_ThinkingIgnoresTyping(t *testing.T) {
	c, _ := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: "Nice! Now, what is a wave?"},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	cs.input.Model.SetValue("answer one")
	scr, turnCmd := cs.Update(enterKey())
	cs = scr.(*ChatScreen)

	if _, cmd := cs.Update(keyPress('x')); cmd != nil {
		t.Error("typing during thinking should be ignored")
	}
	if _, cmd := cs.Update(enterKey()); cmd != nil {
		t.Error("enter during thinking should not start another turn")
	}

	scr, _ = cs.Update(turnCmd())
	if scr.(*ChatScreen).phase != phaseActive {
		t.Error("turn should still complete normally")
	}
}

func TestChat_ScrollClamps(t *testing.T) {
	c, _ := newTestChat(t, []string{"Pendulum and Mass Spring", "Wave form"},
		llm.MockResponse{Text: strings.Repeat("A long explanation of simple harmonic motion. ", 40)},
	)
	scr := startSession(t, c)
	cs := scr.(*ChatScreen)

	limit := cs.maxScroll()
	if limit <= 0 {
		t.Fatalf("maxScroll = %d, want > 0 for a long log", limit)
	}

	for i := 0; i < limit+20; i++ {
		scr, _ = scr.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	cs = scr.(*ChatScreen)
	if cs.scrollUp != limit {
		t.Errorf("scrollUp = %d, want clamped to %d", cs.scrollUp, limit)
	}

	for i := 0; i < limit+20; i++ {
		scr, _ = scr.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	cs = scr.(*ChatScreen)
	if cs.scrollUp != 0 {
		t.Errorf("scrollUp = %d, want 0 at bottom", cs.scrollUp)
	}
}

func TestChat_KeyHintsPerPhase(t *testing.T) {
	c, _ := newTestChat(t, []string{"Wave form"},
		llm.MockResponse{Text: "Hi! What is a wave?"},
	)
	if hints := c.KeyHints(); len(hints) == 0 {
		t.Error("loading phase should still show hints")
	}
	startSession(t, c)
	found := false
	for _, h := range c.KeyHints() {
		if h.Key == "Ctrl+S" {
			found = true
		}
	}
	if !found {
		t.Error("active phase hints missing the skip binding")
	}
}
