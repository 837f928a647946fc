package summary

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/router"
	"github.com/tanmay/resona/internal/screen"
	sess "github.com/tanmay/resona/internal/session"
	"github.com/tanmay/resona/internal/store"
)

const evaluation = `Correctness: 90
Understanding: 80
Explanation: 70
Score: 82
Status: Pass
Feedback: Solid grasp of oscillation basics.`

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

// finishedSession drives a two-topic session to completion and returns
// it with its outcome. closeStoreEarly forces the final save to fail.
func finishedSession(t *testing.T, closeStoreEarly bool, responses ...llm.MockResponse) (*sess.Session, *sess.Outcome) {
	t.Helper()

	st, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	reg, err := curriculum.NewRegistry(curriculum.Curriculum{
		Subject:  "Waves and Modern Physics",
		Audience: "grade 12 students",
		Topics: []curriculum.Topic{
			{
				Name:     "Pendulum and Mass Spring",
				Resource: &curriculum.Resource{Label: "Khan Academy", URL: "https://example.com/shm"},
			},
			{Name: "Wave form"},
		},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	ctrl := sess.NewController(reg, st, llm.NewMockProvider(responses...), sess.DefaultConfig())
	ctx := context.Background()

	s, err := ctrl.Begin(ctx, "riya-17")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := ctrl.Answer(ctx, s, "The period depends on length."); err != nil {
		t.Fatalf("answer 1: %v", err)
	}
	if closeStoreEarly {
		st.Close()
	}
	ev, err := ctrl.Answer(ctx, s, "A wave transports energy, not matter.")
	if err != nil {
		t.Fatalf("answer 2: %v", err)
	}
	if !ev.Done || ev.Outcome == nil {
		t.Fatal("session did not complete")
	}
	return s, ev.Outcome
}

func gradedFixture(t *testing.T) (*sess.Session, *sess.Outcome) {
	t.Helper()
	return finishedSession(t, false,
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: "Nice! Now, what is a wave?"},
		llm.MockResponse{Text: evaluation},
	)
}

func TestSummaryScreen_Title(t *testing.T) {
	s, out := gradedFixture(t)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })
	if scr.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", scr.Title(), "Session Summary")
	}
}

func TestSummaryScreen_ShowsScoreAndBreakdown(t *testing.T) {
	s, out := gradedFixture(t)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })

	view := scr.View(80, 24)
	for _, want := range []string{
		"Session complete!",
		"riya-17",
		"2 topics discussed",
		"Score: 82/100",
		"Pass",
		"Correctness",
		"Understanding",
		"Explanation",
		"Solid grasp of oscillation basics.",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "default grade") {
		t.Error("graded result should not carry the default grade notice")
	}
	if strings.Contains(view, "could not be saved") {
		t.Error("saved session should not carry the save failure notice")
	}
}

func TestSummaryScreen_ShowsResourceLinks(t *testing.T) {
	s, out := gradedFixture(t)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })

	view := scr.View(80, 24)
	if !strings.Contains(view, "Khan Academy") || !strings.Contains(view, "https://example.com/shm") {
		t.Errorf("view missing the study link:\n%s", view)
	}
}

func TestSummaryScreen_FallbackGradeNotice(t *testing.T) {
	s, out := finishedSession(t, false,
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: "Nice! Now, what is a wave?"},
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
	)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })

	view := scr.View(80, 24)
	if !strings.Contains(view, "Score: 75/100") {
		t.Error("view missing the fallback score")
	}
	if !strings.Contains(view, "default grade") {
		t.Error("view missing the default grade notice")
	}
}

func TestSummaryScreen_SaveFailureNotice(t *testing.T) {
	s, out := finishedSession(t, true,
		llm.MockResponse{Text: "Hi! Tell me about pendulums."},
		llm.MockResponse{Text: "Nice! Now, what is a wave?"},
		llm.MockResponse{Text: evaluation},
	)
	if out.SaveErr == nil {
		t.Fatal("expected a save failure from the closed store")
	}
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })

	view := scr.View(80, 24)
	if !strings.Contains(view, "could not be saved") {
		t.Errorf("view missing the save failure notice:\n%s", view)
	}
	if !strings.Contains(view, "Score: 82/100") {
		t.Error("the grade should still be shown when saving failed")
	}
}

func TestSummaryScreen_EnterGoesHome(t *testing.T) {
	s, out := gradedFixture(t)
	homeCalls := 0
	scr := New(s, out, func() screen.Screen { homeCalls++; return &stubScreen{} })

	_, cmd := scr.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*stubScreen); !ok {
		t.Errorf("replacement screen = %T, want the home screen", msg.Screen)
	}
	if homeCalls != 1 {
		t.Errorf("home factory calls = %d, want 1", homeCalls)
	}
}

func TestSummaryScreen_EscGoesHome(t *testing.T) {
	s, out := gradedFixture(t)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })

	_, cmd := scr.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("Esc should replace with the home screen")
	}
}

func TestSummaryScreen_ExitChoiceQuits(t *testing.T) {
	s, out := gradedFixture(t)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })

	next, _ := scr.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := next.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Exit should quit, got %T", cmd())
	}
}

func TestSummaryScreen_ShowsChoices(t *testing.T) {
	s, out := gradedFixture(t)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })

	view := scr.View(80, 24)
	if !strings.Contains(view, "Start another session") || !strings.Contains(view, "Exit") {
		t.Errorf("view missing the end-of-session choices:\n%s", view)
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s, out := gradedFixture(t)
	scr := New(s, out, func() screen.Screen { return &stubScreen{} })
	if len(scr.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
}
