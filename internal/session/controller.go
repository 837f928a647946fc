package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/grading"
	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/store"
	"github.com/tanmay/resona/internal/transcript"
)

// ErrCompleted is returned by Answer and Skip once the session has
// finished.
var ErrCompleted = errors.New("session already completed")

// ErrNothingToRetry is returned by Retry when no companion turn is
// pending after a failure.
var ErrNothingToRetry = errors.New("no failed turn to retry")

// Config holds the tunables for session flow.
type Config struct {
	// WindowSize is the number of topics covered per session.
	WindowSize int

	// MaxTokens and Temperature apply to companion turns.
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard session shape: five topics per
// session with conversational sampling.
func DefaultConfig() Config {
	return Config{
		WindowSize:  curriculum.SessionTopics,
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// Controller drives sessions from start to graded, persisted completion.
// One Controller serves any number of sequential sessions.
type Controller struct {
	reg      *curriculum.Registry
	store    *store.Store
	provider llm.Provider
	grader   *grading.Grader
	cfg      Config
}

// NewController wires a controller against the curriculum, store and
// provider.
func NewController(reg *curriculum.Registry, st *store.Store, provider llm.Provider, cfg Config) *Controller {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = curriculum.SessionTopics
	}
	return &Controller{
		reg:      reg,
		store:    st,
		provider: provider,
		grader:   grading.NewGrader(provider, reg.Subject(), grading.DefaultGraderConfig()),
		cfg:      cfg,
	}
}

// Begin starts a session for the participant at their stored progress
// cursor. A cursor at or past the end of the curriculum wraps around to
// the first topic. The returned session already holds the companion's
// greeting as its first log entry.
func (c *Controller) Begin(ctx context.Context, participantID string) (*Session, error) {
	progress, err := c.store.LatestProgress(ctx, participantID)
	if err != nil {
		return nil, err
	}

	start := progress
	restarted := false
	if start >= c.reg.Len() {
		start = 0
		restarted = true
	}
	window := c.reg.TopicWindow(start, c.cfg.WindowSize)

	system, err := sessionSystemPrompt(c.reg.Subject(), c.reg.Audience(), window)
	if err != nil {
		return nil, fmt.Errorf("build session prompt: %w", err)
	}
	conv := llm.NewConversation(c.provider, system,
		llm.WithMaxTokens(c.cfg.MaxTokens),
		llm.WithTemperature(c.cfg.Temperature),
	)

	reply, err := conv.Send(llm.WithPurpose(ctx, "companion-turn"), openingPrompt(window[0].Name))
	if err != nil {
		return nil, err
	}

	return &Session{
		participantID: participantID,
		startIndex:    start,
		restarted:     restarted,
		window:        window,
		conv:          conv,
		log:           []transcript.Message{{Role: transcript.RoleCompanion, Content: reply}},
	}, nil
}

// Answer records the participant's reply to the current topic. On the
// last topic of the window the session completes and the outcome rides
// on the event; otherwise the companion's follow-up question comes back
// as Event.Reply.
//
// A generation failure leaves the session in progress at the same turn
// with the answer retained in the log, so the participant can retry or
// Finish to salvage the transcript.
func (c *Controller) Answer(ctx context.Context, s *Session, text string) (*Event, error) {
	if s.completed {
		return nil, ErrCompleted
	}
	s.log = append(s.log, transcript.Message{Role: transcript.RoleParticipant, Content: text})

	if s.turn+1 >= len(s.window) {
		s.turn++
		return &Event{Done: true, Outcome: c.complete(ctx, s)}, nil
	}

	next := s.window[s.turn+1]
	return c.generate(ctx, s, answerMessage(text, next.Name))
}

// Skip marks the current topic as not yet covered in class. It advances
// exactly like Answer but the transcript carries a skip marker instead
// of an answer, which grading is instructed to ignore.
func (c *Controller) Skip(ctx context.Context, s *Session) (*Event, error) {
	if s.completed {
		return nil, ErrCompleted
	}
	skipped := s.window[s.turn]
	s.log = append(s.log, transcript.Message{Role: transcript.RoleParticipant, Content: transcript.SkipMarker(skipped.Name)})

	if s.turn+1 >= len(s.window) {
		s.turn++
		return &Event{Done: true, Outcome: c.complete(ctx, s)}, nil
	}

	next := s.window[s.turn+1]
	return c.generate(ctx, s, skipInstruction(skipped.Name, next.Name))
}

// Retry re-attempts the companion turn whose generation last failed.
// The participant's side of that turn is already in the log, so Retry
// only repeats the model call; Answer and Skip must not be used for
// this, they would record the answer a second time.
func (c *Controller) Retry(ctx context.Context, s *Session) (*Event, error) {
	if s.completed {
		return nil, ErrCompleted
	}
	if s.pending == "" {
		return nil, ErrNothingToRetry
	}
	return c.generate(ctx, s, s.pending)
}

// generate runs one companion turn. On failure the instruction is kept
// on the session for Retry and the turn counter stays put.
func (c *Controller) generate(ctx context.Context, s *Session, instruction string) (*Event, error) {
	reply, err := s.conv.Send(llm.WithPurpose(ctx, "companion-turn"), instruction)
	if err != nil {
		s.pending = instruction
		return nil, err
	}
	s.pending = ""
	s.log = append(s.log, transcript.Message{Role: transcript.RoleCompanion, Content: reply})
	s.turn++
	return &Event{Reply: reply}, nil
}

// Finish completes the session immediately with whatever transcript
// exists so far. Calling it on an already completed session returns the
// same outcome; a session is graded and persisted at most once.
func (c *Controller) Finish(ctx context.Context, s *Session) *Outcome {
	return c.complete(ctx, s)
}

// complete grades the transcript, builds the record and appends it to
// the store. Grading failures are absorbed by the grader's fallback; a
// store failure is reported on Outcome.SaveErr with the grade kept.
func (c *Controller) complete(ctx context.Context, s *Session) *Outcome {
	if s.completed {
		return s.outcome
	}
	s.completed = true

	rendered := transcript.Render(s.log)
	res := c.grader.Grade(ctx, rendered)

	rec := &store.SessionRecord{
		ParticipantID: s.participantID,
		Score:         res.Score,
		Status:        res.Status,
		Transcript:    rendered,
		TopicIndex:    s.startIndex + s.turn,
		Correctness:   res.Correctness,
		Understanding: res.Understanding,
		Explanation:   res.Explanation,
	}
	out := &Outcome{Result: res, Record: rec}
	if err := c.store.AppendSession(ctx, rec); err != nil {
		out.SaveErr = err
	}
	s.outcome = out
	return out
}
