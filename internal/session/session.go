package session

import (
	"slices"

	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/grading"
	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/store"
	"github.com/tanmay/resona/internal/transcript"
)

// Session is the transient state of one live conversation. It is created
// by Controller.Begin and driven through Answer, Skip and Finish. Nothing
// is persisted until the session completes; an abandoned Session leaves
// no trace.
type Session struct {
	participantID string
	startIndex    int
	restarted     bool
	window        []curriculum.Topic
	log           []transcript.Message
	turn          int
	conv          *llm.Conversation
	pending       string
	completed     bool
	outcome       *Outcome
}

// ParticipantID returns the participant this session belongs to.
func (s *Session) ParticipantID() string { return s.participantID }

// StartIndex returns the curriculum index this session started from.
func (s *Session) StartIndex() int { return s.startIndex }

// Restarted reports that stored progress had reached the end of the
// curriculum, so this session wrapped around to the first topic.
func (s *Session) Restarted() bool { return s.restarted }

// Turn returns the number of participant turns completed so far.
func (s *Session) Turn() int { return s.turn }

// CurrentIndex returns the cumulative progress cursor: the starting
// index plus completed turns. This is what gets persisted as the
// participant's progress when the session completes.
func (s *Session) CurrentIndex() int { return s.startIndex + s.turn }

// Window returns the topics this session covers, in order.
func (s *Session) Window() []curriculum.Topic { return slices.Clone(s.window) }

// CurrentTopic returns the topic the participant is currently being
// asked about, or false once the window is exhausted.
func (s *Session) CurrentTopic() (curriculum.Topic, bool) {
	if s.turn >= len(s.window) {
		return curriculum.Topic{}, false
	}
	return s.window[s.turn], true
}

// CoveredTopics returns the window topics raised so far, the current
// one included.
func (s *Session) CoveredTopics() []curriculum.Topic {
	n := min(s.turn+1, len(s.window))
	return slices.Clone(s.window[:n])
}

// Log returns a copy of the message log, oldest first.
func (s *Session) Log() []transcript.Message { return slices.Clone(s.log) }

// CanRetry reports that the last companion turn failed and Retry would
// re-attempt it.
func (s *Session) CanRetry() bool { return s.pending != "" }

// Completed reports whether the session has finished.
func (s *Session) Completed() bool { return s.completed }

// Outcome returns the final result, or nil while the session is still
// in progress.
func (s *Session) Outcome() *Outcome { return s.outcome }

// Outcome is the final result of a completed session.
type Outcome struct {
	// Result is the grade, from the evaluator or the fallback path.
	Result grading.Result

	// Record is the session record built from the result. Its ID and
	// Timestamp are filled in on a successful save.
	Record *store.SessionRecord

	// SaveErr is non-nil when the record could not be persisted. The
	// grade above still stands; callers must report the failed save
	// rather than discard it.
	SaveErr error
}

// Event is the visible effect of one Answer or Skip.
type Event struct {
	// Reply is the companion's next message. Empty when the turn
	// exhausted the window and the session completed instead.
	Reply string

	// Done reports that the session completed; Outcome is set.
	Done    bool
	Outcome *Outcome
}
