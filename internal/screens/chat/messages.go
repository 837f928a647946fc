package chat

import (
	"time"

	sess "github.com/tanmay/resona/internal/session"
)

// beginMsg is sent when session startup (the opening companion turn)
// completes.
type beginMsg struct {
	session *sess.Session
	err     error
}

// turnMsg is sent when an Answer, Skip or Retry turn completes.
type turnMsg struct {
	event *sess.Event
	err   error
}

// finishMsg is sent when an early Finish has graded and saved.
type finishMsg struct {
	outcome *sess.Outcome
}

// spinnerTickMsg animates the thinking indicator.
type spinnerTickMsg time.Time
