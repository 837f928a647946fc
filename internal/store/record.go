package store

import "time"

// TimeFormat is the layout used for timestamps stored as TEXT. Lexicographic
// order matches chronological order, so ORDER BY timestamp is sound.
const TimeFormat = "2006-01-02 15:04:05"

// SessionRecord is one completed session. Records are append-only: they are
// created once at session completion and never updated or deleted.
type SessionRecord struct {
	// ID is the record UUID.
	ID string

	// ParticipantID identifies whose session this was.
	ParticipantID string

	// Timestamp is when the session completed.
	Timestamp time.Time

	// Score is the final weighted score, 0-100.
	Score int

	// Status is "Pass" or "Fail".
	Status string

	// Transcript is the full rendered conversation.
	Transcript string

	// TopicIndex is the participant's cumulative progress cursor after
	// this session. The next session resumes from here.
	TopicIndex int

	// Correctness, Understanding and Explanation are the graded
	// sub-scores, 0-100 each. All zero for fallback-graded sessions and
	// for rows written before the columns existed.
	Correctness   int
	Understanding int
	Explanation   int
}

// Statuses for SessionRecord.Status.
const (
	StatusPass = "Pass"
	StatusFail = "Fail"
)

// FormatTime renders t in the stored timestamp layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}

// ParseTime parses a stored timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeFormat, s, time.Local)
}
