package transcript

import (
	"fmt"
	"strings"
)

// Labels used for rendered transcript turns. These are load-bearing
// strings: the grading prompt references them and stored transcripts in
// existing databases use them.
const (
	CompanionLabel   = "AI Learning Companion"
	ParticipantLabel = "Student"
)

// Role tags one side of the session dialogue.
type Role int

const (
	RoleCompanion Role = iota
	RoleParticipant
)

// Label returns the transcript label for a role.
func (r Role) Label() string {
	if r == RoleParticipant {
		return ParticipantLabel
	}
	return CompanionLabel
}

// Message is one turn of the session dialogue.
type Message struct {
	Role    Role
	Content string
}

// Render formats messages as "Label: content" paragraphs separated by
// blank lines. This is the stored transcript format.
func Render(msgs []Message) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = fmt.Sprintf("%s: %s", m.Role.Label(), m.Content)
	}
	return strings.Join(parts, "\n\n")
}

const skipMarkerPrefix = "[Student hasn't learned: "

// SkipMarker renders the participant-side marker recorded when a topic
// is skipped as not yet covered in class.
func SkipMarker(topic string) string {
	return fmt.Sprintf("[Student hasn't learned: %s - Not yet covered in class]", topic)
}

// IsSkipMarker reports whether a participant turn is a skip marker.
func IsSkipMarker(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), skipMarkerPrefix)
}

// HasParticipantContent reports whether a rendered transcript contains at
// least one participant turn that is not a skip marker. A transcript
// without such a turn has nothing to grade.
func HasParticipantContent(rendered string) bool {
	prefix := ParticipantLabel + ": "
	for _, line := range strings.Split(rendered, "\n") {
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok {
			continue
		}
		if !IsSkipMarker(rest) && strings.TrimSpace(rest) != "" {
			return true
		}
	}
	return false
}
