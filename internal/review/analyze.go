package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanmay/resona/internal/llm"
)

const analysisSystemPrompt = `You are an experienced teacher reviewing one graded reflection session on behalf of the student's instructor. Be specific and constructive. Ignore any "[Student hasn't learned: ...]" markers; those topics were not covered in class and say nothing about the student.`

// Analyze produces free-form diagnostic commentary on one transcript
// for supervisory review. It never fails: when the provider is
// unreachable a short placeholder comes back instead, since analysis
// is a convenience on top of an already graded session.
func (s *Service) Analyze(ctx context.Context, transcript string, score int, status string) string {
	ctx = llm.WithPurpose(ctx, "analysis")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      analysisSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: analysisMessage(transcript, score, status)}},
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		if llm.IsRateLimit(err) {
			return "Analysis unavailable right now due to API limits. Try again in a few minutes."
		}
		return "Analysis unavailable right now. The session's grade and transcript are unaffected."
	}
	return strings.TrimSpace(resp.Text)
}

func analysisMessage(transcript string, score int, status string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This session was scored %d/100 (%s).\n\n", score, status)
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nWrite a short analysis for the instructor: the student's strengths, any gaps or misconceptions, and one concrete thing to review next. 4-6 sentences, plain text.")
	return b.String()
}
