package grading

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/transcript"
)

// GraderConfig holds configuration for the transcript grader.
type GraderConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGraderConfig returns sensible defaults.
func DefaultGraderConfig() GraderConfig {
	return GraderConfig{
		MaxTokens:   1024,
		Temperature: 0.2,
	}
}

// Grader evaluates finished session transcripts.
type Grader struct {
	provider llm.Provider
	subject  string
	cfg      GraderConfig
}

// NewGrader creates a Grader for the given subject.
func NewGrader(provider llm.Provider, subject string, cfg GraderConfig) *Grader {
	return &Grader{provider: provider, subject: subject, cfg: cfg}
}

// Grade converts a finished transcript into a Result.
//
// Grading failures never propagate: a session must always end up with
// some result so it can be persisted. A transcript with no real
// participant answers is graded 0/Fail locally without an evaluator
// call; evaluator failures fall back to 75/Pass with an explanatory
// feedback string.
func (g *Grader) Grade(ctx context.Context, rendered string) Result {
	if !transcript.HasParticipantContent(rendered) {
		return Result{
			Score:    0,
			Status:   StatusFail,
			Feedback: "No answers were given in this session, so there was nothing to grade.",
			Graded:   true,
		}
	}

	ctx = llm.WithPurpose(ctx, "grading")

	userMsg, err := buildGradingMessage(rendered)
	if err != nil {
		return fallback(err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: fmt.Sprintf(gradingSystemPrompt, g.subject),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return fallback(err)
	}

	res := parseEvaluation(resp.Text)

	// When the evaluator provided sub-scores, the weighted total is
	// recomputed locally. The evaluator's own arithmetic for Score and
	// Status is not trusted.
	if res.Correctness != 0 || res.Understanding != 0 || res.Explanation != 0 {
		res.Score = weightedScore(res.Correctness, res.Understanding, res.Explanation)
		res.Status = statusFor(res.Score)
	}
	return res
}

// fallback builds the result used when the evaluator is unreachable.
// Rate limits and other failures get different feedback so the record
// shows why the default grade was applied.
func fallback(err error) Result {
	feedback := "Unable to grade due to API limits. Session saved with default passing grade. Your instructor can review the transcript."
	if !llm.IsRateLimit(err) {
		feedback = fmt.Sprintf("Grading error: %s. Session saved with default passing grade.", truncate(err.Error(), 100))
	}
	return Result{
		Score:    75,
		Status:   StatusPass,
		Feedback: feedback,
		Graded:   false,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

const gradingSystemPrompt = `You are a teacher grading a SINGLE reflection chat session about %s.

CRITICAL GRADING INSTRUCTIONS:
- Grade ONLY what happened in THIS session. Do not consider any previous sessions or overall progress.
- If the transcript contains "[Student hasn't learned: X - Not yet covered in class]", IGNORE those topics entirely. They do not count for or against the student.
- A student who answers 1 question brilliantly should score just as high as someone who answers 5 questions brilliantly.
- Do NOT penalize for fewer questions answered. Quality matters, not quantity.
- Base the grade purely on the quality of the responses given in this session.`

var gradingUserTemplate = template.Must(template.New("grading").Parse(`Below is the transcript from THIS SESSION ONLY:

{{.Transcript}}

Rate each criterion from 0-100:
- Correctness of the student's answers in this session (worth 40%)
- Depth of understanding shown in this session (worth 40%)
- Quality of explanations given in this session (worth 20%)

Score: the weighted total of the three criteria.
Status: "Pass" if score >= 60, otherwise "Fail".

Respond in this exact format:
Correctness: [number]
Understanding: [number]
Explanation: [number]
Score: [number]
Status: [Pass/Fail]
Feedback: [2-3 sentences about how the student did in THIS session specifically]`))

func buildGradingMessage(rendered string) (string, error) {
	var buf bytes.Buffer
	err := gradingUserTemplate.Execute(&buf, struct {
		Transcript string
	}{Transcript: rendered})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
