package grading

import "math"

// Pass/fail boundary and sub-score weights for the final grade.
const (
	PassThreshold = 60

	weightCorrectness   = 0.4
	weightUnderstanding = 0.4
	weightExplanation   = 0.2
)

// Statuses for Result.Status.
const (
	StatusPass = "Pass"
	StatusFail = "Fail"
)

// Result is the outcome of grading one session transcript.
type Result struct {
	// Score is the final grade, 0-100.
	Score int

	// Status is "Pass" (score >= 60) or "Fail".
	Status string

	// Feedback is the evaluator's commentary, or the fallback notice.
	Feedback string

	// Correctness, Understanding and Explanation are the weighted
	// sub-scores, 0-100 each. All zero when the evaluator didn't
	// provide them or the fallback path produced the result.
	Correctness   int
	Understanding int
	Explanation   int

	// Graded is false when the result came from the fallback path
	// rather than an actual evaluation.
	Graded bool
}

// weightedScore computes the final score from sub-scores using the
// 40/40/20 weighting.
func weightedScore(correctness, understanding, explanation int) int {
	raw := weightCorrectness*float64(correctness) +
		weightUnderstanding*float64(understanding) +
		weightExplanation*float64(explanation)
	return int(math.Round(raw))
}

// statusFor derives pass/fail from a score.
func statusFor(score int) string {
	if score >= PassThreshold {
		return StatusPass
	}
	return StatusFail
}
