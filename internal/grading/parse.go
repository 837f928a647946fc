package grading

import (
	"strconv"
	"strings"
	"unicode"
)

// parseEvaluation extracts the labeled fields from the evaluator's reply.
//
// The reply contract is plain text with one field per line ("Score: 82",
// "Status: Pass", ...). Matching is case-insensitive on the label, and
// numeric fields take the first run of digits after the label, so
// "Score: 85/100" yields 85 and a labeled line with no digits yields 0.
// Everything after a "Feedback:" label (rest of line plus following
// lines) is the feedback; if the evaluator skipped the label, the whole
// reply is kept as feedback so nothing the evaluator said is lost.
func parseEvaluation(text string) Result {
	res := Result{Status: StatusFail, Feedback: strings.TrimSpace(text), Graded: true}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case hasLabel(trimmed, "Score:"):
			res.Score = leadingInt(afterLabel(trimmed, "Score:"))
		case hasLabel(trimmed, "Status:"):
			res.Status = normalizeStatus(afterLabel(trimmed, "Status:"))
		case hasLabel(trimmed, "Correctness:"):
			res.Correctness = leadingInt(afterLabel(trimmed, "Correctness:"))
		case hasLabel(trimmed, "Understanding:"):
			res.Understanding = leadingInt(afterLabel(trimmed, "Understanding:"))
		case hasLabel(trimmed, "Explanation:"):
			res.Explanation = leadingInt(afterLabel(trimmed, "Explanation:"))
		case hasLabel(trimmed, "Feedback:"):
			rest := append([]string{strings.TrimSpace(afterLabel(trimmed, "Feedback:"))}, lines[i+1:]...)
			res.Feedback = strings.TrimSpace(strings.Join(rest, "\n"))
			return res
		}
	}
	return res
}

func hasLabel(line, label string) bool {
	return len(line) >= len(label) && strings.EqualFold(line[:len(label)], label)
}

func afterLabel(line, label string) string {
	return line[len(label):]
}

// leadingInt returns the first contiguous run of digits in s as an int,
// or 0 when s contains no digits or the run doesn't fit an int.
func leadingInt(s string) int {
	start := -1
	end := len(s)
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			end = i
			break
		}
	}
	if start < 0 {
		return 0
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}

// normalizeStatus canonicalizes the evaluator's pass/fail wording.
func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "passed", "passing":
		return StatusPass
	default:
		return StatusFail
	}
}
