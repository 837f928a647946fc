package review

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tanmay/resona/internal/curriculum"
	"github.com/tanmay/resona/internal/llm"
	"github.com/tanmay/resona/internal/store"
)

// Service is the read-only supervisory surface over the session store:
// per-participant summaries, transcript drill-down and on-demand
// qualitative analysis.
type Service struct {
	store    *store.Store
	provider llm.Provider
	reg      *curriculum.Registry
	reviewID string
}

// NewService wires the review surface. reviewID is excluded from
// summaries so the reviewer's own test sessions don't show up as a
// participant.
func NewService(st *store.Store, provider llm.Provider, reg *curriculum.Registry, reviewID string) *Service {
	return &Service{store: st, provider: provider, reg: reg, reviewID: reviewID}
}

// ParticipantSummary aggregates one participant's session history.
type ParticipantSummary struct {
	ParticipantID string

	// TopicIndex is the progress cursor from the most recent session.
	TopicIndex  int
	TopicsTotal int

	Sessions     int
	LatestScore  int
	AvgScore     float64 // rounded to one decimal
	LatestStatus string
	LastActive   time.Time
}

// LearningStatus renders the participant's place in the curriculum.
func (p ParticipantSummary) LearningStatus() string {
	switch {
	case p.TopicIndex >= p.TopicsTotal:
		return "✅ Completed All Topics"
	case p.TopicIndex == 0:
		return fmt.Sprintf("🔵 Just Started (0/%d)", p.TopicsTotal)
	default:
		return fmt.Sprintf("🟡 In Progress (%d/%d)", p.TopicIndex, p.TopicsTotal)
	}
}

// TopicsLabel returns the progress fraction, e.g. "8/17".
func (p ParticipantSummary) TopicsLabel() string {
	return fmt.Sprintf("%d/%d", p.TopicIndex, p.TopicsTotal)
}

// LatestScoreLabel returns the latest score out of 100, e.g. "82/100".
func (p ParticipantSummary) LatestScoreLabel() string {
	return fmt.Sprintf("%d/100", p.LatestScore)
}

// AvgScoreLabel returns the average score out of 100, e.g. "78.5/100".
func (p ParticipantSummary) AvgScoreLabel() string {
	return strconv.FormatFloat(p.AvgScore, 'f', 1, 64) + "/100"
}

// Summarize aggregates the whole store into one row per participant,
// most recently active first. The review identifier is skipped. With no
// records it returns an empty slice.
func (s *Service) Summarize(ctx context.Context) ([]ParticipantSummary, error) {
	recs, err := s.store.AllSessions(ctx)
	if err != nil {
		return nil, err
	}

	// Records arrive newest first, so the first record seen for a
	// participant is their latest session.
	var order []string
	latest := make(map[string]store.SessionRecord)
	count := make(map[string]int)
	total := make(map[string]int)

	for _, rec := range recs {
		if strings.EqualFold(rec.ParticipantID, s.reviewID) {
			continue
		}
		if _, seen := latest[rec.ParticipantID]; !seen {
			order = append(order, rec.ParticipantID)
			latest[rec.ParticipantID] = rec
		}
		count[rec.ParticipantID]++
		total[rec.ParticipantID] += rec.Score
	}

	summaries := make([]ParticipantSummary, 0, len(order))
	for _, pid := range order {
		rec := latest[pid]
		avg := float64(total[pid]) / float64(count[pid])
		summaries = append(summaries, ParticipantSummary{
			ParticipantID: pid,
			TopicIndex:    rec.TopicIndex,
			TopicsTotal:   s.reg.Len(),
			Sessions:      count[pid],
			LatestScore:   rec.Score,
			AvgScore:      math.Round(avg*10) / 10,
			LatestStatus:  rec.Status,
			LastActive:    rec.Timestamp,
		})
	}
	return summaries, nil
}

// History returns one participant's sessions, newest first.
func (s *Service) History(ctx context.Context, participantID string) ([]store.SessionRecord, error) {
	return s.store.SessionsFor(ctx, participantID)
}
