package review

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tanmay/resona/internal/store"
)

// File name timestamps look like 20250823_143052.
const exportTimeFormat = "20060102_150405"

// SummaryFileName returns the default file name for a summary export.
func SummaryFileName(now time.Time) string {
	return "student_summary_" + now.Format(exportTimeFormat) + ".csv"
}

// SessionsFileName returns the default file name for a full-data export.
func SessionsFileName(now time.Time) string {
	return "full_data_" + now.Format(exportTimeFormat) + ".csv"
}

// WriteSummaryCSV writes the per-participant summary table in the same
// column layout the review screen shows.
func WriteSummaryCSV(w io.Writer, summaries []ParticipantSummary) error {
	cw := csv.NewWriter(w)

	header := []string{
		"Student ID", "Learning Status", "Topics Completed", "Total Sessions",
		"Latest Score", "Avg Score", "Latest Status", "Last Active",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range summaries {
		row := []string{
			p.ParticipantID,
			p.LearningStatus(),
			p.TopicsLabel(),
			strconv.Itoa(p.Sessions),
			p.LatestScoreLabel(),
			p.AvgScoreLabel(),
			p.LatestStatus,
			store.FormatTime(p.LastActive),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSessionsCSV dumps the full record store, transcripts included,
// one row per session in the stored column order.
func WriteSessionsCSV(w io.Writer, recs []store.SessionRecord) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "participant_id", "timestamp", "score", "status",
		"transcript", "topic_index", "correctness", "understanding", "explanation",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range recs {
		row := []string{
			rec.ID,
			rec.ParticipantID,
			store.FormatTime(rec.Timestamp),
			strconv.Itoa(rec.Score),
			rec.Status,
			rec.Transcript,
			strconv.Itoa(rec.TopicIndex),
			strconv.Itoa(rec.Correctness),
			strconv.Itoa(rec.Understanding),
			strconv.Itoa(rec.Explanation),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportSummary writes the per-participant summary CSV into dir and
// returns the path written.
func (s *Service) ExportSummary(ctx context.Context, dir string, now time.Time) (string, error) {
	summaries, err := s.Summarize(ctx)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SummaryFileName(now))
	if err := writeCSV(path, func(w io.Writer) error { return WriteSummaryCSV(w, summaries) }); err != nil {
		return "", err
	}
	return path, nil
}

// ExportSessions writes the full record dump, transcripts included,
// into dir and returns the path written.
func (s *Service) ExportSessions(ctx context.Context, dir string, now time.Time) (string, error) {
	recs, err := s.store.AllSessions(ctx)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SessionsFileName(now))
	if err := writeCSV(path, func(w io.Writer) error { return WriteSessionsCSV(w, recs) }); err != nil {
		return "", err
	}
	return path, nil
}

// ExportAll writes both CSVs into dir and returns the paths written,
// summary first.
func (s *Service) ExportAll(ctx context.Context, dir string, now time.Time) ([]string, error) {
	summaryPath, err := s.ExportSummary(ctx, dir, now)
	if err != nil {
		return nil, err
	}
	sessionsPath, err := s.ExportSessions(ctx, dir, now)
	if err != nil {
		return nil, err
	}
	return []string{summaryPath, sessionsPath}, nil
}

func writeCSV(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
