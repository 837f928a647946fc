package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AppendSession inserts a new session record. Records are never updated:
// each completed session becomes a fresh row, and history accumulates.
// The record's ID and Timestamp are filled in when unset.
func (s *Store) AppendSession(ctx context.Context, rec *SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, participant_id, timestamp, score, status, transcript, topic_index, correctness, understanding, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ParticipantID, FormatTime(rec.Timestamp), rec.Score, rec.Status,
		rec.Transcript, rec.TopicIndex, rec.Correctness, rec.Understanding, rec.Explanation,
	)
	if err != nil {
		return unavailable("append session", err)
	}
	return nil
}

// LatestProgress returns the topic index recorded by the participant's most
// recent session, or 0 when the participant has no sessions yet. Recency is
// decided by timestamp, not insertion order.
func (s *Store) LatestProgress(ctx context.Context, participantID string) (int, error) {
	var idx int
	err := s.db.QueryRowContext(ctx, `
		SELECT topic_index FROM sessions
		WHERE participant_id = ?
		ORDER BY timestamp DESC
		LIMIT 1`,
		participantID,
	).Scan(&idx)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("latest progress", err)
	}
	return idx, nil
}

// SessionsFor returns the participant's sessions, most recent first.
func (s *Store) SessionsFor(ctx context.Context, participantID string) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, participant_id, timestamp, score, status, transcript, topic_index, correctness, understanding, explanation
		FROM sessions
		WHERE participant_id = ?
		ORDER BY timestamp DESC`,
		participantID,
	)
	if err != nil {
		return nil, unavailable("sessions for participant", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// AllSessions returns every session record, most recent first.
func (s *Store) AllSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, participant_id, timestamp, score, status, transcript, topic_index, correctness, understanding, explanation
		FROM sessions
		ORDER BY timestamp DESC`,
	)
	if err != nil {
		return nil, unavailable("all sessions", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]SessionRecord, error) {
	var out []SessionRecord
	for rows.Next() {
		var (
			rec SessionRecord
			ts  string
		)
		if err := rows.Scan(
			&rec.ID, &rec.ParticipantID, &ts, &rec.Score, &rec.Status,
			&rec.Transcript, &rec.TopicIndex, &rec.Correctness, &rec.Understanding, &rec.Explanation,
		); err != nil {
			return nil, unavailable("scan session", err)
		}
		if t, err := ParseTime(ts); err == nil {
			rec.Timestamp = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate sessions", err)
	}
	return out, nil
}
