package store

import (
	"context"
	"database/sql"
	"time"
)

// LLMEventData describes one model call for the event log.
type LLMEventData struct {
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventRecorder accepts model-call events. *Store implements it; the llm
// package depends on this interface so tests can record in memory.
type EventRecorder interface {
	AppendLLMEvent(ctx context.Context, data LLMEventData) error
}

// LLMEvent is a stored model-call event.
type LLMEvent struct {
	ID           int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// AppendLLMEvent records one model call.
func (s *Store) AppendLLMEvent(ctx context.Context, data LLMEventData) error {
	success := 0
	if data.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_events (timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		FormatTime(time.Now()), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, success,
		data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return unavailable("append llm event", err)
	}
	return nil
}

// ListLLMEvents returns the most recent events, newest first. A limit of 0
// or less means no limit.
func (s *Store) ListLLMEvents(ctx context.Context, limit int) ([]LLMEvent, error) {
	q := `
		SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
		FROM llm_events
		ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, unavailable("list llm events", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		ev, err := scanLLMEvent(rows.Scan)
		if err != nil {
			return nil, unavailable("scan llm event", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate llm events", err)
	}
	return out, nil
}

// LLMEventByID returns one event, or (nil, nil) when no such event exists.
func (s *Store) LLMEventByID(ctx context.Context, id int64) (*LLMEvent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
		FROM llm_events
		WHERE id = ?`,
		id,
	)
	ev, err := scanLLMEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("llm event by id", err)
	}
	return &ev, nil
}

func scanLLMEvent(scan func(...any) error) (LLMEvent, error) {
	var (
		ev      LLMEvent
		ts      string
		success int
	)
	err := scan(
		&ev.ID, &ts, &ev.Provider, &ev.Model, &ev.Purpose,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &success,
		&ev.ErrorMessage, &ev.RequestBody, &ev.ResponseBody,
	)
	if err != nil {
		return LLMEvent{}, err
	}
	ev.Success = success != 0
	if t, perr := ParseTime(ts); perr == nil {
		ev.Timestamp = t
	}
	return ev, nil
}

// LLMStat aggregates usage for one provider and model pair.
type LLMStat struct {
	Provider     string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int64
	OutputTokens int64
	AvgLatencyMs float64
}

// LLMStats returns per-model usage aggregates, busiest model first.
func (s *Store) LLMStats(ctx context.Context) ([]LLMStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, model, COUNT(*), SUM(success = 0), SUM(input_tokens), SUM(output_tokens), AVG(latency_ms)
		FROM llm_events
		GROUP BY provider, model
		ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, unavailable("llm stats", err)
	}
	defer rows.Close()

	var out []LLMStat
	for rows.Next() {
		var st LLMStat
		if err := rows.Scan(&st.Provider, &st.Model, &st.Calls, &st.Failures, &st.InputTokens, &st.OutputTokens, &st.AvgLatencyMs); err != nil {
			return nil, unavailable("scan llm stat", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate llm stats", err)
	}
	return out, nil
}
