package review

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	rev "github.com/tanmay/resona/internal/review"
	"github.com/tanmay/resona/internal/router"
	"github.com/tanmay/resona/internal/screen"
	"github.com/tanmay/resona/internal/store"
	"github.com/tanmay/resona/internal/ui/layout"
)

type mode int

const (
	modeTable      mode = iota // one row per participant
	modeHistory                // one participant's sessions
	modeTranscript             // one session, full transcript
)

type summariesMsg struct {
	rows []rev.ParticipantSummary
	err  error
}

type historyMsg struct {
	participantID string
	recs          []store.SessionRecord
	err           error
}

type analysisMsg struct {
	recordID string
	text     string
}

type exportMsg struct {
	paths []string
	err   error
}

// ReviewScreen is the instructor panel: participant summaries, per
// participant session history, transcript drill-down with on-demand
// analysis, and CSV export.
type ReviewScreen struct {
	svc *rev.Service

	mode   mode
	loaded bool
	errMsg string

	rows     []rev.ParticipantSummary
	selected int

	participantID string
	recs          []store.SessionRecord
	recSelected   int

	// analyses caches evaluator commentary per session record ID so
	// revisiting a transcript doesn't repeat the call.
	analyses  map[string]string
	analyzing bool

	// exportDir receives the CSV exports; the process working
	// directory unless overridden.
	exportDir  string
	exportNote string
	exportErr  bool

	scrollTop int
	width     int
	height    int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates the review panel backed by the review service.
func New(svc *rev.Service) *ReviewScreen {
	return &ReviewScreen{
		svc:       svc,
		exportDir: ".",
		analyses:  make(map[string]string),
	}
}

func (r *ReviewScreen) Init() tea.Cmd {
	svc := r.svc
	return func() tea.Msg {
		rows, err := svc.Summarize(context.Background())
		return summariesMsg{rows: rows, err: err}
	}
}

func (r *ReviewScreen) Title() string {
	return "Review Panel"
}

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	switch r.mode {
	case modeHistory:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Transcript"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Esc", Description: "Back"},
		}
	case modeTranscript:
		return []layout.KeyHint{
			{Key: "A", Description: "Analyze"},
			{Key: "↑↓", Description: "Scroll"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Sessions"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "E", Description: "Export CSV"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		return r, nil

	case summariesMsg:
		r.loaded = true
		if msg.err != nil {
			r.errMsg = msg.err.Error()
		} else {
			r.rows = msg.rows
		}
		return r, nil

	case historyMsg:
		if msg.err != nil {
			r.errMsg = msg.err.Error()
			return r, nil
		}
		r.participantID = msg.participantID
		r.recs = msg.recs
		r.recSelected = 0
		r.mode = modeHistory
		return r, nil

	case analysisMsg:
		r.analyzing = false
		r.analyses[msg.recordID] = msg.text
		return r, nil

	case exportMsg:
		if msg.err != nil {
			r.exportNote = "export failed: " + msg.err.Error()
			r.exportErr = true
		} else {
			r.exportNote = "exported " + strings.Join(msg.paths, ", ")
			r.exportErr = false
		}
		return r, nil

	case tea.KeyMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *ReviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch r.mode {
	case modeTable:
		return r.handleTableKey(msg)
	case modeHistory:
		return r.handleHistoryKey(msg)
	default:
		return r.handleTranscriptKey(msg)
	}
}

func (r *ReviewScreen) handleTableKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return r, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if r.selected > 0 {
			r.selected--
		}
	case "down", "j":
		if r.selected < len(r.rows)-1 {
			r.selected++
		}
	case "enter":
		if r.selected < len(r.rows) {
			return r, r.loadHistoryCmd(r.rows[r.selected].ParticipantID)
		}
	case "e":
		return r, r.exportCmd()
	}
	return r, nil
}

func (r *ReviewScreen) handleHistoryKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		r.mode = modeTable
	case "up", "k":
		if r.recSelected > 0 {
			r.recSelected--
		}
	case "down", "j":
		if r.recSelected < len(r.recs)-1 {
			r.recSelected++
		}
	case "enter":
		if r.recSelected < len(r.recs) {
			r.mode = modeTranscript
			r.scrollTop = 0
		}
	}
	return r, nil
}

func (r *ReviewScreen) handleTranscriptKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		r.mode = modeHistory
	case "up", "k":
		r.scroll(-1)
	case "down", "j":
		r.scroll(1)
	case "pgup":
		r.scroll(-10)
	case "pgdown":
		r.scroll(10)
	case "a":
		if !r.analyzing && r.recSelected < len(r.recs) {
			r.analyzing = true
			return r, r.analyzeCmd(r.recs[r.recSelected])
		}
	}
	return r, nil
}

func (r *ReviewScreen) loadHistoryCmd(participantID string) tea.Cmd {
	svc := r.svc
	return func() tea.Msg {
		recs, err := svc.History(context.Background(), participantID)
		return historyMsg{participantID: participantID, recs: recs, err: err}
	}
}

func (r *ReviewScreen) analyzeCmd(rec store.SessionRecord) tea.Cmd {
	svc := r.svc
	return func() tea.Msg {
		text := svc.Analyze(context.Background(), rec.Transcript, rec.Score, rec.Status)
		return analysisMsg{recordID: rec.ID, text: text}
	}
}

func (r *ReviewScreen) exportCmd() tea.Cmd {
	svc, dir := r.svc, r.exportDir
	return func() tea.Msg {
		paths, err := svc.ExportAll(context.Background(), dir, time.Now())
		return exportMsg{paths: paths, err: err}
	}
}

func (r *ReviewScreen) scroll(delta int) {
	r.scrollTop += delta
	if r.scrollTop < 0 {
		r.scrollTop = 0
	}
	if limit := r.maxScrollTop(); r.scrollTop > limit {
		r.scrollTop = limit
	}
}

// maxScrollTop is how far the transcript can scroll down, computed from
// the last known window size. The stored height is the full terminal;
// View receives the content area, so convert before comparing.
func (r *ReviewScreen) maxScrollTop() int {
	if r.recSelected >= len(r.recs) {
		return 0
	}
	lines := r.transcriptLines(r.recs[r.recSelected], max(r.width-8, 20))
	visible := r.transcriptBodyHeight(layout.ContentHeight(r.height))
	return max(len(lines)-visible, 0)
}
