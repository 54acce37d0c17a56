package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dropbox-comments/core/logger"
	"dropbox-comments/core/reconcile"
	"dropbox-comments/core/state"
	"dropbox-comments/feature/audit"
	"dropbox-comments/feature/comments"
	"dropbox-comments/feature/ledger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StateStore persists the processed state between cycles.
type StateStore interface {
	Load(ctx context.Context) (*state.ProcessedState, error)
	Save(ctx context.Context, st *state.ProcessedState) error
}

// AuditRecorder mirrors audit entries outside the ledger.
type AuditRecorder interface {
	Record(ctx context.Context, entries []audit.Entry) error
}

// Config holds the ledger layout and the match threshold.
type Config struct {
	Sheet     ledger.Config
	Threshold float64
}

// Outcome summarises one cycle.
type Outcome struct {
	CycleID   string `json:"cycle_id"`
	Processed int    `json:"processed"`
	Unmatched int    `json:"unmatched"`
}

// Orchestrator reconciles pending comment events into the ledger.
type Orchestrator struct {
	cfg    Config
	source comments.Source
	rows   ledger.RowStore
	states StateStore
	audit  AuditRecorder
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
	newID  func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithAudit mirrors every cycle's audit entries into r.
func WithAudit(r AuditRecorder) Option {
	return func(o *Orchestrator) { o.audit = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLocation sets the zone used for the timestamps written into the ledger.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) { o.loc = loc }
}

// New creates an orchestrator.
func New(cfg Config, source comments.Source, rows ledger.RowStore, states StateStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		source: source,
		rows:   rows,
		states: states,
		logger: zap.NewNop(),
		now:    time.Now,
		loc:    time.Local,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunOnce performs one complete cycle.
func (o *Orchestrator) RunOnce(ctx context.Context) (Outcome, error) {
	out := Outcome{CycleID: o.newID()}
	l := logger.WithCycleID(o.logger, out.CycleID)

	st, err := o.states.Load(ctx)
	if err != nil {
		return out, fmt.Errorf("load state: %w", err)
	}

	header, raw, err := o.rows.ReadRows(ctx, o.cfg.Sheet.Range)
	if err != nil {
		return out, fmt.Errorf("read ledger: %w", err)
	}
	rows := ledger.Snapshot(raw, o.cfg.Sheet.TitleColumn, ledger.RangeWidth(o.cfg.Sheet.Range))
	if len(rows) == 0 {
		l.Warn("No song rows found in the ledger; skipping sync", zap.String("range", o.cfg.Sheet.Range))
		return out, nil
	}

	if err := o.provision(ctx, header); err != nil {
		return out, err
	}

	idx := reconcile.BuildIndex(rows)
	matcher := reconcile.NewMatcher(rows, o.cfg.Threshold)

	events, err := o.source.FetchPendingEvents(ctx)
	if err != nil {
		return out, fmt.Errorf("fetch comments: %w", err)
	}

	pending := make([]reconcile.CommentEvent, 0, len(events))
	for _, ev := range events {
		if st.Has(ev.EventID) {
			continue
		}
		pending = append(pending, ev)
	}

	if len(pending) == 0 {
		l.Info("No new comment notifications")
		st.Touch(o.now())
		if err := o.states.Save(ctx, st); err != nil {
			return out, fmt.Errorf("save state: %w", err)
		}
		o.ack(ctx, l, events)
		return out, nil
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].OccurredAt.Before(pending[j].OccurredAt)
	})

	logRows := make([][]string, 0, len(pending))
	entries := make([]audit.Entry, 0, len(pending))
	for _, ev := range pending {
		row, score := reconcile.FindRow(ev, st.FileRowCache, idx, matcher)

		if row != nil {
			cells := []ledger.Cell{
				{Column: o.cfg.Sheet.CommentsColumn, Value: FormatComment(ev, o.loc)},
				{Column: o.cfg.Sheet.LastUpdateColumn, Value: FormatTimestamp(o.now(), o.loc)},
			}
			if err := o.rows.WriteCells(ctx, row.RowNumber, cells); err != nil {
				return out, fmt.Errorf("write row %d: %w", row.RowNumber, err)
			}
			out.Processed++
			l.Info("Updated row with new comment",
				zap.Int("row", row.RowNumber),
				zap.String("title", row.Title),
				zap.String("event_id", ev.EventID),
				zap.Float64("score", score),
			)
		} else {
			out.Unmatched++
			l.Warn("Could not match file to a ledger row",
				zap.String("file", ev.FileName),
				zap.String("event_id", ev.EventID),
			)
		}

		loggedAt := o.now()
		logRows = append(logRows, AuditRow(loggedAt, o.loc, ev, row, score))
		entries = append(entries, audit.NewEntry(out.CycleID, loggedAt, ev, row, score))
		st.MarkProcessed(ev.EventID)
	}

	if err := o.rows.AppendRows(ctx, o.cfg.Sheet.CommentLog, logRows); err != nil {
		return out, fmt.Errorf("append audit rows: %w", err)
	}

	st.Touch(o.now())
	if err := o.states.Save(ctx, st); err != nil {
		return out, fmt.Errorf("save state: %w", err)
	}
	o.ack(ctx, l, events)

	if o.audit != nil {
		if err := o.audit.Record(ctx, entries); err != nil {
			l.Warn("Failed to mirror audit entries", zap.Error(err))
		}
	}

	l.Info("Cycle complete", zap.Int("processed", out.Processed), zap.Int("unmatched", out.Unmatched))
	return out, nil
}

// ack acknowledges every fetched event once the state holding them is saved.
// Failures only delay acknowledgement: the saved ids already keep the events
// from being applied twice, and they are acknowledged again next cycle.
func (o *Orchestrator) ack(ctx context.Context, l *zap.Logger, events []reconcile.CommentEvent) {
	if len(events) == 0 {
		return
	}
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.EventID
	}
	if err := o.source.Ack(ctx, ids); err != nil {
		l.Warn("Failed to acknowledge comment notifications", zap.Int("count", len(ids)), zap.Error(err))
	}
}

// provision makes sure the last-update header and the audit sheet exist.
func (o *Orchestrator) provision(ctx context.Context, header []string) error {
	col := o.cfg.Sheet.LastUpdateColumn
	if col >= len(header) || header[col] != LastUpdateHeader {
		if err := o.rows.SetHeaderCell(ctx, col, LastUpdateHeader); err != nil {
			return fmt.Errorf("set %q header: %w", LastUpdateHeader, err)
		}
	}
	if err := o.rows.EnsureSheet(ctx, o.cfg.Sheet.CommentLog, AuditHeader); err != nil {
		return fmt.Errorf("ensure audit sheet: %w", err)
	}
	return nil
}

// Preview resolves fileName against the current ledger the way a cycle would,
// without writing anything. A nil row means no match.
func (o *Orchestrator) Preview(ctx context.Context, fileName string) (*reconcile.LedgerRow, float64, error) {
	st, err := o.states.Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load state: %w", err)
	}

	_, raw, err := o.rows.ReadRows(ctx, o.cfg.Sheet.Range)
	if err != nil {
		return nil, 0, fmt.Errorf("read ledger: %w", err)
	}
	rows := ledger.Snapshot(raw, o.cfg.Sheet.TitleColumn, ledger.RangeWidth(o.cfg.Sheet.Range))
	if len(rows) == 0 {
		return nil, 0, nil
	}

	bindings := st.Clone().FileRowCache
	row, score := reconcile.FindRow(
		reconcile.CommentEvent{FileName: fileName},
		bindings,
		reconcile.BuildIndex(rows),
		reconcile.NewMatcher(rows, o.cfg.Threshold),
	)
	return row, score, nil
}
