package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dyike/CortexTrack/internal/models"
)

// Recorder is the engine-facing write half of the store. Steps and debates
// are upserted so the engine can move a record from running to completed in
// place; data-source fetches are append-only.
type Recorder struct {
	store *Store
}

func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// UpsertStep records or updates one progress step under whatever name the
// engine chose for it.
func (r *Recorder) UpsertStep(ctx context.Context, symbol, tradeDate string, step models.RawStepRecord) error {
	var detailJSON string
	if step.Detail != nil {
		data, err := json.Marshal(step.Detail)
		if err != nil {
			return fmt.Errorf("marshal step detail: %w", err)
		}
		detailJSON = string(data)
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO analysis_steps
			(symbol, trade_date, name, status, started_at, completed_at, duration_ms, output, detail_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, trade_date, name) DO UPDATE SET
			status = excluded.status,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			duration_ms = excluded.duration_ms,
			output = excluded.output,
			detail_json = excluded.detail_json`,
		symbol, tradeDate, step.Name, step.Status,
		nullableTime(step.StartedAt), nullableTime(step.CompletedAt),
		step.Duration.Milliseconds(), step.Output, detailJSON)
	if err != nil {
		return fmt.Errorf("upsert step %s: %w", step.Name, err)
	}
	return nil
}

// SaveReport stores the finished report of one analyst agent.
func (r *Recorder) SaveReport(ctx context.Context, symbol, tradeDate string, report models.AgentReportRecord) error {
	var sourcesJSON string
	if len(report.DataSources) > 0 {
		data, err := json.Marshal(report.DataSources)
		if err != nil {
			return fmt.Errorf("marshal data sources: %w", err)
		}
		sourcesJSON = string(data)
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO agent_reports (symbol, trade_date, agent, content, data_sources_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol, trade_date, agent) DO UPDATE SET
			content = excluded.content,
			data_sources_json = excluded.data_sources_json`,
		symbol, tradeDate, report.Agent, report.Content, sourcesJSON)
	if err != nil {
		return fmt.Errorf("save report %s: %w", report.Agent, err)
	}
	return nil
}

// SaveDebate stores one debate category's current argument state.
func (r *Recorder) SaveDebate(ctx context.Context, symbol, tradeDate string, debate models.DebateRecord) error {
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO debate_records
			(symbol, trade_date, category, bull_arguments, bear_arguments,
			 risky_arguments, safe_arguments, neutral_arguments, judge_decision, rounds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, trade_date, category) DO UPDATE SET
			bull_arguments = excluded.bull_arguments,
			bear_arguments = excluded.bear_arguments,
			risky_arguments = excluded.risky_arguments,
			safe_arguments = excluded.safe_arguments,
			neutral_arguments = excluded.neutral_arguments,
			judge_decision = excluded.judge_decision,
			rounds = excluded.rounds`,
		symbol, tradeDate, debate.Category,
		debate.BullArguments, debate.BearArguments,
		debate.RiskyArguments, debate.SafeArguments, debate.NeutralArguments,
		debate.JudgeDecision, debate.Rounds)
	if err != nil {
		return fmt.Errorf("save debate %s: %w", debate.Category, err)
	}
	return nil
}

// LogDataSource appends one fetch-attempt entry.
func (r *Recorder) LogDataSource(ctx context.Context, symbol, tradeDate string, entry models.DataSourceLogEntry) error {
	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO data_source_log (symbol, trade_date, source, name, success, error, preview, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		symbol, tradeDate, entry.Source, entry.Name, entry.Success, entry.Error, entry.Preview, fetchedAt)
	if err != nil {
		return fmt.Errorf("log data source %s: %w", entry.Name, err)
	}
	return nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
