package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dyike/CortexTrack/consts"
	"github.com/dyike/CortexTrack/internal/models"
	"github.com/dyike/CortexTrack/pkg/sqlite"
)

// Store reads and writes the engine's progress records. The engine-side
// recorder inserts rows as agents run; the tracker only ever reads.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS analysis_steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			trade_date TEXT NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at DATETIME,
			completed_at DATETIME,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			output TEXT,
			detail_json TEXT,
			UNIQUE(symbol, trade_date, name)
		);`,
		`CREATE TABLE IF NOT EXISTS agent_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			trade_date TEXT NOT NULL,
			agent TEXT NOT NULL,
			content TEXT NOT NULL,
			data_sources_json TEXT,
			UNIQUE(symbol, trade_date, agent)
		);`,
		`CREATE TABLE IF NOT EXISTS debate_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			trade_date TEXT NOT NULL,
			category TEXT NOT NULL,
			bull_arguments TEXT,
			bear_arguments TEXT,
			risky_arguments TEXT,
			safe_arguments TEXT,
			neutral_arguments TEXT,
			judge_decision TEXT,
			rounds INTEGER NOT NULL DEFAULT 0,
			UNIQUE(symbol, trade_date, category)
		);`,
		`CREATE TABLE IF NOT EXISTS data_source_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			trade_date TEXT NOT NULL,
			source TEXT NOT NULL,
			name TEXT NOT NULL,
			success INTEGER NOT NULL,
			error TEXT,
			preview TEXT,
			fetched_at DATETIME NOT NULL
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// LoadPipelineData assembles everything recorded for one (symbol, trade
// date). An empty result is not an error: the overall status comes back as
// no_data and every role will resolve to pending.
func (s *Store) LoadPipelineData(ctx context.Context, symbol, tradeDate string) (*models.PipelineData, error) {
	data := &models.PipelineData{
		Symbol:    symbol,
		TradeDate: tradeDate,
	}

	var err error
	if data.Steps, err = s.loadSteps(ctx, symbol, tradeDate); err != nil {
		return nil, err
	}
	if data.Reports, err = s.loadReports(ctx, symbol, tradeDate); err != nil {
		return nil, err
	}
	if data.Debates, err = s.loadDebates(ctx, symbol, tradeDate); err != nil {
		return nil, err
	}
	if data.DataSourceLog, err = s.loadDataSourceLog(ctx, symbol, tradeDate); err != nil {
		return nil, err
	}

	data.Status = deriveStatus(data)
	return data, nil
}

// deriveStatus collapses the raw rows into the overall pipeline status. Any
// rows at all mean the run is underway; it only counts as complete once no
// step is still pending or running.
func deriveStatus(data *models.PipelineData) string {
	if len(data.Steps) == 0 && len(data.Reports) == 0 && len(data.Debates) == 0 {
		return consts.OverallNoData
	}
	if len(data.Steps) == 0 {
		return consts.OverallInProgress
	}
	for _, step := range data.Steps {
		if step.Status == consts.StatusPending || step.Status == consts.StatusRunning {
			return consts.OverallInProgress
		}
	}
	return consts.OverallComplete
}

func (s *Store) loadSteps(ctx context.Context, symbol, tradeDate string) ([]models.RawStepRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, status, started_at, completed_at, duration_ms, output, detail_json
		FROM analysis_steps
		WHERE symbol = ? AND trade_date = ?
		ORDER BY id`, symbol, tradeDate)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	var steps []models.RawStepRecord
	for rows.Next() {
		var (
			step       models.RawStepRecord
			started    sql.NullTime
			completed  sql.NullTime
			durationMS int64
			output     sql.NullString
			detailJSON sql.NullString
		)
		if err := rows.Scan(&step.Name, &step.Status, &started, &completed, &durationMS, &output, &detailJSON); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		if started.Valid {
			t := started.Time
			step.StartedAt = &t
		}
		if completed.Valid {
			t := completed.Time
			step.CompletedAt = &t
		}
		step.Duration = time.Duration(durationMS) * time.Millisecond
		step.Output = output.String
		if detailJSON.Valid && detailJSON.String != "" {
			var detail models.StepDetail
			if err := json.Unmarshal([]byte(detailJSON.String), &detail); err == nil {
				step.Detail = &detail
			}
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (s *Store) loadReports(ctx context.Context, symbol, tradeDate string) ([]models.AgentReportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT agent, content, data_sources_json
		FROM agent_reports
		WHERE symbol = ? AND trade_date = ?
		ORDER BY id`, symbol, tradeDate)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.AgentReportRecord
	for rows.Next() {
		var (
			report      models.AgentReportRecord
			sourcesJSON sql.NullString
		)
		if err := rows.Scan(&report.Agent, &report.Content, &sourcesJSON); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if sourcesJSON.Valid && sourcesJSON.String != "" {
			_ = json.Unmarshal([]byte(sourcesJSON.String), &report.DataSources)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *Store) loadDebates(ctx context.Context, symbol, tradeDate string) ([]models.DebateRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, bull_arguments, bear_arguments, risky_arguments,
		       safe_arguments, neutral_arguments, judge_decision, rounds
		FROM debate_records
		WHERE symbol = ? AND trade_date = ?
		ORDER BY id`, symbol, tradeDate)
	if err != nil {
		return nil, fmt.Errorf("query debates: %w", err)
	}
	defer rows.Close()

	var debates []models.DebateRecord
	for rows.Next() {
		var (
			d                                       models.DebateRecord
			bull, bear, risky, safe, neutral, judge sql.NullString
		)
		if err := rows.Scan(&d.Category, &bull, &bear, &risky, &safe, &neutral, &judge, &d.Rounds); err != nil {
			return nil, fmt.Errorf("scan debate: %w", err)
		}
		d.BullArguments = bull.String
		d.BearArguments = bear.String
		d.RiskyArguments = risky.String
		d.SafeArguments = safe.String
		d.NeutralArguments = neutral.String
		d.JudgeDecision = judge.String
		debates = append(debates, d)
	}
	return debates, rows.Err()
}

func (s *Store) loadDataSourceLog(ctx context.Context, symbol, tradeDate string) ([]models.DataSourceLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, name, success, error, preview, fetched_at
		FROM data_source_log
		WHERE symbol = ? AND trade_date = ?
		ORDER BY id`, symbol, tradeDate)
	if err != nil {
		return nil, fmt.Errorf("query data source log: %w", err)
	}
	defer rows.Close()

	var entries []models.DataSourceLogEntry
	for rows.Next() {
		var (
			entry         models.DataSourceLogEntry
			errText, prev sql.NullString
		)
		if err := rows.Scan(&entry.Source, &entry.Name, &entry.Success, &errText, &prev, &entry.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan data source entry: %w", err)
		}
		entry.Error = errText.String
		entry.Preview = prev.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
