package models

import (
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/dyike/CortexTrack/consts"
)

// StepDetail is the structured payload an engine step may attach to its
// progress record: the prompts it sent and the tools it invoked. The engine
// is eino-based, so both are expressed in eino schema types.
type StepDetail struct {
	Prompts   []*schema.Message `json:"prompts,omitempty"`
	ToolCalls []schema.ToolCall `json:"tool_calls,omitempty"`
}

// RawStepRecord is one progress entry as the engine reports it. The Name is
// free-form: it may equal a canonical role id, a drifted synonym, or a
// grouped step covering several roles at once (e.g. "investment_debate").
type RawStepRecord struct {
	Name        string        `json:"name"`
	Status      string        `json:"status"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Output      string        `json:"output,omitempty"`
	Detail      *StepDetail   `json:"detail,omitempty"`
}

// AgentReportRecord is the full report text one analyst agent produced,
// together with the data sources it consulted.
type AgentReportRecord struct {
	Agent       string   `json:"agent"`
	Content     string   `json:"content"`
	DataSources []string `json:"data_sources,omitempty"`
}

// DebateRecord holds the role-labelled arguments of one debate category.
// Investment debates fill the bull/bear fields, risk debates the
// risky/safe/neutral fields; JudgeDecision belongs to its own category only.
type DebateRecord struct {
	Category string `json:"category"`

	BullArguments    string `json:"bull_arguments,omitempty"`
	BearArguments    string `json:"bear_arguments,omitempty"`
	RiskyArguments   string `json:"risky_arguments,omitempty"`
	SafeArguments    string `json:"safe_arguments,omitempty"`
	NeutralArguments string `json:"neutral_arguments,omitempty"`

	JudgeDecision string `json:"judge_decision,omitempty"`
	Rounds        int    `json:"rounds,omitempty"`
}

// ArgumentFor returns the text belonging to one debate role within this
// record. Unknown roles resolve to the empty string.
func (d *DebateRecord) ArgumentFor(role string) string {
	if d == nil {
		return ""
	}
	switch role {
	case consts.DebateRoleBull:
		return d.BullArguments
	case consts.DebateRoleBear:
		return d.BearArguments
	case consts.DebateRoleRisky:
		return d.RiskyArguments
	case consts.DebateRoleSafe:
		return d.SafeArguments
	case consts.DebateRoleNeutral:
		return d.NeutralArguments
	case consts.DebateRoleJudge:
		return d.JudgeDecision
	}
	return ""
}

// DataSourceLogEntry records a single fetch attempt by the engine's data
// layer, kept for provenance display next to the analyst reports.
type DataSourceLogEntry struct {
	Source    string    `json:"source"`
	Name      string    `json:"name"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Preview   string    `json:"preview,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PipelineData is everything the persistence layer knows about one
// (symbol, trade date) run, before resolution.
type PipelineData struct {
	Symbol    string `json:"symbol"`
	TradeDate string `json:"trade_date"`

	Steps         []RawStepRecord      `json:"steps"`
	Reports       []AgentReportRecord  `json:"reports"`
	Debates       []DebateRecord       `json:"debates"`
	DataSourceLog []DataSourceLogEntry `json:"data_source_log,omitempty"`

	Status string `json:"status"`
}

// ReportFor returns the report for one agent category, or nil.
func (p *PipelineData) ReportFor(agent string) *AgentReportRecord {
	if p == nil {
		return nil
	}
	for i := range p.Reports {
		if p.Reports[i].Agent == agent {
			return &p.Reports[i]
		}
	}
	return nil
}

// DebateFor returns the debate record for one category, or nil.
func (p *PipelineData) DebateFor(category string) *DebateRecord {
	if p == nil {
		return nil
	}
	for i := range p.Debates {
		if p.Debates[i].Category == category {
			return &p.Debates[i]
		}
	}
	return nil
}
