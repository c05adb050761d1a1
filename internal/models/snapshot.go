package models

import (
	"time"

	"github.com/dyike/CortexTrack/consts"
)

// RoleView is the resolved state of one pipeline role. Every snapshot
// carries exactly one RoleView per canonical role; roles the engine has not
// reported on yet sit at pending with empty optionals.
type RoleView struct {
	RoleID      string `json:"role_id"`
	DisplayName string `json:"display_name"`
	Phase       string `json:"phase"`

	Status      string        `json:"status"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Output      string        `json:"output,omitempty"`
	Detail      *StepDetail   `json:"detail,omitempty"`

	Report     *AgentReportRecord `json:"report,omitempty"`
	DebateText string             `json:"debate_text,omitempty"`
}

// PipelineSnapshot is the complete resolved view for one (symbol, trade
// date) at a point in time. It is an immutable value: a refresh produces a
// new snapshot rather than mutating one in place.
type PipelineSnapshot struct {
	Symbol    string `json:"symbol"`
	TradeDate string `json:"trade_date"`

	Roles  []RoleView `json:"roles"`
	Status string     `json:"status"`

	DataSourceLog []DataSourceLogEntry `json:"data_source_log,omitempty"`
	ResolvedAt    time.Time            `json:"resolved_at"`
}

// Role returns the view for one role id, or nil if the id is not canonical.
func (s *PipelineSnapshot) Role(roleID string) *RoleView {
	if s == nil {
		return nil
	}
	for i := range s.Roles {
		if s.Roles[i].RoleID == roleID {
			return &s.Roles[i]
		}
	}
	return nil
}

// CompletedCount reports how many roles have finished.
func (s *PipelineSnapshot) CompletedCount() int {
	if s == nil {
		return 0
	}
	count := 0
	for i := range s.Roles {
		if s.Roles[i].Status == consts.StatusCompleted {
			count++
		}
	}
	return count
}
