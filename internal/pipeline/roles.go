package pipeline

import "github.com/dyike/CortexTrack/consts"

// RoleDefinition describes one canonical participant of the analysis
// pipeline. The table below is process-wide and immutable: exactly twelve
// roles across four ordered phases.
type RoleDefinition struct {
	ID          string
	DisplayName string
	Phase       string

	// ReportAgent links the role to its AgentReportRecord category, when it
	// produces one.
	ReportAgent string

	// DebateCategory/DebateRole link the role to its slice of a
	// DebateRecord. A judge role is scoped to its own category.
	DebateCategory string
	DebateRole     string
}

var roles = []RoleDefinition{
	// Phase 1: analyst team gathers data independently.
	{ID: consts.MarketAnalyst, DisplayName: consts.Label_MarketAnalyst, Phase: consts.PhaseAnalysis, ReportAgent: consts.MarketAnalyst},
	{ID: consts.SocialMediaAnalyst, DisplayName: consts.Label_SocialMediaAnalyst, Phase: consts.PhaseAnalysis, ReportAgent: consts.SocialMediaAnalyst},
	{ID: consts.NewsAnalyst, DisplayName: consts.Label_NewsAnalyst, Phase: consts.PhaseAnalysis, ReportAgent: consts.NewsAnalyst},
	{ID: consts.FundamentalsAnalyst, DisplayName: consts.Label_FundamentalsAnalyst, Phase: consts.PhaseAnalysis, ReportAgent: consts.FundamentalsAnalyst},

	// Phase 2: investment debate.
	{ID: consts.BullResearcher, DisplayName: consts.Label_BullResearcher, Phase: consts.PhaseResearch, DebateCategory: consts.DebateInvestment, DebateRole: consts.DebateRoleBull},
	{ID: consts.BearResearcher, DisplayName: consts.Label_BearResearcher, Phase: consts.PhaseResearch, DebateCategory: consts.DebateInvestment, DebateRole: consts.DebateRoleBear},
	{ID: consts.ResearchManager, DisplayName: consts.Label_ResearchManager, Phase: consts.PhaseResearch, DebateCategory: consts.DebateInvestment, DebateRole: consts.DebateRoleJudge},

	// Phase 3: trading.
	{ID: consts.Trader, DisplayName: consts.Label_Trader, Phase: consts.PhaseTrading},

	// Phase 4: risk debate.
	{ID: consts.RiskyAnalyst, DisplayName: consts.Label_RiskyAnalyst, Phase: consts.PhaseRisk, DebateCategory: consts.DebateRisk, DebateRole: consts.DebateRoleRisky},
	{ID: consts.SafeAnalyst, DisplayName: consts.Label_SafeAnalyst, Phase: consts.PhaseRisk, DebateCategory: consts.DebateRisk, DebateRole: consts.DebateRoleSafe},
	{ID: consts.NeutralAnalyst, DisplayName: consts.Label_NeutralAnalyst, Phase: consts.PhaseRisk, DebateCategory: consts.DebateRisk, DebateRole: consts.DebateRoleNeutral},
	{ID: consts.RiskManager, DisplayName: consts.Label_RiskManager, Phase: consts.PhaseRisk, DebateCategory: consts.DebateRisk, DebateRole: consts.DebateRoleJudge},
}

var roleIndex = buildRoleIndex()

func buildRoleIndex() map[string]RoleDefinition {
	idx := make(map[string]RoleDefinition, len(roles))
	for _, r := range roles {
		idx[r.ID] = r
	}
	return idx
}

// Roles returns the twelve role definitions in pipeline order.
func Roles() []RoleDefinition {
	out := make([]RoleDefinition, len(roles))
	copy(out, roles)
	return out
}

// RoleByID looks up one role definition by its canonical id.
func RoleByID(id string) (RoleDefinition, bool) {
	r, ok := roleIndex[id]
	return r, ok
}

// Phases returns the four phase names in pipeline order.
func Phases() []string {
	return []string{consts.PhaseAnalysis, consts.PhaseResearch, consts.PhaseTrading, consts.PhaseRisk}
}
