package pipeline

import (
	"time"

	"github.com/dyike/CortexTrack/consts"
	"github.com/dyike/CortexTrack/internal/models"
)

// stepAliases maps each role to the step names the engine has been observed
// reporting it under, in priority order. The canonical id always comes
// first; grouped names (one step covering several roles) come last. A raw
// record whose name matches no alias for any role is simply ignored.
var stepAliases = map[string][]string{
	consts.MarketAnalyst:       {consts.MarketAnalyst, "market_analysis", "market"},
	consts.SocialMediaAnalyst:  {consts.SocialMediaAnalyst, "social_analyst", "social_analysis", "sentiment_analysis", "social"},
	consts.NewsAnalyst:         {consts.NewsAnalyst, "news_analysis", "news"},
	consts.FundamentalsAnalyst: {consts.FundamentalsAnalyst, "fundamentals_analysis", "fundamentals"},

	consts.BullResearcher:  {consts.BullResearcher, "investment_debate", "research_debate"},
	consts.BearResearcher:  {consts.BearResearcher, "investment_debate", "research_debate"},
	consts.ResearchManager: {consts.ResearchManager, "research_decision", "investment_debate", "research_debate"},

	consts.Trader: {consts.Trader, "trading_plan", "trade_planning"},

	consts.RiskyAnalyst:   {consts.RiskyAnalyst, "risk_debate", "risk_analysis"},
	consts.SafeAnalyst:    {consts.SafeAnalyst, "safe_analyst", "risk_debate", "risk_analysis"},
	consts.NeutralAnalyst: {consts.NeutralAnalyst, "risk_debate", "risk_analysis"},
	consts.RiskManager:    {consts.RiskManager, "risk_judge", "portfolio_manager", "risk_decision", "risk_debate"},
}

// Resolve assembles the complete twelve-role snapshot from raw engine
// records. It is a pure transform: identical inputs produce identical
// snapshots, and it never fails — missing data degrades to pending roles,
// never to an error.
func Resolve(data *models.PipelineData) *models.PipelineSnapshot {
	snap := &models.PipelineSnapshot{
		Status:     consts.OverallNoData,
		Roles:      make([]models.RoleView, 0, len(roles)),
		ResolvedAt: time.Now(),
	}
	if data != nil {
		snap.Symbol = data.Symbol
		snap.TradeDate = data.TradeDate
		snap.DataSourceLog = data.DataSourceLog
		if data.Status != "" {
			snap.Status = data.Status
		}
	}

	steps := indexSteps(data)
	for _, role := range roles {
		view := models.RoleView{
			RoleID:      role.ID,
			DisplayName: role.DisplayName,
			Phase:       role.Phase,
			Status:      consts.StatusPending,
		}

		if step := matchStep(steps, role.ID); step != nil {
			view.Status = step.Status
			view.StartedAt = step.StartedAt
			view.CompletedAt = step.CompletedAt
			view.Duration = step.Duration
			view.Output = step.Output
			view.Detail = step.Detail
		}

		if role.ReportAgent != "" {
			view.Report = data.ReportFor(role.ReportAgent)
		}
		if role.DebateCategory != "" {
			// The debate text is extracted per role even when several roles
			// share one grouped step record.
			view.DebateText = data.DebateFor(role.DebateCategory).ArgumentFor(role.DebateRole)
		}

		snap.Roles = append(snap.Roles, view)
	}
	return snap
}

// DefaultSnapshot is the all-pending view shown before any data exists.
func DefaultSnapshot(symbol, tradeDate string) *models.PipelineSnapshot {
	return Resolve(&models.PipelineData{
		Symbol:    symbol,
		TradeDate: tradeDate,
		Status:    consts.OverallNoData,
	})
}

func indexSteps(data *models.PipelineData) map[string]*models.RawStepRecord {
	if data == nil {
		return nil
	}
	idx := make(map[string]*models.RawStepRecord, len(data.Steps))
	for i := range data.Steps {
		// First record wins on duplicate names.
		if _, ok := idx[data.Steps[i].Name]; !ok {
			idx[data.Steps[i].Name] = &data.Steps[i]
		}
	}
	return idx
}

func matchStep(steps map[string]*models.RawStepRecord, roleID string) *models.RawStepRecord {
	for _, alias := range stepAliases[roleID] {
		if step, ok := steps[alias]; ok {
			return step
		}
	}
	return nil
}
