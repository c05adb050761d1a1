package consts

// Phase names, in pipeline order.
const (
	PhaseAnalysis = "analysis"
	PhaseResearch = "research"
	PhaseTrading  = "trading"
	PhaseRisk     = "risk"
)

// Per-step statuses as the engine reports them.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Overall pipeline statuses for one (symbol, trade date).
const (
	OverallComplete   = "complete"
	OverallInProgress = "in_progress"
	OverallNoData     = "no_data"
)

// Debate categories and the role labels inside each category. A judge label
// is only meaningful within its own category.
const (
	DebateInvestment = "investment"
	DebateRisk       = "risk"

	DebateRoleBull    = "bull"
	DebateRoleBear    = "bear"
	DebateRoleRisky   = "risky"
	DebateRoleSafe    = "safe"
	DebateRoleNeutral = "neutral"
	DebateRoleJudge   = "judge"
)
