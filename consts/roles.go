package consts

// Canonical role ids. The analysis engine reports progress under free-form
// step names; these ids are the fixed keys every view resolves to.
const (
	// Analyst team
	MarketAnalyst       = "market_analyst"
	SocialMediaAnalyst  = "social_media_analyst"
	NewsAnalyst         = "news_analyst"
	FundamentalsAnalyst = "fundamentals_analyst"

	// Research team
	BullResearcher  = "bull_researcher"
	BearResearcher  = "bear_researcher"
	ResearchManager = "research_manager"

	// Trading team
	Trader = "trader"

	// Risk management team
	RiskyAnalyst   = "risky_analyst"
	SafeAnalyst    = "safe_analyst"
	NeutralAnalyst = "neutral_analyst"
	RiskManager    = "risk_manager"
)

// Display labels, keyed by role id.
const (
	Label_MarketAnalyst       = "Market Analyst"
	Label_SocialMediaAnalyst  = "Social Media Analyst"
	Label_NewsAnalyst         = "News Analyst"
	Label_FundamentalsAnalyst = "Fundamentals Analyst"
	Label_BullResearcher      = "Bull Researcher"
	Label_BearResearcher      = "Bear Researcher"
	Label_ResearchManager     = "Research Manager"
	Label_Trader              = "Trader"
	Label_RiskyAnalyst        = "Risky Analyst"
	Label_SafeAnalyst         = "Safe Analyst"
	Label_NeutralAnalyst      = "Neutral Analyst"
	Label_RiskManager         = "Risk Manager"
)
