package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/dyike/CortexTrack/consts"
	"github.com/dyike/CortexTrack/internal/models"
)

func TestResolveEmptyInputYieldsAllPending(t *testing.T) {
	snap := Resolve(&models.PipelineData{Symbol: "AAPL", TradeDate: "2026-03-15", Status: consts.OverallNoData})

	if len(snap.Roles) != 12 {
		t.Fatalf("expected 12 role views, got %d", len(snap.Roles))
	}
	if snap.Status != consts.OverallNoData {
		t.Fatalf("expected overall status no_data, got %s", snap.Status)
	}
	for _, role := range snap.Roles {
		if role.Status != consts.StatusPending {
			t.Errorf("role %s: expected pending, got %s", role.RoleID, role.Status)
		}
		if role.StartedAt != nil || role.CompletedAt != nil {
			t.Errorf("role %s: expected no timestamps", role.RoleID)
		}
		if role.Output != "" || role.Report != nil || role.DebateText != "" {
			t.Errorf("role %s: expected no attached content", role.RoleID)
		}
	}
}

func TestResolveNilDataIsTotal(t *testing.T) {
	snap := Resolve(nil)
	if len(snap.Roles) != 12 {
		t.Fatalf("expected 12 role views, got %d", len(snap.Roles))
	}
	if snap.Status != consts.OverallNoData {
		t.Fatalf("expected no_data, got %s", snap.Status)
	}
}

func TestResolveAliasPrecedence(t *testing.T) {
	data := &models.PipelineData{
		Symbol:    "AAPL",
		TradeDate: "2026-03-15",
		Status:    consts.OverallInProgress,
		Steps: []models.RawStepRecord{
			{Name: "market_analysis", Status: consts.StatusRunning},
			{Name: consts.MarketAnalyst, Status: consts.StatusCompleted, Output: "primary"},
		},
	}

	snap := Resolve(data)
	view := snap.Role(consts.MarketAnalyst)
	if view.Status != consts.StatusCompleted {
		t.Fatalf("expected primary-id record to win, got status %s", view.Status)
	}
	if view.Output != "primary" {
		t.Fatalf("expected output from primary record, got %q", view.Output)
	}
}

func TestResolveSecondaryAliasMatches(t *testing.T) {
	data := &models.PipelineData{
		Symbol:    "AAPL",
		TradeDate: "2026-03-15",
		Status:    consts.OverallInProgress,
		Steps: []models.RawStepRecord{
			{Name: "news_analysis", Status: consts.StatusRunning},
		},
	}

	snap := Resolve(data)
	if got := snap.Role(consts.NewsAnalyst).Status; got != consts.StatusRunning {
		t.Fatalf("expected news_analysis to resolve news_analyst to running, got %s", got)
	}
}

func TestResolveGroupedRecordSharing(t *testing.T) {
	started := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	data := &models.PipelineData{
		Symbol:    "AAPL",
		TradeDate: "2026-03-15",
		Status:    consts.OverallInProgress,
		Steps: []models.RawStepRecord{
			{Name: "investment_debate", Status: consts.StatusCompleted, StartedAt: &started},
		},
		Debates: []models.DebateRecord{
			{
				Category:      consts.DebateInvestment,
				BullArguments: "A",
				BearArguments: "B",
				JudgeDecision: "J",
			},
		},
	}

	snap := Resolve(data)
	cases := []struct {
		roleID string
		text   string
	}{
		{consts.BullResearcher, "A"},
		{consts.BearResearcher, "B"},
		{consts.ResearchManager, "J"},
	}
	for _, tc := range cases {
		view := snap.Role(tc.roleID)
		if view.Status != consts.StatusCompleted {
			t.Errorf("%s: expected completed from grouped record, got %s", tc.roleID, view.Status)
		}
		if view.StartedAt == nil || !view.StartedAt.Equal(started) {
			t.Errorf("%s: expected shared start timestamp", tc.roleID)
		}
		if view.DebateText != tc.text {
			t.Errorf("%s: expected debate text %q, got %q", tc.roleID, tc.text, view.DebateText)
		}
	}
}

func TestResolveJudgeDisambiguation(t *testing.T) {
	data := &models.PipelineData{
		Symbol:    "AAPL",
		TradeDate: "2026-03-15",
		Status:    consts.OverallInProgress,
		Debates: []models.DebateRecord{
			{Category: consts.DebateRisk, JudgeDecision: "R1"},
			{Category: consts.DebateInvestment, JudgeDecision: "R2"},
		},
	}

	snap := Resolve(data)
	if got := snap.Role(consts.RiskManager).DebateText; got != "R1" {
		t.Fatalf("risk_manager: expected risk judge decision R1, got %q", got)
	}
	if got := snap.Role(consts.ResearchManager).DebateText; got != "R2" {
		t.Fatalf("research_manager: expected investment judge decision R2, got %q", got)
	}
}

func TestResolveIgnoresUnknownStepNames(t *testing.T) {
	data := &models.PipelineData{
		Symbol:    "AAPL",
		TradeDate: "2026-03-15",
		Status:    consts.OverallInProgress,
		Steps: []models.RawStepRecord{
			{Name: "warmup_context", Status: consts.StatusCompleted},
			{Name: consts.Trader, Status: consts.StatusRunning},
		},
	}

	snap := Resolve(data)
	if got := snap.Role(consts.Trader).Status; got != consts.StatusRunning {
		t.Fatalf("trader: expected running, got %s", got)
	}
	for _, role := range snap.Roles {
		if role.RoleID == consts.Trader {
			continue
		}
		if role.Status != consts.StatusPending {
			t.Errorf("role %s: unknown step leaked in as %s", role.RoleID, role.Status)
		}
	}
}

func TestResolveAttachesReports(t *testing.T) {
	data := &models.PipelineData{
		Symbol:    "AAPL",
		TradeDate: "2026-03-15",
		Status:    consts.OverallInProgress,
		Steps: []models.RawStepRecord{
			{Name: consts.MarketAnalyst, Status: consts.StatusCompleted},
		},
		Reports: []models.AgentReportRecord{
			{Agent: consts.MarketAnalyst, Content: "market looks fine", DataSources: []string{"finnhub"}},
		},
	}

	snap := Resolve(data)
	view := snap.Role(consts.MarketAnalyst)
	if view.Report == nil {
		t.Fatal("expected attached report")
	}
	if view.Report.Content != "market looks fine" {
		t.Fatalf("unexpected report content %q", view.Report.Content)
	}
	if view := snap.Role(consts.Trader); view.Report != nil {
		t.Fatal("trader has no report category, nothing should attach")
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	started := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	data := &models.PipelineData{
		Symbol:    "MSFT",
		TradeDate: "2026-03-15",
		Status:    consts.OverallInProgress,
		Steps: []models.RawStepRecord{
			{Name: consts.MarketAnalyst, Status: consts.StatusCompleted, StartedAt: &started},
			{Name: "risk_debate", Status: consts.StatusRunning},
		},
		Debates: []models.DebateRecord{
			{Category: consts.DebateRisk, RiskyArguments: "push", SafeArguments: "hold"},
		},
	}

	first := Resolve(data)
	second := Resolve(data)

	// ResolvedAt is wall-clock; everything else must be identical.
	first.ResolvedAt = time.Time{}
	second.ResolvedAt = time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different snapshots")
	}
}

func TestDefaultSnapshot(t *testing.T) {
	snap := DefaultSnapshot("NVDA", "2026-03-15")
	if snap.Symbol != "NVDA" || snap.TradeDate != "2026-03-15" {
		t.Fatalf("unexpected subject %s/%s", snap.Symbol, snap.TradeDate)
	}
	if snap.Status != consts.OverallNoData {
		t.Fatalf("expected no_data, got %s", snap.Status)
	}
	if len(snap.Roles) != 12 {
		t.Fatalf("expected 12 roles, got %d", len(snap.Roles))
	}
}
