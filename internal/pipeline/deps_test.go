package pipeline

import (
	"testing"

	"github.com/dyike/CortexTrack/consts"
)

func TestRoleTableShape(t *testing.T) {
	all := Roles()
	if len(all) != 12 {
		t.Fatalf("expected 12 roles, got %d", len(all))
	}

	seen := map[string]bool{}
	for _, r := range all {
		if seen[r.ID] {
			t.Fatalf("duplicate role id %s", r.ID)
		}
		seen[r.ID] = true
	}

	// Phase order is fixed: analysts, then research, trading, risk.
	phaseRank := map[string]int{
		consts.PhaseAnalysis: 0,
		consts.PhaseResearch: 1,
		consts.PhaseTrading:  2,
		consts.PhaseRisk:     3,
	}
	last := -1
	for _, r := range all {
		rank, ok := phaseRank[r.Phase]
		if !ok {
			t.Fatalf("role %s has unknown phase %s", r.ID, r.Phase)
		}
		if rank < last {
			t.Fatalf("role %s out of phase order", r.ID)
		}
		last = rank
	}
}

func TestJudgeRolesAreCategoryScoped(t *testing.T) {
	rm, _ := RoleByID(consts.ResearchManager)
	if rm.DebateCategory != consts.DebateInvestment || rm.DebateRole != consts.DebateRoleJudge {
		t.Fatalf("research_manager should judge the investment debate, got %s/%s", rm.DebateCategory, rm.DebateRole)
	}
	rk, _ := RoleByID(consts.RiskManager)
	if rk.DebateCategory != consts.DebateRisk || rk.DebateRole != consts.DebateRoleJudge {
		t.Fatalf("risk_manager should judge the risk debate, got %s/%s", rk.DebateCategory, rk.DebateRole)
	}
}

func TestValidateUpstreamsRejectsUnknownRole(t *testing.T) {
	bad := map[string][]string{
		consts.Trader: {"portfolio_wizard"},
	}
	if err := validateUpstreams(bad); err == nil {
		t.Fatal("expected validation error for unknown upstream id")
	}

	bad = map[string][]string{
		"portfolio_wizard": {consts.Trader},
	}
	if err := validateUpstreams(bad); err == nil {
		t.Fatal("expected validation error for unknown role id")
	}
}

func TestValidateUpstreamsRejectsCycle(t *testing.T) {
	bad := map[string][]string{
		consts.Trader:          {consts.ResearchManager},
		consts.ResearchManager: {consts.RiskManager},
		consts.RiskManager:     {consts.Trader},
	}
	if err := validateUpstreams(bad); err == nil {
		t.Fatal("expected validation error for dependency cycle")
	}
}

func TestUpstreamOf(t *testing.T) {
	ups := UpstreamOf(consts.ResearchManager)
	if len(ups) != 2 {
		t.Fatalf("research_manager: expected 2 upstreams, got %d", len(ups))
	}
	if ups[0].ID != consts.BullResearcher || ups[1].ID != consts.BearResearcher {
		t.Fatalf("research_manager: unexpected upstream order %s, %s", ups[0].ID, ups[1].ID)
	}

	if got := UpstreamOf(consts.MarketAnalyst); len(got) != 0 {
		t.Fatalf("market_analyst is a root, got %d upstreams", len(got))
	}
	if got := UpstreamOf("nonexistent"); got != nil {
		t.Fatal("unknown role should yield nil")
	}

	risky := UpstreamOf(consts.RiskyAnalyst)
	if len(risky) != 1 || risky[0].ID != consts.Trader {
		t.Fatal("risky_analyst should be fed by the trader")
	}
}
