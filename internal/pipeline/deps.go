package pipeline

import (
	"fmt"

	"github.com/dyike/CortexTrack/consts"
)

// upstreams maps a role to the roles whose output is forwarded to it as
// context. The four analysts are the independent roots; everything else
// hangs off them, so the table forms a DAG.
var upstreams = mustUpstreams(map[string][]string{
	consts.BullResearcher: {consts.MarketAnalyst, consts.SocialMediaAnalyst, consts.NewsAnalyst, consts.FundamentalsAnalyst},
	consts.BearResearcher: {consts.MarketAnalyst, consts.SocialMediaAnalyst, consts.NewsAnalyst, consts.FundamentalsAnalyst},

	consts.ResearchManager: {consts.BullResearcher, consts.BearResearcher},
	consts.Trader:          {consts.ResearchManager},

	consts.RiskyAnalyst:   {consts.Trader},
	consts.SafeAnalyst:    {consts.Trader},
	consts.NeutralAnalyst: {consts.Trader},

	consts.RiskManager: {consts.RiskyAnalyst, consts.SafeAnalyst, consts.NeutralAnalyst},
})

// mustUpstreams validates the dependency table at process start. The table
// is configuration, not data: a bad edge is a programming error and must not
// survive initialization.
func mustUpstreams(edges map[string][]string) map[string][]string {
	if err := validateUpstreams(edges); err != nil {
		panic(fmt.Sprintf("pipeline: invalid dependency table: %v", err))
	}
	return edges
}

func validateUpstreams(edges map[string][]string) error {
	for id, ups := range edges {
		if _, ok := roleIndex[id]; !ok {
			return fmt.Errorf("unknown role %q", id)
		}
		for _, up := range ups {
			if _, ok := roleIndex[up]; !ok {
				return fmt.Errorf("role %q references unknown upstream %q", id, up)
			}
		}
	}

	// Cycle check: every role must be fully walkable without revisiting a
	// node on the current path.
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(edges))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("dependency cycle through %q", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, up := range edges[id] {
			if err := visit(up); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for id := range edges {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// UpstreamOf returns, in order, the role definitions whose output feeds the
// given role. Roles with no upstreams (the analysts) yield an empty slice;
// an unknown id yields nil.
func UpstreamOf(roleID string) []RoleDefinition {
	if _, ok := roleIndex[roleID]; !ok {
		return nil
	}
	ids := upstreams[roleID]
	out := make([]RoleDefinition, 0, len(ids))
	for _, id := range ids {
		out = append(out, roleIndex[id])
	}
	return out
}
