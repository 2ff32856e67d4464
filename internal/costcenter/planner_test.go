package costcenter

import (
	"testing"

	"github.com/aaearon/copilot-costs/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner() *Planner {
	return NewPlanner("cc-no", "cc-pru", []string{"alice", "dave"})
}

func TestClassify(t *testing.T) {
	planner := newTestPlanner()

	tests := []struct {
		login      string
		wantID     string
		wantMethod string
	}{
		{login: "alice", wantID: "cc-pru", wantMethod: MethodException},
		{login: "bob", wantID: "cc-no", wantMethod: MethodDefault},
		{login: "dave", wantID: "cc-pru", wantMethod: MethodException},
		{login: "ALICE", wantID: "cc-no", wantMethod: MethodDefault}, // exact match only
		{login: "", wantID: "cc-no", wantMethod: MethodDefault},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			seat := github.Seat{Login: tt.login}
			got := planner.Classify(&seat)

			assert.Equal(t, tt.wantID, got)
			assert.Equal(t, tt.wantID, seat.CostCenter)
			assert.Equal(t, tt.wantMethod, seat.AssignmentMethod)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	planner := newTestPlanner()
	seat := github.Seat{Login: "alice"}

	first := planner.Classify(&seat)
	second := planner.Classify(&seat)
	assert.Equal(t, first, second)
}

func TestIsException(t *testing.T) {
	planner := newTestPlanner()

	assert.True(t, planner.IsException("alice"))
	assert.False(t, planner.IsException("bob"))
	assert.Equal(t, 2, planner.ExceptionCount())
}

func TestPlanGroups(t *testing.T) {
	planner := newTestPlanner()
	seats := []github.Seat{
		{Login: "bob"},
		{Login: "alice"},
		{Login: "carol"},
		{Login: "dave"},
	}

	groups := planner.PlanGroups(seats)
	require.Len(t, groups, 2)

	// Exception bucket first, logins in input order.
	assert.Equal(t, "cc-pru", groups[0].CostCenterID)
	assert.Equal(t, []string{"alice", "dave"}, groups[0].Logins)
	assert.Equal(t, "cc-no", groups[1].CostCenterID)
	assert.Equal(t, []string{"bob", "carol"}, groups[1].Logins)

	// Every seat lands in exactly one group.
	assert.Equal(t, len(seats), len(groups[0].Logins)+len(groups[1].Logins))

	// Seats carry their classification after planning.
	assert.Equal(t, "cc-no", seats[0].CostCenter)
	assert.Equal(t, "cc-pru", seats[1].CostCenter)
}

func TestPlanGroups_EmptyBucketsArePresent(t *testing.T) {
	planner := NewPlanner("cc-no", "cc-pru", nil)
	groups := planner.PlanGroups([]github.Seat{{Login: "bob"}})

	require.Len(t, groups, 2)
	assert.Empty(t, groups[0].Logins)
	assert.Equal(t, []string{"bob"}, groups[1].Logins)
}

func TestPlanGroups_Idempotent(t *testing.T) {
	planner := newTestPlanner()
	seats := []github.Seat{{Login: "alice"}, {Login: "bob"}}

	first := planner.PlanGroups(seats)
	second := planner.PlanGroups(seats)
	assert.Equal(t, first, second)
}

func TestSummary(t *testing.T) {
	planner := newTestPlanner()
	seats := []github.Seat{
		{Login: "alice"},
		{Login: "bob"},
		{Login: "carol"},
	}

	// Unclassified seats count as unassigned.
	assert.Equal(t, map[string]int{"unassigned": 3}, planner.Summary(seats))

	for i := range seats {
		planner.Classify(&seats[i])
	}
	assert.Equal(t, map[string]int{"cc-pru": 1, "cc-no": 2}, planner.Summary(seats))
}

func TestStats(t *testing.T) {
	planner := newTestPlanner()
	seats := []github.Seat{
		{Login: "alice"},
		{Login: "bob"},
		{Login: "carol"},
	}
	for i := range seats {
		planner.Classify(&seats[i])
	}

	stats := planner.Stats(seats)
	assert.Equal(t, 3, stats.TotalSeats)
	assert.Equal(t, "cc-no", stats.NoPRUsCostCenter)
	assert.Equal(t, "cc-pru", stats.PRUsAllowedCenter)
	assert.Equal(t, []string{"alice"}, stats.PRUsAllowedLogins)
	assert.Equal(t, []string{"bob", "carol"}, stats.NoPRUsLogins)
	assert.Equal(t, 2, stats.ConfiguredExceptions)
	assert.Equal(t, 1, stats.ActualExceptions)
}
