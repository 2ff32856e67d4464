package cmd

import (
	"context"
	"time"

	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/aaearon/copilot-costs/internal/github"
)

// mockSeatLister implements the seatLister interface for testing
type mockSeatLister struct {
	listFunc func(ctx context.Context) ([]github.Seat, error)
	seats    []github.Seat
	listErr  error
	calls    int
}

func (m *mockSeatLister) ListSeats(ctx context.Context) ([]github.Seat, error) {
	m.calls++
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return m.seats, m.listErr
}

// mockCostCenterEnsurer implements the costCenterEnsurer interface for testing
type mockCostCenterEnsurer struct {
	ids       github.CostCenterIDs
	ensureErr error
	calls     int
	gotNames  [][2]string
}

func (m *mockCostCenterEnsurer) EnsureCostCenters(ctx context.Context, noPRUsName, prusAllowedName string) (github.CostCenterIDs, error) {
	m.calls++
	m.gotNames = append(m.gotNames, [2]string{noPRUsName, prusAllowedName})
	return m.ids, m.ensureErr
}

// mockBulkAssigner implements the bulkAssigner interface for testing.
// When result is unset, every login in the given groups succeeds.
type mockBulkAssigner struct {
	result    *github.AssignmentResult
	calls     int
	gotGroups [][]github.Group
}

func (m *mockBulkAssigner) BulkAssign(ctx context.Context, groups []github.Group) github.AssignmentResult {
	m.calls++
	m.gotGroups = append(m.gotGroups, groups)
	if m.result != nil {
		return *m.result
	}

	result := github.AssignmentResult{PerCostCenter: make(map[string]map[string]bool)}
	for _, group := range groups {
		if len(group.Logins) == 0 {
			continue
		}
		logins := make(map[string]bool, len(group.Logins))
		for _, login := range group.Logins {
			logins[login] = true
			result.Attempted++
			result.Succeeded++
		}
		result.PerCostCenter[group.CostCenterID] = logins
	}
	return result
}

// mockConfirmPrompter implements the confirmPrompter interface for testing
type mockConfirmPrompter struct {
	confirmed  bool
	confirmErr error
	calls      int
}

func (m *mockConfirmPrompter) ConfirmApply() (bool, error) {
	m.calls++
	return m.confirmed, m.confirmErr
}

// mockCheckpointStore implements the checkpointStore interface for testing
type mockCheckpointStore struct {
	last      time.Time
	ok        bool
	saveErr   error
	saveCalls int
}

func (m *mockCheckpointStore) Load() (time.Time, bool) {
	return m.last, m.ok
}

func (m *mockCheckpointStore) Save() (time.Time, error) {
	m.saveCalls++
	return time.Now(), m.saveErr
}

// mockConfigWriter implements the configWriter interface for testing
type mockConfigWriter struct {
	gotCfg  *config.Config
	gotPath string
	saveErr error
}

func (m *mockConfigWriter) Save(cfg *config.Config, path string) error {
	m.gotCfg = cfg
	m.gotPath = path
	return m.saveErr
}
