package cmd

import (
	"context"
	"time"

	"github.com/aaearon/copilot-costs/internal/github"
)

// seatLister interface for fetching Copilot seats
type seatLister interface {
	ListSeats(ctx context.Context) ([]github.Seat, error)
}

// costCenterEnsurer interface for create-if-absent cost center setup
type costCenterEnsurer interface {
	EnsureCostCenters(ctx context.Context, noPRUsName, prusAllowedName string) (github.CostCenterIDs, error)
}

// bulkAssigner interface for pushing desired groupings
type bulkAssigner interface {
	BulkAssign(ctx context.Context, groups []github.Group) github.AssignmentResult
}

// confirmPrompter interface for the apply confirmation gate
type confirmPrompter interface {
	ConfirmApply() (bool, error)
}

// checkpointStore interface for the incremental-run checkpoint
type checkpointStore interface {
	Load() (time.Time, bool)
	Save() (time.Time, error)
}
