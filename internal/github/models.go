package github

import "sort"

// Seat is one Copilot license assignment within the enterprise, flattened
// from the billing API's seat entry. Optional API fields are pointers;
// nil means the API did not report a value.
type Seat struct {
	Login  string  `json:"login"`
	UserID int64   `json:"id"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Type   *string `json:"type,omitempty"`

	CreatedAt               *string `json:"created_at,omitempty"`
	UpdatedAt               *string `json:"updated_at,omitempty"`
	PendingCancellationDate *string `json:"pending_cancellation_date,omitempty"`
	LastActivityAt          *string `json:"last_activity_at,omitempty"`
	LastActivityEditor      *string `json:"last_activity_editor,omitempty"`
	PlanType                *string `json:"plan_type,omitempty"`
	AssigningTeam           *string `json:"assigning_team,omitempty"`

	// Set during planning, not by the API.
	CostCenter       string `json:"cost_center,omitempty"`
	AssignmentMethod string `json:"assignment_method,omitempty"`
}

// seatsResponse is the wire format of the paginated seats listing.
type seatsResponse struct {
	TotalSeats int         `json:"total_seats"`
	Seats      []seatEntry `json:"seats"`
}

type seatEntry struct {
	Assignee struct {
		Login string  `json:"login"`
		ID    int64   `json:"id"`
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Type  *string `json:"type"`
	} `json:"assignee"`
	CreatedAt               *string `json:"created_at"`
	UpdatedAt               *string `json:"updated_at"`
	PendingCancellationDate *string `json:"pending_cancellation_date"`
	LastActivityAt          *string `json:"last_activity_at"`
	LastActivityEditor      *string `json:"last_activity_editor"`
	PlanType                *string `json:"plan_type"`
	AssigningTeam           *struct {
		Slug string `json:"slug"`
	} `json:"assigning_team"`
}

func (e seatEntry) toSeat() Seat {
	s := Seat{
		Login:                   e.Assignee.Login,
		UserID:                  e.Assignee.ID,
		Name:                    e.Assignee.Name,
		Email:                   e.Assignee.Email,
		Type:                    e.Assignee.Type,
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
		PendingCancellationDate: e.PendingCancellationDate,
		LastActivityAt:          e.LastActivityAt,
		LastActivityEditor:      e.LastActivityEditor,
		PlanType:                e.PlanType,
	}
	if e.AssigningTeam != nil {
		s.AssigningTeam = &e.AssigningTeam.Slug
	}
	return s
}

// CostCenter is a billing cost center as reported by the enterprise API.
type CostCenter struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type costCentersResponse struct {
	CostCenters []CostCenter `json:"costCenters"`
}

// CostCenterIDs holds the two bucket IDs after create-or-find.
type CostCenterIDs struct {
	NoPRUs      string
	PRUsAllowed string
}

// Group is an ordered desired assignment: every login in Logins belongs in
// the cost center identified by CostCenterID.
type Group struct {
	CostCenterID string
	Logins       []string
}

// AssignmentResult is the outcome of a bulk assignment run. PerCostCenter
// maps cost center ID -> login -> success. Partial failure is a normal
// outcome; the aggregate counters cover every attempted login.
type AssignmentResult struct {
	PerCostCenter map[string]map[string]bool
	Attempted     int
	Succeeded     int
	Failed        int
}

// FailedLogins returns the logins that failed for the given cost center,
// in sorted order.
func (r AssignmentResult) FailedLogins(costCenterID string) []string {
	var failed []string
	for login, ok := range r.PerCostCenter[costCenterID] {
		if !ok {
			failed = append(failed, login)
		}
	}
	sort.Strings(failed)
	return failed
}
