// Package costcenter implements the two-bucket assignment rule: exception
// users go to the PRUs-allowed cost center, everyone else to the default
// no-PRUs cost center.
package costcenter

import "github.com/aaearon/copilot-costs/internal/github"

// Assignment method tags stamped on seats for downstream reporting.
const (
	MethodException = "exception"
	MethodDefault   = "default"
)

// Planner classifies seats and builds the full desired grouping. It is
// pure: no I/O, deterministic for a given exception set.
type Planner struct {
	NoPRUsID      string
	PRUsAllowedID string
	exceptions    map[string]struct{}
}

// NewPlanner creates a planner for the given bucket IDs and exception logins.
func NewPlanner(noPRUsID, prusAllowedID string, exceptionLogins []string) *Planner {
	exceptions := make(map[string]struct{}, len(exceptionLogins))
	for _, login := range exceptionLogins {
		exceptions[login] = struct{}{}
	}
	return &Planner{
		NoPRUsID:      noPRUsID,
		PRUsAllowedID: prusAllowedID,
		exceptions:    exceptions,
	}
}

// IsException reports whether the login is on the PRUs exception list.
func (p *Planner) IsException(login string) bool {
	_, ok := p.exceptions[login]
	return ok
}

// ExceptionCount returns the number of configured exception logins.
func (p *Planner) ExceptionCount() int {
	return len(p.exceptions)
}

// Classify returns the cost center ID for the seat and stamps the seat's
// CostCenter and AssignmentMethod fields.
func (p *Planner) Classify(seat *github.Seat) string {
	if p.IsException(seat.Login) {
		seat.CostCenter = p.PRUsAllowedID
		seat.AssignmentMethod = MethodException
	} else {
		seat.CostCenter = p.NoPRUsID
		seat.AssignmentMethod = MethodDefault
	}
	return seat.CostCenter
}

// PlanGroups classifies every seat and returns the full desired grouping,
// exception bucket first. Every seat's login lands in exactly one group;
// group order and login order within a group are deterministic (input
// order). Groups may be empty.
func (p *Planner) PlanGroups(seats []github.Seat) []github.Group {
	exception := github.Group{CostCenterID: p.PRUsAllowedID}
	standard := github.Group{CostCenterID: p.NoPRUsID}

	for i := range seats {
		if p.Classify(&seats[i]) == p.PRUsAllowedID {
			exception.Logins = append(exception.Logins, seats[i].Login)
		} else {
			standard.Logins = append(standard.Logins, seats[i].Login)
		}
	}

	return []github.Group{exception, standard}
}

// Summary counts classified seats per cost center ID. Seats not yet
// classified are counted under "unassigned".
func (p *Planner) Summary(seats []github.Seat) map[string]int {
	summary := make(map[string]int)
	for _, seat := range seats {
		id := seat.CostCenter
		if id == "" {
			id = "unassigned"
		}
		summary[id]++
	}
	return summary
}

// Stats describes a classified seat population in detail.
type Stats struct {
	TotalSeats           int      `json:"total_seats"`
	NoPRUsCostCenter     string   `json:"no_prus_cost_center"`
	NoPRUsLogins         []string `json:"no_prus_logins"`
	PRUsAllowedCenter    string   `json:"prus_allowed_cost_center"`
	PRUsAllowedLogins    []string `json:"prus_allowed_logins"`
	ConfiguredExceptions int      `json:"configured_exceptions"`
	ActualExceptions     int      `json:"actual_exceptions"`
}

// Stats computes detailed statistics over classified seats.
func (p *Planner) Stats(seats []github.Seat) Stats {
	stats := Stats{
		TotalSeats:           len(seats),
		NoPRUsCostCenter:     p.NoPRUsID,
		PRUsAllowedCenter:    p.PRUsAllowedID,
		ConfiguredExceptions: len(p.exceptions),
	}
	for _, seat := range seats {
		switch seat.CostCenter {
		case p.PRUsAllowedID:
			stats.PRUsAllowedLogins = append(stats.PRUsAllowedLogins, seat.Login)
		case p.NoPRUsID:
			stats.NoPRUsLogins = append(stats.NoPRUsLogins, seat.Login)
		}
	}
	stats.ActualExceptions = len(stats.PRUsAllowedLogins)
	return stats
}
