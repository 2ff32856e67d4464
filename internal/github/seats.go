package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const seatsPerPage = 100

// ListSeats retrieves every Copilot seat in the enterprise. Pages of
// seatsPerPage are fetched sequentially until a short or empty page ends
// the listing. Entries without a login are dropped with a warning; a login
// seen more than once keeps its first occurrence and duplicates are counted
// and reported once in aggregate. Any error after retries is fatal — no
// partial result is returned.
func (c *Client) ListSeats(ctx context.Context) ([]Seat, error) {
	path := fmt.Sprintf("/enterprises/%s/copilot/billing/seats", c.enterprise)

	var seats []Seat
	seen := make(map[string]bool)
	duplicates := make(map[string]int)

	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(seatsPerPage)},
			"page":     {strconv.Itoa(page)},
		}

		var resp seatsResponse
		if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
			return nil, fmt.Errorf("listing copilot seats page %d: %w", page, err)
		}

		for _, entry := range resp.Seats {
			seat := entry.toSeat()
			if seat.Login == "" {
				c.logger.Warn("dropping seat entry without a login", zap.Int("page", page))
				continue
			}
			if seen[seat.Login] {
				duplicates[seat.Login]++
				continue
			}
			seen[seat.Login] = true
			seats = append(seats, seat)
		}

		c.logger.Debug("fetched seats page",
			zap.Int("page", page),
			zap.Int("entries", len(resp.Seats)),
		)

		if len(resp.Seats) < seatsPerPage {
			break
		}
	}

	if len(duplicates) > 0 {
		total := 0
		for _, n := range duplicates {
			total += n
		}
		c.logger.Warn("skipped duplicate seat entries",
			zap.Int("duplicates", total),
			zap.Int("logins", len(duplicates)),
		)
	}

	c.logger.Info("copilot seat holders found", zap.Int("count", len(seats)))
	return seats, nil
}

// FilterCreatedAfter keeps the seats created strictly after since. Seats
// with no creation timestamp are kept; so are seats whose timestamp cannot
// be parsed, with a warning.
func FilterCreatedAfter(seats []Seat, since time.Time, logger *zap.Logger) []Seat {
	var kept []Seat
	for _, seat := range seats {
		if seat.CreatedAt == nil || *seat.CreatedAt == "" {
			kept = append(kept, seat)
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, *seat.CreatedAt)
		if err != nil {
			logger.Warn("unparsable seat creation timestamp, keeping seat",
				zap.String("login", seat.Login),
				zap.String("created_at", *seat.CreatedAt),
			)
			kept = append(kept, seat)
			continue
		}
		if createdAt.After(since) {
			kept = append(kept, seat)
		}
	}
	return kept
}
