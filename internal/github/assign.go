package github

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// maxBatchSize is the remote API's per-call cap on assigned users.
const maxBatchSize = 50

// addToCostCenter assigns up to maxBatchSize logins to one cost center and
// returns a per-login success map. A call-level failure marks every login
// in the batch as failed; it is reported, not returned, so callers keep
// going with the remaining batches.
func (c *Client) addToCostCenter(ctx context.Context, costCenterID string, logins []string) map[string]bool {
	results := make(map[string]bool, len(logins))

	if len(logins) > maxBatchSize {
		c.logger.Error("batch exceeds per-call cap",
			zap.Int("size", len(logins)),
			zap.Int("cap", maxBatchSize),
		)
		for _, login := range logins {
			results[login] = false
		}
		return results
	}

	path := fmt.Sprintf("%s/%s/resource", c.costCentersPath(), costCenterID)
	payload := map[string][]string{"users": logins}

	if err := c.doJSON(ctx, http.MethodPost, path, nil, payload, nil); err != nil {
		c.logger.Error("failed to assign batch to cost center",
			zap.String("cost_center", costCenterID),
			zap.Int("logins", len(logins)),
			zap.Error(err),
		)
		for _, login := range logins {
			results[login] = false
		}
		return results
	}

	c.logger.Info("assigned batch to cost center",
		zap.String("cost_center", costCenterID),
		zap.Int("logins", len(logins)),
	)
	for _, login := range logins {
		results[login] = true
	}
	return results
}

// BulkAssign pushes the desired groupings to the enterprise. Groups are
// processed in the given order; each group's logins are partitioned into
// batches of at most maxBatchSize, issued sequentially. Partial failure is
// a normal outcome captured in the result, never an error.
func (c *Client) BulkAssign(ctx context.Context, groups []Group) AssignmentResult {
	result := AssignmentResult{PerCostCenter: make(map[string]map[string]bool)}

	for _, group := range groups {
		if len(group.Logins) == 0 {
			continue
		}

		batches := partition(group.Logins, maxBatchSize)
		c.logger.Info("assigning users to cost center",
			zap.String("cost_center", group.CostCenterID),
			zap.Int("logins", len(group.Logins)),
			zap.Int("batches", len(batches)),
		)

		groupResults := make(map[string]bool, len(group.Logins))
		for i, batch := range batches {
			batchResults := c.addToCostCenter(ctx, group.CostCenterID, batch)

			succeeded := 0
			for login, ok := range batchResults {
				groupResults[login] = ok
				if ok {
					succeeded++
				}
			}
			if failed := len(batchResults) - succeeded; failed > 0 {
				c.logger.Warn("batch completed with failures",
					zap.String("cost_center", group.CostCenterID),
					zap.Int("batch", i+1),
					zap.Int("succeeded", succeeded),
					zap.Int("failed", failed),
				)
			} else {
				c.logger.Debug("batch completed",
					zap.String("cost_center", group.CostCenterID),
					zap.Int("batch", i+1),
					zap.Int("succeeded", succeeded),
				)
			}
		}

		result.PerCostCenter[group.CostCenterID] = groupResults
		for _, ok := range groupResults {
			result.Attempted++
			if ok {
				result.Succeeded++
			} else {
				result.Failed++
			}
		}
	}

	if result.Failed > 0 {
		c.logger.Warn("bulk assignment finished with failures",
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
			zap.Int("attempted", result.Attempted),
		)
	} else {
		c.logger.Info("bulk assignment finished",
			zap.Int("succeeded", result.Succeeded),
			zap.Int("attempted", result.Attempted),
		)
	}
	return result
}

func partition(logins []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(logins); start += size {
		end := min(start+size, len(logins))
		batches = append(batches, logins[start:end])
	}
	return batches
}
