package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const stateActive = "ACTIVE"

// ErrCostCenterNotFound is returned when a cost center of the requested
// name does not exist in an active state.
var ErrCostCenterNotFound = errors.New("github: no active cost center with that name")

func (c *Client) costCentersPath() string {
	return fmt.Sprintf("/enterprises/%s/settings/billing/cost-centers", c.enterprise)
}

// ListCostCenters returns all cost centers in the enterprise, active or not.
func (c *Client) ListCostCenters(ctx context.Context) ([]CostCenter, error) {
	var resp costCentersResponse
	if err := c.doJSON(ctx, http.MethodGet, c.costCentersPath(), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing cost centers: %w", err)
	}
	return resp.CostCenters, nil
}

// CreateCostCenter creates a cost center and returns its ID. Creation is
// idempotent: a conflict response resolves to the ID of the existing ACTIVE
// cost center with the exact same name. A name that only matches deleted
// cost centers fails with ErrCostCenterNotFound so a stale ID is never
// resurrected.
func (c *Client) CreateCostCenter(ctx context.Context, name string) (string, error) {
	payload := map[string]string{"name": name}

	var created CostCenter
	err := c.doJSON(ctx, http.MethodPost, c.costCentersPath(), nil, payload, &created)
	if err == nil {
		c.logger.Info("created cost center",
			zap.String("name", name),
			zap.String("id", created.ID),
		)
		return created.ID, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		c.logger.Info("cost center already exists, resolving existing ID", zap.String("name", name))
		return c.findActiveCostCenter(ctx, name)
	}

	return "", fmt.Errorf("creating cost center %q: %w", name, err)
}

// findActiveCostCenter looks up a cost center by exact name among ACTIVE
// entries only.
func (c *Client) findActiveCostCenter(ctx context.Context, name string) (string, error) {
	centers, err := c.ListCostCenters(ctx)
	if err != nil {
		return "", err
	}

	var inactive []string
	for _, center := range centers {
		if center.Name != name {
			continue
		}
		if strings.ToUpper(center.State) == stateActive {
			c.logger.Info("found active cost center",
				zap.String("name", name),
				zap.String("id", center.ID),
			)
			return center.ID, nil
		}
		inactive = append(inactive, fmt.Sprintf("%s (%s)", center.ID, center.State))
	}

	if len(inactive) > 0 {
		c.logger.Warn("only inactive cost centers match name, ignoring them",
			zap.String("name", name),
			zap.Strings("inactive", inactive),
		)
	}

	return "", fmt.Errorf("%w: %q", ErrCostCenterNotFound, name)
}

// EnsureCostCenters creates both buckets if absent and returns their IDs.
func (c *Client) EnsureCostCenters(ctx context.Context, noPRUsName, prusAllowedName string) (CostCenterIDs, error) {
	noPRUsID, err := c.CreateCostCenter(ctx, noPRUsName)
	if err != nil {
		return CostCenterIDs{}, fmt.Errorf("ensuring cost center %q: %w", noPRUsName, err)
	}

	prusAllowedID, err := c.CreateCostCenter(ctx, prusAllowedName)
	if err != nil {
		return CostCenterIDs{}, fmt.Errorf("ensuring cost center %q: %w", prusAllowedName, err)
	}

	c.logger.Info("cost centers ready",
		zap.String("no_prus", noPRUsID),
		zap.String("prus_allowed", prusAllowedID),
	)
	return CostCenterIDs{NoPRUs: noPRUsID, PRUsAllowed: prusAllowedID}, nil
}
