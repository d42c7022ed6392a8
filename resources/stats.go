package resources

import "context"

// GetDashboardStats returns the aggregate counters and chart buckets the
// dashboard renders.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.gw.Get(ctx, "/v1/stats/dashboard", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
