package sqlc

import (
	"context"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager keeps per server counters of games created
// and games finished. A manager without a querier is disabled
// and every increment is a no-op.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) Enabled() bool {
	return a != nil && a.queries != nil
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) IncrementGamesCreatedCount(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementGamesFinishedCount(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}
	return a.queries.IncrementGamesFinishedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetGamesCreatedCount(ctx context.Context) (int64, error) {
	if !a.Enabled() {
		return 0, ErrAnalyticsDisabled
	}
	return a.queries.GetGamesCreatedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetGamesFinishedCount(ctx context.Context) (int64, error) {
	if !a.Enabled() {
		return 0, ErrAnalyticsDisabled
	}
	return a.queries.GetGamesFinishedCount(ctx, a.serverIp)
}
