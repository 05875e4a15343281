package ports

import (
	"context"

	"energyexplain/domain/market"
	"energyexplain/domain/series"
)

// MarketDataSource produces the aggregated market context for a snapshot.
type MarketDataSource interface {
	MarketContext(ctx context.Context, snapshot *series.Snapshot) (market.Context, error)
}
