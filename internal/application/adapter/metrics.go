package adapter

import (
	"time"

	"github.com/groupledger/backend/internal/domain/entity"
)

// BalanceMetrics records observations about balance computations.
type BalanceMetrics interface {
	// ObserveSummary records one completed balance summary.
	ObserveSummary(mode entity.ConversionMode, elapsed time.Duration, stats entity.ConversionStats, issues []entity.ComputationIssue)

	// ObserveRateLookup records one exchange rate lookup by outcome (hit, miss, error).
	ObserveRateLookup(source, outcome string)
}
