package interfaces

import (
	"context"
	"gestao_oficina/internal/domain/reporting"
	"time"
)

// IReportCache stores generated reports for a short time. A miss is reported
// through the bool result, not an error.
type IReportCache interface {
	Get(ctx context.Context, key string) (reporting.Report, bool, error)
	Set(ctx context.Context, key string, r reporting.Report, ttl time.Duration) error
}
