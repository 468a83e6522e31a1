package scheduler

import (
	"context"
	"fmt"
	"time"

	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type LowStockLister interface {
	ListLowStock(ctx context.Context) ([]entities.InventoryItem, error)
}

// LowStockJob logs a warning for every item at or below its minimum stock.
type LowStockJob struct {
	inventory LowStockLister
	timeout   time.Duration
	log       *logrus.Entry
}

func NewLowStockJob(inventory LowStockLister, timeout time.Duration) *LowStockJob {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LowStockJob{
		inventory: inventory,
		timeout:   timeout,
		log:       logger.For("scheduler", "low_stock"),
	}
}

// Run performs one sweep and returns how many items were flagged.
func (j *LowStockJob) Run(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	items, err := j.inventory.ListLowStock(ctx)
	if err != nil {
		j.log.WithError(err).Error("low stock sweep failed")
		return 0, err
	}
	for _, it := range items {
		j.log.WithFields(logrus.Fields{
			"inventory_item_id": it.ID,
			"name":              it.Name,
			"current_stock":     it.CurrentStock,
			"minimum_stock":     it.MinimumStock,
			"level":             it.StockLevel(),
		}).Warn("item below minimum stock")
	}
	j.log.WithField("count", len(items)).Info("low stock sweep finished")
	return len(items), nil
}

// Start registers the sweep under schedule and starts the cron runner.
// The caller stops it with Stop on shutdown.
func Start(ctx context.Context, schedule string, job *LowStockJob) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { _, _ = job.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("failed to register low stock job %q: %w", schedule, err)
	}
	c.Start()
	job.log.WithField("schedule", schedule).Info("low stock job scheduled")
	return c, nil
}
