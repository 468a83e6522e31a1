package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestao_oficina/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	items []entities.InventoryItem
	err   error
	calls int
}

func (f *fakeLister) ListLowStock(ctx context.Context) ([]entities.InventoryItem, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline")
	}
	return f.items, f.err
}

func TestLowStockJob_Run(t *testing.T) {
	lister := &fakeLister{items: []entities.InventoryItem{
		{ID: "1", Name: "Filtro de óleo", CurrentStock: 0, MinimumStock: 5},
		{ID: "2", Name: "Pastilha de freio", CurrentStock: 2, MinimumStock: 2},
	}}
	job := NewLowStockJob(lister, time.Second)

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, lister.calls)
}

func TestLowStockJob_RunError(t *testing.T) {
	job := NewLowStockJob(&fakeLister{err: errors.New("store down")}, 0)

	_, err := job.Run(context.Background())
	assert.EqualError(t, err, "store down")
}

func TestStart(t *testing.T) {
	job := NewLowStockJob(&fakeLister{}, time.Second)

	c, err := Start(context.Background(), "@every 1h", job)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()

	_, err = Start(context.Background(), "not a schedule", job)
	assert.ErrorContains(t, err, "failed to register low stock job")
}
