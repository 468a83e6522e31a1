package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestao_oficina/internal/domain/reporting"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memStore) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func TestRedisReportCache_MissThenHit(t *testing.T) {
	store := newMemStore()
	c := &RedisReportCache{rdb: store, prefix: "oficina:"}
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "report:2025-01-01:2025-01-31:UTC")
	require.NoError(t, err)
	assert.False(t, ok)

	in := reporting.Report{
		TotalRevenue:         decimal.RequireFromString("1500.50"),
		CompletedOrdersCount: 3,
		RevenueByDay:         []reporting.DayRevenue{{Date: "2025-01-02", Revenue: decimal.RequireFromString("1500.50")}},
	}
	require.NoError(t, c.Set(ctx, "report:2025-01-01:2025-01-31:UTC", in, time.Minute))
	assert.Equal(t, time.Minute, store.ttls["oficina:report:2025-01-01:2025-01-31:UTC"])

	out, ok, err := c.Get(ctx, "report:2025-01-01:2025-01-31:UTC")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, out.TotalRevenue.Equal(in.TotalRevenue))
	assert.Equal(t, 3, out.CompletedOrdersCount)
	require.Len(t, out.RevenueByDay, 1)
	assert.Equal(t, "2025-01-02", out.RevenueByDay[0].Date)
}

func TestRedisReportCache_Errors(t *testing.T) {
	store := newMemStore()
	c := &RedisReportCache{rdb: store}

	store.data["bad"] = "{not json"
	_, ok, err := c.Get(context.Background(), "bad")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "decode cached report")

	store.getErr = errors.New("connection refused")
	_, ok, err = c.Get(context.Background(), "any")
	assert.False(t, ok)
	assert.EqualError(t, err, "connection refused")
}
