package usecase

import (
	"context"
	"fmt"
	"gestao_oficina/internal/domain/reporting"
	"gestao_oficina/internal/usecase/interfaces"
	"gestao_oficina/pkg/logger"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultReportDays = 30

// ReportRange selects the calendar days of a report, both ends inclusive.
// Zero values fall back to the last 30 days ending today.
type ReportRange struct {
	From time.Time
	To   time.Time
}

type IReportUseCase interface {
	Generate(ctx context.Context, rng ReportRange) (reporting.Report, error)
}

type ReportUseCase struct {
	orders    interfaces.IServiceOrderRepository
	inventory interfaces.IInventoryRepository
	clients   interfaces.IClientRepository
	cache     interfaces.IReportCache
	cacheTTL  time.Duration
	loc       *time.Location
	now       func() time.Time
}

var _ IReportUseCase = (*ReportUseCase)(nil)

// NewReportUseCase builds the report generator. cache may be nil, in which
// case every call reads the store.
func NewReportUseCase(orders interfaces.IServiceOrderRepository, inventory interfaces.IInventoryRepository, clients interfaces.IClientRepository, cache interfaces.IReportCache, cacheTTL time.Duration, loc *time.Location) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{
		orders:    orders,
		inventory: inventory,
		clients:   clients,
		cache:     cache,
		cacheTTL:  cacheTTL,
		loc:       loc,
		now:       time.Now,
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// resolve returns the first instant of From's day and the last instant of
// To's day in the report location.
func (u *ReportUseCase) resolve(rng ReportRange) (time.Time, time.Time, error) {
	to := rng.To
	if to.IsZero() {
		to = u.now()
	}
	to = startOfDay(to, u.loc)

	from := rng.From
	if from.IsZero() {
		from = to.AddDate(0, 0, -(defaultReportDays - 1))
	}
	from = startOfDay(from, u.loc)

	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func (u *ReportUseCase) cacheKey(from, to time.Time) string {
	return fmt.Sprintf("report:%s:%s:%s", from.Format(time.DateOnly), to.Format(time.DateOnly), u.loc.String())
}

// closed reports whether a range ending at to may be served from the cache.
// Ranges that reach today still gain orders, so they always read the store.
// Closed ranges can still drift while cached (status changes on old orders,
// current inventory) for at most the cache TTL.
func (u *ReportUseCase) closed(to time.Time) bool {
	return u.cache != nil && to.Before(startOfDay(u.now(), u.loc))
}

func (u *ReportUseCase) Generate(ctx context.Context, rng ReportRange) (reporting.Report, error) {
	log := logger.For("report", "usecase")
	from, to, err := u.resolve(rng)
	if err != nil {
		return reporting.Report{}, err
	}
	key := u.cacheKey(from, to)
	cacheable := u.closed(to)

	if cacheable {
		cached, ok, err := u.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.WithError(err).WithField("key", key).Warn("report cache read failed")
		case ok:
			log.WithField("key", key).Debug("report cache hit")
			return cached, nil
		}
	}

	orders, err := u.orders.ListByCreatedAtRange(ctx, from, to)
	if err != nil {
		return reporting.Report{}, storeErr("list service orders", err)
	}
	items, err := u.inventory.List(ctx)
	if err != nil {
		return reporting.Report{}, storeErr("list inventory", err)
	}
	clients, err := u.clients.List(ctx)
	if err != nil {
		return reporting.Report{}, storeErr("list clients", err)
	}

	report := reporting.Aggregate(reporting.Snapshot{
		From:      from,
		To:        to,
		Orders:    orders,
		Inventory: items,
		Clients:   clients,
		Location:  u.loc,
	})
	log.WithFields(logrus.Fields{"from": from.Format(time.DateOnly), "to": to.Format(time.DateOnly), "orders": len(orders)}).Info("report generated")

	if cacheable && u.cacheTTL > 0 {
		if err := u.cache.Set(ctx, key, report, u.cacheTTL); err != nil {
			log.WithError(err).WithField("key", key).Warn("report cache write failed")
		}
	}
	return report, nil
}
