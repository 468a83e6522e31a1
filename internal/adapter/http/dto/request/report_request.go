package request

import (
	"errors"
	"strings"
	"time"

	"gestao_oficina/internal/usecase"
)

var ErrInvalidReportDate = errors.New("dates must use the YYYY-MM-DD format")

// ReportQuery holds the optional ?from=&to= bounds of the dashboard report.
type ReportQuery struct {
	From string `form:"from" example:"2025-01-01"`
	To   string `form:"to" example:"2025-01-31"`
}

// ToRange parses the bounds as calendar days in loc. A missing bound stays
// zero so the use case picks its default.
func (q ReportQuery) ToRange(loc *time.Location) (usecase.ReportRange, error) {
	var rng usecase.ReportRange
	var err error
	if rng.From, err = parseDay(q.From, loc); err != nil {
		return usecase.ReportRange{}, err
	}
	if rng.To, err = parseDay(q.To, loc); err != nil {
		return usecase.ReportRange{}, err
	}
	return rng, nil
}

func parseDay(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, ErrInvalidReportDate
	}
	return t, nil
}
