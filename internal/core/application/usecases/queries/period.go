package queries

import (
	"strings"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/pkg/errs"

	"github.com/jinzhu/now"
)

// Period is a scan-date window. An explicit start wins over days, which counts
// back from today inclusively. Unset bounds leave that side open.
type Period struct {
	days  int
	start *time.Time
	end   *time.Time
}

// NewPeriod parses YYYY-MM-DD bounds. Non-positive days are ignored.
func NewPeriod(days int, start, end string) (Period, error) {
	p := Period{days: days}

	if s := strings.TrimSpace(start); s != "" {
		t, err := kernel.ParseDate(s, nil)
		if err != nil {
			return Period{}, errs.NewValueIsInvalidErrorWithCause("start", err)
		}
		p.start = &t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := kernel.ParseDate(e, nil)
		if err != nil {
			return Period{}, errs.NewValueIsInvalidErrorWithCause("end", err)
		}
		p.end = &t
	}

	return p, nil
}

// Bounds renders the window as scan dates relative to today. An empty string
// is an open bound.
func (p Period) Bounds(today time.Time) (from, to string) {
	switch {
	case p.start != nil:
		from = kernel.FormatDate(*p.start)
	case p.days > 0:
		from = kernel.FormatDate(now.With(today).BeginningOfDay().AddDate(0, 0, -(p.days - 1)))
	}
	if p.end != nil {
		to = kernel.FormatDate(*p.end)
	}
	return from, to
}

// BoundsUntilToday is Bounds with the end defaulting to today.
func (p Period) BoundsUntilToday(today time.Time) (from, to string) {
	from, to = p.Bounds(today)
	if to == "" {
		to = kernel.FormatDate(now.With(today).EndOfDay())
	}
	return from, to
}
