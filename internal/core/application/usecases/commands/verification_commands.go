package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"
)

// maxReviewDays bounds the date range of one review.
const maxReviewDays = 366

var (
	ErrSyncVerificationCommandIsNotConstructed = errors.New(
		"SyncVerificationCommand must be created via NewSyncVerificationCommand constructor",
	)
	ErrReviewVerificationCommandIsNotConstructed = errors.New(
		"ReviewVerificationCommand must be created via NewReviewVerificationCommand constructor",
	)
	ErrUpdateVerificationCommandIsNotConstructed = errors.New(
		"UpdateVerificationCommand must be created via NewUpdateVerificationCommand constructor",
	)
)

// SyncVerificationCommand imports the expected orders of one day.
type SyncVerificationCommand struct {
	date string

	guard guard.ConstructorGuard
}

func NewSyncVerificationCommand(date string) (SyncVerificationCommand, error) {
	d, err := parseDay("date", date)
	if err != nil {
		return SyncVerificationCommand{}, err
	}
	return SyncVerificationCommand{date: d, guard: guard.NewConstructorGuard()}, nil
}

func (c *SyncVerificationCommand) Date() string {
	return c.date
}

func (c *SyncVerificationCommand) Validate() error {
	return c.guard.Validate(ErrSyncVerificationCommandIsNotConstructed)
}

// ReviewVerificationCommand syncs and audits a day or an inclusive date range.
type ReviewVerificationCommand struct {
	start string
	end   string
	query string

	guard guard.ConstructorGuard
}

// NewReviewVerificationCommand accepts either date or a start/end pair; a
// missing bound takes the other one and a reversed range is swapped.
func NewReviewVerificationCommand(date, start, end, query string) (ReviewVerificationCommand, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		if strings.TrimSpace(date) == "" {
			return ReviewVerificationCommand{}, errs.NewValueIsRequiredError("date or range")
		}
		start, end = date, date
	}
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}

	s, startErr := parseDay("start", start)
	e, endErr := parseDay("end", end)
	if err := errors.Join(startErr, endErr); err != nil {
		return ReviewVerificationCommand{}, err
	}
	if e < s {
		s, e = e, s
	}
	if n := len(daysBetween(s, e)); n > maxReviewDays {
		return ReviewVerificationCommand{}, errs.NewValueIsOutOfRangeError("range in days", n, 1, maxReviewDays)
	}

	return ReviewVerificationCommand{
		start: s,
		end:   e,
		query: strings.TrimSpace(query),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c *ReviewVerificationCommand) Start() string {
	return c.start
}

func (c *ReviewVerificationCommand) End() string {
	return c.end
}

func (c *ReviewVerificationCommand) Query() string {
	return c.query
}

// Days lists every date of the range in ascending order.
func (c *ReviewVerificationCommand) Days() []string {
	return daysBetween(c.start, c.end)
}

func (c *ReviewVerificationCommand) Validate() error {
	return c.guard.Validate(ErrReviewVerificationCommandIsNotConstructed)
}

// UpdateVerificationCommand is the admin correction of a verification row.
type UpdateVerificationCommand struct {
	id            int64
	driverID      *string
	scanTime      *time.Time
	clearScanTime bool

	guard guard.ConstructorGuard
}

// NewUpdateVerificationCommand: a nil argument leaves the field alone and an
// empty string clears it. scanTime is parsed leniently in loc.
func NewUpdateVerificationCommand(id int64, driverID, scanTime *string, loc *time.Location) (UpdateVerificationCommand, error) {
	c := UpdateVerificationCommand{
		id:       id,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}

	var idErr, timeErr error
	if id <= 0 {
		idErr = errs.NewValueIsInvalidErrorWithCause("verification id", fmt.Errorf("%d is not positive", id))
	}
	if scanTime != nil {
		if strings.TrimSpace(*scanTime) == "" {
			c.clearScanTime = true
		} else if at, err := kernel.ParseTimestamp(*scanTime, loc); err != nil {
			timeErr = errs.NewValueIsInvalidErrorWithCause("scan time", err)
		} else {
			c.scanTime = &at
		}
	}

	if err := errors.Join(idErr, timeErr); err != nil {
		return UpdateVerificationCommand{}, err
	}
	return c, nil
}

func (c *UpdateVerificationCommand) ID() int64 {
	return c.id
}

func (c *UpdateVerificationCommand) DriverID() *string {
	return c.driverID
}

func (c *UpdateVerificationCommand) ScanTime() (*time.Time, bool) {
	return c.scanTime, c.clearScanTime
}

func (c *UpdateVerificationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVerificationCommandIsNotConstructed)
}

func parseDay(name, raw string) (string, error) {
	d, err := kernel.ParseDate(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.FormatDate(d), nil
}

func daysBetween(start, end string) []string {
	s, _ := time.Parse(kernel.DateLayout, start)
	e, _ := time.Parse(kernel.DateLayout, end)
	var days []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(kernel.DateLayout))
	}
	return days
}
