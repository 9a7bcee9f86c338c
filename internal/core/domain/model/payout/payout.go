// Package payout provides the Payout aggregate: a running reimbursement batch of
// one driver's delivered orders.
//
// A payout is open (pending) until an admin marks it paid. While open it collects
// delivered orders; each member contributes its collected cash and is charged its
// driver fee. TotalPayout is always TotalCash minus TotalFees.
package payout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrPayoutIsNotConstructed = errors.New("Payout must be created via NewPayout constructor")

// Status is persisted as its value.
type Status string

const (
	Pending Status = "pending"
	Paid    Status = "paid"
)

// ParseStatus accepts the persisted values. A blank value reads as pending.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case Pending, Paid:
		return s, nil
	case "":
		return Pending, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("payout status", fmt.Errorf("%q is not a payout status", raw))
	}
}

// IDPrefix starts every human-readable payout id.
const IDPrefix = "PO-"

// NewPayoutID derives "PO-YYYYMMDD-HHMM" from the creation time. seq > 1 adds a
// "-<seq>" suffix for payouts opened within the same minute.
func NewPayoutID(createdAt time.Time, seq int) string {
	id := IDPrefix + createdAt.Format("20060102-1504")
	if seq > 1 {
		id = fmt.Sprintf("%s-%d", id, seq)
	}
	return id
}

// Payout is the aggregate root.
type Payout struct {
	id          int64
	driverID    string
	payoutID    string
	createdAt   time.Time
	orders      []string
	totalCash   decimal.Decimal
	totalFees   decimal.Decimal
	totalPayout decimal.Decimal
	status      Status
	paidAt      *time.Time

	isConstructed bool
}

// NewPayout opens an empty pending payout.
func NewPayout(driverID, payoutID string, createdAt time.Time) (*Payout, error) {
	p := &Payout{
		createdAt:     createdAt,
		status:        Pending,
		isConstructed: true,
	}
	if err := errors.Join(p.setDriverID(driverID), p.setPayoutID(payoutID)); err != nil {
		return nil, err
	}
	return p, nil
}

// Snapshot is the persisted state of a payout.
type Snapshot struct {
	ID          int64
	DriverID    string
	PayoutID    string
	CreatedAt   time.Time
	Orders      []string
	TotalCash   decimal.Decimal
	TotalFees   decimal.Decimal
	TotalPayout decimal.Decimal
	Status      Status
	PaidAt      *time.Time
}

// RestorePayout rebuilds a payout from storage and re-derives TotalPayout.
func RestorePayout(s Snapshot) (*Payout, error) {
	status, err := ParseStatus(string(s.Status))
	if err != nil {
		return nil, err
	}
	p, err := NewPayout(s.DriverID, s.PayoutID, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.id = s.ID
	p.orders = append([]string(nil), s.Orders...)
	p.totalCash = s.TotalCash
	p.totalFees = s.TotalFees
	p.status = status
	p.paidAt = s.PaidAt
	p.recompute()
	return p, nil
}

func (p *Payout) Snapshot() Snapshot {
	return Snapshot{
		ID:          p.id,
		DriverID:    p.driverID,
		PayoutID:    p.payoutID,
		CreatedAt:   p.createdAt,
		Orders:      p.Orders(),
		TotalCash:   p.totalCash,
		TotalFees:   p.totalFees,
		TotalPayout: p.totalPayout,
		Status:      p.status,
		PaidAt:      p.paidAt,
	}
}

func (p *Payout) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPayoutIsNotConstructed
	}
	return nil
}

func (p *Payout) AssignID(id int64) {
	p.id = id
}

func (p *Payout) ID() int64 {
	return p.id
}

func (p *Payout) DriverID() string {
	return p.driverID
}

// PayoutID is the human-readable identifier shown to drivers and admins.
func (p *Payout) PayoutID() string {
	return p.payoutID
}

func (p *Payout) CreatedAt() time.Time {
	return p.createdAt
}

// Orders returns the member order names in insertion order.
func (p *Payout) Orders() []string {
	return append([]string(nil), p.orders...)
}

func (p *Payout) TotalCash() decimal.Decimal {
	return p.totalCash
}

func (p *Payout) TotalFees() decimal.Decimal {
	return p.totalFees
}

func (p *Payout) TotalPayout() decimal.Decimal {
	return p.totalPayout
}

func (p *Payout) Status() Status {
	return p.status
}

func (p *Payout) IsOpen() bool {
	return p.status != Paid
}

func (p *Payout) PaidAt() (time.Time, bool) {
	if p.paidAt == nil {
		return time.Time{}, false
	}
	return *p.paidAt, true
}

// Contains reports membership of orderName.
func (p *Payout) Contains(orderName string) bool {
	for _, name := range p.orders {
		if name == orderName {
			return true
		}
	}
	return false
}

// Add counts one delivered order. It is not idempotent: adding the same order
// twice counts it twice.
func (p *Payout) Add(orderName string, cash, fee decimal.Decimal) error {
	if !p.IsOpen() {
		return errs.NewConflictError("payout "+p.payoutID, "payout is already paid")
	}
	if orderName == "" {
		return errs.NewValueIsRequiredError("order name")
	}
	p.orders = append(p.orders, orderName)
	p.totalCash = p.totalCash.Add(cash)
	p.totalFees = p.totalFees.Add(fee)
	p.recompute()
	return nil
}

// Remove reverses Add for one occurrence of orderName. It reports false and
// changes nothing when orderName is not a member.
func (p *Payout) Remove(orderName string, cash, fee decimal.Decimal) bool {
	for i, name := range p.orders {
		if name != orderName {
			continue
		}
		p.orders = append(p.orders[:i:i], p.orders[i+1:]...)
		p.totalCash = p.totalCash.Sub(cash)
		p.totalFees = p.totalFees.Sub(fee)
		p.recompute()
		return true
	}
	return false
}

// Recount replaces the cash counted for orderName. It reports false and
// changes nothing when orderName is not a member. A paid payout is recounted
// too so that its totals keep matching its members.
func (p *Payout) Recount(orderName string, countedCash, cash decimal.Decimal) bool {
	if !p.Contains(orderName) {
		return false
	}
	p.totalCash = p.totalCash.Sub(countedCash).Add(cash)
	p.recompute()
	return true
}

// MarkPaid closes the payout.
func (p *Payout) MarkPaid(at time.Time) error {
	if !p.IsOpen() {
		return errs.NewConflictError("payout "+p.payoutID, "payout is already paid")
	}
	p.status = Paid
	p.paidAt = &at
	return nil
}

// MarkUnpaid reopens a paid payout.
func (p *Payout) MarkUnpaid() error {
	if p.IsOpen() {
		return errs.NewConflictError("payout "+p.payoutID, "payout is not paid")
	}
	p.status = Pending
	p.paidAt = nil
	return nil
}

// Amendment carries the fields an admin may correct. Nil fields stay unchanged.
type Amendment struct {
	Orders      []string
	TotalCash   *decimal.Decimal
	TotalFees   *decimal.Decimal
	TotalPayout *decimal.Decimal
	CreatedAt   *time.Time
}

// Amend applies an admin correction. A supplied TotalPayout must agree with the
// resulting cash and fees since the total is always derived.
func (p *Payout) Amend(a Amendment) error {
	cash, fees := p.totalCash, p.totalFees
	if a.TotalCash != nil {
		cash = *a.TotalCash
	}
	if a.TotalFees != nil {
		fees = *a.TotalFees
	}
	if a.TotalPayout != nil && !a.TotalPayout.Equal(cash.Sub(fees)) {
		return errs.NewValueIsInvalidErrorWithCause(
			"total payout",
			fmt.Errorf("%s does not equal total cash %s minus total fees %s", a.TotalPayout, cash, fees),
		)
	}

	if a.Orders != nil {
		orders := make([]string, 0, len(a.Orders))
		for _, name := range a.Orders {
			if name = strings.TrimSpace(name); name != "" {
				orders = append(orders, name)
			}
		}
		p.orders = orders
	}
	if a.CreatedAt != nil {
		p.createdAt = *a.CreatedAt
	}
	p.totalCash = cash
	p.totalFees = fees
	p.recompute()
	return nil
}

func (p *Payout) recompute() {
	p.totalPayout = p.totalCash.Sub(p.totalFees)
}

func (p *Payout) setDriverID(driverID string) error {
	if strings.TrimSpace(driverID) == "" {
		return errs.NewValueIsRequiredError("driver")
	}
	p.driverID = strings.TrimSpace(driverID)
	return nil
}

func (p *Payout) setPayoutID(payoutID string) error {
	if !strings.HasPrefix(payoutID, IDPrefix) {
		return errs.NewValueIsInvalidErrorWithCause("payout id", fmt.Errorf("%q does not start with %s", payoutID, IDPrefix))
	}
	p.payoutID = payoutID
	return nil
}
