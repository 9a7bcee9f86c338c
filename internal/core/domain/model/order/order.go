package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order did not come from NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Customer is the recipient data used by the driver to reach the parcel's destination.
type Customer struct {
	Name    string
	Phone   string
	Address string
}

// IsComplete reports whether every field is filled.
func (c Customer) IsComplete() bool {
	return c.Name != "" && c.Phone != "" && c.Address != ""
}

// Details is the enrichment captured at scan time from the order-lookup provider.
type Details struct {
	Customer    Customer
	Tags        string
	Fulfillment string
	OrderStatus string
	Store       string
}

// Order is one parcel carried by one driver. It is the aggregate root of the
// delivery lifecycle.
//
// Order follows these invariants:
//   - (driverID, name) identifies the order; name is "#" followed by digits
//   - cash and fee amounts are never negative
//   - payoutID is set only while the status is Livré or Paid
//   - the status log only grows
type Order struct {
	id       int64
	driverID string
	name     string
	details  Details

	scanDate  string
	scannedAt time.Time

	status        Status
	notes         string
	driverNotes   string
	scheduledTime string
	cashAmount    decimal.Decimal
	driverFee     decimal.Decimal
	payoutID      *string
	statusLog     StatusLog
	commLog       string
	followLog     string

	returnPending bool
	returnAgent   string
	returnTime    *time.Time

	isConstructed bool
}

// NewOrder registers a freshly scanned parcel in Dispatched status.
//
// Parameters:
//   - driverID: the scanning driver
//   - name: the normalized order name ("#1234")
//   - details: enrichment from the lookup providers, blank fields allowed
//   - cash: amount to collect on delivery
//   - fee: driver fee derived from the tags
//   - scannedAt: scan time; also fixes the scan date
//
// Returns:
//   - *Order: the new order
//   - error: joined validation errors for every invalid argument
func NewOrder(
	driverID, name string,
	details Details,
	cash, fee decimal.Decimal,
	scannedAt time.Time,
) (*Order, error) {
	o := &Order{
		details:       details,
		scanDate:      kernel.FormatDate(scannedAt),
		scannedAt:     scannedAt,
		status:        Dispatched,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setDriverID(driverID),
		o.setName(name),
		o.SetCashAmount(cash),
		o.setDriverFee(fee),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the complete state of an order, used to persist and restore it.
type Snapshot struct {
	ID            int64
	DriverID      string
	Name          string
	Details       Details
	ScanDate      string
	ScannedAt     time.Time
	Status        Status
	Notes         string
	DriverNotes   string
	ScheduledTime string
	CashAmount    decimal.Decimal
	DriverFee     decimal.Decimal
	PayoutID      *string
	StatusLog     string
	CommLog       string
	FollowLog     string
	ReturnPending bool
	ReturnAgent   string
	ReturnTime    *time.Time
}

// RestoreOrder rebuilds an order from storage. Stored data is trusted except for
// the identity fields and the status, which are validated.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		id:            s.ID,
		details:       s.Details,
		scanDate:      s.ScanDate,
		scannedAt:     s.ScannedAt,
		notes:         s.Notes,
		driverNotes:   s.DriverNotes,
		scheduledTime: s.ScheduledTime,
		cashAmount:    s.CashAmount,
		driverFee:     s.DriverFee,
		payoutID:      s.PayoutID,
		statusLog:     ParseStatusLog(s.StatusLog),
		commLog:       s.CommLog,
		followLog:     s.FollowLog,
		returnPending: s.ReturnPending,
		returnAgent:   s.ReturnAgent,
		returnTime:    s.ReturnTime,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setDriverID(s.DriverID),
		o.setName(s.Name),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status

	return o, nil
}

// Snapshot exports the current state.
func (o *Order) Snapshot() Snapshot {
	var payoutID *string
	if o.payoutID != nil {
		id := *o.payoutID
		payoutID = &id
	}

	return Snapshot{
		ID:            o.id,
		DriverID:      o.driverID,
		Name:          o.name,
		Details:       o.details,
		ScanDate:      o.scanDate,
		ScannedAt:     o.scannedAt,
		Status:        o.status,
		Notes:         o.notes,
		DriverNotes:   o.driverNotes,
		ScheduledTime: o.scheduledTime,
		CashAmount:    o.cashAmount,
		DriverFee:     o.driverFee,
		PayoutID:      payoutID,
		StatusLog:     o.statusLog.String(),
		CommLog:       o.commLog,
		FollowLog:     o.followLog,
		ReturnPending: o.ReturnPending(),
		ReturnAgent:   o.returnAgent,
		ReturnTime:    o.returnTime,
	}
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// AssignID records the storage identity once the order has been inserted.
func (o *Order) AssignID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("order id", fmt.Errorf("%d is not positive", id))
	}
	if o.id != 0 && o.id != id {
		return errs.NewConflictError("order "+o.name, "identity is already assigned")
	}
	o.id = id
	return nil
}

// ID is zero until the order has been stored.
func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) DriverID() string {
	return o.driverID
}

func (o *Order) Name() string {
	return o.name
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) Customer() Customer {
	return o.details.Customer
}

func (o *Order) Tags() string {
	return o.details.Tags
}

func (o *Order) ScanDate() string {
	return o.scanDate
}

func (o *Order) ScannedAt() time.Time {
	return o.scannedAt
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Notes() string {
	return o.notes
}

func (o *Order) DriverNotes() string {
	return o.driverNotes
}

func (o *Order) ScheduledTime() string {
	return o.scheduledTime
}

func (o *Order) CashAmount() decimal.Decimal {
	return o.cashAmount
}

func (o *Order) DriverFee() decimal.Decimal {
	return o.driverFee
}

func (o *Order) StatusLog() StatusLog {
	return o.statusLog
}

func (o *Order) CommLog() string {
	return o.commLog
}

func (o *Order) FollowLog() string {
	return o.followLog
}

func (o *Order) ReturnAgent() string {
	return o.returnAgent
}

// PayoutID returns the payout the delivery is counted in, if any.
func (o *Order) PayoutID() (string, bool) {
	if o.payoutID == nil {
		return "", false
	}
	return *o.payoutID, true
}

// ReturnTime returns when the return was confirmed.
func (o *Order) ReturnTime() (time.Time, bool) {
	if o.returnTime == nil {
		return time.Time{}, false
	}
	return *o.returnTime, true
}

// ReturnPending reports whether a return awaits confirmation. The stored flag
// only counts while the status is one of the return statuses.
func (o *Order) ReturnPending() bool {
	return o.returnPending && o.status.IsReturn()
}

// DisplayStatus is the label shown to drivers.
func (o *Order) DisplayStatus() string {
	if o.ReturnPending() {
		return PendingReturnLabel
	}
	return o.status.String()
}

// LastChangedAt is the time of the newest status log entry, or the scan time.
func (o *Order) LastChangedAt(loc *time.Location) time.Time {
	if at, ok := o.statusLog.LastChangedAt(loc); ok {
		return at
	}
	return o.scannedAt
}

// Transition is the (before, after) pair of one status change.
type Transition struct {
	From Status
	To   Status
}

// IsDelivery reports a first arrival into Livré.
func (t Transition) IsDelivery() bool {
	return t.To == Delivered && t.From != Delivered
}

// IsReversal reports a Livré order moved to any other status.
func (t Transition) IsReversal() bool {
	return t.From == Delivered && t.To != Delivered
}

// ChangeStatus applies a driver or admin status change and logs it.
//
// Business rules:
//   - the target must be a requestable status
//   - a Paid order cannot change status (ConflictError)
//   - entering Returned, Annulé or Refusé raises the return-pending flag,
//     any other status clears it
//
// The caller inspects the returned Transition to settle the payout side.
//
// Example:
//
//	tr, err := o.ChangeStatus(order.Delivered, now)
//	if err != nil {
//	    return err
//	}
//	if tr.IsDelivery() {
//	    // count the order in the driver's open payout
//	}
func (o *Order) ChangeStatus(next Status, at time.Time) (Transition, error) {
	to, err := o.status.ChangeTo(next)
	if err != nil {
		return Transition{}, err
	}

	tr := Transition{From: o.status, To: to}
	o.status = to
	o.statusLog = o.statusLog.Append(to.String(), at)
	o.returnPending = to.IsReturn()

	return tr, nil
}

// SetNotes overwrites the admin/driver notes.
func (o *Order) SetNotes(notes string) {
	o.notes = notes
}

// AppendDriverNote adds "<YYYY-MM-DD HH:MM> - <text>" as a new line.
func (o *Order) AppendDriverNote(text string, at time.Time) {
	o.driverNotes = strings.TrimLeft(
		o.driverNotes+fmt.Sprintf("%s - %s\n", at.Format(kernel.MinuteLayout), text),
		" \t\n",
	)
}

// SetScheduledTime stores the re-delivery appointment as given.
func (o *Order) SetScheduledTime(scheduled string) {
	o.scheduledTime = scheduled
}

// SetCashAmount changes the amount to collect.
func (o *Order) SetCashAmount(cash decimal.Decimal) error {
	if cash.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("cash amount", fmt.Errorf("%s is negative", cash))
	}
	o.cashAmount = cash
	return nil
}

func (o *Order) SetCommLog(log string) {
	o.commLog = log
}

func (o *Order) SetFollowLog(log string) {
	o.followLog = log
}

// FillBlankCustomer copies fields of c into the blank customer fields only.
func (o *Order) FillBlankCustomer(c Customer) {
	if o.details.Customer.Name == "" {
		o.details.Customer.Name = c.Name
	}
	if o.details.Customer.Phone == "" {
		o.details.Customer.Phone = c.Phone
	}
	if o.details.Customer.Address == "" {
		o.details.Customer.Address = c.Address
	}
}

// AttachPayout records the payout the delivery was counted in and the fee charged for it.
func (o *Order) AttachPayout(payoutID string, fee decimal.Decimal) error {
	if payoutID == "" {
		return errs.NewValueIsRequiredError("payout id")
	}
	if o.status != Delivered {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s order cannot join a payout", o.status),
		)
	}
	if err := o.setDriverFee(fee); err != nil {
		return err
	}
	o.payoutID = &payoutID
	return nil
}

// DetachPayout clears the payout link and returns the previous one.
func (o *Order) DetachPayout() (string, bool) {
	id, ok := o.PayoutID()
	o.payoutID = nil
	return id, ok
}

// MarkPaid is the order side of a payout being marked paid: Livré becomes Paid.
func (o *Order) MarkPaid(at time.Time) error {
	next, err := o.status.MarkPaid()
	if err != nil {
		return err
	}
	o.status = next
	o.statusLog = o.statusLog.Append(next.String(), at)
	return nil
}

// MarkUnpaid is the order side of a payout being reopened: Paid becomes Livré.
func (o *Order) MarkUnpaid(at time.Time) error {
	next, err := o.status.MarkUnpaid()
	if err != nil {
		return err
	}
	o.status = next
	o.statusLog = o.statusLog.Append(next.String(), at)
	return nil
}

// AcceptReturn confirms a pending return on behalf of agent.
// It reports false, changing nothing, when no return is pending.
func (o *Order) AcceptReturn(agent string, at time.Time) (bool, error) {
	agent = strings.TrimSpace(agent)
	if agent == "" {
		return false, errs.NewValueIsRequiredError("agent")
	}
	if !o.ReturnPending() {
		return false, nil
	}

	o.returnPending = false
	o.returnAgent = agent
	o.returnTime = &at
	o.followLog = strings.TrimLeft(
		o.followLog+fmt.Sprintf("%s - return confirmed by %s\n", at.Format(kernel.MinuteLayout), agent),
		" \t\n",
	)
	o.statusLog = o.statusLog.Append("Return confirmed", at)
	return true, nil
}

func (o *Order) setDriverID(driverID string) error {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return errs.NewValueIsRequiredError("driver")
	}
	o.driverID = driverID
	return nil
}

func (o *Order) setName(name string) error {
	if !strings.HasPrefix(name, "#") || len(name) < 2 {
		return errs.NewValueIsInvalidErrorWithCause("order name", fmt.Errorf("%q is not of the form #<digits>", name))
	}
	o.name = name
	return nil
}

func (o *Order) setDriverFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("driver fee", fmt.Errorf("%s is negative", fee))
	}
	o.driverFee = fee
	return nil
}
