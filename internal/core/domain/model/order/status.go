package order

import (
	"errors"
	"fmt"

	"driverdesk/internal/pkg/errs"
)

// Status is the delivery status of an order. It is persisted as its label.
//
// State transitions:
//
//	Dispatched ──> En cours, Pas de réponse 1/2/3, Rescheduled,
//	               Annulé, Refusé, Returned, Livré, Deleted (any to any)
//	Livré ──(payout marked paid)──> Paid ──(payout reopened)──> Livré
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	Dispatched
	InProgress
	NoAnswer1
	NoAnswer2
	NoAnswer3
	Rescheduled
	Cancelled
	Refused
	Returned
	Delivered
	Paid
	Deleted
)

// PendingReturnLabel is displayed instead of the status while a return awaits confirmation.
const PendingReturnLabel = "Pending Return"

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "Unknown",
		Dispatched:  "Dispatched",
		InProgress:  "En cours",
		NoAnswer1:   "Pas de réponse 1",
		NoAnswer2:   "Pas de réponse 2",
		NoAnswer3:   "Pas de réponse 3",
		Rescheduled: "Rescheduled",
		Cancelled:   "Annulé",
		Refused:     "Refusé",
		Returned:    "Returned",
		Delivered:   "Livré",
		Paid:        "Paid",
		Deleted:     "Deleted",
	}
}

// getStatusByLabel is the inverse of getStatusStrings without Unknown.
func getStatusByLabel() map[string]Status {
	labels := make(map[string]Status)
	for s, label := range getStatusStrings() {
		if s != Unknown {
			labels[label] = s
		}
	}
	return labels
}

// ParseStatus resolves a stored or requested label.
// An unknown label yields a ValueIsInvalidError.
func ParseStatus(label string) (Status, error) {
	s, ok := getStatusByLabel()[label]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%q is not a known delivery status", label),
		)
	}
	return s, nil
}

// RequestableStatuses lists the statuses a driver or admin may set directly, in display order.
func RequestableStatuses() []Status {
	return []Status{
		Dispatched, Delivered, InProgress,
		NoAnswer1, NoAnswer2, NoAnswer3,
		Cancelled, Refused, Rescheduled, Returned, Deleted,
	}
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Deleted {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted label.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsClosed reports whether the order has left the driver's active workload.
func (s Status) IsClosed() bool {
	switch s {
	case Delivered, Paid, Deleted, Returned, Cancelled, Refused:
		return true
	default:
		return false
	}
}

// IsReturn reports whether the status enters the return-confirmation sub-state.
func (s Status) IsReturn() bool {
	return s == Returned || s == Cancelled || s == Refused
}

// ChangeTo validates a requested status change.
//
// Returns:
//   - (next, nil) when the change is allowed
//   - ValueIsInvalidError when next is not a requestable status (Paid included)
//   - ConflictError when the order is Paid; its payout has to be reopened first
func (s Status) ChangeTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if next == Paid {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			errors.New("Paid is set by marking the payout paid"),
		)
	}
	if s == Paid {
		return Unknown, errs.NewConflictError("order", "order is paid, reopen its payout before changing the status")
	}
	return next, nil
}

// MarkPaid moves Livré to Paid.
func (s Status) MarkPaid() (Status, error) {
	if s != Delivered {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to mark paid", s),
		)
	}
	return Paid, nil
}

// MarkUnpaid moves Paid back to Livré.
func (s Status) MarkUnpaid() (Status, error) {
	if s != Paid {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to mark unpaid", s),
		)
	}
	return Delivered, nil
}
