// Package memstore is an in-memory implementation of the ports repositories
// and unit of work. Rollback restores the state captured by Begin.
// It backs handler and ledger tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"driverdesk/internal/core/domain/model/employee"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/payout"
	"driverdesk/internal/core/domain/model/verification"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("memstore: no transaction in progress")

type noteRow struct {
	id         int64
	driverID   string
	createdAt  time.Time
	status     note.Status
	approvedAt *time.Time
	items      []note.Item
}

type verificationRow struct {
	id       int64
	expected verification.Expected
	driverID string
	scanTime *time.Time
}

type state struct {
	seq          int64
	drivers      map[string]struct{}
	orders       map[int64]order.Snapshot
	notes        map[int64]noteRow
	payouts      map[int64]payout.Snapshot
	verification map[int64]verificationRow
	employeeLogs []employee.LogEntry
}

func (s state) clone() state {
	c := state{
		seq:          s.seq,
		drivers:      make(map[string]struct{}, len(s.drivers)),
		orders:       make(map[int64]order.Snapshot, len(s.orders)),
		notes:        make(map[int64]noteRow, len(s.notes)),
		payouts:      make(map[int64]payout.Snapshot, len(s.payouts)),
		verification: make(map[int64]verificationRow, len(s.verification)),
		employeeLogs: append([]employee.LogEntry(nil), s.employeeLogs...),
	}
	for k, v := range s.drivers {
		c.drivers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.notes {
		v.items = append([]note.Item(nil), v.items...)
		c.notes[k] = v
	}
	for k, v := range s.payouts {
		v.Orders = append([]string(nil), v.Orders...)
		c.payouts[k] = v
	}
	for k, v := range s.verification {
		c.verification[k] = v
	}
	return c
}

// Store holds the data shared by every unit of work it creates.
type Store struct {
	mu sync.Mutex
	st state
}

// New returns an empty store with drivers provisioned.
func New(drivers ...string) *Store {
	s := &Store{st: state{}.clone()}
	for _, d := range drivers {
		s.st.drivers[d] = struct{}{}
	}
	return s
}

// Create implements ports.UnitOfWorkFactory.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

// UnitOfWork is a transaction over a Store.
type UnitOfWork struct {
	store  *Store
	backup *state
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.backup != nil {
		return nil
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	b := u.store.st.clone()
	u.backup = &b
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.backup == nil {
		return ErrNoTransaction
	}
	u.backup = nil
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.backup == nil {
		return ErrNoTransaction
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.st = *u.backup
	u.backup = nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return OrderRepository{u.store}
}

func (u *UnitOfWork) NoteRepository() ports.NoteRepository {
	return NoteRepository{u.store}
}

func (u *UnitOfWork) PayoutRepository() ports.PayoutRepository {
	return PayoutRepository{u.store}
}

func (u *UnitOfWork) VerificationRepository() ports.VerificationRepository {
	return VerificationRepository{u.store}
}

func (u *UnitOfWork) DriverRepository() ports.DriverRepository {
	return DriverRepository{u.store}
}

func (u *UnitOfWork) EmployeeLogRepository() ports.EmployeeLogRepository {
	return EmployeeLogRepository{u.store}
}

// OrderRepository implements ports.OrderRepository.
type OrderRepository struct{ s *Store }

func (r OrderRepository) Add(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.orders {
		if existing.DriverID == o.DriverID() && existing.Name == o.Name() {
			return errs.NewConflictError("order "+o.Name(), "already scanned by "+o.DriverID())
		}
	}
	id := r.s.nextID()
	if err := o.AssignID(id); err != nil {
		return err
	}
	r.s.st.orders[id] = o.Snapshot()
	return nil
}

func (r OrderRepository) Update(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.orders[o.ID()]; !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	r.s.st.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r OrderRepository) Get(_ context.Context, driverID, name string) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, snap := range r.s.st.orders {
		if snap.DriverID == driverID && snap.Name == name {
			return order.RestoreOrder(snap)
		}
	}
	return nil, errs.NewObjectNotFoundError("order", name)
}

func (r OrderRepository) Exists(ctx context.Context, driverID, name string) (bool, error) {
	_, err := r.Get(ctx, driverID, name)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r OrderRepository) ListVisible(_ context.Context, driverID string) ([]*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hidden := make(map[int64]bool)
	for _, n := range r.s.st.notes {
		if n.status != note.Draft {
			continue
		}
		for _, it := range n.items {
			hidden[it.OrderID] = true
		}
	}
	return r.collect(func(s order.Snapshot) bool {
		return s.DriverID == driverID && !hidden[s.ID]
	})
}

func (r OrderRepository) ListByIDs(_ context.Context, ids []int64) ([]*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		snap, ok := r.s.st.orders[id]
		if !ok {
			continue
		}
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r OrderRepository) ListByPayout(_ context.Context, driverID, payoutID string) ([]*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(s order.Snapshot) bool {
		return s.DriverID == driverID && s.PayoutID != nil && *s.PayoutID == payoutID
	})
}

func (r OrderRepository) FindLatestByName(_ context.Context, name string) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := r.collect(func(s order.Snapshot) bool { return s.Name == name })
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errs.NewObjectNotFoundError("order", name)
	}
	latest := all[0]
	for _, o := range all[1:] {
		if o.ScannedAt().After(latest.ScannedAt()) {
			latest = o
		}
	}
	return latest, nil
}

// collect restores matching orders in id order. The caller holds the lock.
func (r OrderRepository) collect(match func(order.Snapshot) bool) ([]*order.Order, error) {
	var out []*order.Order
	for _, snap := range r.s.st.orders {
		if !match(snap) {
			continue
		}
		o, err := order.RestoreOrder(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// NoteRepository implements ports.NoteRepository.
type NoteRepository struct{ s *Store }

func toNoteRow(n *note.Note) noteRow {
	row := noteRow{
		id:        n.ID(),
		driverID:  n.DriverID(),
		createdAt: n.CreatedAt(),
		status:    n.Status(),
		items:     n.Items(),
	}
	if at, ok := n.ApprovedAt(); ok {
		row.approvedAt = &at
	}
	return row
}

func (row noteRow) restore() (*note.Note, error) {
	return note.RestoreNote(row.id, row.driverID, row.createdAt, row.status, row.approvedAt, row.items)
}

func (r NoteRepository) Add(_ context.Context, n *note.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.IsDraft() {
		for _, existing := range r.s.st.notes {
			if existing.driverID == n.DriverID() && existing.status == note.Draft {
				return errs.NewConflictError("note", "driver "+n.DriverID()+" already has a draft note")
			}
		}
	}
	n.AssignID(r.s.nextID())
	r.s.st.notes[n.ID()] = toNoteRow(n)
	return nil
}

func (r NoteRepository) Update(_ context.Context, n *note.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.notes[n.ID()]; !ok {
		return errs.NewObjectNotFoundError("note", n.ID())
	}
	r.s.st.notes[n.ID()] = toNoteRow(n)
	return nil
}

func (r NoteRepository) Get(_ context.Context, driverID string, id int64) (*note.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.st.notes[id]
	if !ok || row.driverID != driverID {
		return nil, errs.NewObjectNotFoundError("note", id)
	}
	return row.restore()
}

func (r NoteRepository) GetOpen(_ context.Context, driverID string) (*note.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.st.notes {
		if row.driverID == driverID && row.status == note.Draft {
			return row.restore()
		}
	}
	return nil, errs.NewObjectNotFoundError("open note", driverID)
}

func (r NoteRepository) FindByOrder(_ context.Context, orderID int64) (*note.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.st.notes {
		for _, it := range row.items {
			if it.OrderID == orderID {
				return row.restore()
			}
		}
	}
	return nil, errs.NewObjectNotFoundError("note of order", orderID)
}

func (r NoteRepository) List(_ context.Context, driverID string, status note.Status) ([]*note.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*note.Note
	for _, row := range r.s.st.notes {
		if driverID != "" && row.driverID != driverID {
			continue
		}
		if status != "" && row.status != status {
			continue
		}
		n, err := row.restore()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out, nil
}

// PayoutRepository implements ports.PayoutRepository.
type PayoutRepository struct{ s *Store }

func (r PayoutRepository) Add(_ context.Context, p *payout.Payout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.payouts {
		if existing.DriverID != p.DriverID() {
			continue
		}
		if existing.PayoutID == p.PayoutID() {
			return errs.NewConflictError("payout "+p.PayoutID(), "already exists")
		}
		if p.IsOpen() && existing.Status != payout.Paid {
			return errs.NewConflictError("payout", "driver "+p.DriverID()+" already has an open payout")
		}
	}
	p.AssignID(r.s.nextID())
	r.s.st.payouts[p.ID()] = p.Snapshot()
	return nil
}

func (r PayoutRepository) Update(_ context.Context, p *payout.Payout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.payouts[p.ID()]; !ok {
		return errs.NewObjectNotFoundError("payout", p.PayoutID())
	}
	r.s.st.payouts[p.ID()] = p.Snapshot()
	return nil
}

func (r PayoutRepository) Get(_ context.Context, driverID, payoutID string) (*payout.Payout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, snap := range r.s.st.payouts {
		if snap.DriverID == driverID && snap.PayoutID == payoutID {
			return payout.RestorePayout(snap)
		}
	}
	return nil, errs.NewObjectNotFoundError("payout", payoutID)
}

func (r PayoutRepository) GetOpen(ctx context.Context, driverID string) (*payout.Payout, error) {
	all, err := r.List(ctx, driverID)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.IsOpen() {
			return p, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("open payout", driverID)
}

func (r PayoutRepository) Exists(ctx context.Context, driverID, payoutID string) (bool, error) {
	_, err := r.Get(ctx, driverID, payoutID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r PayoutRepository) List(_ context.Context, driverID string) ([]*payout.Payout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*payout.Payout
	for _, snap := range r.s.st.payouts {
		if snap.DriverID != driverID {
			continue
		}
		p, err := payout.RestorePayout(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out, nil
}

// VerificationRepository implements ports.VerificationRepository.
type VerificationRepository struct{ s *Store }

func toVerificationRow(v *verification.Row) verificationRow {
	row := verificationRow{id: v.ID(), expected: v.Expected(), driverID: v.DriverID()}
	if at, ok := v.ScanTime(); ok {
		row.scanTime = &at
	}
	return row
}

func (row verificationRow) restore() *verification.Row {
	return verification.RestoreRow(row.id, row.expected, row.driverID, row.scanTime)
}

func (r VerificationRepository) Add(_ context.Context, v *verification.Row) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.AssignID(r.s.nextID())
	r.s.st.verification[v.ID()] = toVerificationRow(v)
	return nil
}

func (r VerificationRepository) Update(_ context.Context, v *verification.Row) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.verification[v.ID()]; !ok {
		return errs.NewObjectNotFoundError("verification row", v.ID())
	}
	r.s.st.verification[v.ID()] = toVerificationRow(v)
	return nil
}

func (r VerificationRepository) Get(_ context.Context, id int64) (*verification.Row, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.st.verification[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("verification row", id)
	}
	return row.restore(), nil
}

func (r VerificationRepository) FindByName(_ context.Context, orderName string) ([]*verification.Row, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.collect(func(row verificationRow) bool { return row.expected.OrderName == orderName })
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r VerificationRepository) ListByDates(_ context.Context, start, end, q string) ([]*verification.Row, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q = strings.ToLower(q)
	out := r.collect(func(row verificationRow) bool {
		d := row.expected.OrderDate
		if d < start || d > end {
			return false
		}
		return q == "" ||
			strings.Contains(strings.ToLower(row.expected.OrderName), q) ||
			strings.Contains(strings.ToLower(row.expected.CustomerName), q)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out, nil
}

func (r VerificationRepository) collect(match func(verificationRow) bool) []*verification.Row {
	var out []*verification.Row
	for _, row := range r.s.st.verification {
		if match(row) {
			out = append(out, row.restore())
		}
	}
	return out
}

// DriverRepository implements ports.DriverRepository.
type DriverRepository struct{ s *Store }

func (r DriverRepository) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.st.drivers[id]
	return ok, nil
}

func (r DriverRepository) List(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]string, 0, len(r.s.st.drivers))
	for id := range r.s.st.drivers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r DriverRepository) Provision(_ context.Context, ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		r.s.st.drivers[id] = struct{}{}
	}
	return nil
}

// EmployeeLogRepository implements ports.EmployeeLogRepository.
type EmployeeLogRepository struct{ s *Store }

func (r EmployeeLogRepository) Add(_ context.Context, entry *employee.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.nextID()
	r.s.st.employeeLogs = append(r.s.st.employeeLogs, *entry)
	return nil
}

func (r EmployeeLogRepository) List(_ context.Context) ([]employee.LogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]employee.LogEntry, 0, len(r.s.st.employeeLogs))
	for i := len(r.s.st.employeeLogs) - 1; i >= 0; i-- {
		out = append(out, r.s.st.employeeLogs[i])
	}
	return out, nil
}
