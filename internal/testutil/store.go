// Package testutil provides an in-memory store and fixtures for tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/ukydev/vehicle-service-history/internal/db"
	"github.com/ukydev/vehicle-service-history/internal/models"
)

// InMemoryStore implements the db reader interfaces over slices. Records
// are kept in insertion order, which stands in for storage order.
type InMemoryStore struct {
	mu             sync.RWMutex
	Vehicles       []models.Vehicle
	Customers      []models.Customer
	Invoices       []models.Invoice
	PaymentLogs    []models.PaymentLog
	ServiceHistory []models.ServiceHistory
	ServiceCenters []models.ServiceCenter
	Users          []models.User

	// Errors maps a method name (e.g. "FindLatestInvoice") to the error
	// it should return.
	Errors map[string]error
	// Calls counts invocations per method name.
	Calls map[string]int
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		Errors: map[string]error{},
		Calls:  map[string]int{},
	}
}

var (
	_ db.VehicleReader        = (*InMemoryStore)(nil)
	_ db.InvoiceReader        = (*InMemoryStore)(nil)
	_ db.PaymentLogReader     = (*InMemoryStore)(nil)
	_ db.ServiceHistoryReader = (*InMemoryStore)(nil)
	_ db.UserCollection       = (*InMemoryStore)(nil)
)

func (s *InMemoryStore) enter(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Calls == nil {
		s.Calls = map[string]int{}
	}
	s.Calls[method]++
	return s.Errors[method]
}

// CallCount returns how many times method was called.
func (s *InMemoryStore) CallCount(method string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Calls[method]
}

// FindVehicleByID implements db.VehicleReader.
func (s *InMemoryStore) FindVehicleByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	if err := s.enter("FindVehicleByID"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := lo.Find(s.Vehicles, func(v models.Vehicle) bool { return v.ID == id })
	if !ok {
		return nil, errors.Wrapf(db.ErrNotFound, "vehicle %d", id)
	}
	return &v, nil
}

// FindCustomerByID implements db.VehicleReader.
func (s *InMemoryStore) FindCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	if err := s.enter("FindCustomerByID"); err != nil {
		return nil, err
	}
	c, ok := lo.Find(s.Customers, func(c models.Customer) bool { return c.ID == id })
	if !ok {
		return nil, errors.Wrapf(db.ErrNotFound, "customer %d", id)
	}
	return &c, nil
}

// FindLatestInvoice implements db.InvoiceReader.
func (s *InMemoryStore) FindLatestInvoice(ctx context.Context, vehicleID int64) (*models.Invoice, error) {
	if err := s.enter("FindLatestInvoice"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	invoices := lo.Filter(s.Invoices, func(i models.Invoice, _ int) bool { return i.VehicleID == vehicleID })
	if len(invoices) == 0 {
		return nil, errors.Wrapf(db.ErrNotFound, "invoice for vehicle %d", vehicleID)
	}
	latest := lo.MaxBy(invoices, func(a, b models.Invoice) bool {
		if !a.InvoiceDate.Equal(b.InvoiceDate) {
			return a.InvoiceDate.After(b.InvoiceDate)
		}
		return a.ID > b.ID
	})
	return &latest, nil
}

// FindLatestPaymentLog implements db.PaymentLogReader.
func (s *InMemoryStore) FindLatestPaymentLog(ctx context.Context, invoiceID int64) (*models.PaymentLog, error) {
	if err := s.enter("FindLatestPaymentLog"); err != nil {
		return nil, err
	}
	logs := lo.Filter(s.PaymentLogs, func(l models.PaymentLog, _ int) bool { return l.InvoiceID == invoiceID })
	if len(logs) == 0 {
		return nil, errors.Wrapf(db.ErrNotFound, "payment log for invoice %d", invoiceID)
	}
	latest := lo.MaxBy(logs, func(a, b models.PaymentLog) bool {
		if a.Sequence != b.Sequence {
			return a.Sequence > b.Sequence
		}
		return a.ID > b.ID
	})
	return &latest, nil
}

// FindServiceHistory implements db.ServiceHistoryReader.
func (s *InMemoryStore) FindServiceHistory(ctx context.Context, vehicleID int64) ([]models.ServiceHistory, error) {
	if err := s.enter("FindServiceHistory"); err != nil {
		return nil, err
	}
	return lo.Filter(s.ServiceHistory, func(r models.ServiceHistory, _ int) bool { return r.VehicleID == vehicleID }), nil
}

// FindServiceCentersByIDs implements db.ServiceHistoryReader.
func (s *InMemoryStore) FindServiceCentersByIDs(ctx context.Context, ids []int64) ([]models.ServiceCenter, error) {
	if err := s.enter("FindServiceCentersByIDs"); err != nil {
		return nil, err
	}
	return lo.Filter(s.ServiceCenters, func(c models.ServiceCenter, _ int) bool { return lo.Contains(ids, c.ID) }), nil
}

// FindUsersByIDs implements db.StaffReader.
func (s *InMemoryStore) FindUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if err := s.enter("FindUsersByIDs"); err != nil {
		return nil, err
	}
	return lo.Filter(s.Users, func(u models.User, _ int) bool { return lo.Contains(ids, u.ID) }), nil
}

// FindUserByUsername implements db.UserCollection.
func (s *InMemoryStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := s.enter("FindUserByUsername"); err != nil {
		return nil, err
	}
	u, ok := lo.Find(s.Users, func(u models.User) bool { return u.Username == username })
	if !ok {
		return nil, errors.Wrapf(db.ErrNotFound, "user %q", username)
	}
	return &u, nil
}

// UpdateLastLogin implements db.UserCollection.
func (s *InMemoryStore) UpdateLastLogin(ctx context.Context, id int64) error {
	if err := s.enter("UpdateLastLogin"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := range s.Users {
		if s.Users[i].ID == id {
			s.Users[i].LastLogin = &now
		}
	}
	return nil
}

// Ping reports the error configured for "Ping", if any.
func (s *InMemoryStore) Ping(ctx context.Context) error {
	if err := s.enter("Ping"); err != nil {
		return err
	}
	return ctx.Err()
}
