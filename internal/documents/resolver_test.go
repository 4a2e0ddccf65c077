package documents

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vehicle-service-history/internal/db"
	"github.com/ukydev/vehicle-service-history/internal/models"
	"github.com/ukydev/vehicle-service-history/internal/testutil"
)

// MockStore is a mock implementation of the entitlement readers
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindVehicleByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockStore) FindCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockStore) FindLatestInvoice(ctx context.Context, vehicleID int64) (*models.Invoice, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockStore) FindLatestPaymentLog(ctx context.Context, invoiceID int64) (*models.PaymentLog, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentLog), args.Error(1)
}

func newMockResolver() (*Resolver, *MockStore) {
	store := new(MockStore)
	return NewResolver(store, store, store), store
}

func TestResolver_VehicleNotFound(t *testing.T) {
	resolver, store := newMockResolver()
	store.On("FindVehicleByID", mock.Anything, int64(99)).Return(nil, errors.Wrap(db.ErrNotFound, "find vehicle 99"))

	decision, err := resolver.Resolve(context.Background(), 99)

	require.NoError(t, err)
	assert.Equal(t, Denied{Reason: ReasonVehicleNotFound, VehicleID: 99}, decision)
	store.AssertNotCalled(t, "FindLatestInvoice", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "FindLatestPaymentLog", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestResolver_NoInvoice(t *testing.T) {
	resolver, store := newMockResolver()
	store.On("FindVehicleByID", mock.Anything, int64(44)).Return(&models.Vehicle{ID: 44}, nil)
	store.On("FindLatestInvoice", mock.Anything, int64(44)).Return(nil, db.ErrNotFound)

	decision, err := resolver.Resolve(context.Background(), 44)

	require.NoError(t, err)
	assert.Equal(t, Denied{Reason: ReasonNoInvoice, VehicleID: 44}, decision)
	store.AssertNotCalled(t, "FindLatestPaymentLog", mock.Anything, mock.Anything)
}

func TestResolver_NoPaymentLog(t *testing.T) {
	resolver, store := newMockResolver()
	store.On("FindVehicleByID", mock.Anything, int64(42)).Return(&models.Vehicle{ID: 42}, nil)
	store.On("FindLatestInvoice", mock.Anything, int64(42)).Return(&models.Invoice{ID: 7, VehicleID: 42}, nil)
	store.On("FindLatestPaymentLog", mock.Anything, int64(7)).Return(nil, db.ErrNotFound)

	decision, err := resolver.Resolve(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, Denied{Reason: ReasonNoPaymentLog, VehicleID: 42, InvoiceID: 7}, decision)
}

func TestResolver_PaymentNotCompleted(t *testing.T) {
	for _, status := range []string{"Pending", "paid", "PAID", "Paid ", "", "Refunded"} {
		t.Run("status "+status, func(t *testing.T) {
			resolver, store := newMockResolver()
			store.On("FindVehicleByID", mock.Anything, int64(42)).Return(&models.Vehicle{ID: 42}, nil)
			store.On("FindLatestInvoice", mock.Anything, int64(42)).Return(&models.Invoice{ID: 7}, nil)
			store.On("FindLatestPaymentLog", mock.Anything, int64(7)).Return(&models.PaymentLog{ID: 99, InvoiceID: 7, Status: status}, nil)

			decision, err := resolver.Resolve(context.Background(), 42)

			require.NoError(t, err)
			denied, ok := decision.(Denied)
			require.True(t, ok)
			assert.Equal(t, ReasonPaymentNotCompleted, denied.Reason)
			assert.Equal(t, status, denied.CurrentStatus)
			assert.Equal(t, int64(7), denied.InvoiceID)
		})
	}
}

func TestResolver_Authorized(t *testing.T) {
	resolver, store := newMockResolver()
	vehicle := &models.Vehicle{ID: 42, RegistrationNumber: "CAB-1234"}
	invoice := &models.Invoice{ID: 7, VehicleID: 42}
	log := &models.PaymentLog{ID: 99, InvoiceID: 7, Status: "Paid"}
	store.On("FindVehicleByID", mock.Anything, int64(42)).Return(vehicle, nil)
	store.On("FindLatestInvoice", mock.Anything, int64(42)).Return(invoice, nil)
	store.On("FindLatestPaymentLog", mock.Anything, int64(7)).Return(log, nil)

	decision, err := resolver.Resolve(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, Authorized{Vehicle: vehicle, Invoice: invoice, PaymentLog: log}, decision)
	store.AssertExpectations(t)
}

func TestResolver_DataAccessFaults(t *testing.T) {
	fault := errors.New("connection reset")

	t.Run("vehicle lookup", func(t *testing.T) {
		resolver, store := newMockResolver()
		store.On("FindVehicleByID", mock.Anything, int64(42)).Return(nil, fault)

		decision, err := resolver.Resolve(context.Background(), 42)

		assert.Nil(t, decision)
		assert.True(t, errors.Is(err, fault))
	})

	t.Run("invoice lookup", func(t *testing.T) {
		resolver, store := newMockResolver()
		store.On("FindVehicleByID", mock.Anything, int64(42)).Return(&models.Vehicle{ID: 42}, nil)
		store.On("FindLatestInvoice", mock.Anything, int64(42)).Return(nil, fault)

		_, err := resolver.Resolve(context.Background(), 42)

		assert.True(t, errors.Is(err, fault))
		assert.False(t, errors.Is(err, db.ErrNotFound))
	})

	t.Run("payment log lookup", func(t *testing.T) {
		resolver, store := newMockResolver()
		store.On("FindVehicleByID", mock.Anything, int64(42)).Return(&models.Vehicle{ID: 42}, nil)
		store.On("FindLatestInvoice", mock.Anything, int64(42)).Return(&models.Invoice{ID: 7}, nil)
		store.On("FindLatestPaymentLog", mock.Anything, int64(7)).Return(nil, fault)

		_, err := resolver.Resolve(context.Background(), 42)

		assert.True(t, errors.Is(err, fault))
	})
}

func TestDenied_Message(t *testing.T) {
	tests := []struct {
		name     string
		denied   Denied
		action   string
		expected string
	}{
		{"not found", Denied{Reason: ReasonVehicleNotFound}, "download", "Vehicle not found"},
		{"no invoice", Denied{Reason: ReasonNoInvoice}, "download", "No payment found for this vehicle. Please complete payment to download the PDF."},
		{"no payment log", Denied{Reason: ReasonNoPaymentLog}, "download", "Payment not recorded. Please contact support if you have completed payment."},
		{"not completed", Denied{Reason: ReasonPaymentNotCompleted, CurrentStatus: "Pending"}, "download", "Payment status is 'Pending'. Please complete payment to download the PDF."},
		{"generic", Denied{}, "preview", "Payment required. Please complete payment to preview the PDF."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.denied.Message(tt.action))
		})
	}
}

func TestResolver_TieBreaks(t *testing.T) {
	sameDay := testutil.Date(2024, time.June, 2)

	t.Run("equal invoice dates pick the larger id", func(t *testing.T) {
		store := testutil.NewInMemoryStore()
		store.Vehicles = []models.Vehicle{{ID: 42, RegistrationNumber: "CAB-1234"}}
		store.Invoices = []models.Invoice{
			{ID: 21, VehicleID: 42, InvoiceDate: sameDay},
			{ID: 20, VehicleID: 42, InvoiceDate: sameDay},
		}
		store.PaymentLogs = []models.PaymentLog{
			{ID: 1, InvoiceID: 20, Status: models.PaymentStatusPaid, Sequence: 1},
			{ID: 2, InvoiceID: 21, Status: "Pending", Sequence: 1},
		}

		decision, err := NewResolver(store, store, store).Resolve(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, Denied{
			Reason:        ReasonPaymentNotCompleted,
			VehicleID:     42,
			InvoiceID:     21,
			CurrentStatus: "Pending",
		}, decision)
	})

	t.Run("equal log sequences pick the larger id", func(t *testing.T) {
		store := testutil.NewInMemoryStore()
		store.Vehicles = []models.Vehicle{{ID: 42, RegistrationNumber: "CAB-1234"}}
		store.Invoices = []models.Invoice{{ID: 7, VehicleID: 42, InvoiceDate: sameDay}}
		store.PaymentLogs = []models.PaymentLog{
			{ID: 99, InvoiceID: 7, Status: models.PaymentStatusPaid, Sequence: 3},
			{ID: 98, InvoiceID: 7, Status: "Pending", Sequence: 3},
		}

		decision, err := NewResolver(store, store, store).Resolve(context.Background(), 42)

		require.NoError(t, err)
		authorized, ok := decision.(Authorized)
		require.True(t, ok)
		assert.Equal(t, int64(7), authorized.Invoice.ID)
		assert.Equal(t, int64(99), authorized.PaymentLog.ID)
	})

	t.Run("larger id loses to a higher sequence", func(t *testing.T) {
		store := testutil.NewInMemoryStore()
		store.Vehicles = []models.Vehicle{{ID: 42}}
		store.Invoices = []models.Invoice{{ID: 7, VehicleID: 42, InvoiceDate: sameDay}}
		store.PaymentLogs = []models.PaymentLog{
			{ID: 99, InvoiceID: 7, Status: "Pending", Sequence: 1},
			{ID: 98, InvoiceID: 7, Status: models.PaymentStatusPaid, Sequence: 2},
		}

		decision, err := NewResolver(store, store, store).Resolve(context.Background(), 42)

		require.NoError(t, err)
		assert.IsType(t, Authorized{}, decision)
	})
}
