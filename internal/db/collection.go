package db

import (
	"context"

	"github.com/ukydev/vehicle-service-history/internal/models"
)

// VehicleReader defines the vehicle lookups used by document generation.
type VehicleReader interface {
	FindVehicleByID(ctx context.Context, id int64) (*models.Vehicle, error)
	FindCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
}

// InvoiceReader defines invoice lookups.
type InvoiceReader interface {
	// FindLatestInvoice returns the invoice with the greatest invoice date
	// for the vehicle, preferring the larger ID on equal dates.
	FindLatestInvoice(ctx context.Context, vehicleID int64) (*models.Invoice, error)
}

// PaymentLogReader defines payment log lookups.
type PaymentLogReader interface {
	// FindLatestPaymentLog returns the log with the greatest sequence for
	// the invoice, preferring the larger ID on equal sequences.
	FindLatestPaymentLog(ctx context.Context, invoiceID int64) (*models.PaymentLog, error)
}

// ServiceHistoryReader defines service record lookups.
type ServiceHistoryReader interface {
	// FindServiceHistory returns the vehicle's records in storage order.
	FindServiceHistory(ctx context.Context, vehicleID int64) ([]models.ServiceHistory, error)
	FindServiceCentersByIDs(ctx context.Context, ids []int64) ([]models.ServiceCenter, error)
}

// StaffReader resolves the staff users referenced by service records.
type StaffReader interface {
	FindUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error)
}

// UserCollection defines the interface for user database operations
type UserCollection interface {
	StaffReader
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}
