package db

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindVehicleByID finds a vehicle by its ID.
func (s *Store) FindVehicleByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := findOne(ctx, s.vehicles, bson.M{"_id": id}, &vehicle); err != nil {
		return nil, errors.Wrapf(err, "find vehicle %d", id)
	}
	return &vehicle, nil
}

// FindCustomerByID finds a customer by their ID.
func (s *Store) FindCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := findOne(ctx, s.customers, bson.M{"_id": id}, &customer); err != nil {
		return nil, errors.Wrapf(err, "find customer %d", id)
	}
	return &customer, nil
}

// FindLatestInvoice finds the most recently dated invoice for a vehicle.
func (s *Store) FindLatestInvoice(ctx context.Context, vehicleID int64) (*models.Invoice, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "invoice_date", Value: -1},
		{Key: "_id", Value: -1},
	})
	var invoice models.Invoice
	if err := findOne(ctx, s.invoices, bson.M{"vehicle_id": vehicleID}, &invoice, opts); err != nil {
		return nil, errors.Wrapf(err, "find latest invoice for vehicle %d", vehicleID)
	}
	return &invoice, nil
}

// FindLatestPaymentLog finds the highest-sequence payment log for an invoice.
func (s *Store) FindLatestPaymentLog(ctx context.Context, invoiceID int64) (*models.PaymentLog, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "sequence", Value: -1},
		{Key: "_id", Value: -1},
	})
	var log models.PaymentLog
	if err := findOne(ctx, s.paymentLogs, bson.M{"invoice_id": invoiceID}, &log, opts); err != nil {
		return nil, errors.Wrapf(err, "find latest payment log for invoice %d", invoiceID)
	}
	return &log, nil
}

// UpsertVehicle inserts or replaces a vehicle.
func (s *Store) UpsertVehicle(ctx context.Context, vehicle models.Vehicle) error {
	return errors.Wrap(upsert(ctx, s.vehicles, vehicle.ID, vehicle), "upsert vehicle")
}

// UpsertCustomer inserts or replaces a customer.
func (s *Store) UpsertCustomer(ctx context.Context, customer models.Customer) error {
	return errors.Wrap(upsert(ctx, s.customers, customer.ID, customer), "upsert customer")
}

// UpsertInvoice inserts or replaces an invoice.
func (s *Store) UpsertInvoice(ctx context.Context, invoice models.Invoice) error {
	return errors.Wrap(upsert(ctx, s.invoices, invoice.ID, invoice), "upsert invoice")
}

// UpsertPaymentLog inserts or replaces a payment log.
func (s *Store) UpsertPaymentLog(ctx context.Context, log models.PaymentLog) error {
	return errors.Wrap(upsert(ctx, s.paymentLogs, log.ID, log), "upsert payment log")
}
