package documents

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/db"
)

// Resolver decides whether a vehicle's documents may be generated, based on
// the payment state of its latest invoice.
type Resolver struct {
	vehicles db.VehicleReader
	invoices db.InvoiceReader
	payments db.PaymentLogReader
}

// NewResolver creates an entitlement resolver.
func NewResolver(vehicles db.VehicleReader, invoices db.InvoiceReader, payments db.PaymentLogReader) *Resolver {
	return &Resolver{vehicles: vehicles, invoices: invoices, payments: payments}
}

// Resolve checks, in order: the vehicle exists, it has an invoice, the
// latest invoice has a payment log, and the latest log is "Paid". The first
// failed check is returned as Denied. Reads are not retried; an empty result
// is a real absence. A non-nil error means the check itself failed.
func (r *Resolver) Resolve(ctx context.Context, vehicleID int64) (Decision, error) {
	vehicle, err := r.vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Denied{Reason: ReasonVehicleNotFound, VehicleID: vehicleID}, nil
		}
		return nil, errors.Wrap(err, "resolve vehicle")
	}

	invoice, err := r.invoices.FindLatestInvoice(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Denied{Reason: ReasonNoInvoice, VehicleID: vehicleID}, nil
		}
		return nil, errors.Wrap(err, "resolve invoice")
	}

	log, err := r.payments.FindLatestPaymentLog(ctx, invoice.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Denied{Reason: ReasonNoPaymentLog, VehicleID: vehicleID, InvoiceID: invoice.ID}, nil
		}
		return nil, errors.Wrap(err, "resolve payment log")
	}

	if !log.IsPaid() {
		return Denied{
			Reason:        ReasonPaymentNotCompleted,
			VehicleID:     vehicleID,
			InvoiceID:     invoice.ID,
			CurrentStatus: log.Status,
		}, nil
	}

	return Authorized{Vehicle: vehicle, Invoice: invoice, PaymentLog: log}, nil
}
