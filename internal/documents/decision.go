package documents

import (
	"fmt"

	"github.com/ukydev/vehicle-service-history/internal/models"
)

// Reason says why a document request was refused.
type Reason string

const (
	ReasonVehicleNotFound     Reason = "VEHICLE_NOT_FOUND"
	ReasonNoInvoice           Reason = "NO_INVOICE"
	ReasonNoPaymentLog        Reason = "NO_PAYMENT_LOG"
	ReasonPaymentNotCompleted Reason = "PAYMENT_NOT_COMPLETED"
)

// Decision is the outcome of an entitlement check: either Authorized or
// Denied.
type Decision interface {
	isDecision()
}

// Authorized means the vehicle's latest invoice is paid. It carries the
// records that justified the decision.
type Authorized struct {
	Vehicle    *models.Vehicle
	Invoice    *models.Invoice
	PaymentLog *models.PaymentLog
}

// Denied means the document may not be generated.
type Denied struct {
	Reason    Reason
	VehicleID int64
	// InvoiceID is set for ReasonNoPaymentLog and ReasonPaymentNotCompleted.
	InvoiceID int64
	// CurrentStatus is set for ReasonPaymentNotCompleted.
	CurrentStatus string
}

func (Authorized) isDecision() {}
func (Denied) isDecision()     {}

// Message returns the user-facing explanation. action is the verb the
// caller attempted, e.g. "download" or "preview".
func (d Denied) Message(action string) string {
	switch d.Reason {
	case ReasonVehicleNotFound:
		return "Vehicle not found"
	case ReasonNoInvoice:
		return fmt.Sprintf("No payment found for this vehicle. Please complete payment to %s the PDF.", action)
	case ReasonNoPaymentLog:
		return "Payment not recorded. Please contact support if you have completed payment."
	case ReasonPaymentNotCompleted:
		return fmt.Sprintf("Payment status is '%s'. Please complete payment to %s the PDF.", d.CurrentStatus, action)
	default:
		return fmt.Sprintf("Payment required. Please complete payment to %s the PDF.", action)
	}
}
