package models

import "time"

// PaymentStatusPaid is the only payment status that unlocks documents.
const PaymentStatusPaid = "Paid"

// Invoice represents a bill raised against a vehicle.
type Invoice struct {
	ID          int64     `json:"invoice_id" bson:"_id"`
	VehicleID   int64     `json:"vehicle_id" bson:"vehicle_id"`
	InvoiceDate time.Time `json:"invoice_date" bson:"invoice_date"`
	TotalCost   float64   `json:"total_cost" bson:"total_cost"`
}

// PaymentLog records one payment attempt or status change for an invoice.
// Status is free-form ("Pending", "Failed", "Paid", ...); Sequence orders
// entries for the same invoice.
type PaymentLog struct {
	ID          int64     `json:"log_id" bson:"_id"`
	InvoiceID   int64     `json:"invoice_id" bson:"invoice_id"`
	Status      string    `json:"status" bson:"status"`
	Sequence    int64     `json:"sequence" bson:"sequence"`
	PaymentDate time.Time `json:"payment_date" bson:"payment_date"`
}

// IsPaid reports whether the log records a completed payment. The
// comparison is case-sensitive.
func (p *PaymentLog) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}
