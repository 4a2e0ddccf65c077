package testutil

import (
	"time"

	"github.com/ukydev/vehicle-service-history/internal/models"
)

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// Fixture IDs used across package tests.
const (
	PaidVehicleID       int64 = 42
	PaidInvoiceID       int64 = 7
	PaidLogID           int64 = 99
	PendingVehicleID    int64 = 43
	UninvoicedVehicleID int64 = 44
	UnloggedVehicleID   int64 = 45
	UnloggedInvoiceID   int64 = 8
	MissingVehicleID    int64 = 99
	TechnicianUserID    int64 = 501
	ServiceCenterID     int64 = 301
)

// PaidRegistration is the registration number of PaidVehicleID.
const PaidRegistration = "CAB-1234"

// PaymentScenarioStore returns a store holding:
//   - vehicle 42: invoice 7 with latest log 99 "Paid" and three history records
//   - vehicle 43: latest log "Pending"
//   - vehicle 44: no invoices
//   - vehicle 45: invoice 8 without payment logs
//
// Vehicle 99 does not exist.
func PaymentScenarioStore() *InMemoryStore {
	s := NewInMemoryStore()
	s.Customers = []models.Customer{{ID: 1, FirstName: "Kasun", LastName: "Silva", Email: "kasun@example.com"}}
	s.Vehicles = []models.Vehicle{
		{ID: PaidVehicleID, RegistrationNumber: PaidRegistration, CustomerID: 1, Make: "Toyota", Model: "Axio", Year: 2016},
		{ID: PendingVehicleID, RegistrationNumber: "WP-KA-5521", CustomerID: 1},
		{ID: UninvoicedVehicleID, RegistrationNumber: "NC-7788", CustomerID: 1},
		{ID: UnloggedVehicleID, RegistrationNumber: "SP-1010", CustomerID: 1},
	}
	s.Invoices = []models.Invoice{
		{ID: 6, VehicleID: PaidVehicleID, InvoiceDate: Date(2024, time.January, 10)},
		{ID: PaidInvoiceID, VehicleID: PaidVehicleID, InvoiceDate: Date(2024, time.June, 2)},
		{ID: 9, VehicleID: PendingVehicleID, InvoiceDate: Date(2024, time.June, 3)},
		{ID: UnloggedInvoiceID, VehicleID: UnloggedVehicleID, InvoiceDate: Date(2024, time.June, 4)},
	}
	s.PaymentLogs = []models.PaymentLog{
		{ID: 97, InvoiceID: 6, Status: "Failed", Sequence: 1},
		{ID: 98, InvoiceID: PaidInvoiceID, Status: "Pending", Sequence: 1},
		{ID: PaidLogID, InvoiceID: PaidInvoiceID, Status: models.PaymentStatusPaid, Sequence: 2},
		{ID: 100, InvoiceID: 9, Status: "Paid", Sequence: 1},
		{ID: 101, InvoiceID: 9, Status: "Pending", Sequence: 2},
	}
	s.ServiceCenters = []models.ServiceCenter{{ID: ServiceCenterID, StationName: "AutoCare Colombo"}}
	s.Users = []models.User{{ID: TechnicianUserID, Username: "nimal", FirstName: "Nimal", LastName: "Perera", Role: models.RoleTechnician, IsActive: true}}
	s.ServiceHistory = []models.ServiceHistory{
		{
			ID: 1, VehicleID: PaidVehicleID, ServiceType: "Oil Change", Description: "Oil and filter",
			Cost: 45.5, ServiceDate: Date(2023, time.January, 1), Mileage: 60000, IsVerified: true,
			ServiceCenterID: Int64Ptr(ServiceCenterID), ServicedByUserID: Int64Ptr(TechnicianUserID),
		},
		{
			ID: 2, VehicleID: PaidVehicleID, ServiceType: "Brake Service", Description: "Front pads",
			Cost: 180, ServiceDate: Date(2024, time.June, 1), Mileage: 82150,
			ExternalServiceCenterName: StringPtr("Roadside Garage"), ReceiptDocumentPath: StringPtr("receipts/2.pdf"),
		},
		{
			ID: 3, VehicleID: PaidVehicleID, ServiceType: "Inspection", Description: "Annual inspection",
			Cost: 25, ServiceDate: Date(2023, time.January, 1), Mileage: 60010,
		},
	}
	return s
}
