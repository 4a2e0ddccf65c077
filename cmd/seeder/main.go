package main

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/vehicle-service-history/internal/auth"
	"github.com/ukydev/vehicle-service-history/internal/config"
	"github.com/ukydev/vehicle-service-history/internal/db"
	"github.com/ukydev/vehicle-service-history/internal/models"
)

// dataset is the demo data written by the seeder.
type dataset struct {
	Customers      []models.Customer
	Vehicles       []models.Vehicle
	Invoices       []models.Invoice
	PaymentLogs    []models.PaymentLog
	ServiceCenters []models.ServiceCenter
	Users          []models.User
	ServiceHistory []models.ServiceHistory
}

// writer is the subset of db.Store used to persist the dataset.
type writer interface {
	UpsertCustomer(ctx context.Context, customer models.Customer) error
	UpsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	UpsertInvoice(ctx context.Context, invoice models.Invoice) error
	UpsertPaymentLog(ctx context.Context, log models.PaymentLog) error
	UpsertServiceCenter(ctx context.Context, center models.ServiceCenter) error
	UpsertUser(ctx context.Context, user models.User) error
	UpsertServiceHistory(ctx context.Context, record models.ServiceHistory) error
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// demoDataset builds the demo records. passwordHash is stored for every
// staff user.
//
//	vehicle 42: latest invoice 7, latest payment log 99 "Paid"
//	vehicle 43: latest payment log "Pending"
//	vehicle 44: no invoices
//	vehicle 45: invoice without payment logs
func demoDataset(passwordHash string, now time.Time) dataset {
	staff := func(id int64, username, first, last string, role models.Role) models.User {
		return models.User{
			ID:           id,
			Username:     username,
			Email:        username + "@autocare.example",
			PasswordHash: passwordHash,
			Role:         role,
			FirstName:    first,
			LastName:     last,
			IsActive:     true,
			CreatedAt:    now,
		}
	}

	return dataset{
		Customers: []models.Customer{
			{ID: 1, FirstName: "Kasun", LastName: "Silva", Email: "kasun.silva@example.com"},
			{ID: 2, FirstName: "Dilani", LastName: "Fernando", Email: "dilani.f@example.com"},
		},
		Vehicles: []models.Vehicle{
			{ID: 42, RegistrationNumber: "CAB-1234", CustomerID: 1, Make: "Toyota", Model: "Axio", Year: 2016, CreatedAt: now},
			{ID: 43, RegistrationNumber: "WP-KA-5521", CustomerID: 2, Make: "Honda", Model: "Vezel", Year: 2018, CreatedAt: now},
			{ID: 44, RegistrationNumber: "NC-7788", CustomerID: 2, Make: "Suzuki", Model: "Alto", Year: 2020, CreatedAt: now},
			{ID: 45, RegistrationNumber: "SP-1010", CustomerID: 1, Make: "Nissan", Model: "Leaf", Year: 2019, CreatedAt: now},
		},
		Invoices: []models.Invoice{
			{ID: 6, VehicleID: 42, InvoiceDate: day(2024, time.January, 10), TotalCost: 45.5},
			{ID: 7, VehicleID: 42, InvoiceDate: day(2024, time.June, 2), TotalCost: 180},
			{ID: 9, VehicleID: 43, InvoiceDate: day(2024, time.June, 3), TotalCost: 95},
			{ID: 8, VehicleID: 45, InvoiceDate: day(2024, time.June, 4), TotalCost: 60},
		},
		PaymentLogs: []models.PaymentLog{
			{ID: 97, InvoiceID: 6, Status: models.PaymentStatusPaid, Sequence: 1, PaymentDate: day(2024, time.January, 11)},
			{ID: 98, InvoiceID: 7, Status: "Pending", Sequence: 1, PaymentDate: day(2024, time.June, 2)},
			{ID: 99, InvoiceID: 7, Status: models.PaymentStatusPaid, Sequence: 2, PaymentDate: day(2024, time.June, 3)},
			{ID: 100, InvoiceID: 9, Status: "Pending", Sequence: 1, PaymentDate: day(2024, time.June, 3)},
		},
		ServiceCenters: []models.ServiceCenter{
			{ID: 301, StationName: "AutoCare Colombo", Address: "12 Galle Road, Colombo 03"},
			{ID: 302, StationName: "AutoCare Kandy", Address: "45 Peradeniya Road, Kandy"},
		},
		Users: []models.User{
			staff(500, "admin", "System", "Admin", models.RoleAdmin),
			staff(501, "nimal", "Nimal", "Perera", models.RoleTechnician),
			staff(502, "sunil", "Sunil", "Jayasinghe", models.RoleManager),
		},
		ServiceHistory: []models.ServiceHistory{
			{
				ID: 1, VehicleID: 42, ServiceType: "Oil Change", Description: "Engine oil and filter replaced",
				Cost: 45.5, ServiceDate: day(2023, time.January, 1), Mileage: 60000, IsVerified: true,
				ServiceCenterID: ptr(int64(301)), ServicedByUserID: ptr(int64(501)),
			},
			{
				ID: 2, VehicleID: 42, ServiceType: "Brake Service", Description: "Front brake pads replaced",
				Cost: 180, ServiceDate: day(2024, time.June, 1), Mileage: 82150,
				ExternalServiceCenterName: ptr("Roadside Garage"), ReceiptDocumentPath: ptr("receipts/2.pdf"),
			},
			{
				ID: 3, VehicleID: 42, ServiceType: "Inspection", Description: "Annual safety inspection",
				Cost: 25, ServiceDate: day(2023, time.January, 1), Mileage: 60010, IsVerified: true,
				ServiceCenterID: ptr(int64(302)),
			},
			{
				ID: 4, VehicleID: 43, ServiceType: "Tyre Rotation", Description: "Rotated and balanced",
				Cost: 40, ServiceDate: day(2024, time.May, 20), Mileage: 41000,
				ServiceCenterID: ptr(int64(301)), ServicedByUserID: ptr(int64(501)),
			},
		},
	}
}

// seed writes every record of d, parents before children.
func seed(ctx context.Context, w writer, d dataset) error {
	for _, c := range d.Customers {
		if err := w.UpsertCustomer(ctx, c); err != nil {
			return errors.Wrapf(err, "customer %d", c.ID)
		}
	}
	for _, v := range d.Vehicles {
		if err := w.UpsertVehicle(ctx, v); err != nil {
			return errors.Wrapf(err, "vehicle %d", v.ID)
		}
	}
	for _, i := range d.Invoices {
		if err := w.UpsertInvoice(ctx, i); err != nil {
			return errors.Wrapf(err, "invoice %d", i.ID)
		}
	}
	for _, l := range d.PaymentLogs {
		if err := w.UpsertPaymentLog(ctx, l); err != nil {
			return errors.Wrapf(err, "payment log %d", l.ID)
		}
	}
	for _, c := range d.ServiceCenters {
		if err := w.UpsertServiceCenter(ctx, c); err != nil {
			return errors.Wrapf(err, "service center %d", c.ID)
		}
	}
	for _, u := range d.Users {
		if err := w.UpsertUser(ctx, u); err != nil {
			return errors.Wrapf(err, "user %d", u.ID)
		}
	}
	for _, h := range d.ServiceHistory {
		if err := w.UpsertServiceHistory(ctx, h); err != nil {
			return errors.Wrapf(err, "service history %d", h.ID)
		}
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	// The seeder only needs the hashing half of the auth service.
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "seeder"
	}
	authService, err := auth.NewService(secret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	hash, err := authService.HashPassword(password)
	if err != nil {
		log.WithError(err).Fatal("Failed to hash seed password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	store := db.NewStore(client.Database(cfg.MongoDB))
	if err := store.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	d := demoDataset(hash, time.Now().UTC())
	if err := seed(ctx, store, d); err != nil {
		log.WithError(err).Fatal("Seeding failed")
	}

	log.WithFields(log.Fields{
		"database":        cfg.MongoDB,
		"vehicles":        len(d.Vehicles),
		"invoices":        len(d.Invoices),
		"payment_logs":    len(d.PaymentLogs),
		"service_records": len(d.ServiceHistory),
		"users":           len(d.Users),
	}).Info("Demo dataset seeded")
}
