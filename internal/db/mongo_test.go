package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vehicle-service-history/internal/models"
)

var (
	_ VehicleReader        = (*Store)(nil)
	_ InvoiceReader        = (*Store)(nil)
	_ PaymentLogReader     = (*Store)(nil)
	_ ServiceHistoryReader = (*Store)(nil)
	_ UserCollection       = (*Store)(nil)
)

func TestConnect_BadURI(t *testing.T) {
	client, err := Connect(context.Background(), "mongodb://bad:uri", time.Second)
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestStore_NilCollections(t *testing.T) {
	store := &Store{}
	ctx := context.Background()

	_, err := store.FindVehicleByID(ctx, 1)
	assert.ErrorIs(t, err, errNilCollection)

	_, err = store.FindLatestInvoice(ctx, 1)
	assert.ErrorIs(t, err, errNilCollection)

	_, err = store.FindLatestPaymentLog(ctx, 1)
	assert.ErrorIs(t, err, errNilCollection)

	_, err = store.FindServiceHistory(ctx, 1)
	assert.ErrorIs(t, err, errNilCollection)

	err = store.UpsertVehicle(ctx, models.Vehicle{ID: 1})
	assert.ErrorIs(t, err, errNilCollection)
}

func TestStore_BatchLookupsSkipEmptyIDs(t *testing.T) {
	store := &Store{}

	centers, err := store.FindServiceCentersByIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, centers)

	users, err := store.FindUsersByIDs(context.Background(), []int64{})
	assert.NoError(t, err)
	assert.Empty(t, users)
}

// Integration test (requires running MongoDB)
func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" || uri == "uri" {
		t.Skip("MONGO_URI not set or invalid, skipping integration test")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client, err := Connect(ctx, uri, 5*time.Second)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
		return
	}
	defer client.Disconnect(context.Background())

	database := client.Database(fmt.Sprintf("vsh_test_%d", time.Now().UnixNano()))
	defer database.Drop(context.Background())

	store := NewStore(database)
	require.NoError(t, store.EnsureIndexes(ctx))

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertVehicle(ctx, models.Vehicle{ID: 42, RegistrationNumber: "CAB-1234", CustomerID: 1}))
	require.NoError(t, store.UpsertInvoice(ctx, models.Invoice{ID: 5, VehicleID: 42, InvoiceDate: day.AddDate(0, -1, 0)}))
	require.NoError(t, store.UpsertInvoice(ctx, models.Invoice{ID: 6, VehicleID: 42, InvoiceDate: day}))
	require.NoError(t, store.UpsertInvoice(ctx, models.Invoice{ID: 7, VehicleID: 42, InvoiceDate: day}))
	require.NoError(t, store.UpsertPaymentLog(ctx, models.PaymentLog{ID: 98, InvoiceID: 7, Status: "Pending", Sequence: 1}))
	require.NoError(t, store.UpsertPaymentLog(ctx, models.PaymentLog{ID: 99, InvoiceID: 7, Status: "Paid", Sequence: 2}))
	require.NoError(t, store.UpsertPaymentLog(ctx, models.PaymentLog{ID: 198, InvoiceID: 6, Status: "Pending", Sequence: 1}))
	require.NoError(t, store.UpsertPaymentLog(ctx, models.PaymentLog{ID: 199, InvoiceID: 6, Status: "Paid", Sequence: 1}))
	require.NoError(t, store.UpsertServiceHistory(ctx, models.ServiceHistory{ID: 2, VehicleID: 42, ServiceDate: day}))
	require.NoError(t, store.UpsertServiceHistory(ctx, models.ServiceHistory{ID: 1, VehicleID: 42, ServiceDate: day}))

	t.Run("vehicle lookup", func(t *testing.T) {
		vehicle, err := store.FindVehicleByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "CAB-1234", vehicle.RegistrationNumber)

		_, err = store.FindVehicleByID(ctx, 99)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("latest invoice breaks date ties by id", func(t *testing.T) {
		invoice, err := store.FindLatestInvoice(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(7), invoice.ID)

		_, err = store.FindLatestInvoice(ctx, 43)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("latest payment log by sequence", func(t *testing.T) {
		log, err := store.FindLatestPaymentLog(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(99), log.ID)
		assert.True(t, log.IsPaid())
	})

	t.Run("latest payment log breaks sequence ties by id", func(t *testing.T) {
		log, err := store.FindLatestPaymentLog(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, int64(199), log.ID)
	})

	t.Run("history in storage order", func(t *testing.T) {
		records, err := store.FindServiceHistory(ctx, 42)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(1), records[0].ID)
		assert.Equal(t, int64(2), records[1].ID)
	})
}
