package db

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindServiceHistory returns a vehicle's service records in storage order,
// i.e. ascending by the surrogate _id.
func (s *Store) FindServiceHistory(ctx context.Context, vehicleID int64) ([]models.ServiceHistory, error) {
	if s.serviceHistory == nil {
		return nil, errNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.serviceHistory.Find(ctx, bson.M{"vehicle_id": vehicleID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "find service history for vehicle %d", vehicleID)
	}
	defer cursor.Close(ctx)

	records := []models.ServiceHistory{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "decode service history")
	}
	return records, nil
}

// FindServiceCentersByIDs returns the service centers matching ids. Unknown
// ids are skipped.
func (s *Store) FindServiceCentersByIDs(ctx context.Context, ids []int64) ([]models.ServiceCenter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if s.serviceCenters == nil {
		return nil, errNilCollection
	}
	cursor, err := s.serviceCenters.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find service centers")
	}
	defer cursor.Close(ctx)

	var centers []models.ServiceCenter
	if err := cursor.All(ctx, &centers); err != nil {
		return nil, errors.Wrap(err, "decode service centers")
	}
	return centers, nil
}

// UpsertServiceHistory inserts or replaces a service record.
func (s *Store) UpsertServiceHistory(ctx context.Context, record models.ServiceHistory) error {
	return errors.Wrap(upsert(ctx, s.serviceHistory, record.ID, record), "upsert service history")
}

// UpsertServiceCenter inserts or replaces a service center.
func (s *Store) UpsertServiceCenter(ctx context.Context, center models.ServiceCenter) error {
	return errors.Wrap(upsert(ctx, s.serviceCenters, center.ID, center), "upsert service center")
}
