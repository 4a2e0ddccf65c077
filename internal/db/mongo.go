package db

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

var errNilCollection = errors.New("mongo collection is nil")

const (
	vehiclesCollection       = "vehicles"
	customersCollection      = "customers"
	invoicesCollection       = "invoices"
	paymentLogsCollection    = "payment_logs"
	serviceHistoryCollection = "service_history"
	serviceCentersCollection = "service_centers"
	usersCollection          = "users"
)

// Connect connects to MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "mongo ping")
	}
	return client, nil
}

// Store implements the reader interfaces on top of a MongoDB database.
type Store struct {
	database       *mongo.Database
	vehicles       *mongo.Collection
	customers      *mongo.Collection
	invoices       *mongo.Collection
	paymentLogs    *mongo.Collection
	serviceHistory *mongo.Collection
	serviceCenters *mongo.Collection
	users          *mongo.Collection
}

// NewStore binds a Store to the given database.
func NewStore(database *mongo.Database) *Store {
	return &Store{
		database:       database,
		vehicles:       database.Collection(vehiclesCollection),
		customers:      database.Collection(customersCollection),
		invoices:       database.Collection(invoicesCollection),
		paymentLogs:    database.Collection(paymentLogsCollection),
		serviceHistory: database.Collection(serviceHistoryCollection),
		serviceCenters: database.Collection(serviceCentersCollection),
		users:          database.Collection(usersCollection),
	}
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.database == nil {
		return errNilCollection
	}
	return s.database.Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes backing the lookups below.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.invoices: {
			{Keys: bson.D{{Key: "vehicle_id", Value: 1}, {Key: "invoice_date", Value: -1}, {Key: "_id", Value: -1}}},
		},
		s.paymentLogs: {
			{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "sequence", Value: -1}, {Key: "_id", Value: -1}}},
		},
		s.serviceHistory: {
			{Keys: bson.D{{Key: "vehicle_id", Value: 1}, {Key: "_id", Value: 1}}},
		},
		s.users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range indexes {
		if coll == nil {
			return errNilCollection
		}
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", coll.Name())
		}
	}
	return nil
}

// findOne decodes the first match into out, mapping no documents to ErrNotFound.
func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOneOptions) error {
	if coll == nil {
		return errNilCollection
	}
	err := coll.FindOne(ctx, filter, opts...).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// upsert replaces the document with the given _id, inserting it when absent.
func upsert(ctx context.Context, coll *mongo.Collection, id int64, doc interface{}) error {
	if coll == nil {
		return errNilCollection
	}
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}
