package db

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// FindUserByUsername finds a user by their username
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, s.users, bson.M{"username": username}, &user); err != nil {
		return nil, errors.Wrapf(err, "find user %q", username)
	}
	return &user, nil
}

// FindUsersByIDs returns the users matching ids. Unknown ids are skipped.
func (s *Store) FindUsersByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if s.users == nil {
		return nil, errNilCollection
	}
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

// UpsertUser inserts or replaces a user
func (s *Store) UpsertUser(ctx context.Context, user models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	return errors.Wrap(upsert(ctx, s.users, user.ID, user), "upsert user")
}

// UpdateLastLogin updates the last login time for a user
func (s *Store) UpdateLastLogin(ctx context.Context, id int64) error {
	if s.users == nil {
		return errNilCollection
	}
	_, err := s.users.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	return errors.Wrap(err, "update last login")
}
