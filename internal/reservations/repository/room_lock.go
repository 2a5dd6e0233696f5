package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	reserrors "innkeeper/internal/reservations/errors"
	"innkeeper/pkg/config"
	"innkeeper/pkg/model"
)

// RoomLockRepository provides per-room advisory locks. A lock is a document
// whose _id is the room ID; the collection's unique primary key makes the
// insert the serialization point for check-then-append on that room.
type RoomLockRepository interface {
	Acquire(ctx context.Context, roomID string, ttl time.Duration) error
	Release(ctx context.Context, roomID string) error
}

type mongoRoomLockRepository struct {
	collection *mongo.Collection
}

func NewMongoRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		collection: db.Collection(RoomLocksCollection),
	}
}

// Acquire returns ErrLockHeld if another request currently owns the room.
// The TTL index on expires_at reclaims locks left behind by a crashed
// process.
func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) error {
	lock := &model.RoomLock{
		ID:        roomID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reserrors.ErrLockHeld
		}
		return err
	}

	return nil
}

func (r *mongoRoomLockRepository) Release(ctx context.Context, roomID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": roomID})
	return err
}
