package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reserrors "innkeeper/internal/reservations/errors"
	"innkeeper/pkg/config"
	mongotx "innkeeper/pkg/db/mongo"
	"innkeeper/pkg/model"
)

// BookingLedger is the append-only record of reservations and the sole
// source of truth for room availability. Insert is the only creation path;
// Delete exists for the cancellation flow and must run under the same
// per-room lock discipline as reserve.
type BookingLedger interface {
	Insert(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	EntriesForRoom(ctx context.Context, roomID string, after *time.Time, limit int, offset int64) ([]*model.Booking, error)
	CountForRoom(ctx context.Context, roomID string, after *time.Time) (int64, error)
	FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	HasActiveEntry(ctx context.Context, roomID string, now time.Time) (bool, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingLedger struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingLedger(cfg *config.Config) BookingLedger {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLedger{
		cfg:        cfg,
		collection: db.Collection(BookingsCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingLedger) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingLedger) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return reserrors.ErrBookingNotFound
	}

	return nil
}

func (r *mongoBookingLedger) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingLedger) EntriesForRoom(ctx context.Context, roomID string, after *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, roomFilter(roomID, after), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger entries: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingLedger) CountForRoom(ctx context.Context, roomID string, after *time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, roomFilter(roomID, after))
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

// FindOverlapping returns entries for the room whose half-open interval
// intersects [checkIn, checkOut). The comparison operators mirror the
// overlap predicate: check_in < checkOut AND check_out > checkIn.
func (r *mongoBookingLedger) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_ids":  roomID,
		"check_in":  bson.M{"$lt": checkOut},
		"check_out": bson.M{"$gt": checkIn},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping entries: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping entries: %w", err)
	}

	return bookings, nil
}

// HasActiveEntry reports whether any ledger entry's stay contains now.
func (r *mongoBookingLedger) HasActiveEntry(ctx context.Context, roomID string, now time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_ids":  roomID,
		"check_in":  bson.M{"$lte": now},
		"check_out": bson.M{"$gt": now},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check active entries: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBookingLedger) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func roomFilter(roomID string, after *time.Time) bson.M {
	filter := bson.M{"room_ids": roomID}
	if after != nil {
		filter["check_out"] = bson.M{"$gt": *after}
	}
	return filter
}
