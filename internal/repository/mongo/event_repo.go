package mongo

import (
	"context"
	"errors"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventCollectionName = "calendar_events"

// mongoEventRepository implements repository.EventRepository using MongoDB.
// One document per event. There is no uniqueness on (date, time); stacked
// events are permitted.
type mongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new instance of mongoEventRepository.
func NewMongoEventRepository(db *mongo.Database) repository.EventRepository {
	return &mongoEventRepository{
		collection: db.Collection(eventCollectionName),
	}
}

// ListByUser retrieves all of a user's events ordered by date then time.
func (r *mongoEventRepository) ListByUser(ctx context.Context, userID string) ([]domain.CalendarEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []domain.CalendarEvent{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID retrieves a single event, scoped to its owner.
func (r *mongoEventRepository) GetByID(ctx context.Context, userID, eventID string) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "id": eventID}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Insert stores a new event. The caller assigns the id.
func (r *mongoEventRepository) Insert(ctx context.Context, event *domain.CalendarEvent) error {
	if event.ID == "" || event.UserID == "" {
		return errors.New("event id and user id are required")
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// Update replaces a stored event, scoped to its owner.
func (r *mongoEventRepository) Update(ctx context.Context, event *domain.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"userId": event.UserID, "id": event.ID}, event)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an event, scoped to its owner.
func (r *mongoEventRepository) Delete(ctx context.Context, userID, eventID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "id": eventID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureEventIndexes creates necessary indexes for the events collection.
func EnsureEventIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
