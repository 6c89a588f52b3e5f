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

const goalCollectionName = "goals"

// goalDocument is the stored shape: one document per user holding the
// whole goal set. userId is the partition key.
type goalDocument struct {
	UserID    string                          `bson:"userId"`
	Goals     map[domain.Category]domain.Goal `bson:"goals"`
	UpdatedAt time.Time                       `bson:"updatedAt"`
}

// mongoGoalRepository implements repository.GoalRepository using MongoDB.
type mongoGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoGoalRepository creates a new instance of mongoGoalRepository.
func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

// Get fetches the single goals record for a user. Legacy string actions
// inside the stored document normalize on decode (see domain.Action);
// the record is not rewritten in place.
func (r *mongoGoalRepository) Get(ctx context.Context, userID string) (*domain.GoalSet, error) {
	var doc goalDocument
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	set := domain.GoalSet{Goals: doc.Goals}
	if set.Goals == nil {
		set.Goals = map[domain.Category]domain.Goal{}
	}
	for c, g := range set.Goals {
		g.Normalize()
		set.Goals[c] = g
	}
	return &set, nil
}

// Upsert replaces the user's goals record wholesale.
func (r *mongoGoalRepository) Upsert(ctx context.Context, userID string, goals domain.GoalSet) error {
	doc := goalDocument{
		UserID:    userID,
		Goals:     goals.Goals,
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"userId": userID}, doc, opts)
	return err
}

// EnsureGoalIndexes creates necessary indexes for the goals collection.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
