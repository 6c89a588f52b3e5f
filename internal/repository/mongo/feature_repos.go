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

// The wheel, values and vision features all persist the same way: a
// single document per user, replaced wholesale on save. Each gets its own
// collection so the records stay independently queryable.
const (
	wheelCollectionName  = "wheel_data"
	valuesCollectionName = "values_data"
	visionCollectionName = "vision_boards"
)

type mongoWheelRepository struct {
	collection *mongo.Collection
}

// NewMongoWheelRepository creates a new instance of mongoWheelRepository.
func NewMongoWheelRepository(db *mongo.Database) repository.WheelRepository {
	return &mongoWheelRepository{collection: db.Collection(wheelCollectionName)}
}

func (r *mongoWheelRepository) Get(ctx context.Context, userID string) (*domain.WheelData, error) {
	var doc struct {
		Data domain.WheelData `bson:"data"`
	}
	if err := fetchUserDoc(ctx, r.collection, userID, &doc); err != nil {
		return nil, err
	}
	return doc.Data.Normalize(), nil
}

func (r *mongoWheelRepository) Upsert(ctx context.Context, userID string, data domain.WheelData) error {
	return upsertUserDoc(ctx, r.collection, userID, data)
}

type mongoValuesRepository struct {
	collection *mongo.Collection
}

// NewMongoValuesRepository creates a new instance of mongoValuesRepository.
func NewMongoValuesRepository(db *mongo.Database) repository.ValuesRepository {
	return &mongoValuesRepository{collection: db.Collection(valuesCollectionName)}
}

func (r *mongoValuesRepository) Get(ctx context.Context, userID string) (*domain.ValuesData, error) {
	var doc struct {
		Data domain.ValuesData `bson:"data"`
	}
	if err := fetchUserDoc(ctx, r.collection, userID, &doc); err != nil {
		return nil, err
	}
	return doc.Data.Normalize(), nil
}

func (r *mongoValuesRepository) Upsert(ctx context.Context, userID string, data domain.ValuesData) error {
	return upsertUserDoc(ctx, r.collection, userID, data)
}

type mongoVisionRepository struct {
	collection *mongo.Collection
}

// NewMongoVisionRepository creates a new instance of mongoVisionRepository.
func NewMongoVisionRepository(db *mongo.Database) repository.VisionRepository {
	return &mongoVisionRepository{collection: db.Collection(visionCollectionName)}
}

func (r *mongoVisionRepository) Get(ctx context.Context, userID string) (*domain.VisionBoard, error) {
	var doc struct {
		Data domain.VisionBoard `bson:"data"`
	}
	if err := fetchUserDoc(ctx, r.collection, userID, &doc); err != nil {
		return nil, err
	}
	return doc.Data.Normalize(), nil
}

func (r *mongoVisionRepository) Upsert(ctx context.Context, userID string, board domain.VisionBoard) error {
	return upsertUserDoc(ctx, r.collection, userID, board)
}

// fetchUserDoc reads the single per-user document from a feature collection.
func fetchUserDoc(ctx context.Context, collection *mongo.Collection, userID string, out interface{}) error {
	err := collection.FindOne(ctx, bson.M{"userId": userID}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// upsertUserDoc replaces the single per-user document in a feature collection.
func upsertUserDoc(ctx context.Context, collection *mongo.Collection, userID string, data interface{}) error {
	doc := bson.M{
		"userId":    userID,
		"data":      data,
		"updatedAt": time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := collection.ReplaceOne(ctx, bson.M{"userId": userID}, doc, opts)
	return err
}

// EnsureFeatureIndexes creates the userId index on each per-feature collection.
func EnsureFeatureIndexes(ctx context.Context, db *mongo.Database) {
	for _, name := range []string{wheelCollectionName, valuesCollectionName, visionCollectionName} {
		_, _ = db.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		})
	}
}
