package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roofline/server/internal/db"
	"roofline/server/internal/models"
)

// ReviewFilter selects reviews. Zero-value fields are not applied; one
// handler serves every GET /reviews variant through this filter set.
type ReviewFilter struct {
	PropertyID    primitive.ObjectID
	ReviewerEmail string
}

// IReviewService defines the interface for review operations.
type IReviewService interface {
	Create(ctx context.Context, review *models.Review) (primitive.ObjectID, error)
	List(ctx context.Context, filter ReviewFilter) ([]models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const reviewsCollection = "reviews"

type reviewService struct {
	db *mongo.Database
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *mongo.Database) IReviewService {
	return &reviewService{db: db}
}

// Create inserts a review.
func (s *reviewService) Create(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	if review.PropertyID.IsZero() || review.ReviewerEmail == "" || review.Description == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: propertyId, reviewerEmail and description are required", ErrInvalidArgument)
	}

	review.ID = primitive.NilObjectID
	review.CreatedAt = time.Now().UTC()

	collection := s.db.Collection(reviewsCollection)
	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, review)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}
	if err := db.Try(operation); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert review: %w", err)
	}
	return insertedID, nil
}

// List returns matching reviews, newest-first.
func (s *reviewService) List(ctx context.Context, filter ReviewFilter) ([]models.Review, error) {
	query := bson.M{}
	if !filter.PropertyID.IsZero() {
		query["propertyId"] = filter.PropertyID
	}
	if filter.ReviewerEmail != "" {
		query["reviewerEmail"] = filter.ReviewerEmail
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(reviewsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute review query: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes a review. NotFound when nothing was removed.
func (s *reviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.db.Collection(reviewsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error deleting review %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
