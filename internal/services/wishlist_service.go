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

// IWishlistService defines the interface for wishlist operations.
type IWishlistService interface {
	Create(ctx context.Context, entry *models.WishlistEntry) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userEmail string) ([]models.WishlistEntry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const wishlistsCollection = "wishlists"

type wishlistService struct {
	db *mongo.Database
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(db *mongo.Database) IWishlistService {
	return &wishlistService{db: db}
}

// Create inserts a wishlist entry. The unique (userEmail, propertyId) index
// turns a duplicate wish into ErrDuplicateWishlist; the collection is left
// unchanged in that case.
func (s *wishlistService) Create(ctx context.Context, entry *models.WishlistEntry) (primitive.ObjectID, error) {
	if entry.UserEmail == "" || entry.PropertyID.IsZero() {
		return primitive.NilObjectID, fmt.Errorf("%w: userEmail and propertyId are required", ErrInvalidArgument)
	}

	entry.ID = primitive.NilObjectID
	entry.CreatedAt = time.Now().UTC()

	collection := s.db.Collection(wishlistsCollection)
	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, entry)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}
	if err := db.Try(operation); err != nil {
		if db.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("%w: %s already wished property %s",
				ErrDuplicateWishlist, entry.UserEmail, entry.PropertyID.Hex())
		}
		return primitive.NilObjectID, fmt.Errorf("failed to insert wishlist entry: %w", err)
	}
	return insertedID, nil
}

// ListByUser returns the user's wishlist, newest-first.
func (s *wishlistService) ListByUser(ctx context.Context, userEmail string) ([]models.WishlistEntry, error) {
	collection := s.db.Collection(wishlistsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := collection.Find(ctx, bson.M{"userEmail": userEmail}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute wishlist query: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.WishlistEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist entries: %w", err)
	}
	return entries, nil
}

// Delete removes a wishlist entry. NotFound when nothing was removed.
func (s *wishlistService) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.db.Collection(wishlistsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error deleting wishlist entry %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
