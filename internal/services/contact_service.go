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

// IContactService defines the interface for contact request operations.
type IContactService interface {
	Create(ctx context.Context, req *models.ContactRequest) (primitive.ObjectID, error)
	List(ctx context.Context) ([]models.ContactRequest, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.ContactStatus) error
}

const contactsCollection = "contacts"

type contactService struct {
	db *mongo.Database
}

// NewContactService creates a new ContactService.
func NewContactService(db *mongo.Database) IContactService {
	return &contactService{db: db}
}

// Create inserts a contact request with status forced to pending.
func (s *contactService) Create(ctx context.Context, req *models.ContactRequest) (primitive.ObjectID, error) {
	if req.Phone == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: phone is required", ErrInvalidArgument)
	}

	req.ID = primitive.NilObjectID
	req.Status = models.ContactPending
	req.CreatedAt = time.Now().UTC()

	collection := s.db.Collection(contactsCollection)
	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, req)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}
	if err := db.Try(operation); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert contact request: %w", err)
	}
	return insertedID, nil
}

// List returns all contact requests, newest-first.
func (s *contactService) List(ctx context.Context) ([]models.ContactRequest, error) {
	collection := s.db.Collection(contactsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute contact query: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.ContactRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode contact requests: %w", err)
	}
	return requests, nil
}

// SetStatus updates the handling state of a contact request.
func (s *contactService) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ContactStatus) error {
	if status != models.ContactPending && status != models.ContactContacted {
		return fmt.Errorf("%w: contact status must be pending or contacted, got %q", ErrInvalidArgument, status)
	}

	result, err := s.db.Collection(contactsCollection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("db error updating contact request %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
