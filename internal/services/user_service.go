package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roofline/server/internal/db"
	"roofline/server/internal/models"
)

// IUserService defines the interface for user directory operations.
// This allows for easier mocking in tests.
type IUserService interface {
	RegisterIfAbsent(ctx context.Context, email, name, photoURL string) (created bool, id primitive.ObjectID, err error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateByEmail(ctx context.Context, email string, updates map[string]interface{}) error
	SetRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error
	MarkFraud(ctx context.Context, userID primitive.ObjectID) (listingsRemoved int64, err error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

const usersCollection = "users"

// userService implements IUserService.
type userService struct {
	db          *mongo.Database
	propertySvc IPropertyService // fraud cascade deletes the agent's listings
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database, propertySvc IPropertyService) IUserService {
	return &userService{db: db, propertySvc: propertySvc}
}

// RegisterIfAbsent inserts a new user with role=user and firstLogin=true if
// no user with that email exists; otherwise it is a no-op. Returns whether a
// new record was created.
func (s *userService) RegisterIfAbsent(ctx context.Context, email, name, photoURL string) (bool, primitive.ObjectID, error) {
	collection := s.db.Collection(usersCollection)

	existing, err := s.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return false, primitive.NilObjectID, err
	}
	if existing != nil {
		return false, existing.ID, nil
	}

	newUser := &models.User{
		Name:       name,
		Email:      email,
		PhotoURL:   photoURL,
		Role:       models.RoleUser,
		FirstLogin: true,
		CreatedAt:  time.Now().UTC(),
	}

	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, newUser)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}

	err = db.Try(operation)
	if err != nil {
		// A concurrent registration can win the race; the unique email index
		// turns that into a duplicate key error, which is the no-op case.
		if db.IsDuplicateKeyError(err) {
			if existing, findErr := s.FindByEmail(ctx, email); findErr == nil {
				return false, existing.ID, nil
			}
			return false, primitive.NilObjectID, nil
		}
		return false, primitive.NilObjectID, fmt.Errorf("failed to insert user %s: %w", email, err)
	}

	return true, insertedID, nil
}

// FindByEmail finds a user by email address.
// Returns nil and mongo.ErrNoDocuments if not found.
func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	collection := s.db.Collection(usersCollection)

	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding user by email %s: %w", email, err)
	}
	return &user, nil
}

// FindByID finds a user by id.
func (s *userService) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	collection := s.db.Collection(usersCollection)

	err := collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding user %s: %w", userID.Hex(), err)
	}
	return &user, nil
}

// ListByRole returns users with the given role, newest-first. An empty role
// returns everyone.
func (s *userService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	collection := s.db.Collection(usersCollection)

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing users by role %q: %w", role, err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

// UpdateByEmail merges profile fields into the user with the given email.
// Role changes do not pass through here; they go through SetRole.
func (s *userService) UpdateByEmail(ctx context.Context, email string, updates map[string]interface{}) error {
	allowed := bson.M{}
	for key, value := range updates {
		switch key {
		case "name", "photoURL", "firstLogin":
			allowed[key] = value
		default:
			return fmt.Errorf("%w: field %q cannot be updated via profile update", ErrInvalidArgument, key)
		}
	}
	if len(allowed) == 0 {
		return fmt.Errorf("%w: no valid fields provided for update", ErrInvalidArgument)
	}

	collection := s.db.Collection(usersCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": allowed})
	if err != nil {
		return fmt.Errorf("db error updating user %s: %w", email, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRole sets the user's role. role must be in the allowed set.
func (s *userService) SetRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	collection := s.db.Collection(usersCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("db error setting role for user %s: %w", userID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkFraud sets the user's role to fraud and best-effort deletes every
// property owned by that user's email. If the cascade fails after the role
// change, the role change stands; the failure is logged and reported through
// the returned count, never as a fatal error.
func (s *userService) MarkFraud(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.SetRole(ctx, userID, models.RoleFraud); err != nil {
		return 0, err
	}

	removed, err := s.propertySvc.DeleteByAgentEmail(ctx, user.Email)
	if err != nil {
		log.Printf("WARN: fraud cascade for user %s (%s) removed %d listings before failing: %v",
			userID.Hex(), user.Email, removed, err)
		return removed, nil
	}
	return removed, nil
}

// Delete removes the user record. Listings and offers referencing the email
// are left orphaned; no foreign-key constraint exists in the store.
func (s *userService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	collection := s.db.Collection(usersCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("db error deleting user %s: %w", userID.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
