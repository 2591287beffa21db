package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roofline/server/internal/cache"
	"roofline/server/internal/db"
	"roofline/server/internal/models"
)

// PropertyFilter selects a subset of properties. Zero-value fields are not
// applied. One filter set serves every GET /properties variant.
type PropertyFilter struct {
	AgentEmail string
	Status     models.VerificationStatus
	Advertised *bool
	// VerifiedOnly restricts to the publicly browsable view.
	VerifiedOnly bool
}

// IPropertyService defines the interface for listing store operations.
type IPropertyService interface {
	Create(ctx context.Context, p *models.Property) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]models.Property, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	SetVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus) error
	Advertise(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByAgentEmail(ctx context.Context, agentEmail string) (int64, error)
}

const propertiesCollection = "properties"

// Cache keys for the two hot public views.
const (
	cacheKeyVerified   = "view:properties:verified"
	cacheKeyAdvertised = "view:properties:advertised"
)

// propertyService implements IPropertyService.
type propertyService struct {
	db    *mongo.Database
	views *cache.ViewCache
}

// NewPropertyService creates a new PropertyService. views may be nil.
func NewPropertyService(db *mongo.Database, views *cache.ViewCache) IPropertyService {
	return &propertyService{db: db, views: views}
}

// Create inserts a new property. Verification status is forced to pending
// and the creation time is stamped regardless of caller-supplied values.
func (s *propertyService) Create(ctx context.Context, p *models.Property) (primitive.ObjectID, error) {
	if p.Title == "" || p.AgentEmail == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: title and agentEmail are required", ErrInvalidArgument)
	}

	collection := s.db.Collection(propertiesCollection)
	p.ID = primitive.NilObjectID
	p.VerificationStatus = models.VerificationPending
	p.Advertised = false
	p.CreatedAt = time.Now().UTC()

	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, p)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}

	if err := db.Try(operation); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert property for agent %s: %w", p.AgentEmail, err)
	}

	s.invalidateViews(ctx)
	return insertedID, nil
}

// FindByID finds a property by its id.
func (s *propertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	collection := s.db.Collection(propertiesCollection)

	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding property %s: %w", id.Hex(), err)
	}
	return &property, nil
}

// List returns properties matching the filter, newest-first. The two public
// views (verified, advertised) are served read-through from the view cache.
func (s *propertyService) List(ctx context.Context, filter PropertyFilter) ([]models.Property, error) {
	cacheKey := s.viewCacheKey(filter)
	if cacheKey != "" {
		var cached []models.Property
		if s.views.Get(ctx, cacheKey, &cached) {
			return cached, nil
		}
	}

	query := bson.M{}
	if filter.AgentEmail != "" {
		query["agentEmail"] = filter.AgentEmail
	}
	if filter.Status != "" {
		query["verificationStatus"] = filter.Status
	}
	if filter.Advertised != nil {
		query["advertised"] = *filter.Advertised
	}
	if filter.VerifiedOnly {
		query["verificationStatus"] = models.VerificationVerified
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(propertiesCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute property query: %w", err)
	}
	defer cursor.Close(ctx)

	results := []models.Property{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode property results: %w", err)
	}

	if cacheKey != "" {
		s.views.Set(ctx, cacheKey, results)
	}
	return results, nil
}

// viewCacheKey returns the cache key for filter when it is one of the two
// cached public views, otherwise "".
func (s *propertyService) viewCacheKey(filter PropertyFilter) string {
	if filter.AgentEmail != "" || filter.Status != "" {
		return ""
	}
	if filter.VerifiedOnly && filter.Advertised == nil {
		return cacheKeyVerified
	}
	if !filter.VerifiedOnly && filter.Advertised != nil && *filter.Advertised {
		return cacheKeyAdvertised
	}
	return ""
}

// Update merges caller-supplied fields into the property. Field protection
// happens at the route-authorization layer, not here.
func (s *propertyService) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	// The id itself is never updatable.
	delete(updates, "_id")
	if len(updates) == 0 {
		return fmt.Errorf("%w: no fields provided for update", ErrInvalidArgument)
	}

	collection := s.db.Collection(propertiesCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("db error updating property %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	s.invalidateViews(ctx)
	return nil
}

// SetVerification moves a property to verified or rejected.
func (s *propertyService) SetVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus) error {
	if status != models.VerificationVerified && status != models.VerificationRejected {
		return fmt.Errorf("%w: verification status must be verified or rejected, got %q", ErrInvalidArgument, status)
	}

	collection := s.db.Collection(propertiesCollection)
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"verificationStatus": status}})
	if err != nil {
		return fmt.Errorf("db error setting verification for property %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	s.invalidateViews(ctx)
	return nil
}

// Advertise idempotently sets advertised=true. NotFound when the id does not
// resolve; advertising an already-advertised property is not an error.
func (s *propertyService) Advertise(ctx context.Context, id primitive.ObjectID) error {
	collection := s.db.Collection(propertiesCollection)

	result, err := collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"advertised": true}})
	if err != nil {
		return fmt.Errorf("db error advertising property %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	s.invalidateViews(ctx)
	return nil
}

// Delete removes a property. NotFound when nothing was removed.
func (s *propertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	collection := s.db.Collection(propertiesCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error deleting property %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	s.invalidateViews(ctx)
	return nil
}

// DeleteByAgentEmail removes every property owned by agentEmail and returns
// how many were removed. This is the fraud-cascade entry point.
func (s *propertyService) DeleteByAgentEmail(ctx context.Context, agentEmail string) (int64, error) {
	collection := s.db.Collection(propertiesCollection)

	result, err := collection.DeleteMany(ctx, bson.M{"agentEmail": agentEmail})
	if err != nil {
		return 0, fmt.Errorf("db error deleting properties for agent %s: %w", agentEmail, err)
	}

	s.invalidateViews(ctx)
	return result.DeletedCount, nil
}

func (s *propertyService) invalidateViews(ctx context.Context) {
	s.views.Invalidate(ctx, cacheKeyVerified, cacheKeyAdvertised)
}
