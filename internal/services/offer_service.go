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

	"roofline/server/internal/db"
	"roofline/server/internal/models"
)

// AcceptResult reports the outcome of accepting an offer. SiblingWarning is
// non-empty when the accepted write succeeded but rejecting the remaining
// pending offers on the same property did not fully complete; those siblings
// stay pending and can be rejected later.
type AcceptResult struct {
	Offer            *models.Offer
	SiblingsRejected int64
	SiblingWarning   string
}

// IOfferService defines the interface for the offer ledger.
//
// State machine: pending -> accepted -> bought, pending|accepted -> rejected.
// Invariant: at most one offer per property is ever in accepted or bought.
type IOfferService interface {
	Submit(ctx context.Context, offer *models.Offer) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Offer, error)
	ListByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error)
	Accept(ctx context.Context, offerID primitive.ObjectID) (*AcceptResult, error)
	Reject(ctx context.Context, offerID primitive.ObjectID) error
}

const offersCollection = "offers"

// offerService implements IOfferService.
type offerService struct {
	db          *mongo.Database
	propertySvc IPropertyService
}

// NewOfferService creates a new OfferService.
func NewOfferService(db *mongo.Database, propertySvc IPropertyService) IOfferService {
	return &offerService{db: db, propertySvc: propertySvc}
}

// Submit creates a new offer in pending state. The owning agent's email and
// the display snapshots are resolved from the property when the caller did
// not supply them.
func (s *offerService) Submit(ctx context.Context, offer *models.Offer) (primitive.ObjectID, error) {
	if offer.PropertyID.IsZero() || offer.BuyerEmail == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: propertyId and buyerEmail are required", ErrInvalidArgument)
	}
	if offer.Amount <= 0 {
		return primitive.NilObjectID, fmt.Errorf("%w: amount must be a positive number", ErrInvalidArgument)
	}

	if offer.AgentEmail == "" || offer.PropertyTitle == "" {
		property, err := s.propertySvc.FindByID(ctx, offer.PropertyID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return primitive.NilObjectID, mongo.ErrNoDocuments
			}
			return primitive.NilObjectID, fmt.Errorf("failed to resolve property for offer: %w", err)
		}
		if offer.AgentEmail == "" {
			offer.AgentEmail = property.AgentEmail
		}
		if offer.PropertyTitle == "" {
			offer.PropertyTitle = property.Title
		}
		if offer.Location == "" {
			offer.Location = property.Location
		}
		if offer.ImageURL == "" {
			offer.ImageURL = property.ImageURL
		}
	}

	offer.ID = primitive.NilObjectID
	offer.Status = models.OfferPending
	offer.TransactionID = ""
	offer.OfferDate = time.Now().UTC()

	collection := s.db.Collection(offersCollection)
	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, offer)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}

	if err := db.Try(operation); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert offer for property %s: %w", offer.PropertyID.Hex(), err)
	}
	return insertedID, nil
}

// FindByID finds an offer by id.
func (s *offerService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	var offer models.Offer
	collection := s.db.Collection(offersCollection)

	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding offer %s: %w", id.Hex(), err)
	}
	return &offer, nil
}

// ListByBuyer returns the buyer's offers, newest-first.
func (s *offerService) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Offer, error) {
	return s.list(ctx, bson.M{"buyerEmail": buyerEmail})
}

// ListByAgent returns offers made against the agent's properties, newest-first.
func (s *offerService) ListByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	return s.list(ctx, bson.M{"agentEmail": agentEmail})
}

func (s *offerService) list(ctx context.Context, filter bson.M) ([]models.Offer, error) {
	collection := s.db.Collection(offersCollection)
	opts := options.Find().SetSort(bson.D{{Key: "offerDate", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute offer query: %w", err)
	}
	defer cursor.Close(ctx)

	offers := []models.Offer{}
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}

// Accept transitions the offer to accepted and rejects every other
// non-terminal offer on the same property. The two writes are ordered: the
// accept is applied first, so a concurrent reader never observes two
// simultaneously accepted offers for one property. If rejecting the siblings
// fails after the accept succeeded, the accepted offer stands and the stale
// pending siblings are reported through AcceptResult.SiblingWarning.
func (s *offerService) Accept(ctx context.Context, offerID primitive.ObjectID) (*AcceptResult, error) {
	collection := s.db.Collection(offersCollection)

	// Step (a): accept this offer, guarded so a terminal offer is never
	// resurrected. The guard also stops two concurrent accepts from both
	// succeeding once one of them has been rejected by the other's step (b).
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var accepted models.Offer
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": offerID, "status": bson.M{"$in": bson.A{models.OfferPending, models.OfferAccepted}}},
		bson.M{"$set": bson.M{"status": models.OfferAccepted}},
		opts,
	).Decode(&accepted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Not found, or found but terminal. Distinguish for the caller.
			existing, checkErr := s.FindByID(ctx, offerID)
			if checkErr != nil {
				return nil, mongo.ErrNoDocuments
			}
			return nil, fmt.Errorf("%w: offer %s is %s", ErrAlreadyResolved, offerID.Hex(), existing.Status)
		}
		return nil, fmt.Errorf("db error accepting offer %s: %w", offerID.Hex(), err)
	}

	result := &AcceptResult{Offer: &accepted}

	// Step (b): reject every other offer on the same property that has not
	// reached a terminal state.
	siblingFilter := bson.M{
		"propertyId": accepted.PropertyID,
		"_id":        bson.M{"$ne": accepted.ID},
		"status":     bson.M{"$nin": bson.A{models.OfferRejected, models.OfferBought}},
	}
	update := bson.M{"$set": bson.M{"status": models.OfferRejected}}

	updateRes, err := collection.UpdateMany(ctx, siblingFilter, update)
	if err != nil {
		// Tolerable partial failure: the correct offer is accepted, the
		// stale siblings stay pending and can be rejected later. Surface it,
		// never swallow it.
		result.SiblingWarning = fmt.Sprintf("offer %s accepted, but rejecting sibling offers failed: %v", accepted.ID.Hex(), err)
		return result, nil
	}
	result.SiblingsRejected = updateRes.ModifiedCount
	return result, nil
}

// Reject sets the offer's status to rejected. Rejecting an offer already in
// a terminal state is a no-op reported as ErrAlreadyResolved.
func (s *offerService) Reject(ctx context.Context, offerID primitive.ObjectID) error {
	collection := s.db.Collection(offersCollection)

	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": offerID, "status": bson.M{"$nin": bson.A{models.OfferRejected, models.OfferBought}}},
		bson.M{"$set": bson.M{"status": models.OfferRejected}},
	)
	if err != nil {
		return fmt.Errorf("db error rejecting offer %s: %w", offerID.Hex(), err)
	}
	if result.MatchedCount == 0 {
		existing, checkErr := s.FindByID(ctx, offerID)
		if checkErr != nil {
			return mongo.ErrNoDocuments
		}
		return fmt.Errorf("%w: offer %s is %s", ErrAlreadyResolved, offerID.Hex(), existing.Status)
	}
	return nil
}
