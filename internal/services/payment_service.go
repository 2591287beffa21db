package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/config"
	"roofline/server/internal/db"
	"roofline/server/internal/models"
)

// RecordResult reports the outcome of recording a payment. Warning is
// non-empty when the Payment insert succeeded but flipping the offer to
// bought kept failing even after retries; the payment record remains the
// source of truth and the offer update can be replayed.
type RecordResult struct {
	PaymentID primitive.ObjectID
	Warning   string
}

// IPaymentService records completed transactions and creates payment intents.
type IPaymentService interface {
	Record(ctx context.Context, payment *models.Payment) (*RecordResult, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Payment, error)
	CreateIntent(ctx context.Context, amount float64) (clientSecret string, err error)
}

const paymentsCollection = "payments"

// paymentService implements IPaymentService.
type paymentService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(database *mongo.Database, cfg *config.Config) IPaymentService {
	if cfg.StripeSecretKey != "" {
		stripe.Key = cfg.StripeSecretKey
	}
	return &paymentService{db: database, cfg: cfg}
}

// Record inserts the Payment document and then flips the referenced offer to
// bought, storing the transaction id on the offer. The payment insert comes
// first: once the money has moved, the payment record must exist. The offer
// update is retried; a final failure is surfaced as a warning so the offer
// is never silently left at accepted.
func (s *paymentService) Record(ctx context.Context, payment *models.Payment) (*RecordResult, error) {
	if payment.OfferID.IsZero() || payment.BuyerEmail == "" || payment.TransactionID == "" {
		return nil, fmt.Errorf("%w: offerId, buyerEmail and transactionId are required", ErrInvalidArgument)
	}
	if payment.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrInvalidArgument)
	}

	offers := s.db.Collection(offersCollection)
	var offer models.Offer
	if err := offers.FindOne(ctx, bson.M{"_id": payment.OfferID}).Decode(&offer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding offer %s for payment: %w", payment.OfferID.Hex(), err)
	}

	payment.ID = primitive.NilObjectID
	payment.PropertyID = offer.PropertyID
	if payment.AgentEmail == "" {
		payment.AgentEmail = offer.AgentEmail
	}
	payment.PaidAt = time.Now().UTC()

	collection := s.db.Collection(paymentsCollection)
	var insertedID primitive.ObjectID
	operation := func() error {
		res, insertErr := collection.InsertOne(ctx, payment)
		if insertErr != nil {
			return insertErr
		}
		insertedID = res.InsertedID.(primitive.ObjectID)
		return nil
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert payment for offer %s: %w", payment.OfferID.Hex(), err)
	}

	result := &RecordResult{PaymentID: insertedID}

	// Flip the offer to bought. Retried because the payment record already
	// exists; never rolled back.
	flip := func() error {
		_, err := offers.UpdateOne(ctx, bson.M{"_id": payment.OfferID},
			bson.M{"$set": bson.M{
				"status":        models.OfferBought,
				"transactionId": payment.TransactionID,
			}})
		return err
	}
	if err := db.WithRetries(flip, db.DefaultMaxRetries, func(error) bool { return true }); err != nil {
		result.Warning = fmt.Sprintf("payment %s recorded, but marking offer %s as bought failed: %v",
			insertedID.Hex(), payment.OfferID.Hex(), err)
		log.Printf("WARN: %s", result.Warning)
	}

	return result, nil
}

// ListByBuyer returns the buyer's payments, newest-first.
func (s *paymentService) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Payment, error) {
	collection := s.db.Collection(paymentsCollection)

	cursor, err := collection.Find(ctx, bson.M{"buyerEmail": buyerEmail})
	if err != nil {
		return nil, fmt.Errorf("failed to execute payment query: %w", err)
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

// CreateIntent creates a Stripe PaymentIntent for the given amount and
// returns its client secret. amount is in major currency units.
func (s *paymentService) CreateIntent(ctx context.Context, amount float64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be a positive number", ErrInvalidArgument)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(s.cfg.StripeCurrency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
