package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/config"
	"roofline/server/internal/models"
	"roofline/server/internal/utils"
)

func TestPaymentService_RecordFlipsOfferToBought(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_payment_record")
	propertySvc := NewPropertyService(db, nil)
	offerSvc := NewOfferService(db, propertySvc)
	svc := NewPaymentService(db, &config.Config{})
	ctx := context.Background()

	propertyID := createTestProperty(t, propertySvc, "agent@example.com")
	offerID := submitTestOffer(t, offerSvc, propertyID, "alice@example.com", 300000)
	_, err := offerSvc.Accept(ctx, offerID)
	require.NoError(t, err)

	result, err := svc.Record(ctx, &models.Payment{
		OfferID:       offerID,
		BuyerEmail:    "alice@example.com",
		Amount:        300000,
		TransactionID: "tx123",
	})
	require.NoError(t, err)
	assert.False(t, result.PaymentID.IsZero())
	assert.Empty(t, result.Warning)

	offer, err := offerSvc.FindByID(ctx, offerID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferBought, offer.Status)
	assert.Equal(t, "tx123", offer.TransactionID)

	payments, err := svc.ListByBuyer(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "agent@example.com", payments[0].AgentEmail)
	assert.Equal(t, propertyID, payments[0].PropertyID)
	assert.False(t, payments[0].PaidAt.IsZero())
}

func TestPaymentService_RecordValidation(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_payment_validate")
	svc := NewPaymentService(db, &config.Config{})
	ctx := context.Background()

	_, err := svc.Record(ctx, &models.Payment{
		BuyerEmail:    "alice@example.com",
		Amount:        100,
		TransactionID: "tx1",
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Record(ctx, &models.Payment{
		OfferID:       primitive.NewObjectID(),
		BuyerEmail:    "alice@example.com",
		Amount:        -5,
		TransactionID: "tx1",
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Unknown offer
	_, err = svc.Record(ctx, &models.Payment{
		OfferID:       primitive.NewObjectID(),
		BuyerEmail:    "alice@example.com",
		Amount:        100,
		TransactionID: "tx1",
	})
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestPaymentService_CreateIntentValidation(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_payment_intent")
	svc := NewPaymentService(db, &config.Config{StripeCurrency: "usd"})

	_, err := svc.CreateIntent(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.CreateIntent(context.Background(), -10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
