package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/models"
	"roofline/server/internal/utils"
)

func createTestProperty(t *testing.T, svc IPropertyService, agentEmail string) primitive.ObjectID {
	t.Helper()
	id, err := svc.Create(context.Background(), &models.Property{
		Title:      "Lakeside Villa",
		Location:   "Queenstown",
		AgentName:  "Test Agent",
		AgentEmail: agentEmail,
		PriceRange: models.PriceRange{Min: 250000, Max: 350000},
	})
	require.NoError(t, err)
	return id
}

func submitTestOffer(t *testing.T, svc IOfferService, propertyID primitive.ObjectID, buyerEmail string, amount float64) primitive.ObjectID {
	t.Helper()
	id, err := svc.Submit(context.Background(), &models.Offer{
		PropertyID: propertyID,
		BuyerEmail: buyerEmail,
		Amount:     amount,
	})
	require.NoError(t, err)
	return id
}

func TestOfferService_Submit(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_offer_submit")
	propertySvc := NewPropertyService(db, nil)
	svc := NewOfferService(db, propertySvc)
	ctx := context.Background()

	propertyID := createTestProperty(t, propertySvc, "agent@example.com")

	offerID := submitTestOffer(t, svc, propertyID, "buyer@example.com", 300000)

	offer, err := svc.FindByID(ctx, offerID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferPending, offer.Status)
	assert.Equal(t, "agent@example.com", offer.AgentEmail)
	assert.Equal(t, "Lakeside Villa", offer.PropertyTitle)
	assert.Equal(t, "Queenstown", offer.Location)
	assert.False(t, offer.OfferDate.IsZero())

	// Bad input
	_, err = svc.Submit(ctx, &models.Offer{PropertyID: propertyID, BuyerEmail: "buyer@example.com", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.Submit(ctx, &models.Offer{BuyerEmail: "buyer@example.com", Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Unknown property
	_, err = svc.Submit(ctx, &models.Offer{PropertyID: primitive.NewObjectID(), BuyerEmail: "buyer@example.com", Amount: 100})
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestOfferService_AcceptRejectsSiblings(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_offer_accept")
	propertySvc := NewPropertyService(db, nil)
	svc := NewOfferService(db, propertySvc)
	ctx := context.Background()

	propertyID := createTestProperty(t, propertySvc, "agent@example.com")
	otherPropertyID := createTestProperty(t, propertySvc, "agent@example.com")

	o1 := submitTestOffer(t, svc, propertyID, "alice@example.com", 300000)
	o2 := submitTestOffer(t, svc, propertyID, "bob@example.com", 310000)
	o3 := submitTestOffer(t, svc, propertyID, "carol@example.com", 290000)
	unrelated := submitTestOffer(t, svc, otherPropertyID, "dave@example.com", 200000)

	result, err := svc.Accept(ctx, o1)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, result.Offer.Status)
	assert.Equal(t, int64(2), result.SiblingsRejected)
	assert.Empty(t, result.SiblingWarning)

	for _, id := range []primitive.ObjectID{o2, o3} {
		sibling, err := svc.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.OfferRejected, sibling.Status)
	}

	// Offers on other properties are untouched.
	other, err := svc.FindByID(ctx, unrelated)
	require.NoError(t, err)
	assert.Equal(t, models.OfferPending, other.Status)

	// Accepting an already-accepted offer is a no-op success.
	again, err := svc.Accept(ctx, o1)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, again.Offer.Status)

	// Accepting a rejected offer fails.
	_, err = svc.Accept(ctx, o2)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	// Accepting a nonexistent offer is NotFound.
	_, err = svc.Accept(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestOfferService_Reject(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_offer_reject")
	propertySvc := NewPropertyService(db, nil)
	svc := NewOfferService(db, propertySvc)
	ctx := context.Background()

	propertyID := createTestProperty(t, propertySvc, "agent@example.com")
	offerID := submitTestOffer(t, svc, propertyID, "alice@example.com", 300000)

	require.NoError(t, svc.Reject(ctx, offerID))

	offer, err := svc.FindByID(ctx, offerID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, offer.Status)

	// Terminal offers cannot be rejected again.
	err = svc.Reject(ctx, offerID)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	err = svc.Reject(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

// An offer submitted while another is being accepted either lands before the
// sibling sweep and gets rejected with the rest, or lands after and stays
// pending. Either way the accepted offer must remain the only one in
// accepted state.
func TestOfferService_ConcurrentSubmitDuringAccept(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_offer_concurrent")
	propertySvc := NewPropertyService(db, nil)
	svc := NewOfferService(db, propertySvc)
	ctx := context.Background()

	propertyID := createTestProperty(t, propertySvc, "agent@example.com")
	accepted := submitTestOffer(t, svc, propertyID, "alice@example.com", 300000)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Accept(ctx, accepted)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Submit(ctx, &models.Offer{
			PropertyID: propertyID,
			BuyerEmail: "late@example.com",
			Amount:     320000,
		})
		assert.NoError(t, err)
	}()
	wg.Wait()

	offers, err := svc.ListByAgent(ctx, "agent@example.com")
	require.NoError(t, err)

	acceptedCount := 0
	for _, o := range offers {
		if o.Status == models.OfferAccepted {
			acceptedCount++
			assert.Equal(t, accepted, o.ID)
		}
		assert.Contains(t, []models.OfferStatus{models.OfferAccepted, models.OfferPending, models.OfferRejected}, o.Status)
	}
	assert.Equal(t, 1, acceptedCount)
}

func TestOfferService_ListNewestFirst(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_offer_list")
	propertySvc := NewPropertyService(db, nil)
	svc := NewOfferService(db, propertySvc)
	ctx := context.Background()

	propertyID := createTestProperty(t, propertySvc, "agent@example.com")
	first := submitTestOffer(t, svc, propertyID, "alice@example.com", 100000)
	time.Sleep(5 * time.Millisecond) // offerDate has millisecond precision in the store
	second := submitTestOffer(t, svc, propertyID, "alice@example.com", 110000)

	offers, err := svc.ListByBuyer(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, second, offers[0].ID)
	assert.Equal(t, first, offers[1].ID)

	// Unknown buyer yields an empty slice, not an error.
	offers, err = svc.ListByBuyer(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, offers)
}
