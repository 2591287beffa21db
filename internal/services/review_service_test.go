package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/models"
	"roofline/server/internal/utils"
)

func TestReviewService_CreateAndFilter(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_review_crud")
	svc := NewReviewService(db)
	ctx := context.Background()

	propertyID := primitive.NewObjectID()
	otherPropertyID := primitive.NewObjectID()

	id, err := svc.Create(ctx, &models.Review{
		PropertyID:    propertyID,
		ReviewerEmail: "alice@example.com",
		Description:   "Sunny and quiet",
	})
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	_, err = svc.Create(ctx, &models.Review{
		PropertyID:    otherPropertyID,
		ReviewerEmail: "bob@example.com",
		Description:   "Too close to the motorway",
	})
	require.NoError(t, err)

	byProperty, err := svc.List(ctx, ReviewFilter{PropertyID: propertyID})
	require.NoError(t, err)
	require.Len(t, byProperty, 1)
	assert.Equal(t, "alice@example.com", byProperty[0].ReviewerEmail)

	byReviewer, err := svc.List(ctx, ReviewFilter{ReviewerEmail: "bob@example.com"})
	require.NoError(t, err)
	require.Len(t, byReviewer, 1)

	all, err := svc.List(ctx, ReviewFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Create(ctx, &models.Review{PropertyID: propertyID, ReviewerEmail: "alice@example.com"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReviewService_Delete(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_review_delete")
	svc := NewReviewService(db)
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.Review{
		PropertyID:    primitive.NewObjectID(),
		ReviewerEmail: "alice@example.com",
		Description:   "Short stay",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	err = svc.Delete(ctx, id)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}
