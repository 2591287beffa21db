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

func TestWishlistService_DuplicateIsConflict(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_wishlist_dup")
	svc := NewWishlistService(db)
	ctx := context.Background()

	propertyID := primitive.NewObjectID()
	entry := &models.WishlistEntry{
		UserEmail:  "alice@example.com",
		PropertyID: propertyID,
	}

	_, err := svc.Create(ctx, entry)
	require.NoError(t, err)

	_, err = svc.Create(ctx, &models.WishlistEntry{
		UserEmail:  "alice@example.com",
		PropertyID: propertyID,
	})
	assert.ErrorIs(t, err, ErrDuplicateWishlist)

	// The duplicate attempt left the wishlist unchanged.
	entries, err := svc.ListByUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Same property, different user is fine.
	_, err = svc.Create(ctx, &models.WishlistEntry{
		UserEmail:  "bob@example.com",
		PropertyID: propertyID,
	})
	assert.NoError(t, err)
}

func TestWishlistService_CreateValidation(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_wishlist_validate")
	svc := NewWishlistService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.WishlistEntry{UserEmail: "alice@example.com"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Create(ctx, &models.WishlistEntry{PropertyID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestWishlistService_Delete(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_wishlist_delete")
	svc := NewWishlistService(db)
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.WishlistEntry{
		UserEmail:  "alice@example.com",
		PropertyID: primitive.NewObjectID(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	err = svc.Delete(ctx, id)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	entries, err := svc.ListByUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
