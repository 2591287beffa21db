package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/services"
)

// abortServiceError translates a service error into the route's status code
// and a JSON body with a human-readable message. internalMsg is what the
// client sees for unclassified failures; the raw error stays server-side.
func abortServiceError(c *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, services.ErrAlreadyResolved), errors.Is(err, services.ErrDuplicateWishlist):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalMsg})
	}
}

// pathObjectID parses the named path parameter as an ObjectID, responding
// with 400 on malformed input. The bool reports whether parsing succeeded.
func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id format"})
		return primitive.NilObjectID, false
	}
	return id, true
}
