package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roofline/server/internal/api/middleware"
	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

// WishlistHandler handles wishlist routes.
type WishlistHandler struct {
	wishlistService services.IWishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlistService services.IWishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

type createWishlistRequest struct {
	UserEmail     string             `json:"userEmail" binding:"required,email"`
	PropertyID    string             `json:"propertyId" binding:"required"`
	PropertyTitle string             `json:"propertyTitle"`
	Location      string             `json:"location"`
	ImageURL      string             `json:"imageURL"`
	AgentEmail    string             `json:"agentEmail"`
	PriceRange    *models.PriceRange `json:"priceRange"`
}

// CreateWishlistEntry handles POST /wishlist. Wishing the same property
// twice for the same user returns 409 and leaves the wishlist unchanged.
func (h *WishlistHandler) CreateWishlistEntry(c *gin.Context) {
	var req createWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "userEmail and propertyId are required"})
		return
	}

	if !strings.EqualFold(req.UserEmail, middleware.AuthEmail(c)) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Wishlist entries can only be added to your own account"})
		return
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid propertyId format"})
		return
	}

	entry := &models.WishlistEntry{
		UserEmail:     req.UserEmail,
		PropertyID:    propertyID,
		PropertyTitle: req.PropertyTitle,
		Location:      req.Location,
		ImageURL:      req.ImageURL,
		AgentEmail:    req.AgentEmail,
		PriceRange:    req.PriceRange,
	}

	id, err := h.wishlistService.Create(c.Request.Context(), entry)
	if err != nil {
		abortServiceError(c, err, "Failed to add to wishlist")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": id.Hex()})
}

// ListWishlist handles GET /wishlist?email=.
func (h *WishlistHandler) ListWishlist(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email query parameter is required"})
		return
	}

	entries, err := h.wishlistService.ListByUser(c.Request.Context(), email)
	if err != nil {
		abortServiceError(c, err, "Failed to list wishlist")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteWishlistEntry handles DELETE /wishlist/:id.
func (h *WishlistHandler) DeleteWishlistEntry(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.wishlistService.Delete(c.Request.Context(), id); err != nil {
		abortServiceError(c, err, "Failed to remove wishlist entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Wishlist entry removed"})
}
