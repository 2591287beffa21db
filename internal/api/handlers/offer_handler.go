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

// OfferHandler handles the offer ledger routes.
type OfferHandler struct {
	offerService services.IOfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerService services.IOfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

type submitOfferRequest struct {
	PropertyID string  `json:"propertyId" binding:"required"`
	BuyerEmail string  `json:"buyerEmail" binding:"required,email"`
	BuyerName  string  `json:"buyerName"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// SubmitOffer handles POST /offers. Property snapshots and the agent email
// are resolved server-side from the referenced property.
func (h *OfferHandler) SubmitOffer(c *gin.Context) {
	var req submitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "propertyId, buyerEmail and a positive amount are required"})
		return
	}

	if !strings.EqualFold(req.BuyerEmail, middleware.AuthEmail(c)) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Offers can only be submitted for your own account"})
		return
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid propertyId format"})
		return
	}

	offer := &models.Offer{
		PropertyID: propertyID,
		BuyerEmail: req.BuyerEmail,
		BuyerName:  req.BuyerName,
		Amount:     req.Amount,
	}

	id, err := h.offerService.Submit(c.Request.Context(), offer)
	if err != nil {
		abortServiceError(c, err, "Failed to submit offer")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": id.Hex()})
}

// ListBuyerOffers handles GET /offers?email=.
func (h *OfferHandler) ListBuyerOffers(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email query parameter is required"})
		return
	}

	offers, err := h.offerService.ListByBuyer(c.Request.Context(), email)
	if err != nil {
		abortServiceError(c, err, "Failed to list offers")
		return
	}
	c.JSON(http.StatusOK, offers)
}

// ListAgentOffers handles GET /agent/requested-offers/:email.
func (h *OfferHandler) ListAgentOffers(c *gin.Context) {
	offers, err := h.offerService.ListByAgent(c.Request.Context(), c.Param("email"))
	if err != nil {
		abortServiceError(c, err, "Failed to list offers")
		return
	}
	c.JSON(http.StatusOK, offers)
}

// AcceptOffer handles PATCH /agent/accept-offer/:id. Accepts the offer and
// rejects every other live offer on the same property. If sibling rejection
// did not fully complete the response carries a warning and the accept still
// stands.
func (h *OfferHandler) AcceptOffer(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	result, err := h.offerService.Accept(c.Request.Context(), id)
	if err != nil {
		abortServiceError(c, err, "Failed to accept offer")
		return
	}

	body := gin.H{
		"message":          "Offer accepted",
		"offer":            result.Offer,
		"siblingsRejected": result.SiblingsRejected,
	}
	if result.SiblingWarning != "" {
		body["warning"] = result.SiblingWarning
	}
	c.JSON(http.StatusOK, body)
}

// RejectOffer handles PATCH /agent/reject-offer/:id. Rejecting an offer that
// is already bought or rejected returns 409.
func (h *OfferHandler) RejectOffer(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.offerService.Reject(c.Request.Context(), id); err != nil {
		abortServiceError(c, err, "Failed to reject offer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offer rejected"})
}
