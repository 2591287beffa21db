package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

// ReviewHandler handles property review routes.
type ReviewHandler struct {
	reviewService services.IReviewService
	reportService services.IReportService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService services.IReviewService, reportService services.IReportService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, reportService: reportService}
}

type createReviewRequest struct {
	PropertyID    string `json:"propertyId" binding:"required"`
	PropertyTitle string `json:"propertyTitle"`
	ReviewerEmail string `json:"reviewerEmail" binding:"required,email"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerPhoto string `json:"reviewerPhoto"`
	Description   string `json:"description" binding:"required"`
}

// CreateReview handles POST /reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "propertyId, reviewerEmail and description are required"})
		return
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid propertyId format"})
		return
	}

	review := &models.Review{
		PropertyID:    propertyID,
		PropertyTitle: req.PropertyTitle,
		ReviewerEmail: req.ReviewerEmail,
		ReviewerName:  req.ReviewerName,
		ReviewerPhoto: req.ReviewerPhoto,
		Description:   req.Description,
	}

	id, err := h.reviewService.Create(c.Request.Context(), review)
	if err != nil {
		abortServiceError(c, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": id.Hex()})
}

// ListReviews handles GET /reviews?propertyId=&email=.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var filter services.ReviewFilter

	if hex := c.Query("propertyId"); hex != "" {
		propertyID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid propertyId format"})
			return
		}
		filter.PropertyID = propertyID
	}
	filter.ReviewerEmail = c.Query("email")

	reviews, err := h.reviewService.List(c.Request.Context(), filter)
	if err != nil {
		abortServiceError(c, err, "Failed to list reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DetailedReviews handles GET /reviews/detailed?email=, joining each review
// with its property's current title and location.
func (h *ReviewHandler) DetailedReviews(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email query parameter is required"})
		return
	}

	reviews, err := h.reportService.ReviewsWithProperties(c.Request.Context(), email)
	if err != nil {
		abortServiceError(c, err, "Failed to load reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DeleteReview handles DELETE /reviews/:id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		abortServiceError(c, err, "Failed to delete review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
