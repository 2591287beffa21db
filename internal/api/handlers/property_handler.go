package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roofline/server/internal/api/middleware"
	"roofline/server/internal/models"
	"roofline/server/internal/services"
	"roofline/server/internal/storage"
)

// PropertyHandler handles listing routes.
type PropertyHandler struct {
	propertyService services.IPropertyService
	photoStorage    storage.IPhotoStorage
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(propertyService services.IPropertyService, photoStorage storage.IPhotoStorage) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService, photoStorage: photoStorage}
}

type addPropertyRequest struct {
	Title      string            `json:"title" binding:"required"`
	Location   string            `json:"location" binding:"required"`
	ImageURL   string            `json:"imageURL"`
	AgentName  string            `json:"agentName"`
	AgentEmail string            `json:"agentEmail" binding:"required,email"`
	PriceRange models.PriceRange `json:"priceRange" binding:"required"`
}

// AddProperty handles POST /addProperties. New listings always start
// unverified and unadvertised regardless of what the client sends.
func (h *PropertyHandler) AddProperty(c *gin.Context) {
	var req addPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title, location and agentEmail are required"})
		return
	}

	property := &models.Property{
		Title:      req.Title,
		Location:   req.Location,
		ImageURL:   req.ImageURL,
		AgentName:  req.AgentName,
		AgentEmail: req.AgentEmail,
		PriceRange: req.PriceRange,
	}

	id, err := h.propertyService.Create(c.Request.Context(), property)
	if err != nil {
		abortServiceError(c, err, "Failed to add property")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": id.Hex()})
}

// ListProperties handles GET /properties with optional filters:
// ?agentEmail=, ?status=, ?isAdvertised=true, ?verified=true.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	filter := services.PropertyFilter{
		AgentEmail: c.Query("agentEmail"),
	}

	if status := c.Query("status"); status != "" {
		s := models.VerificationStatus(status)
		if s != models.VerificationPending && s != models.VerificationVerified && s != models.VerificationRejected {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status filter"})
			return
		}
		filter.Status = s
	}
	if adv := c.Query("isAdvertised"); adv != "" {
		v, err := strconv.ParseBool(adv)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "isAdvertised must be true or false"})
			return
		}
		filter.Advertised = &v
	}
	if verified := c.Query("verified"); verified != "" {
		v, err := strconv.ParseBool(verified)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "verified must be true or false"})
			return
		}
		filter.VerifiedOnly = v
	}

	properties, err := h.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		abortServiceError(c, err, "Failed to list properties")
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetPropertyByID handles GET /properties/:id.
func (h *PropertyHandler) GetPropertyByID(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.FindByID(c.Request.Context(), id)
	if err != nil {
		abortServiceError(c, err, "Failed to retrieve property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// UpdateProperty handles PATCH /properties/:id. Field merge is unrestricted;
// access control lives on the route.
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := h.propertyService.Update(c.Request.Context(), id, updates); err != nil {
		abortServiceError(c, err, "Failed to update property")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property updated"})
}

// VerifyProperty handles PATCH /properties/verify/:id.
func (h *PropertyHandler) VerifyProperty(c *gin.Context) {
	h.setVerification(c, models.VerificationVerified, "Property verified")
}

// RejectProperty handles PATCH /properties/reject/:id.
func (h *PropertyHandler) RejectProperty(c *gin.Context) {
	h.setVerification(c, models.VerificationRejected, "Property rejected")
}

func (h *PropertyHandler) setVerification(c *gin.Context, status models.VerificationStatus, message string) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.SetVerification(c.Request.Context(), id, status); err != nil {
		abortServiceError(c, err, "Failed to update verification status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// AdvertiseProperty handles PATCH /properties/advertise/:id. Idempotent.
func (h *PropertyHandler) AdvertiseProperty(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Advertise(c.Request.Context(), id); err != nil {
		abortServiceError(c, err, "Failed to advertise property")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property advertised"})
}

// DeleteProperty handles DELETE /properties/:id.
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), id); err != nil {
		abortServiceError(c, err, "Failed to delete property")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

type uploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// CreateUploadURL handles POST /properties/upload-url. Returns a presigned
// PUT URL the client uploads the photo to, and the public URL to store on
// the listing afterwards.
func (h *PropertyHandler) CreateUploadURL(c *gin.Context) {
	if h.photoStorage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Photo uploads are not configured"})
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "filename and contentType are required"})
		return
	}

	agentEmail := middleware.AuthEmail(c)
	uploadURL, publicURL, err := h.photoStorage.GenerateUploadURL(c.Request.Context(), agentEmail, req.Filename, req.ContentType)
	if err != nil {
		abortServiceError(c, err, "Failed to generate upload URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadURL": uploadURL, "publicURL": publicURL})
}
