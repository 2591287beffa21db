package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

// ContactHandler handles call-back request routes.
type ContactHandler struct {
	contactService services.IContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService services.IContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type createContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"required"`
}

// CreateContact handles POST /contacts. Public, no auth.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "phone is required"})
		return
	}

	contact := &models.ContactRequest{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}

	id, err := h.contactService.Create(c.Request.Context(), contact)
	if err != nil {
		abortServiceError(c, err, "Failed to submit contact request")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": id.Hex()})
}

// ListContacts handles GET /contacts.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	contacts, err := h.contactService.List(c.Request.Context())
	if err != nil {
		abortServiceError(c, err, "Failed to list contact requests")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// MarkContacted handles PATCH /contacts/:id, flipping status to contacted.
func (h *ContactHandler) MarkContacted(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.SetStatus(c.Request.Context(), id, models.ContactContacted); err != nil {
		abortServiceError(c, err, "Failed to update contact request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact request updated"})
}
