package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

// PaymentHandler handles payment and sales-report routes.
type PaymentHandler struct {
	paymentService services.IPaymentService
	reportService  services.IReportService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService services.IPaymentService, reportService services.IReportService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, reportService: reportService}
}

type recordPaymentRequest struct {
	OfferID       string  `json:"offerId"`
	BuyerEmail    string  `json:"buyerEmail" binding:"required,email"`
	BuyerName     string  `json:"buyerName"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	TransactionID string  `json:"transactionId" binding:"required"`
}

// RecordPayment handles POST /payments. The offer id comes from the body.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	h.record(c, "", http.StatusCreated)
}

// MarkPaid handles PATCH /payments/mark-paid/:id where :id is the offer id.
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	h.record(c, c.Param("id"), http.StatusOK)
}

func (h *PaymentHandler) record(c *gin.Context, offerHex string, status int) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "buyerEmail, transactionId and a positive amount are required"})
		return
	}

	if offerHex == "" {
		offerHex = req.OfferID
	}
	offerID, err := primitive.ObjectIDFromHex(offerHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid offerId format"})
		return
	}

	payment := &models.Payment{
		OfferID:       offerID,
		BuyerEmail:    req.BuyerEmail,
		BuyerName:     req.BuyerName,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	}

	result, err := h.paymentService.Record(c.Request.Context(), payment)
	if err != nil {
		abortServiceError(c, err, "Failed to record payment")
		return
	}

	body := gin.H{"insertedId": result.PaymentID.Hex()}
	if result.Warning != "" {
		body["warning"] = result.Warning
	}
	c.JSON(status, body)
}

// ListBuyerPayments handles GET /payments?email=.
func (h *PaymentHandler) ListBuyerPayments(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email query parameter is required"})
		return
	}

	payments, err := h.paymentService.ListByBuyer(c.Request.Context(), email)
	if err != nil {
		abortServiceError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

type createIntentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "a positive amount is required"})
		return
	}

	clientSecret, err := h.paymentService.CreateIntent(c.Request.Context(), req.Amount)
	if err != nil {
		abortServiceError(c, err, "Failed to create payment intent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
}

// SoldProperties handles GET /agent/sold-properties/:email.
func (h *PaymentHandler) SoldProperties(c *gin.Context) {
	sold, err := h.reportService.SoldProperties(c.Request.Context(), c.Param("email"))
	if err != nil {
		abortServiceError(c, err, "Failed to load sold properties")
		return
	}
	c.JSON(http.StatusOK, sold)
}
