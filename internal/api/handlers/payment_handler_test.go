package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roofline/server/internal/api/handlers"
	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

func TestPaymentHandler_MarkPaid(t *testing.T) {
	mockPaymentSvc := new(MockPaymentService)
	handler := handlers.NewPaymentHandler(mockPaymentSvc, new(MockReportService))

	r := gin.New()
	r.PATCH("/payments/mark-paid/:id", handler.MarkPaid)

	offerID := primitive.NewObjectID()
	paymentID := primitive.NewObjectID()
	mockPaymentSvc.On("Record", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.OfferID == offerID && p.TransactionID == "tx123"
	})).Return(&services.RecordResult{PaymentID: paymentID}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/payments/mark-paid/"+offerID.Hex(), jsonBody(t, gin.H{
		"buyerEmail":    "alice@example.com",
		"amount":        300000,
		"transactionId": "tx123",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, paymentID.Hex(), respBody["insertedId"])
	assert.NotContains(t, respBody, "warning")
	mockPaymentSvc.AssertExpectations(t)
}

func TestPaymentHandler_RecordPayment_WithWarning(t *testing.T) {
	mockPaymentSvc := new(MockPaymentService)
	handler := handlers.NewPaymentHandler(mockPaymentSvc, new(MockReportService))

	r := gin.New()
	r.POST("/payments", handler.RecordPayment)

	offerID := primitive.NewObjectID()
	mockPaymentSvc.On("Record", mock.Anything, mock.Anything).Return(&services.RecordResult{
		PaymentID: primitive.NewObjectID(),
		Warning:   "marking offer as bought failed",
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments", jsonBody(t, gin.H{
		"offerId":       offerID.Hex(),
		"buyerEmail":    "alice@example.com",
		"amount":        300000,
		"transactionId": "tx123",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Contains(t, respBody["warning"], "bought")
	mockPaymentSvc.AssertExpectations(t)
}

func TestPaymentHandler_RecordPayment_MissingTransactionID(t *testing.T) {
	mockPaymentSvc := new(MockPaymentService)
	handler := handlers.NewPaymentHandler(mockPaymentSvc, new(MockReportService))

	r := gin.New()
	r.POST("/payments", handler.RecordPayment)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/payments", jsonBody(t, gin.H{
		"offerId":    primitive.NewObjectID().Hex(),
		"buyerEmail": "alice@example.com",
		"amount":     300000,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockPaymentSvc.AssertNotCalled(t, "Record")
}

func TestPaymentHandler_CreatePaymentIntent(t *testing.T) {
	mockPaymentSvc := new(MockPaymentService)
	handler := handlers.NewPaymentHandler(mockPaymentSvc, new(MockReportService))

	r := gin.New()
	r.POST("/create-payment-intent", handler.CreatePaymentIntent)

	mockPaymentSvc.On("CreateIntent", mock.Anything, float64(1500)).Return("pi_secret_abc", nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/create-payment-intent", jsonBody(t, gin.H{"amount": 1500}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, "pi_secret_abc", respBody["clientSecret"])
	mockPaymentSvc.AssertExpectations(t)
}

func TestPaymentHandler_SoldProperties(t *testing.T) {
	mockReportSvc := new(MockReportService)
	handler := handlers.NewPaymentHandler(new(MockPaymentService), mockReportSvc)

	r := gin.New()
	r.GET("/agent/sold-properties/:email", handler.SoldProperties)

	mockReportSvc.On("SoldProperties", mock.Anything, "agent@example.com").Return([]models.SoldProperty{
		{OfferID: primitive.NewObjectID(), BuyerEmail: "alice@example.com", Amount: 300000},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/agent/sold-properties/agent@example.com", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Len(t, respBody, 1)
	assert.Equal(t, float64(300000), respBody[0]["soldPrice"])
	mockReportSvc.AssertExpectations(t)
}
