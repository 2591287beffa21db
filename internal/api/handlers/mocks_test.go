package handlers_test

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"roofline/server/internal/api/middleware"
	"roofline/server/internal/models"
	"roofline/server/internal/services"
)

// asPrincipal stands in for the auth middleware in handler tests.
func asPrincipal(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyEmail, email)
	}
}

// --- Mocks ---

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterIfAbsent(ctx context.Context, email, name, photoURL string) (bool, primitive.ObjectID, error) {
	args := m.Called(ctx, email, name, photoURL)
	return args.Bool(0), args.Get(1).(primitive.ObjectID), args.Error(2)
}
func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *MockUserService) UpdateByEmail(ctx context.Context, email string, updates map[string]interface{}) error {
	args := m.Called(ctx, email, updates)
	return args.Error(0)
}
func (m *MockUserService) SetRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}
func (m *MockUserService) MarkFraud(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserService) Delete(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPropertyService
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Create(ctx context.Context, p *models.Property) (primitive.ObjectID, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}
func (m *MockPropertyService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}
func (m *MockPropertyService) List(ctx context.Context, filter services.PropertyFilter) ([]models.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}
func (m *MockPropertyService) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}
func (m *MockPropertyService) SetVerification(ctx context.Context, id primitive.ObjectID, status models.VerificationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockPropertyService) Advertise(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPropertyService) DeleteByAgentEmail(ctx context.Context, agentEmail string) (int64, error) {
	args := m.Called(ctx, agentEmail)
	return args.Get(0).(int64), args.Error(1)
}

// MockOfferService
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Submit(ctx context.Context, offer *models.Offer) (primitive.ObjectID, error) {
	args := m.Called(ctx, offer)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}
func (m *MockOfferService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}
func (m *MockOfferService) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Offer, error) {
	args := m.Called(ctx, buyerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}
func (m *MockOfferService) ListByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}
func (m *MockOfferService) Accept(ctx context.Context, offerID primitive.ObjectID) (*services.AcceptResult, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AcceptResult), args.Error(1)
}
func (m *MockOfferService) Reject(ctx context.Context, offerID primitive.ObjectID) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Record(ctx context.Context, payment *models.Payment) (*services.RecordResult, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RecordResult), args.Error(1)
}
func (m *MockPaymentService) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Payment, error) {
	args := m.Called(ctx, buyerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}
func (m *MockPaymentService) CreateIntent(ctx context.Context, amount float64) (string, error) {
	args := m.Called(ctx, amount)
	return args.String(0), args.Error(1)
}

// MockReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) SoldProperties(ctx context.Context, agentEmail string) ([]models.SoldProperty, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SoldProperty), args.Error(1)
}
func (m *MockReportService) ReviewsWithProperties(ctx context.Context, reviewerEmail string) ([]models.ReviewWithProperty, error) {
	args := m.Called(ctx, reviewerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewWithProperty), args.Error(1)
}

// MockWishlistService
type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) Create(ctx context.Context, entry *models.WishlistEntry) (primitive.ObjectID, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}
func (m *MockWishlistService) ListByUser(ctx context.Context, userEmail string) ([]models.WishlistEntry, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistEntry), args.Error(1)
}
func (m *MockWishlistService) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
