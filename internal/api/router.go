package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/api/handlers"
	"roofline/server/internal/api/middleware"
	"roofline/server/internal/auth"
	"roofline/server/internal/cache"
	"roofline/server/internal/config"
	"roofline/server/internal/models"
	"roofline/server/internal/services"
	"roofline/server/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, verifier auth.TokenVerifier) *gin.Engine {
	RegisterValidations()

	// Initialize services needed by API handlers HERE
	viewCache := cache.NewViewCache(rdb, cfg.ViewCacheTTL)
	propertyService := services.NewPropertyService(db, viewCache)
	userService := services.NewUserService(db, propertyService)
	offerService := services.NewOfferService(db, propertyService)
	paymentService := services.NewPaymentService(db, cfg)
	reviewService := services.NewReviewService(db)
	wishlistService := services.NewWishlistService(db)
	contactService := services.NewContactService(db)
	reportService := services.NewReportService(db)

	var photoStorage storage.IPhotoStorage
	if cfg.AwsS3Bucket != "" {
		s3Storage, err := storage.NewPhotoStorage(cfg)
		if err != nil {
			log.Fatalf("CRITICAL: Failed to initialize S3 storage: %v", err)
		}
		photoStorage = s3Storage
	}

	r := gin.Default()

	// Apply global middleware first (order matters)
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, photoStorage)
	offerHandler := handlers.NewOfferHandler(offerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, reportService)
	reviewHandler := handlers.NewReviewHandler(reviewService, reportService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	contactHandler := handlers.NewContactHandler(contactService)

	authed := middleware.Authenticate(verifier)
	adminOnly := middleware.RequireRole(userService, models.RoleAdmin)
	agentOnly := middleware.RequireRole(userService, models.RoleAgent)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Roofline server is running")
	})

	// Public routes
	r.GET("/properties", propertyHandler.ListProperties)
	r.GET("/properties/:id", propertyHandler.GetPropertyByID)
	r.GET("/reviews", reviewHandler.ListReviews)
	r.POST("/users", userHandler.RegisterUser)
	r.POST("/contacts", contactHandler.CreateContact)

	// Authenticated user routes
	users := r.Group("/users", authed)
	{
		users.GET("", adminOnly, userHandler.ListUsers)
		users.GET("/:email", userHandler.GetUserByEmail)
		users.PATCH("/:email", middleware.RequireSelf("email"), userHandler.UpdateUser)
		users.PATCH("/role/:id", adminOnly, userHandler.SetUserRole)
		users.PATCH("/mark-fraud/:id", adminOnly, userHandler.MarkFraud)
		users.DELETE("/:id", adminOnly, userHandler.DeleteUser)
	}

	properties := r.Group("/properties", authed)
	{
		properties.PATCH("/:id", agentOnly, propertyHandler.UpdateProperty)
		properties.PATCH("/verify/:id", adminOnly, propertyHandler.VerifyProperty)
		properties.PATCH("/reject/:id", adminOnly, propertyHandler.RejectProperty)
		properties.PATCH("/advertise/:id", adminOnly, propertyHandler.AdvertiseProperty)
		properties.DELETE("/:id", agentOnly, propertyHandler.DeleteProperty)
		properties.POST("/upload-url", agentOnly, propertyHandler.CreateUploadURL)
	}
	r.POST("/addProperties", authed, agentOnly, propertyHandler.AddProperty)

	offers := r.Group("/offers", authed)
	{
		offers.POST("", offerHandler.SubmitOffer)
		offers.GET("", middleware.RequireSelf("email"), offerHandler.ListBuyerOffers)
	}

	agent := r.Group("/agent", authed, agentOnly)
	{
		agent.GET("/requested-offers/:email", middleware.RequireSelf("email"), offerHandler.ListAgentOffers)
		agent.PATCH("/accept-offer/:id", offerHandler.AcceptOffer)
		agent.PATCH("/reject-offer/:id", offerHandler.RejectOffer)
		agent.GET("/sold-properties/:email", middleware.RequireSelf("email"), paymentHandler.SoldProperties)
	}

	payments := r.Group("/payments", authed)
	{
		payments.POST("", paymentHandler.RecordPayment)
		payments.GET("", middleware.RequireSelf("email"), paymentHandler.ListBuyerPayments)
		payments.PATCH("/mark-paid/:id", paymentHandler.MarkPaid)
	}
	r.POST("/create-payment-intent", authed, paymentHandler.CreatePaymentIntent)

	reviews := r.Group("/reviews", authed)
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("/detailed", reviewHandler.DetailedReviews)
		reviews.DELETE("/:id", reviewHandler.DeleteReview)
	}

	wishlist := r.Group("/wishlist", authed)
	{
		wishlist.POST("", wishlistHandler.CreateWishlistEntry)
		wishlist.GET("", middleware.RequireSelf("email"), wishlistHandler.ListWishlist)
		wishlist.DELETE("/:id", wishlistHandler.DeleteWishlistEntry)
	}

	contacts := r.Group("/contacts", authed, adminOnly)
	{
		contacts.GET("", contactHandler.ListContacts)
		contacts.PATCH("/:id", contactHandler.MarkContacted)
	}

	return r
}
