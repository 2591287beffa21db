package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"roofline/server/internal/models"
)

// IReportService provides read-only aggregation views over offers, payments
// and properties. These views own no state and tolerate missing join targets
// by omitting the joined fields rather than failing the query.
type IReportService interface {
	SoldProperties(ctx context.Context, agentEmail string) ([]models.SoldProperty, error)
	ReviewsWithProperties(ctx context.Context, reviewerEmail string) ([]models.ReviewWithProperty, error)
}

type reportService struct {
	db *mongo.Database
}

// NewReportService creates a new ReportService.
func NewReportService(db *mongo.Database) IReportService {
	return &reportService{db: db}
}

// SoldProperties joins payments to their offers (matching the agent) and,
// when still present, the property, projecting buyer/seller/amount/date.
func (s *reportService) SoldProperties(ctx context.Context, agentEmail string) ([]models.SoldProperty, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"agentEmail": agentEmail}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         offersCollection,
			"localField":   "offerId",
			"foreignField": "_id",
			"as":           "offer",
		}}},
		// A payment whose offer has vanished is dropped from the view.
		{{Key: "$unwind", Value: "$offer"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         propertiesCollection,
			"localField":   "offer.propertyId",
			"foreignField": "_id",
			"as":           "property",
		}}},
		// A missing property only blanks the joined fields.
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$property",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":           1,
			"offerId":       1,
			"buyerEmail":    1,
			"buyerName":     1,
			"agentEmail":    1,
			"amount":        1,
			"transactionId": 1,
			"paidAt":        1,
			"propertyTitle": "$offer.propertyTitle",
			"location":      "$property.location",
		}}},
		{{Key: "$sort", Value: bson.M{"paidAt": -1}}},
	}

	cursor, err := s.db.Collection(paymentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sold properties for agent %s: %w", agentEmail, err)
	}
	defer cursor.Close(ctx)

	sold := []models.SoldProperty{}
	if err = cursor.All(ctx, &sold); err != nil {
		return nil, fmt.Errorf("failed to decode sold properties: %w", err)
	}
	return sold, nil
}

// ReviewsWithProperties joins a reviewer's reviews with the current property
// titles. A review whose property is gone keeps its own fields and an empty
// title.
func (s *reportService) ReviewsWithProperties(ctx context.Context, reviewerEmail string) ([]models.ReviewWithProperty, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"reviewerEmail": reviewerEmail}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         propertiesCollection,
			"localField":   "propertyId",
			"foreignField": "_id",
			"as":           "property",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$property",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$addFields", Value: bson.M{
			"title":            "$property.title",
			"propertyLocation": "$property.location",
		}}},
		{{Key: "$project", Value: bson.M{"property": 0}}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
	}

	cursor, err := s.db.Collection(reviewsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews for %s: %w", reviewerEmail, err)
	}
	defer cursor.Close(ctx)

	reviews := []models.ReviewWithProperty{}
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode detailed reviews: %w", err)
	}
	return reviews, nil
}
