package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistEntry is a (userEmail, propertyId) pair, unique per pair.
// The display fields are snapshots taken at the time of wishing.
type WishlistEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserEmail     string             `bson:"userEmail" json:"userEmail"`
	PropertyID    primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	PropertyTitle string             `bson:"propertyTitle,omitempty" json:"propertyTitle,omitempty"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	ImageURL      string             `bson:"imageURL,omitempty" json:"imageURL,omitempty"`
	AgentEmail    string             `bson:"agentEmail,omitempty" json:"agentEmail,omitempty"`
	PriceRange    *PriceRange        `bson:"priceRange,omitempty" json:"priceRange,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
