package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's free-text review of a property. Create/delete only.
type Review struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PropertyID    primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	PropertyTitle string             `bson:"propertyTitle,omitempty" json:"propertyTitle,omitempty"`
	ReviewerEmail string             `bson:"reviewerEmail" json:"reviewerEmail"`
	ReviewerName  string             `bson:"reviewerName,omitempty" json:"reviewerName,omitempty"`
	ReviewerPhoto string             `bson:"reviewerPhoto,omitempty" json:"reviewerPhoto,omitempty"`
	Description   string             `bson:"description" json:"description"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReviewWithProperty is the reporting-view shape joining a review with its
// property's current title. Title is empty when the property no longer exists.
type ReviewWithProperty struct {
	Review   `bson:",inline"`
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Location string `bson:"propertyLocation,omitempty" json:"propertyLocation,omitempty"`
}
