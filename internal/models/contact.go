package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactStatus is the handling state of a contact request.
type ContactStatus string

const (
	ContactPending   ContactStatus = "pending"
	ContactContacted ContactStatus = "contacted"
)

// ContactRequest is a call-back request left by a visitor.
type ContactRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone" json:"phone"`
	Status    ContactStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
