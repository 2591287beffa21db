package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerificationStatus is the admin-controlled review state of a property.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// PriceRange is the agent's asking range for a property.
type PriceRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// Property represents a real-estate listing owned by one agent (by email).
// Only verified properties are publicly browsable; only advertised ones
// appear in promotional views.
type Property struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title              string             `bson:"title" json:"title"`
	Location           string             `bson:"location" json:"location"`
	ImageURL           string             `bson:"imageURL,omitempty" json:"imageURL,omitempty"`
	AgentName          string             `bson:"agentName" json:"agentName"`
	AgentEmail         string             `bson:"agentEmail" json:"agentEmail"`
	PriceRange         PriceRange         `bson:"priceRange" json:"priceRange"`
	VerificationStatus VerificationStatus `bson:"verificationStatus" json:"verificationStatus"`
	Advertised         bool               `bson:"advertised" json:"advertised"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}
