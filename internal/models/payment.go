package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records a completed transaction against an accepted offer.
// Created once, immutable thereafter; its existence is what flips the
// referenced offer to bought.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	OfferID       primitive.ObjectID `bson:"offerId" json:"offerId"`
	PropertyID    primitive.ObjectID `bson:"propertyId,omitempty" json:"propertyId,omitempty"`
	BuyerEmail    string             `bson:"buyerEmail" json:"buyerEmail"`
	BuyerName     string             `bson:"buyerName,omitempty" json:"buyerName,omitempty"`
	AgentEmail    string             `bson:"agentEmail,omitempty" json:"agentEmail,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
}
