package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SoldProperty is the reporting-view shape for an agent's completed sales:
// a payment joined with its offer and, when still present, the property.
type SoldProperty struct {
	PaymentID     primitive.ObjectID `bson:"_id" json:"paymentId"`
	OfferID       primitive.ObjectID `bson:"offerId" json:"offerId"`
	PropertyTitle string             `bson:"propertyTitle,omitempty" json:"propertyTitle,omitempty"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	BuyerEmail    string             `bson:"buyerEmail" json:"buyerEmail"`
	BuyerName     string             `bson:"buyerName,omitempty" json:"buyerName,omitempty"`
	AgentEmail    string             `bson:"agentEmail,omitempty" json:"agentEmail,omitempty"`
	Amount        float64            `bson:"amount" json:"soldPrice"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
}
