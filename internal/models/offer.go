package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OfferStatus is the lifecycle state of a purchase offer.
//
//	pending -> accepted -> bought
//	pending -> rejected
//	accepted -> rejected
//
// bought and rejected are terminal.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferBought   OfferStatus = "bought"
)

// Terminal reports whether no further transition is defined from s.
func (s OfferStatus) Terminal() bool {
	return s == OfferBought || s == OfferRejected
}

// Offer is a buyer's proposed purchase against a property. Title, location
// and image are snapshotted from the property at submit time for display and
// are not kept in sync with later property edits.
type Offer struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	PropertyID    primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	PropertyTitle string             `bson:"propertyTitle" json:"propertyTitle"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	ImageURL      string             `bson:"imageURL,omitempty" json:"imageURL,omitempty"`
	AgentEmail    string             `bson:"agentEmail" json:"agentEmail"`
	BuyerEmail    string             `bson:"buyerEmail" json:"buyerEmail"`
	BuyerName     string             `bson:"buyerName,omitempty" json:"buyerName,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	Status        OfferStatus        `bson:"status" json:"status"`
	OfferDate     time.Time          `bson:"offerDate" json:"offerDate"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}
