package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role defines the access level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
	RoleFraud Role = "fraud"
)

// ValidRole reports whether r is one of the allowed roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin, RoleFraud:
		return true
	}
	return false
}

// User represents a user in the system. The email is the identity key:
// listings, offers and wishlist entries all reference users by email.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	PhotoURL   string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role       Role               `bson:"role" json:"role"`
	FirstLogin bool               `bson:"firstLogin" json:"firstLogin"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
