package services

import "errors"

// Sentinel errors shared across services. NotFound is signalled with
// mongo.ErrNoDocuments throughout, matching the driver's own convention.
var (
	// ErrInvalidArgument marks a missing or malformed required field.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyResolved is returned when a terminal offer is resolved again.
	ErrAlreadyResolved = errors.New("offer already resolved")

	// ErrDuplicateWishlist is returned when a (userEmail, propertyId) pair
	// is wished a second time.
	ErrDuplicateWishlist = errors.New("property already in wishlist")

	// ErrInvalidRole is returned for a role outside the allowed set.
	ErrInvalidRole = errors.New("invalid role")
)
