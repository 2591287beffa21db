package db

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// RetryableError decides whether an error is worth another attempt.
type RetryableError func(err error) bool

const DefaultMaxRetries = 3

// Try executes an operation with default retry settings for transient write errors.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsTransientWriteError)
}

// WithRetries executes an operation up to maxRetries+1 times, backing off
// between attempts. Non-retryable errors are returned immediately.
func WithRetries(op Operation, maxRetries int, retryable RetryableError) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		if retryable(err) {
			time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
		} else {
			return err
		}
	}
	return err
}

// IsTransientWriteError reports whether an error from MongoDB is a write error
// that may succeed on retry (network flap, primary stepdown, write conflict).
// Duplicate key errors (code 11000) are NOT transient: they signal a
// uniqueness violation the caller must handle.
func IsTransientWriteError(err error) bool {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		if we.HasErrorCode(11000) {
			return false
		}
		// 112 = WriteConflict, 189 = PrimarySteppedDown, 91 = ShutdownInProgress
		return we.HasErrorCode(112) || we.HasErrorCode(189) || we.HasErrorCode(91)
	}
	return false
}

// IsDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
func IsDuplicateKeyError(err error) bool {
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, writeError := range bwe.WriteErrors {
			if writeError.Code == 11000 {
				return true
			}
		}
	}
	return false
}
