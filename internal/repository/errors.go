// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// and services to distinguish a missing document from a store failure
// without inspecting driver errors.
package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrPropertyNotFound is returned when no property matches the given id.
// Handlers translate it into an HTTP 404 response.
var ErrPropertyNotFound = errors.New("property not found")

// ErrUserNotFound is returned when no user matches the lookup key.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned by UserRepo.Create when the unique email
// index rejects the insert.
var ErrEmailExists = errors.New("email already exists")

// notFound maps the driver's no-documents error onto the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sentinel
	}
	return err
}

// now returns the store timestamp for new documents.  The store keeps
// millisecond precision, so values are truncated to match what reads return.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
