// Package repository provides MongoDB persistence for users, categories,
// and transactions. Documents use hex object ids stored as strings so the
// models marshal without id conversion at the boundaries.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when an id has no matching document.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// newID generates a fresh hex document id.
func newID() string {
	return primitive.NewObjectID().Hex()
}
