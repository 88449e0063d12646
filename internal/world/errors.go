package world

import "errors"

var (
	// ErrDuplicateName indicates an actor or event with the same name already exists.
	ErrDuplicateName = errors.New("name already exists")
	// ErrNotFound indicates no actor or event has the requested name.
	ErrNotFound = errors.New("not found")
	// ErrRelationshipNotFound indicates a relationship triple to remove does not exist.
	ErrRelationshipNotFound = errors.New("relationship not found")
)

// Error codes attached to oops errors returned by this package.
const (
	CodeDuplicateName        = "DUPLICATE_NAME"
	CodeNotFound             = "NOT_FOUND"
	CodeRelationshipNotFound = "RELATIONSHIP_NOT_FOUND"
)
