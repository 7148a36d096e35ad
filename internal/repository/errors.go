// Package repository defines error types reused across multiple
// repositories.  These sentinel values let handlers distinguish
// failure scenarios without parsing messages.  Domain-level failures
// (capacity, ticket state machine) live in internal/booking; the
// sentinels here cover structural conflicts at the persistence layer.
package repository

import "errors"

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as creating a schedule whose service code
// already exists at the same departure.  Handlers translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
