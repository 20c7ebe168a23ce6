// Package storage defines the Storage interface — the contract every
// person backend must satisfy to work with this application.
//
// Handlers depend only on this interface, so the in-memory and SQLite
// backends are interchangeable: main.go picks one from the config and the
// HTTP layer never knows which it got.
package storage

import (
	"errors"

	"github.com/aanand-mishra/persons-api/internal/types"
)

// ErrNotFound is returned by UpdatePersonByID when no person has the
// requested id. Callers compare against it with errors.Is.
var ErrNotFound = errors.New("person not found")

// Storage is the person store contract.
//
// Every implementation must be safe for concurrent use and must never hand
// out the same id twice, including ids of persons that were deleted.
type Storage interface {
	// GetPersons returns every stored person in insertion order.
	// Returns an empty slice (not nil) if there are none.
	GetPersons() ([]types.Person, error)

	// CreatePerson stores a new person under the next id and returns the
	// stored record. The incoming person.ID is ignored.
	CreatePerson(person types.Person) (types.Person, error)

	// UpdatePersonByID overwrites name, email and age of the person with
	// the given id and returns the updated record, or ErrNotFound.
	UpdatePersonByID(id int64, person types.Person) (types.Person, error)

	// DeletePersonByID removes the person with the given id.
	// Deleting an id that does not exist is not an error.
	DeletePersonByID(id int64) error

	// Close releases any resources held by the backend.
	Close() error
}
