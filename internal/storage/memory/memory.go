// Package memory provides an in-process implementation of the
// storage.Storage interface.
//
// Persons live in an ordered slice next to an id counter. Both are owned
// by a single Memory value and every method takes its mutex, so requests
// running on separate goroutines always see a consistent collection and
// two concurrent creates can never receive the same id.
package memory

import (
	"sync"

	"github.com/aanand-mishra/persons-api/internal/storage"
	"github.com/aanand-mishra/persons-api/internal/types"
)

// Memory is the in-memory person store. Its contents are lost when the
// process exits.
type Memory struct {
	mu      sync.RWMutex
	persons []types.Person
	lastID  int64
}

// New returns an empty store. The first created person gets id 1.
func New() *Memory {
	return &Memory{persons: make([]types.Person, 0)}
}

// GetPersons returns a copy of the collection in insertion order, so
// callers can never mutate stored records through the returned slice.
func (m *Memory) GetPersons() ([]types.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append(make([]types.Person, 0, len(m.persons)), m.persons...), nil
}

// CreatePerson appends person under the next counter value.
func (m *Memory) CreatePerson(person types.Person) (types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	person.ID = m.lastID
	m.persons = append(m.persons, person)

	return person, nil
}

// UpdatePersonByID overwrites the first person whose id matches.
func (m *Memory) UpdatePersonByID(id int64, person types.Person) (types.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.persons {
		if m.persons[i].ID != id {
			continue
		}
		m.persons[i].Name = person.Name
		m.persons[i].Email = person.Email
		m.persons[i].Age = person.Age
		return m.persons[i], nil
	}

	return types.Person{}, storage.ErrNotFound
}

// DeletePersonByID removes every person with the given id. The counter is
// left untouched, so the id is never issued again.
func (m *Memory) DeletePersonByID(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.persons[:0]
	for _, p := range m.persons {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	// Clear the tail so removed records do not linger in the backing array.
	clear(m.persons[len(kept):])
	m.persons = kept

	return nil
}

// Close is a no-op; there is nothing to release.
func (m *Memory) Close() error {
	return nil
}

var _ storage.Storage = (*Memory)(nil)
