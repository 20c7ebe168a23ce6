// Package storagetest holds behavioural tests shared by every
// storage.Storage backend. Backend packages call Run from their own
// _test.go files.
package storagetest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/persons-api/internal/storage"
	"github.com/aanand-mishra/persons-api/internal/types"
)

// Factory returns a new, empty backend.
type Factory func(t *testing.T) storage.Storage

// Run exercises the storage.Storage contract against backends built by
// newStore. Every subtest gets its own empty store.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) storage.Storage {
		s := newStore(t)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("EmptyListIsNotNil", func(t *testing.T) {
		s := open(t)

		persons, err := s.GetPersons()
		require.NoError(t, err)
		require.NotNil(t, persons)
		assert.Empty(t, persons)
	})

	t.Run("CreateAssignsSequentialIDs", func(t *testing.T) {
		s := open(t)

		for i := 1; i <= 5; i++ {
			created, err := s.CreatePerson(types.Person{
				Name:  fmt.Sprintf("person-%d", i),
				Email: fmt.Sprintf("p%d@example.com", i),
				Age:   20 + i,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(i), created.ID)
		}

		persons, err := s.GetPersons()
		require.NoError(t, err)
		require.Len(t, persons, 5)
		for i, p := range persons {
			assert.Equal(t, int64(i+1), p.ID)
			assert.Equal(t, fmt.Sprintf("person-%d", i+1), p.Name)
		}
	})

	t.Run("CreateIgnoresIncomingID", func(t *testing.T) {
		s := open(t)

		created, err := s.CreatePerson(types.Person{ID: 42, Name: "Ann", Email: "ann@x.com", Age: 30})
		require.NoError(t, err)
		assert.Equal(t, types.Person{ID: 1, Name: "Ann", Email: "ann@x.com", Age: 30}, created)

		persons, err := s.GetPersons()
		require.NoError(t, err)
		assert.Equal(t, []types.Person{created}, persons)
	})

	t.Run("CreateAcceptsAnyFieldValues", func(t *testing.T) {
		s := open(t)

		created, err := s.CreatePerson(types.Person{Name: "", Email: "not-an-email", Age: -4})
		require.NoError(t, err)
		assert.Equal(t, types.Person{ID: 1, Name: "", Email: "not-an-email", Age: -4}, created)
	})

	t.Run("UpdateOverwritesFieldsKeepsID", func(t *testing.T) {
		s := open(t)

		first, err := s.CreatePerson(types.Person{Name: "Ann", Email: "ann@x.com", Age: 30})
		require.NoError(t, err)
		second, err := s.CreatePerson(types.Person{Name: "Bob", Email: "bob@x.com", Age: 40})
		require.NoError(t, err)

		updated, err := s.UpdatePersonByID(first.ID, types.Person{ID: 99, Name: "Anna", Email: "anna@x.com", Age: 31})
		require.NoError(t, err)
		assert.Equal(t, types.Person{ID: first.ID, Name: "Anna", Email: "anna@x.com", Age: 31}, updated)

		persons, err := s.GetPersons()
		require.NoError(t, err)
		assert.Equal(t, []types.Person{updated, second}, persons)
	})

	t.Run("UpdateWithSameValuesSucceeds", func(t *testing.T) {
		s := open(t)

		created, err := s.CreatePerson(types.Person{Name: "Ann", Email: "ann@x.com", Age: 30})
		require.NoError(t, err)

		updated, err := s.UpdatePersonByID(created.ID, created)
		require.NoError(t, err)
		assert.Equal(t, created, updated)
	})

	t.Run("UpdateMissingReturnsNotFound", func(t *testing.T) {
		s := open(t)

		created, err := s.CreatePerson(types.Person{Name: "Ann", Email: "ann@x.com", Age: 30})
		require.NoError(t, err)

		_, err = s.UpdatePersonByID(created.ID+1, types.Person{Name: "Ghost"})
		require.ErrorIs(t, err, storage.ErrNotFound)

		persons, err := s.GetPersons()
		require.NoError(t, err)
		assert.Equal(t, []types.Person{created}, persons)
	})

	t.Run("DeleteRemovesOnlyThatPerson", func(t *testing.T) {
		s := open(t)

		var created []types.Person
		for _, name := range []string{"Ann", "Bob", "Cid"} {
			p, err := s.CreatePerson(types.Person{Name: name})
			require.NoError(t, err)
			created = append(created, p)
		}

		require.NoError(t, s.DeletePersonByID(created[1].ID))

		persons, err := s.GetPersons()
		require.NoError(t, err)
		assert.Equal(t, []types.Person{created[0], created[2]}, persons)
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		s := open(t)

		created, err := s.CreatePerson(types.Person{Name: "Ann"})
		require.NoError(t, err)

		require.NoError(t, s.DeletePersonByID(created.ID+10))
		require.NoError(t, s.DeletePersonByID(created.ID))
		require.NoError(t, s.DeletePersonByID(created.ID))

		persons, err := s.GetPersons()
		require.NoError(t, err)
		assert.Empty(t, persons)
	})

	t.Run("IDsAreNeverReused", func(t *testing.T) {
		s := open(t)

		first, err := s.CreatePerson(types.Person{Name: "Ann"})
		require.NoError(t, err)
		second, err := s.CreatePerson(types.Person{Name: "Bob"})
		require.NoError(t, err)

		require.NoError(t, s.DeletePersonByID(second.ID))
		require.NoError(t, s.DeletePersonByID(first.ID))

		third, err := s.CreatePerson(types.Person{Name: "Cid"})
		require.NoError(t, err)
		assert.Greater(t, third.ID, second.ID)
	})

	t.Run("ConcurrentCreatesGetDistinctIDs", func(t *testing.T) {
		s := open(t)

		const n = 50
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.CreatePerson(types.Person{Name: fmt.Sprintf("p%d", i)})
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		persons, err := s.GetPersons()
		require.NoError(t, err)
		require.Len(t, persons, n)

		seen := make(map[int64]bool, n)
		for _, p := range persons {
			assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
			seen[p.ID] = true
			assert.GreaterOrEqual(t, p.ID, int64(1))
			assert.LessOrEqual(t, p.ID, int64(n))
		}
	})
}
