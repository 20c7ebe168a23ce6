// Package person contains the HTTP handlers for the Person resource.
//
// Each exported function is a factory: it receives the store once, at
// route registration, and returns the http.HandlerFunc that runs on every
// request. The returned closure keeps using the same store:
//
//	r.Post("/", person.New(store))
package person

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/persons-api/internal/storage"
	"github.com/aanand-mishra/persons-api/internal/types"
	"github.com/aanand-mishra/persons-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /persons
// Returns every person in insertion order.
//
// Success response (200 OK):
//
//	[
//	  { "id": 1, "name": "Ann", "email": "ann@x.com", "age": 30 },
//	  { "id": 2, "name": "Bob", "email": "bob@x.com", "age": 41 }
//	]
//
// Returns an empty array [] (not null) when there are no persons.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing persons")

		persons, err := store.GetPersons()
		if err != nil {
			slog.Error("error listing persons", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, persons)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /persons
// Stores a new person under the next id. An "id" in the body is ignored and
// field contents are not checked.
//
// Request body (JSON), age as a number or a numeric string:
//
//	{ "name": "Ann", "email": "ann@x.com", "age": 30 }
//	{ "id": "", "name": "Ann", "email": "ann@x.com", "age": "30" }
//
// Success response (201 Created) — the stored person:
//
//	{ "id": 1, "name": "Ann", "email": "ann@x.com", "age": 30 }
//
// Error responses:
//
//	400 Bad Request  — empty body or JSON that does not fit a Person
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a person")

		person, ok := decodePerson(w, r)
		if !ok {
			return
		}

		created, err := store.CreatePerson(person)
		if err != nil {
			slog.Error("error creating person", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("person created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /persons/{id}
// Overwrites name, email and age of an existing person. The id never
// changes, whatever the body says.
//
// Success response (200 OK) — the updated person.
//
// Error responses:
//
//	400 Bad Request  — empty body or JSON that does not fit a Person
//	404 Not Found    — no person with that id (empty body)
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("updating a person", slog.String("id", id))

		intID, ok := parseID(w, id)
		if !ok {
			return
		}

		person, ok := decodePerson(w, r)
		if !ok {
			return
		}

		updated, err := store.UpdatePersonByID(intID, person)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Info("person not found", slog.Int64("id", intID))
			response.WriteStatus(w, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("error updating person",
				slog.Int64("id", intID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("person updated", slog.Int64("id", intID))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /persons/{id}
// Removes the person with that id if there is one.
//
// Success response: 204 No Content, also when the id did not exist.
//
// Error responses:
//
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a person", slog.String("id", id))

		intID, ok := parseID(w, id)
		if !ok {
			return
		}

		if err := store.DeletePersonByID(intID); err != nil {
			slog.Error("error deleting person",
				slog.Int64("id", intID),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("person deleted", slog.Int64("id", intID))
		response.WriteStatus(w, http.StatusNoContent)
	}
}

// parseID converts the {id} path segment to an id. A segment that is not a
// 32-bit integer names no person, so the request is answered with an empty
// 404.
func parseID(w http.ResponseWriter, id string) (int64, bool) {
	intID, err := strconv.ParseInt(id, 10, 32)
	if err != nil {
		slog.Debug("path id is not an integer", slog.String("id", id))
		response.WriteStatus(w, http.StatusNotFound)
		return 0, false
	}
	return intID, true
}

// decodePerson reads the request body into a Person. On failure it writes
// the 400 response itself and reports false.
func decodePerson(w http.ResponseWriter, r *http.Request) (types.Person, bool) {
	req, err := readPersonRequest(r.Body)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.Person{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Person{}, false
	}

	return req.toPerson(), true
}
