// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The database is never written to disk. New opens a private, uuid-named
// in-memory database, so the data is process-local and disappears on
// restart exactly like the memory backend. What SQLite adds is the
// persons table's AUTOINCREMENT key, which guarantees an id is never
// handed out twice even after its row has been deleted.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aanand-mishra/persons-api/internal/storage"
	"github.com/aanand-mishra/persons-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

// New opens a fresh in-memory database, creates the persons table and
// returns a ready-to-use *SQLite.
//
// An in-memory SQLite database lives only as long as a connection to it is
// open, and each connection to a plain ":memory:" DSN gets its own empty
// database. The pool is therefore pinned to exactly one connection that is
// never closed while the store is in use. The single connection also
// serialises every statement, which gives the store its one logical owner.
func New() (*SQLite, error) {
	dsn := fmt.Sprintf("file:persons-%s?mode=memory&cache=shared", uuid.NewString())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// AUTOINCREMENT (not just INTEGER PRIMARY KEY) stops SQLite from
	// reusing the id of the highest deleted row.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS persons (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT    NOT NULL,
			email TEXT    NOT NULL,
			age   INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// GetPersons returns all person rows ordered by id. Ids only ever grow, so
// id order is insertion order.
func (s *SQLite) GetPersons() ([]types.Person, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, email, age FROM persons ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetPersons: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetPersons: query: %w", err)
	}
	defer rows.Close()

	persons := make([]types.Person, 0)

	for rows.Next() {
		var person types.Person

		if err := rows.Scan(
			&person.ID,
			&person.Name,
			&person.Email,
			&person.Age,
		); err != nil {
			return nil, fmt.Errorf("GetPersons: scan row: %w", err)
		}

		persons = append(persons, person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetPersons: rows iteration: %w", err)
	}

	return persons, nil
}

// CreatePerson inserts a new row and returns it with the generated id.
// Placeholders keep client-supplied strings out of the SQL text.
func (s *SQLite) CreatePerson(person types.Person) (types.Person, error) {
	stmt, err := s.Db.Prepare(
		"INSERT INTO persons (name, email, age) VALUES (?, ?, ?)",
	)
	if err != nil {
		return types.Person{}, fmt.Errorf("CreatePerson: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(person.Name, person.Email, person.Age)
	if err != nil {
		return types.Person{}, fmt.Errorf("CreatePerson: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Person{}, fmt.Errorf("CreatePerson: last insert id: %w", err)
	}

	person.ID = lastID
	return person, nil
}

// UpdatePersonByID replaces a person's fields and returns the stored row.
//
// The UPDATE and the re-read run in one transaction so no other statement
// can slip in between them.
func (s *SQLite) UpdatePersonByID(id int64, person types.Person) (types.Person, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"UPDATE persons SET name = ?, email = ?, age = ? WHERE id = ?",
		person.Name, person.Email, person.Age, id,
	)
	if err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: exec: %w", err)
	}

	// SQLite counts rows matched by WHERE, even when the new values equal
	// the old ones, so zero really means "no such id".
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Person{}, storage.ErrNotFound
	}

	var updated types.Person
	err = tx.QueryRow(
		"SELECT id, name, email, age FROM persons WHERE id = ? LIMIT 1", id,
	).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Email,
		&updated.Age,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Person{}, storage.ErrNotFound
		}
		return types.Person{}, fmt.Errorf("UpdatePersonByID: scan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePersonByID: commit: %w", err)
	}

	return updated, nil
}

// DeletePersonByID removes a person row by id. A missing row is not an
// error.
func (s *SQLite) DeletePersonByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM persons WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeletePersonByID: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(id); err != nil {
		return fmt.Errorf("DeletePersonByID: exec: %w", err)
	}

	return nil
}

// Close closes the only connection, which discards the database.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

var _ storage.Storage = (*SQLite)(nil)
