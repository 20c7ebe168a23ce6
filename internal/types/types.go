// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers and storage backends can both import types without depending
// on each other.
package types

// Person is the only resource managed by the API.
//
// ID is assigned by the storage backend on create and never changes
// afterwards. Any id sent by a client in a request body is ignored.
//
// Name, Email and Age are stored exactly as sent: empty names, malformed
// emails and negative ages are all accepted.
type Person struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}
