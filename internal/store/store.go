// internal/store/store.go
// Document store abstraction over hierarchical collection/document paths.
// Backed by Firestore in production and an in-memory store in development
// and tests, so business logic never touches a driver directly.

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// Doc is a single document: its ID within the collection plus its fields
type Doc struct {
	ID   string
	Data map[string]interface{}
}

// Filter is a single field condition on a query
// Supported operators: "==" and "array-contains"
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Order sorts query results by a field, ascending unless Desc is set
// Nested fields use dotted paths ("lastMessage.timestamp")
type Order struct {
	Field string
	Desc  bool
}

// Query describes a read against a single collection
type Query struct {
	Path    string // collection path, e.g. "users/abc/swipes"
	Filters []Filter
	OrderBy []Order
	Limit   int
}

// serverTimestamp is the sentinel type for ServerTimestamp
type serverTimestamp struct{}

// ServerTimestamp is a write placeholder resolved to the store's clock at
// commit time. Use it instead of time.Now() so concurrent writers agree.
var ServerTimestamp = serverTimestamp{}

// Tx exposes store operations inside a transaction.
// All reads must happen before the first write.
type Tx interface {
	Get(path string) (*Doc, error)
	GetAll(q Query) ([]Doc, error)
	Set(path string, data map[string]interface{}) error
	Update(path string, fields map[string]interface{}) error
	Delete(path string) error
}

// Store is the document store interface used by all repositories
type Store interface {
	// Get fetches a single document, ErrNotFound if absent
	Get(ctx context.Context, path string) (*Doc, error)

	// GetAll runs a query and returns matching documents
	GetAll(ctx context.Context, q Query) ([]Doc, error)

	// Set writes a full document, creating or replacing it
	Set(ctx context.Context, path string, data map[string]interface{}) error

	// Update merges the named fields into an existing document
	Update(ctx context.Context, path string, fields map[string]interface{}) error

	// Add creates a document with an auto-generated ID, returns the ID
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)

	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, path string) error

	// Subscribe invokes fn with the full result set of q on every change.
	// The returned cancel func tears the listener down; it is also torn
	// down when ctx is cancelled.
	Subscribe(ctx context.Context, q Query, fn func([]Doc)) (func(), error)

	// RunTransaction executes fn atomically, retrying on contention
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying client
	Close() error
}
