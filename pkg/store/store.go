// Package store provides persistence for formdeck documents.
//
// This package defines the storage interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: JSON files in a config directory for CLI usage
//   - mongo: MongoDB-backed storage for hosted deployments
//
// # Architecture
//
// Documents are stored whole; there is no per-node persistence. Every Put
// replaces the previous version and stamps UpdatedAt, so the store never
// sees a half-applied edit. Lookups go through [pkg/errors] codes so the
// CLI and the API report failures the same way.
//
// # Usage
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// CLI
//	st, err := store.NewFileStore("") // Uses ~/.config/formdeck/documents/
//
//	// Hosted
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "formdeck")
package store

import (
	"context"
	"time"

	"github.com/formdeck/formdeck/pkg/form"
)

// Summary is the listing view of a stored document. It carries enough for
// a picker UI without loading each body.
type Summary struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by ID.
	// Returns an ErrCodeDocumentNotFound error when it does not exist.
	Get(ctx context.Context, id string) (*form.Document, error)

	// Put stores a document under doc.ID, replacing any previous version
	// and stamping UpdatedAt. The document is validated first.
	Put(ctx context.Context, doc *form.Document) error

	// Delete removes a document. Deleting a missing document is a no-op.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all stored documents, most recently
	// updated first.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

func summarize(doc *form.Document) Summary {
	return Summary{
		ID:        doc.ID,
		Title:     doc.Title,
		Nodes:     doc.Body.Count(),
		UpdatedAt: doc.UpdatedAt,
	}
}
