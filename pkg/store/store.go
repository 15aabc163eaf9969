// Package store persists layout documents for the HTTP server.
//
// Three backends implement [Store]: an in-process [MemoryStore], a SQLite
// file ([SQLiteStore], pure Go via modernc.org/sqlite) and MongoDB
// ([MongoStore]). Records are keyed by UUID.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/relayout/pkg/document"
	"github.com/matzehuels/relayout/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Record is one stored document.
type Record struct {
	ID        string             `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Document  *document.Document `json:"document" bson:"document"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Store persists records. Get and Delete return an ErrCodeNotFound error for
// unknown IDs.
type Store interface {
	// Put inserts or replaces a record. An empty ID is assigned a new UUID.
	// CreatedAt is kept across replacements; UpdatedAt is set to now.
	Put(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// List returns every record, oldest first.
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns the store for a backend. dsn is a file path for sqlite and a
// connection URI for mongo; memory ignores it.
func Open(ctx context.Context, backend, dsn string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLite(dsn)
	case BackendMongo:
		return OpenMongo(ctx, MongoConfig{URI: dsn})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", backend)
	}
}

// prepare validates rec and stamps its ID and times.
func prepare(rec *Record, now time.Time) error {
	if rec == nil || rec.Document == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record has no document")
	}
	if err := rec.Document.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid record id %q", rec.ID)
	}
	if rec.Name == "" {
		rec.Name = rec.Document.Name
	}
	now = now.UTC().Truncate(time.Millisecond)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
}
