package storage

import (
	"context"
	"errors"
	"time"

	"github.com/veclab/sqlitevec/pkg/sqlitevec"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
	// ErrSizeMismatch is returned when a vector blob's length doesn't match
	// the byte size of the collection's (encoding, dimensionality) pair
	ErrSizeMismatch = errors.New("vector blob size does not match collection encoding")
	// ErrEncodingMismatch is returned when an operation requires a different
	// vector encoding than the collection declares
	ErrEncodingMismatch = errors.New("collection encoding does not support this operation")
	// ErrInvalidName is returned for collection names that aren't safe
	// identifiers
	ErrInvalidName = errors.New("invalid collection name")
)

// Collection describes a named set of vectors sharing one encoding and
// dimensionality.
type Collection struct {
	ID         int64
	Name       string
	Dimensions int
	Encoding   sqlitevec.Encoding
	CreatedAt  time.Time
}

// ByteSize returns the exact blob length every vector in this collection
// must have.
func (c *Collection) ByteSize() int {
	return c.Encoding.ByteSize(c.Dimensions)
}

// Vector is one stored vector with its caller-assigned key.
type Vector struct {
	ID           int64
	CollectionID int64
	Key          string
	Blob         []byte
	CreatedAt    time.Time
}

// SearchResult is one nearest-neighbor match. Distance is metric-dependent
// (L2 for float32/int8 collections, Hamming for bit collections); lower is
// closer.
type SearchResult struct {
	VectorID int64
	Key      string
	Distance float64
}

// BatchItem is one float32 vector queued for batch ingest.
type BatchItem struct {
	Key    string
	Values []float32
}

// Stats summarizes the store for status reporting.
type Stats struct {
	Collections     int
	Vectors         int
	DatabaseSizeMB  float64
	ExtensionLoaded bool
}

// Storage is the persistence interface for vector collections.
type Storage interface {
	CreateCollection(ctx context.Context, name string, dims int, enc sqlitevec.Encoding) (*Collection, error)
	GetCollection(ctx context.Context, name string) (*Collection, error)
	ListCollections(ctx context.Context) ([]*Collection, error)
	DeleteCollection(ctx context.Context, name string) error

	InsertVector(ctx context.Context, collection, key string, blob []byte) (int64, error)
	InsertFloat32Batch(ctx context.Context, collection string, items []BatchItem) (int, error)
	GetVector(ctx context.Context, collection, key string) (*Vector, error)
	DeleteVector(ctx context.Context, collection, key string) error

	SearchNearest(ctx context.Context, collection string, query []byte, limit int) ([]SearchResult, error)

	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}
