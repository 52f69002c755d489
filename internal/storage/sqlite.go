package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/veclab/sqlitevec/pkg/sqlitevec"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// Collection names end up in vec0 DDL, so they are restricted to safe
// identifiers rather than quoted into statements.
var collectionNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// vecTableName returns the name of the collection's vec0 shadow table.
// Rowids in the shadow table mirror vector ids.
func vecTableName(c *Collection) string {
	return fmt.Sprintf("vec_items_%d", c.ID)
}

// Collection operations

func (s *SQLiteStorage) CreateCollection(ctx context.Context, name string, dims int, enc sqlitevec.Encoding) (*Collection, error) {
	if !collectionNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dims)
	}

	if _, err := s.getCollectionWithQuerier(ctx, s.db, name); err == nil {
		return nil, fmt.Errorf("collection %q: %w", name, ErrAlreadyExists)
	} else if err != ErrNotFound {
		return nil, err
	}

	// The metadata row and the vec0 table must appear together.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO collections (name, dimensions, encoding, created_at) VALUES (?, ?, ?, ?)`,
		name, dims, enc.String(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	coll := &Collection{
		ID:         id,
		Name:       name,
		Dimensions: dims,
		Encoding:   enc,
		CreatedAt:  now,
	}

	if VectorExtensionAvailable {
		ddl := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(embedding %s)",
			vecTableName(coll), enc.ColumnType(dims))
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("failed to create vec0 table for %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to create collection %q: %w", name, err)
	}
	return coll, nil
}

// getCollectionWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getCollectionWithQuerier(ctx context.Context, q querier, name string) (*Collection, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, name, dimensions, encoding, created_at FROM collections WHERE name = ?`, name)
	return scanCollection(row)
}

func (s *SQLiteStorage) GetCollection(ctx context.Context, name string) (*Collection, error) {
	return s.getCollectionWithQuerier(ctx, s.db, name)
}

func (s *SQLiteStorage) ListCollections(ctx context.Context) ([]*Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, dimensions, encoding, created_at FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	collections := make([]*Collection, 0)
	for rows.Next() {
		coll, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, coll)
	}
	return collections, rows.Err()
}

func (s *SQLiteStorage) DeleteCollection(ctx context.Context, name string) error {
	coll, err := s.GetCollection(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, coll.ID); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}

	if VectorExtensionAvailable {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+vecTableName(coll)); err != nil {
			return fmt.Errorf("failed to drop vec0 table for %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for single-row scans
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCollection(row scanner) (*Collection, error) {
	var coll Collection
	var encoding string
	err := row.Scan(&coll.ID, &coll.Name, &coll.Dimensions, &encoding, &coll.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	coll.Encoding, err = sqlitevec.ParseEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("collection %q has invalid encoding: %w", coll.Name, err)
	}
	return &coll, nil
}

// Vector operations

// insertVectorWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) insertVectorWithQuerier(ctx context.Context, q querier, coll *Collection, key string, blob []byte) (int64, error) {
	if len(blob) != coll.ByteSize() {
		return 0, fmt.Errorf("%w: collection %q expects %d bytes (%s, %d dims), got %d",
			ErrSizeMismatch, coll.Name, coll.ByteSize(), coll.Encoding, coll.Dimensions, len(blob))
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO vectors (collection_id, key, embedding, created_at) VALUES (?, ?, ?, ?)`,
		coll.ID, key, blob, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to insert vector %q: %w", key, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if VectorExtensionAvailable {
		insert := fmt.Sprintf("INSERT INTO %s (rowid, embedding) VALUES (?, ?)", vecTableName(coll))
		if _, err := q.ExecContext(ctx, insert, id, blob); err != nil {
			return 0, fmt.Errorf("failed to index vector %q: %w", key, err)
		}
	}

	return id, nil
}

func (s *SQLiteStorage) InsertVector(ctx context.Context, collection, key string, blob []byte) (int64, error) {
	coll, err := s.GetCollection(ctx, collection)
	if err != nil {
		return 0, err
	}

	// Base row and vec0 index entry commit together or not at all.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.insertVectorWithQuerier(ctx, tx, coll, key, blob)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert of %q: %w", key, err)
	}
	return id, nil
}

func (s *SQLiteStorage) GetVector(ctx context.Context, collection, key string) (*Vector, error) {
	coll, err := s.GetCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	var vec Vector
	err = s.db.QueryRowContext(ctx,
		`SELECT id, collection_id, key, embedding, created_at FROM vectors WHERE collection_id = ? AND key = ?`,
		coll.ID, key).Scan(&vec.ID, &vec.CollectionID, &vec.Key, &vec.Blob, &vec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vec, nil
}

func (s *SQLiteStorage) DeleteVector(ctx context.Context, collection, key string) error {
	coll, err := s.GetCollection(ctx, collection)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM vectors WHERE collection_id = ? AND key = ?`, coll.ID, key).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM vectors WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete vector %q: %w", key, err)
	}

	if VectorExtensionAvailable {
		del := fmt.Sprintf("DELETE FROM %s WHERE rowid = ?", vecTableName(coll))
		if _, err := tx.ExecContext(ctx, del, id); err != nil {
			return fmt.Errorf("failed to unindex vector %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to delete vector %q: %w", key, err)
	}
	return nil
}

// Search operations

func (s *SQLiteStorage) SearchNearest(ctx context.Context, collection string, query []byte, limit int) ([]SearchResult, error) {
	coll, err := s.GetCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(query) != coll.ByteSize() {
		return nil, fmt.Errorf("%w: query for %q expects %d bytes (%s, %d dims), got %d",
			ErrSizeMismatch, coll.Name, coll.ByteSize(), coll.Encoding, coll.Dimensions, len(query))
	}
	return searchNearest(ctx, s.db, coll, query, limit)
}

// Status operations

func (s *SQLiteStorage) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ExtensionLoaded: VectorExtensionAvailable}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections").Scan(&stats.Collections); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&stats.Vectors); err != nil {
		return nil, err
	}

	var pageCount, pageSize int
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, err
	}
	stats.DatabaseSizeMB = float64(pageCount*pageSize) / (1024 * 1024)

	return stats, nil
}
