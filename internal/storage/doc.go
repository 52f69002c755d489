// Package storage provides SQLite-backed persistence for vector
// collections.
//
// A collection fixes a name, a dimensionality and a vector encoding;
// every blob written into it is validated against the exact byte size
// that (encoding, dimensionality) pair occupies. Nearest-neighbor
// queries go through the sqlite-vec extension when it is compiled in
// (sqlite_vec build tag, mattn/go-sqlite3 driver) and fall back to a
// pure Go scan otherwise (modernc.org/sqlite driver).
//
// # Basic usage
//
//	store, err := storage.NewSQLiteStorage("vectors.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	coll, err := store.CreateCollection(ctx, "docs", 384, sqlitevec.EncodingFloat32)
//	id, err := store.InsertVector(ctx, "docs", "doc-1", sqlitevec.SerializeFloat32(vec))
//	results, err := store.SearchNearest(ctx, "docs", queryBlob, 10)
//
// The database is opened in WAL mode with a single writer connection;
// schema changes are applied through versioned migrations.
package storage
