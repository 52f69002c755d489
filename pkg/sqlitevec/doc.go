// Package sqlitevec provides Go bindings for the sqlite-vec SQLite
// extension: registration of the extension with database connections,
// the vector encoding model (float32, int8, bit), exact storage byte
// sizes for each encoding, and blob serialization helpers.
//
// # Registration
//
// With the sqlite_vec build tag the extension is linked in and can be
// bound to connections:
//
//	// Process-wide: every connection opened afterwards gets the
//	// vec0 module and the vec_* SQL functions.
//	sqlitevec.Auto()
//	db, err := sql.Open("sqlite3", "vectors.db")
//
//	// Or per-connection, for callers holding a raw sqlite3 handle:
//	status := sqlitevec.Register(handle)
//	if !status.Ok() {
//	    return fmt.Errorf("vec init failed: %s", status)
//	}
//
// Register forwards the handle to the extension's own init routine and
// returns its status code verbatim. The handle stays owned by the
// caller; this package never opens or closes connections.
//
// Without the build tag the package compiles against a pure Go stub:
// Available is false, Register reports StatusError and Version returns
// the empty string. Callers branch on Available the same way the
// storage layer does.
//
// # Byte sizes
//
// Buffer allocation and validation for vector columns uses the exact
// sizes the extension reads and writes:
//
//	n := sqlitevec.Float32ByteSize(384) // 1536
//	n = sqlitevec.EncodingBit.ByteSize(10) // 2, partial byte rounded up
//
// The size functions are pure and total; they apply the formulas to
// whatever count they are given and leave range validation to the
// caller, matching the extension's own signed-int dimension API.
package sqlitevec
