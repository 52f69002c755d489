//go:build sqlite_vec
// +build sqlite_vec

package sqlitevec

// This file is compiled when building with CGO and the sqlite_vec tag.
// It links against a statically built sqlite-vec (libsqlite_vec.a) and the
// system sqlite3, giving every registered connection the vec0 virtual
// table module and the vec_* SQL functions.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_vec" ./...

/*
#cgo CFLAGS: -DSQLITE_CORE
#cgo LDFLAGS: -lsqlite_vec -lm
#include <sqlite3.h>
#include <sqlite-vec.h>

static const char *vec_version(void) { return SQLITE_VEC_VERSION; }
*/
import "C"
import "unsafe"

const (
	// Available indicates the extension is compiled in.
	Available = true

	// BuildMode describes the current build configuration.
	BuildMode = "cgo"
)

// Register binds the sqlite-vec extension to an already open connection
// and returns the init routine's status code verbatim. The error-message
// and API-routine parameters are always passed as NULL; this layer does
// not interpret, retry, or translate the result. Call it once per
// connection before using vec0 tables; registering twice is governed by
// the extension's own semantics.
func Register(conn ConnHandle) StatusCode {
	return StatusCode(C.sqlite3_vec_init((*C.sqlite3)(unsafe.Pointer(conn)), nil, nil))
}

// Auto registers sqlite-vec to be loaded automatically on every SQLite
// connection opened afterwards. Call it before opening any database
// connections.
func Auto() {
	C.sqlite3_auto_extension((*[0]byte)(C.sqlite3_vec_init))
}

// CancelAuto removes the automatic registration installed by Auto.
// Connections already open keep the extension.
func CancelAuto() {
	C.sqlite3_cancel_auto_extension((*[0]byte)(C.sqlite3_vec_init))
}

// Version returns the extension's version identifier string, unparsed.
func Version() string {
	return C.GoString(C.vec_version())
}
