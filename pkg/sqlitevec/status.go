package sqlitevec

import (
	"fmt"
	"unsafe"
)

// ConnHandle is a raw sqlite3 connection handle. It is owned entirely by
// the caller and the database engine; this package only forwards it to the
// extension's init routine and never retains it.
type ConnHandle unsafe.Pointer

// StatusCode is the raw SQLite result code returned by the extension's
// init routine. It is passed through without interpretation; the meaning
// of each code is defined by SQLite and the extension, not here.
type StatusCode int

// Primary result codes this layer can observe from registration. The full
// set belongs to SQLite; anything else is rendered numerically.
const (
	StatusOK     StatusCode = 0
	StatusError  StatusCode = 1
	StatusNoMem  StatusCode = 7
	StatusMisuse StatusCode = 21
)

// Ok reports whether the code is SQLITE_OK.
func (c StatusCode) Ok() bool {
	return c == StatusOK
}

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusNoMem:
		return "out of memory"
	case StatusMisuse:
		return "misuse"
	default:
		return fmt.Sprintf("sqlite status %d", int(c))
	}
}
