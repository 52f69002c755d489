//go:build sqlite_vec
// +build sqlite_vec

package storage

// This file is compiled when building with CGO and the sqlite_vec tag.
// It selects the mattn/go-sqlite3 driver and arranges for the sqlite-vec
// extension to be registered on every connection the pool opens.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "sqlite_vec" ./...

import (
	_ "github.com/mattn/go-sqlite3"

	"github.com/veclab/sqlitevec/pkg/sqlitevec"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// VectorExtensionAvailable indicates if vector extension is available
	VectorExtensionAvailable = true

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)

func init() {
	// Every connection opened after this point gets the vec0 module.
	sqlitevec.Auto()
}
