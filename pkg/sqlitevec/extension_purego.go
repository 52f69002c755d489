//go:build purego || !sqlite_vec
// +build purego !sqlite_vec

package sqlitevec

// This file is compiled when building without CGO or without the
// sqlite_vec tag. SQLite extensions cannot be linked in these builds, so
// registration always reports failure and callers should branch on
// Available to use a pure Go code path instead.
//
// Build command:
//   CGO_ENABLED=0 go build -tags "purego" ./...

const (
	// Available indicates the extension is compiled in.
	Available = false

	// BuildMode describes the current build configuration.
	BuildMode = "purego"
)

// Register reports StatusError: the extension is not linked into this
// build, so there is nothing to bind the connection to.
func Register(conn ConnHandle) StatusCode {
	return StatusError
}

// Auto is a no-op without the extension linked in.
func Auto() {}

// CancelAuto is a no-op without the extension linked in.
func CancelAuto() {}

// Version returns the empty string; no extension, no version.
func Version() string {
	return ""
}
