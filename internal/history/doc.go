// Package history records assembly runs in a small SQLite database so the CLI
// can show what was rendered, when, and why a run failed.
//
// The store uses modernc.org/sqlite (pure Go, no cgo) in WAL mode with a busy
// timeout and a short retry loop for SQLITE_BUSY. The schema is embedded and
// versioned; a database written by a different schema version is rejected
// rather than migrated.
package history
