// Package testutil holds fixtures shared by tests of the row sources and
// the CLI: throwaway SQLite databases and row files.
package testutil
