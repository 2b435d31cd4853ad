// Package store reads filter input rows from SQLite databases.
//
// Databases are opened read-only with query_only set, so a store can be
// pointed at a live application database without risk of writes. Each
// table row becomes a rows.MapRow keyed by column name.
package store
