// Package writer persists recorded order books to PostgreSQL in batches.
//
// Writes are append-only. A book whose (asset_id, hash, source) was already
// stored is counted as a conflict and skipped by the database.
package writer
