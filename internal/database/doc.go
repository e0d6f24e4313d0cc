// Package database provides the PostgreSQL connection pool and schema for
// recorded order books.
//
// The recorder writes append-only rows to order_book_snapshots, one per
// distinct book observed on the market channel or by the REST poller.
package database
