// Package database provides the two databases picgc talks to.
//
// FileTable reads the file references of the application whose storage is
// being cleaned. It works over database/sql with either MySQL
// (github.com/go-sql-driver/mysql) or SQLite (modernc.org/sqlite) and only
// ever issues read queries.
//
// HistoryDB is a local SQLite database, stored in the XDG data directory,
// that keeps the report of every run so past cleanups can be listed and
// inspected with "picgc history".
package database
