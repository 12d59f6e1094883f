// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles the details of database connections, query execution, and data
// mapping between domain entities and database records.
//
// Stores accept a store.DBTX so the same code runs against a *sql.DB or,
// through WithTx, inside a *sql.Tx. Schema migrations are embedded and applied
// with goose.
package postgres
