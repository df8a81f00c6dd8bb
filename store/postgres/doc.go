// Package postgres implements the authcore store interfaces on a pgxpool
// connection. SQL is hand-written against the tables documented on each
// store type; schema management is left to the host application's
// migration tooling.
package postgres
