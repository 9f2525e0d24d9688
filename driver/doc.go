// Package driver provides a capturing SQL driver implementation for database/sql.
//
// The driver behaves like a mock engine: every statement executed through it is
// recorded verbatim and never sent to a database. DDL emitters use it to collect
// the statements they would run against a real server.
//
// For the sqlite dialect the connector can additionally replay each statement
// against an in-memory SQLite database, which rejects statements SQLite cannot parse.
//
// Usage:
//
//	import _ "github.com/nao1215/ddlinfer/driver"
//	db, err := sql.Open("ddlmock", "crate")
package driver
