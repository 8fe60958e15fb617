// Package repository holds the Postgres persistence layer. Every aggregate
// gets an interface plus a pg-backed implementation over *sql.DB.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")
