// Package repository contains data access logic separated from HTTP handlers.
// This file defines error values that are reused across multiple
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios, e.g. translating
// ErrConflict into an HTTP 409 when a category with menu items is deleted.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource belonging to another tenant.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a category that still has
// menu items.  Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).  The driver does not export a typed error for it, so the
// error string is inspected the same way across repositories.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
