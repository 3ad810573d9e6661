// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel error values reused across
// repositories so that higher layers can distinguish failure scenarios
// without inspecting driver-specific errors.
package repository

import "errors"

// ErrUsernameExists is returned when a user cannot be created because the
// username is already taken. Handlers translate this into a validation
// message on the registration form rather than an HTTP error.
var ErrUsernameExists = errors.New("username already exists")

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
// Handlers deliberately present it the same way as an ownership failure
// on mutating routes, and as a silent redirect on the detail page.
var ErrMovieNotFound = errors.New("movie not found")
