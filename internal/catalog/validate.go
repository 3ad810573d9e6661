package catalog

import (
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/repository"
)

// User-facing validation messages. The wording is part of the page
// contract and is asserted by tests.
const (
	MsgFieldsRequired    = "All fields are required"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgPasswordTooShort  = "Password must be 6+ characters"
	MsgUsernameTaken     = "Username already taken"
	MsgMovieFieldsNeeded = "Please fill all required fields"
)

// MovieDraft carries a movie form submission as raw strings. It exists so
// that invalid input can be echoed back into the form without ever passing
// through the typed domain model. Poster is optional and may stay empty.
type MovieDraft struct {
	Name        string
	Description string
	Year        string
	Genres      string
	Rating      string
	Poster      string
}

// ValidateRegistration checks a registration submission and returns the
// list of failure messages in rule order; an empty list means valid.
// Every rule is evaluated so the user sees all problems at once. The
// length rule only runs for a non-empty password: an empty password
// already yields the required-fields message and must not add a second.
// Username uniqueness needs I/O and is checked by the caller, only once
// this list comes back empty.
func ValidateRegistration(username, password, confirm string) []string {
	var errs []string
	if username == "" || password == "" || confirm == "" {
		errs = append(errs, MsgFieldsRequired)
	}
	if password != confirm {
		errs = append(errs, MsgPasswordMismatch)
	}
	if password != "" && len(password) < 6 {
		errs = append(errs, MsgPasswordTooShort)
	}
	return errs
}

// ValidateMovie checks that all required movie fields are present. It
// operates on the raw draft: numeric coercion happens after validation,
// never before. The rating range is left to the store schema.
func ValidateMovie(d MovieDraft) []string {
	var errs []string
	if strings.TrimSpace(d.Name) == "" ||
		strings.TrimSpace(d.Description) == "" ||
		strings.TrimSpace(d.Year) == "" ||
		strings.TrimSpace(d.Genres) == "" ||
		strings.TrimSpace(d.Rating) == "" {
		errs = append(errs, MsgMovieFieldsNeeded)
	}
	return errs
}

// CoerceMovie converts a draft into a domain record: year and rating are
// parsed as integers and the poster defaults to the empty string. Parse
// failures become zero values; the edit path deliberately coerces without
// re-validating presence, so this must never fault on bad input.
func CoerceMovie(d MovieDraft) repository.Movie {
	year, _ := strconv.Atoi(strings.TrimSpace(d.Year))
	rating, _ := strconv.Atoi(strings.TrimSpace(d.Rating))
	return repository.Movie{
		Name:        d.Name,
		Description: d.Description,
		Year:        year,
		Genres:      d.Genres,
		Rating:      rating,
		Poster:      d.Poster, // "" when omitted
	}
}

// DraftFromMovie builds the editable draft shown on the edit form from a
// stored record.
func DraftFromMovie(m *repository.Movie) MovieDraft {
	return MovieDraft{
		Name:        m.Name,
		Description: m.Description,
		Year:        strconv.Itoa(m.Year),
		Genres:      m.Genres,
		Rating:      strconv.Itoa(m.Rating),
		Poster:      m.Poster,
	}
}
