// Package catalog holds the decision core that gates every write to the
// movie catalog: the ownership gate, the form validators, and the draft
// type used to echo raw submissions back into forms. Everything here is
// pure; callers fetch state first and act on the returned decisions.
package catalog

import "github.com/iliyamo/movie-catalog/internal/repository"

// Reason tags why a Decision denied access. Handlers must not branch on
// it when talking to the client: a missing movie and a foreign movie get
// the exact same flash and redirect. The tag exists for logs and tests.
type Reason int

const (
	ReasonAllowed Reason = iota
	ReasonNotFound
	ReasonNoSession
	ReasonNotOwner
)

// Decision is the result of the authorization gate.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Authorize decides whether the session user may mutate the given movie.
// The movie must already have been fetched; a nil movie means "not found"
// and is denied. A zero sessionUserID means the request is anonymous;
// routing is expected to have required a login before this point, but the
// gate denies on its own rather than trusting that.
func Authorize(sessionUserID uint64, movie *repository.Movie) Decision {
	if movie == nil {
		return Decision{Reason: ReasonNotFound}
	}
	if sessionUserID == 0 {
		return Decision{Reason: ReasonNoSession}
	}
	if movie.OwnerID != sessionUserID {
		return Decision{Reason: ReasonNotOwner}
	}
	return Decision{Allowed: true, Reason: ReasonAllowed}
}
