// Package handler implements the server-rendered pages of the movie
// catalog. Handlers compose the catalog decision core (authorization gate
// and validators) around the store collaborators and emit redirects with
// flash messages, or re-rendered forms carrying the submitted draft.
package handler

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/repository"
)

// genericErrMsg is the only thing the client learns about persistence or
// constraint failures. Details go to the log, never to the page.
const genericErrMsg = "Something went wrong"

// UserStore is the slice of the persistence collaborator the auth pages
// need. *repository.UserRepo satisfies it; tests use in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, username, password string, cost int) (uint64, error)
	GetByUsername(ctx context.Context, username string) (repository.User, error)
}

// MovieStore is the movie half of the persistence collaborator.
// *repository.MovieRepo satisfies it.
type MovieStore interface {
	Create(ctx context.Context, m *repository.Movie) error
	GetByID(ctx context.Context, id uint64) (*repository.Movie, error)
	ListAll(ctx context.Context) ([]*repository.Movie, error)
	Update(ctx context.Context, id uint64, m *repository.Movie) error
	Delete(ctx context.Context, id uint64) error
}

// SessionStore is the session collaborator: the current-user binding plus
// the two one-shot flash channels. *session.Store satisfies it.
type SessionStore interface {
	UserID(ctx context.Context, sid string) (uint64, error)
	Bind(ctx context.Context, sid string, userID uint64) error
	Destroy(ctx context.Context, sid string) error
	FlashSuccess(ctx context.Context, sid, msg string) error
	FlashError(ctx context.Context, sid, msg string) error
	DrainFlashes(ctx context.Context, sid string) (success, errors []string, err error)
}

// sessionID returns the session id injected by the session middleware.
func sessionID(c echo.Context) string {
	sid, _ := c.Get("session_id").(string)
	return sid
}

// currentUserID returns the authenticated user id, or zero for anonymous
// requests.
func currentUserID(c echo.Context) uint64 {
	uid, _ := c.Get("user_id").(uint64)
	return uid
}

// reqCtx bounds store calls to five seconds, derived from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// render executes a named template after draining the session's flash
// channels into the data bag. Every render goes through here so that
// UserID, SuccessMsgs and ErrorMsgs are supplied on every path; templates
// rely on that and must never be rendered directly.
func render(c echo.Context, sessions SessionStore, code int, name string, data echo.Map) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	success, errs, err := sessions.DrainFlashes(ctx, sessionID(c))
	if err != nil {
		log.Printf("session: drain flashes failed: %v", err)
	}
	data["SuccessMsgs"] = success
	data["ErrorMsgs"] = errs
	data["UserID"] = currentUserID(c)
	return c.Render(code, name, data)
}

// flashError queues an error flash, logging rather than failing when the
// session store is unreachable.
func flashError(c echo.Context, sessions SessionStore, msg string) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := sessions.FlashError(ctx, sessionID(c), msg); err != nil {
		log.Printf("session: flash failed: %v", err)
	}
}

// flashSuccess queues a success flash, logging failures like flashError.
func flashSuccess(c echo.Context, sessions SessionStore, msg string) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := sessions.FlashSuccess(ctx, sessionID(c), msg); err != nil {
		log.Printf("session: flash failed: %v", err)
	}
}
