// Package middleware contains the HTTP middleware that resolves the
// per-request session context. Handlers never read cookies themselves;
// they consume the session id and user id injected here via c.Set, which
// replaces any ambient per-request globals with explicit context values.
package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/session"
)

// SessionStore is the slice of the session collaborator the middleware
// needs: resolving the current user and flashing errors on redirects.
type SessionStore interface {
	UserID(ctx context.Context, sid string) (uint64, error)
	FlashError(ctx context.Context, sid, msg string) error
}

// LoadSession ensures every request carries a session id cookie (creating
// one for first-time visitors) and injects "session_id" and "user_id"
// into the Echo context. An unreachable session store degrades to an
// anonymous request rather than failing the page.
func LoadSession(store SessionStore, ttlHours int) echo.MiddlewareFunc {
	maxAge := ttlHours * 3600
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
				sid = ck.Value
			}
			if sid == "" {
				newID, err := session.NewSessionID()
				if err != nil {
					return err
				}
				sid = newID
				c.SetCookie(&http.Cookie{
					Name:     session.CookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   maxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			uid, err := store.UserID(ctx, sid)
			if err != nil {
				log.Printf("session: lookup failed: %v", err)
				uid = 0
			}

			c.Set("session_id", sid)
			c.Set("user_id", uid)
			return next(c)
		}
	}
}

// RequireLogin guards routes that need an authenticated session. Anonymous
// requests are flashed "Please log in first" and redirected to the login
// page without leaking why the target route needs a login.
func RequireLogin(store SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("user_id").(uint64)
			if uid == 0 {
				sid, _ := c.Get("session_id").(string)
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()
				if err := store.FlashError(ctx, sid, "Please log in first"); err != nil {
					log.Printf("session: flash failed: %v", err)
				}
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}
