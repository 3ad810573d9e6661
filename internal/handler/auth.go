package handler

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/session"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// AuthHandler bundles dependencies for the registration, login and logout
// pages.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// RegisterForm renders the empty registration form.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return render(c, h.Sessions, http.StatusOK, "register.html", echo.Map{
		"Errors":   []string{},
		"Username": "",
	})
}

// Register handles the registration submission. All local rules are
// evaluated first; the uniqueness check hits the store and runs only when
// they pass. Any failure re-renders the form with the message list and
// the submitted username echoed back. Success redirects to the login page
// without logging the user in.
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	confirm := c.FormValue("password2")

	errs := catalog.ValidateRegistration(username, password, confirm)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if len(errs) == 0 {
		if _, err := h.Users.GetByUsername(ctx, username); err == nil {
			errs = append(errs, catalog.MsgUsernameTaken)
		} else if !errors.Is(err, sql.ErrNoRows) {
			errs = append(errs, genericErrMsg)
		}
	}
	if len(errs) > 0 {
		return render(c, h.Sessions, http.StatusOK, "register.html", echo.Map{
			"Errors":   errs,
			"Username": username,
		})
	}

	if _, err := h.Users.Create(ctx, username, password, h.Cfg.BcryptCost); err != nil {
		msg := genericErrMsg
		if errors.Is(err, repository.ErrUsernameExists) {
			// lost the race with a concurrent registration
			msg = catalog.MsgUsernameTaken
		}
		return render(c, h.Sessions, http.StatusOK, "register.html", echo.Map{
			"Errors":   []string{msg},
			"Username": username,
		})
	}

	flashSuccess(c, h.Sessions, "Registered! You can now log in")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// LoginForm renders the login form.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, h.Sessions, http.StatusOK, "login.html", echo.Map{})
}

// Login verifies the submitted credentials against the stored hash. The
// failure flash is a single generic message whether the username was
// unknown or the password wrong. Success binds the user id to the current
// session, so flashes queued before login carry over.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		// Store outage, not a bad credential; do not blame the user.
		log.Printf("auth: login lookup failed: %v", err)
		flashError(c, h.Sessions, genericErrMsg)
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err != nil || !utils.VerifyPassword(u.PasswordHash, password) {
		flashError(c, h.Sessions, "Wrong username or password")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := h.Sessions.Bind(ctx, sessionID(c), u.ID); err != nil {
		flashError(c, h.Sessions, genericErrMsg)
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	flashSuccess(c, h.Sessions, "Welcome back!")
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout destroys the session unconditionally and clears the cookie.
// There is no confirmation step.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	_ = h.Sessions.Destroy(ctx, sessionID(c))
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/")
}
