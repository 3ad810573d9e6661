package handler_test

// Test harness: the full route table over in-memory fakes, with the real
// templates, session middleware and renderer in the loop.

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/session"
	"github.com/iliyamo/movie-catalog/internal/view"
)

type app struct {
	e        *echo.Echo
	users    *fakeUsers
	movies   *fakeMovies
	sessions *fakeSessions

	mu     sync.Mutex
	events []queue.CatalogChangedEvent
}

func newApp(t *testing.T) *app {
	t.Helper()
	e := echo.New()
	r, err := view.NewRenderer("../../web/templates/*.html")
	require.NoError(t, err)
	e.Renderer = r

	a := &app{
		e:        e,
		users:    newFakeUsers(),
		movies:   newFakeMovies(),
		sessions: newFakeSessions(),
	}

	cfg := config.Config{BcryptCost: bcrypt.MinCost}
	authHandler := handler.NewAuthHandler(cfg, a.users, a.sessions)
	movieHandler := handler.NewMovieHandler(a.movies, a.sessions, func(_ context.Context, ev queue.CatalogChangedEvent) error {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.events = append(a.events, ev)
		return nil
	})

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, authHandler, movieHandler, a.sessions, 24)
	return a
}

func (a *app) do(req *http.Request, sid string) *httptest.ResponseRecorder {
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *app) get(path, sid string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), sid)
}

func (a *app) post(path, sid string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req, sid)
}

// loginAs binds a session id to a user without going through the login
// page. Used by tests that are not about the login flow itself.
func (a *app) loginAs(sid string, userID uint64) {
	a.sessions.users[sid] = userID
}

// sessionCookie pulls the session id assigned by the middleware out of a
// response for requests that arrived without one.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			return ck.Value
		}
	}
	t.Fatal("no session cookie set")
	return ""
}

func movieForm(name, description, year, genres, rating, poster string) url.Values {
	return url.Values{
		"name":        {name},
		"description": {description},
		"year":        {year},
		"genres":      {genres},
		"rating":      {rating},
		"poster":      {poster},
	}
}
