package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// RegisterRoutes registers routes that need neither a session nor
// authentication. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers all page routes. Every page runs the
// session-loading middleware so handlers always see a session id and a
// user id (zero when anonymous). Mutating movie routes additionally
// require a login; the ownership gate runs inside the handlers, after
// the target record has been fetched.
func RegisterCatalog(e *echo.Echo, a *handler.AuthHandler, m *handler.MovieHandler, store middleware.SessionStore, ttlHours int) {
	load := middleware.LoadSession(store, ttlHours)
	login := middleware.RequireLogin(store)

	// Public pages: collection, detail and the auth forms.
	e.GET("/", m.Home, load)
	e.GET("/movie/:id", m.Detail, load)
	e.GET("/register", a.RegisterForm, load)
	e.POST("/register", a.Register, load)
	e.GET("/login", a.LoginForm, load)
	e.POST("/login", a.Login, load)
	e.GET("/logout", a.Logout, load)

	// Owner-scoped pages. Deletion is a POST, never a GET.
	e.GET("/add", m.AddForm, load, login)
	e.POST("/add", m.AddMovie, load, login)
	e.GET("/edit/:id", m.EditForm, load, login)
	e.POST("/edit/:id", m.UpdateMovie, load, login)
	e.POST("/delete/:id", m.DeleteMovie, load, login)
}
