package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// ownershipErrMsg is the single message shown for every denied mutation,
// whether the movie is missing or belongs to someone else. Callers must
// not be able to tell the two apart from the page.
const ownershipErrMsg = "You can only edit your own movies"

// MovieHandler bundles the stores and the optional event publisher for
// the catalog pages. Publish may be nil (e.g. in tests); publish failures
// are logged and never fail the request.
type MovieHandler struct {
	Movies   MovieStore
	Sessions SessionStore
	Publish  func(ctx context.Context, ev queue.CatalogChangedEvent) error
}

func NewMovieHandler(m MovieStore, s SessionStore, publish func(ctx context.Context, ev queue.CatalogChangedEvent) error) *MovieHandler {
	return &MovieHandler{Movies: m, Sessions: s, Publish: publish}
}

// Home renders the full collection, newest first. No authentication and
// no pagination.
func (h *MovieHandler) Home(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	movies, err := h.Movies.ListAll(ctx)
	if err != nil {
		log.Printf("catalog: list failed: %v", err)
		flashError(c, h.Sessions, genericErrMsg)
		movies = nil
	}
	return render(c, h.Sessions, http.StatusOK, "index.html", echo.Map{
		"Movies": movies,
	})
}

// Detail renders a single movie. An absent record redirects to the
// collection silently: no flash, unlike the ownership-deny path.
func (h *MovieHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrMovieNotFound) {
			log.Printf("catalog: detail fetch failed: %v", err)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return render(c, h.Sessions, http.StatusOK, "movie-detail.html", echo.Map{
		"Movie": m,
	})
}

// AddForm renders the empty add-movie form. Every field the template
// reads is supplied, including the empty draft.
func (h *MovieHandler) AddForm(c echo.Context) error {
	return render(c, h.Sessions, http.StatusOK, "add-movie.html", echo.Map{
		"Errors": []string{},
		"Draft":  catalog.MovieDraft{},
	})
}

// AddMovie validates the submission and inserts the record with the
// session user as owner. Validation or store failure re-renders the form
// with the draft echoed back; input is never discarded.
func (h *MovieHandler) AddMovie(c echo.Context) error {
	draft := draftFromForm(c)
	if errs := catalog.ValidateMovie(draft); len(errs) > 0 {
		return render(c, h.Sessions, http.StatusOK, "add-movie.html", echo.Map{
			"Errors": errs,
			"Draft":  draft,
		})
	}

	m := catalog.CoerceMovie(draft)
	m.OwnerID = currentUserID(c)

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Movies.Create(ctx, &m); err != nil {
		// Covers schema rejections (rating out of 1..10) as well as an
		// unavailable store; the page sees one generic message either way.
		log.Printf("catalog: create failed: %v", err)
		return render(c, h.Sessions, http.StatusOK, "add-movie.html", echo.Map{
			"Errors": []string{genericErrMsg},
			"Draft":  draft,
		})
	}

	flashSuccess(c, h.Sessions, "Movie added successfully!")
	h.publishChange(ctx, queue.ActionCreated, &m)
	return c.Redirect(http.StatusSeeOther, "/")
}

// EditForm renders the edit form pre-filled from the stored record, after
// the ownership gate.
func (h *MovieHandler) EditForm(c echo.Context) error {
	m, ok := h.loadAuthorized(c)
	if !ok {
		flashError(c, h.Sessions, ownershipErrMsg)
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return render(c, h.Sessions, http.StatusOK, "edit-movie.html", echo.Map{
		"Errors":  []string{},
		"MovieID": m.ID,
		"Draft":   catalog.DraftFromMovie(m),
	})
}

// UpdateMovie replaces all mutable fields of an owned movie. Unlike the
// create path it coerces the raw submission without presence validation,
// matching the historical behavior of the edit form.
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	m, ok := h.loadAuthorized(c)
	if !ok {
		flashError(c, h.Sessions, ownershipErrMsg)
		return c.Redirect(http.StatusSeeOther, "/")
	}

	updated := catalog.CoerceMovie(draftFromForm(c))

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Movies.Update(ctx, m.ID, &updated); err != nil {
		log.Printf("catalog: update failed: %v", err)
		flashError(c, h.Sessions, genericErrMsg)
		return c.Redirect(http.StatusSeeOther, "/")
	}

	updated.ID = m.ID
	updated.OwnerID = m.OwnerID
	flashSuccess(c, h.Sessions, "Movie updated!")
	h.publishChange(ctx, queue.ActionUpdated, &updated)
	return c.Redirect(http.StatusSeeOther, "/")
}

// DeleteMovie removes an owned movie unconditionally once authorized.
// POST only, so a crawled link can never trigger it.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	m, ok := h.loadAuthorized(c)
	if !ok {
		flashError(c, h.Sessions, ownershipErrMsg)
		return c.Redirect(http.StatusSeeOther, "/")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Movies.Delete(ctx, m.ID); err != nil {
		log.Printf("catalog: delete failed: %v", err)
		flashError(c, h.Sessions, genericErrMsg)
		return c.Redirect(http.StatusSeeOther, "/")
	}

	flashSuccess(c, h.Sessions, "Movie deleted")
	h.publishChange(ctx, queue.ActionDeleted, m)
	return c.Redirect(http.StatusSeeOther, "/")
}

// loadAuthorized fetches the target movie and runs the authorization
// gate. A malformed id, a missing record, an anonymous session and a
// foreign owner all come back as !ok; only the log can tell them apart.
func (h *MovieHandler) loadAuthorized(c echo.Context) (*repository.Movie, bool) {
	var movie *repository.Movie
	if id, err := strconv.ParseUint(c.Param("id"), 10, 64); err == nil {
		ctx, cancel := reqCtx(c)
		defer cancel()
		m, err := h.Movies.GetByID(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrMovieNotFound) {
			log.Printf("catalog: fetch failed: %v", err)
		}
		movie = m
	}
	d := catalog.Authorize(currentUserID(c), movie)
	if !d.Allowed {
		log.Printf("catalog: mutation denied (reason=%d, path=%s)", d.Reason, c.Path())
		return nil, false
	}
	return movie, true
}

// draftFromForm collects the raw movie form fields.
func draftFromForm(c echo.Context) catalog.MovieDraft {
	return catalog.MovieDraft{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Year:        c.FormValue("year"),
		Genres:      c.FormValue("genres"),
		Rating:      c.FormValue("rating"),
		Poster:      c.FormValue("poster"),
	}
}

// publishChange emits a catalog.changed event, best effort.
func (h *MovieHandler) publishChange(ctx context.Context, action string, m *repository.Movie) {
	if h.Publish == nil {
		return
	}
	ev := queue.CatalogChangedEvent{
		Action:     action,
		MovieID:    m.ID,
		MovieName:  m.Name,
		UserID:     m.OwnerID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Publish(ctx, ev); err != nil {
		log.Printf("catalog: publish %s failed: %v", action, err)
	}
}
