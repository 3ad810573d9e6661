// This file defines the Movie model and repository methods for CRUD and
// lookup operations. A Movie belongs to the user that created it; the
// OwnerID column is the sole basis for write authorization, enforced by
// the catalog package rather than by owner-scoped SQL so the pipeline can
// distinguish (internally) between a missing record and a foreign one.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Movie represents a catalog record persisted in the `movies` table.
// Rating is bounded to 1..10 by a schema CHECK constraint; the application
// validator checks presence only, so an out-of-range value surfaces here
// as a driver error.
type Movie struct {
	ID          uint64
	OwnerID     uint64
	Name        string
	Description string
	Year        int
	Genres      string
	Rating      int
	Poster      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a new movie. On success the ID, CreatedAt and UpdatedAt
// fields are populated so callers receive a fully populated record.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	const qInsert = `INSERT INTO movies (owner_id, name, description, year, genres, rating, poster)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		m.OwnerID, m.Name, m.Description, m.Year, m.Genres, m.Rating, m.Poster)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp fields.
	const qSelect = "SELECT created_at, updated_at FROM movies WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches a movie by its ID regardless of owner. It returns
// ErrMovieNotFound if no row is found. Ownership is checked by the caller
// after the fetch, never here.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT id, owner_id, name, description, year, genres, rating, poster, created_at, updated_at
	           FROM movies WHERE id = ?`
	var m Movie
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.OwnerID, &m.Name, &m.Description, &m.Year,
		&m.Genres, &m.Rating, &m.Poster, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListAll returns every movie ordered by creation time, newest first.
// The id tiebreak keeps the order stable for rows created in the same
// second. No pagination: the full collection is returned on every call.
func (r *MovieRepo) ListAll(ctx context.Context) ([]*Movie, error) {
	const q = `SELECT id, owner_id, name, description, year, genres, rating, poster, created_at, updated_at
	           FROM movies ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Movie
	for rows.Next() {
		m := new(Movie)
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Name, &m.Description, &m.Year,
			&m.Genres, &m.Rating, &m.Poster, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces all mutable fields of the movie identified by id. The
// owner reference and creation timestamp are never touched. It returns
// sql.ErrNoRows when no row matched; the connection uses found-rows
// semantics, so rewriting identical values still counts as a match.
func (r *MovieRepo) Update(ctx context.Context, id uint64, m *Movie) error {
	const q = `UPDATE movies
	           SET name = ?, description = ?, year = ?, genres = ?, rating = ?, poster = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		m.Name, m.Description, m.Year, m.Genres, m.Rating, m.Poster, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a movie by id. There is no soft delete. It returns
// sql.ErrNoRows when the movie does not exist.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
