package handler_test

// In-memory fakes for the store collaborators, used to exercise the page
// pipeline without MySQL, Redis or a broker.

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

type fakeUsers struct {
	mu     sync.Mutex
	byName map[string]repository.User
	nextID uint64
	getErr error // simulates a store outage on lookup
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]repository.User{}, nextID: 1}
}

func (f *fakeUsers) Create(_ context.Context, username, password string, cost int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	username = strings.ToLower(strings.TrimSpace(username))
	if _, ok := f.byName[username]; ok {
		return 0, repository.ErrUsernameExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := f.nextID
	f.nextID++
	f.byName[username] = repository.User{ID: id, Username: username, PasswordHash: hash}
	return id, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return repository.User{}, f.getErr
	}
	u, ok := f.byName[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeMovies struct {
	mu        sync.Mutex
	byID      map[uint64]*repository.Movie
	nextID    uint64
	now       time.Time
	createErr error // simulates schema rejections / store outages
}

func newFakeMovies() *fakeMovies {
	return &fakeMovies{byID: map[uint64]*repository.Movie{}, nextID: 1, now: time.Unix(1_700_000_000, 0)}
}

func (f *fakeMovies) Create(_ context.Context, m *repository.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = f.nextID
	f.nextID++
	f.now = f.now.Add(time.Second)
	m.CreatedAt = f.now
	m.UpdatedAt = f.now
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMovies) GetByID(_ context.Context, id uint64) (*repository.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMovies) ListAll(_ context.Context) ([]*repository.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*repository.Movie, 0, len(f.byID))
	for _, m := range f.byID {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeMovies) Update(_ context.Context, id uint64, m *repository.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	cur.Name = m.Name
	cur.Description = m.Description
	cur.Year = m.Year
	cur.Genres = m.Genres
	cur.Rating = m.Rating
	cur.Poster = m.Poster
	cur.UpdatedAt = f.now
	return nil
}

func (f *fakeMovies) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

// fakeSessions mimics the Redis session store: user-id bindings plus
// drain-once flash channels, keyed by session id.
type fakeSessions struct {
	mu      sync.Mutex
	users   map[string]uint64
	success map[string][]string
	errors  map[string][]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		users:   map[string]uint64{},
		success: map[string][]string{},
		errors:  map[string][]string{},
	}
}

func (f *fakeSessions) UserID(_ context.Context, sid string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[sid], nil
}

func (f *fakeSessions) Bind(_ context.Context, sid string, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[sid] = userID
	return nil
}

func (f *fakeSessions) Destroy(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, sid)
	delete(f.success, sid)
	delete(f.errors, sid)
	return nil
}

func (f *fakeSessions) FlashSuccess(_ context.Context, sid, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.success[sid] = append(f.success[sid], msg)
	return nil
}

func (f *fakeSessions) FlashError(_ context.Context, sid, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[sid] = append(f.errors[sid], msg)
	return nil
}

func (f *fakeSessions) DrainFlashes(_ context.Context, sid string) ([]string, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, e := f.success[sid], f.errors[sid]
	delete(f.success, sid)
	delete(f.errors, sid)
	return s, e, nil
}

// pendingError peeks at the queued error flashes without draining them.
func (f *fakeSessions) pendingErrors(sid string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errors[sid]...)
}

// pendingSuccess peeks at the queued success flashes without draining them.
func (f *fakeSessions) pendingSuccess(sid string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.success[sid]...)
}
