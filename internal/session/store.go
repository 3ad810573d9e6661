// Package session implements the server-side session collaborator on top
// of Redis. A session is an opaque random identifier carried in a cookie;
// Redis holds the bound user id plus two one-shot flash channels (success
// and error) that are drained exactly once on the next rendered page.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CookieName is the name of the HTTP cookie carrying the session id.
const CookieName = "catalog_session"

// Store persists sessions and flash messages in Redis. All keys share the
// session TTL so abandoned anonymous sessions expire on their own.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore builds a Store with the given TTL in hours.
func NewStore(rdb *redis.Client, ttlHours int) *Store {
	return &Store{rdb: rdb, ttl: time.Duration(ttlHours) * time.Hour}
}

// NewSessionID returns a cryptographically secure random session id
// (32 bytes, hex encoded). The raw id is the cookie value; nothing
// derived from user data goes into it.
func NewSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func sessionKey(sid string) string      { return "session:" + sid }
func flashSuccessKey(sid string) string { return "flash:success:" + sid }
func flashErrorKey(sid string) string   { return "flash:error:" + sid }

// UserID returns the user id bound to the session, or zero when the
// session is anonymous or unknown.
func (s *Store) UserID(ctx context.Context, sid string) (uint64, error) {
	v, err := s.rdb.Get(ctx, sessionKey(sid)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, nil // treat a corrupted value as anonymous
	}
	return id, nil
}

// Bind associates the session with a user id, refreshing the TTL. Called
// at login; the session id itself is unchanged so flashes set before the
// login survive into the authenticated session.
func (s *Store) Bind(ctx context.Context, sid string, userID uint64) error {
	return s.rdb.Set(ctx, sessionKey(sid), strconv.FormatUint(userID, 10), s.ttl).Err()
}

// Destroy removes the session binding and any pending flashes. Used at
// logout; it is unconditional and succeeds even for unknown sessions.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid), flashSuccessKey(sid), flashErrorKey(sid)).Err()
}

// FlashSuccess queues a success message for the next rendered page.
func (s *Store) FlashSuccess(ctx context.Context, sid, msg string) error {
	return s.push(ctx, flashSuccessKey(sid), msg)
}

// FlashError queues an error message for the next rendered page.
func (s *Store) FlashError(ctx context.Context, sid, msg string) error {
	return s.push(ctx, flashErrorKey(sid), msg)
}

func (s *Store) push(ctx context.Context, key, msg string) error {
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, msg)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// DrainFlashes reads and clears both flash channels in one round trip.
// Each message is returned at most once; a second drain yields nothing.
func (s *Store) DrainFlashes(ctx context.Context, sid string) (success, errors []string, err error) {
	pipe := s.rdb.TxPipeline()
	sCmd := pipe.LRange(ctx, flashSuccessKey(sid), 0, -1)
	eCmd := pipe.LRange(ctx, flashErrorKey(sid), 0, -1)
	pipe.Del(ctx, flashSuccessKey(sid), flashErrorKey(sid))
	if _, err = pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, nil, err
	}
	return sCmd.Val(), eCmd.Val(), nil
}
