// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// Actions carried by CatalogChangedEvent.
const (
	ActionCreated = "movie.created"
	ActionUpdated = "movie.updated"
	ActionDeleted = "movie.deleted"
)

// CatalogChangedEvent is published after every successful catalog
// mutation. It contains enough information for downstream consumers to
// log or trigger analytics without querying the primary database.
type CatalogChangedEvent struct {
	Action     string `json:"action"`
	MovieID    uint64 `json:"movie_id"`
	MovieName  string `json:"movie_name"`
	UserID     uint64 `json:"user_id"`
	OccurredAt string `json:"occurred_at"`
}
