// Package queue defines the film change events carried over RabbitMQ and the
// consumer that records them in the audit log.
package queue

// Actions carried in FilmChangedEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// FilmChangedEvent is published after a film write has committed. Title is
// empty for deletions.
type FilmChangedEvent struct {
	Action     string `json:"action"`
	FilmID     uint64 `json:"film_id"`
	Title      string `json:"title,omitempty"`
	ActorID    uint64 `json:"actor_id"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurred_at"`
}
