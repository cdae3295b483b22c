package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionID string

// SessionState only ever moves calling -> connected. The terminal state
// is absence: sessions are removed from the table, never marked ended.
type SessionState string

const (
	StateCalling   SessionState = "calling"
	StateConnected SessionState = "connected"
)

// CallSession is the record of one call attempt between two peers.
type CallSession struct {
	ID        SessionID    `json:"id"`
	Caller    PeerID       `json:"caller"`
	Callee    PeerID       `json:"callee"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewCallSession allocates a fresh session in the calling state. IDs come
// from a collision-resistant generator so rapid repeated calls between the
// same pair can never collide.
func NewCallSession(caller, callee PeerID) *CallSession {
	return &CallSession{
		ID:        SessionID(uuid.NewString()),
		Caller:    caller,
		Callee:    callee,
		State:     StateCalling,
		CreatedAt: time.Now(),
	}
}
