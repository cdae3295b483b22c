package core

import (
	"context"

	"github.com/akvel/callsig/internal/domain"
)

// RelayControl is the control-plane contract with the media relay.
// The relay carries and records the actual audio/video; this service
// only tells it when to start, stop and tear down.
//
// Calls may block on network I/O, so the coordinator dispatches them
// off the event path. A completion arriving after the session has been
// deleted must be treated as a no-op by the caller.
type RelayControl interface {
	StartRecording(ctx context.Context, id domain.SessionID) error
	// StopRecording returns an optional artifact reference for the
	// captured recording when the relay provides one.
	StopRecording(ctx context.Context, id domain.SessionID) (artifact string, err error)
	TerminateSession(ctx context.Context, id domain.SessionID) error
}
