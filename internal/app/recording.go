package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/core"
	"github.com/akvel/callsig/internal/domain"
)

// StartRecording asks the relay to record the sender's active session.
// Participants are only told the recording started after the relay
// confirms; a relay failure goes back to the requester alone.
func (c *Coordinator) StartRecording(conn core.SignalConnection, from, to domain.PeerID) {
	c.Metrics.event("start-recording-request")
	from = c.resolveSender(conn.ID(), from)

	sess, ok := c.Sessions.ByConn(conn.ID())
	if !ok {
		log.Warn().Str("module", "app.recording").Str("from", string(from)).
			Msg("start-recording without active session, ignoring")
		return
	}
	if c.Relay == nil {
		log.Warn().Str("module", "app.recording").Msg("no relay configured")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.relayTimeout())
		defer cancel()
		err := c.Relay.StartRecording(ctx, sess.ID)
		c.finishRecording("start", sess, from, conn, "", err)
	}()
}

// StopRecording mirrors StartRecording; a confirmed stop carries the
// relay's artifact reference to both participants when one is returned.
func (c *Coordinator) StopRecording(conn core.SignalConnection, from, to domain.PeerID) {
	c.Metrics.event("stop-recording-request")
	from = c.resolveSender(conn.ID(), from)

	sess, ok := c.Sessions.ByConn(conn.ID())
	if !ok {
		log.Warn().Str("module", "app.recording").Str("from", string(from)).
			Msg("stop-recording without active session, ignoring")
		return
	}
	if c.Relay == nil {
		log.Warn().Str("module", "app.recording").Msg("no relay configured")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.relayTimeout())
		defer cancel()
		artifact, err := c.Relay.StopRecording(ctx, sess.ID)
		c.finishRecording("stop", sess, from, conn, artifact, err)
	}()
}

// finishRecording runs on the dispatch goroutine once the relay call
// completes. The session may have died in the meantime; that makes the
// completion a no-op, not an error.
func (c *Coordinator) finishRecording(op string, sess domain.CallSession, from domain.PeerID, requester core.SignalConnection, artifact string, err error) {
	if err != nil {
		c.Metrics.relayFailure(op)
		log.Error().Err(err).Str("module", "app.recording").Str("op", op).
			Str("session", string(sess.ID)).Msg("relay recording call failed")
		c.send(requester, core.RecordingFailed{Type: core.MsgRecordingFailed, Op: op, Reason: err.Error()})
		return
	}

	if !c.Sessions.Exists(sess.ID) {
		log.Info().Str("module", "app.recording").Str("op", op).
			Str("session", string(sess.ID)).Msg("recording confirmed for dead session, ignoring")
		return
	}

	msgType := core.MsgStartRecording
	if op == "stop" {
		msgType = core.MsgStopRecording
	}
	signal := core.RecordingSignal{Type: msgType, From: from, Artifact: artifact}
	for _, id := range []domain.PeerID{sess.Caller, sess.Callee} {
		if peer, ok := c.Presence.Lookup(id); ok {
			c.send(peer, signal)
		}
	}
	log.Info().Str("module", "app.recording").Str("op", op).
		Str("session", string(sess.ID)).Msg("recording signal delivered")
}
