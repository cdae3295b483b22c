package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/core"
	"github.com/akvel/callsig/internal/domain"
)

const defaultRelayTimeout = 10 * time.Second

// Coordinator owns the presence directory and the session table and is
// the only component allowed to mutate them. Handlers run on the
// connection's read goroutine, so events from one connection are always
// processed in order; the stores serialize access across connections.
//
// Relay control calls never run on the event path: they are dispatched
// on their own goroutine and their completions tolerate the session
// having been deleted in the meantime.
type Coordinator struct {
	Presence *Presence
	Sessions *SessionTable
	Relay    core.RelayControl
	Calls    *CallRateLimiter
	Metrics  *Metrics

	RelayTimeout time.Duration
}

// Register claims an identity for the connection. Overwriting a live
// registration is allowed, last writer wins.
func (c *Coordinator) Register(conn core.SignalConnection, id domain.PeerID) {
	c.Metrics.event("register")
	c.Presence.Register(id, conn)
	c.updateGauges()
}

// Call starts a session towards a present callee and hands both sides
// one shared session reference. A callee that is not present drops the
// event: there is no negative-acknowledgment channel in this protocol.
func (c *Coordinator) Call(conn core.SignalConnection, from, to domain.PeerID, offer string) {
	c.Metrics.event("call")
	from = c.resolveSender(conn.ID(), from)

	if c.Calls != nil && !c.Calls.Allow(from) {
		log.Warn().Str("module", "app.coordinator").Str("from", string(from)).
			Msg("call rate limit exceeded, dropping")
		return
	}

	target, ok := c.Presence.Lookup(to)
	if !ok {
		log.Info().Str("module", "app.coordinator").Str("from", string(from)).
			Str("to", string(to)).Msg("call target not present, dropping")
		return
	}

	// A caller that is already in a session cannot be in two at once:
	// tear the old one down before creating the new record.
	if old, ok := c.Sessions.DeleteByConn(conn.ID()); ok {
		log.Warn().Str("module", "app.coordinator").Str("session", string(old.ID)).
			Str("from", string(from)).Msg("caller was mid-session, tearing down")
		c.terminateAsync(old.ID)
	}

	sess := c.Sessions.Create(from, to, conn.ID(), target.ID())
	c.Metrics.sessionCreated()

	c.send(target, core.IncomingCall{Type: core.MsgIncomingCall, From: from, Offer: offer})
	c.send(target, core.CallSessionInfo{Type: core.MsgCallSessionInfo, SessionID: sess.ID})
	c.updateGauges()
}

// Answer relays the answer and, when the sending connection has a
// calling session, marks it connected. An answer with no resolvable
// session is still relayed best-effort, only the transition is skipped.
func (c *Coordinator) Answer(conn core.SignalConnection, from, to domain.PeerID, answer string) {
	c.Metrics.event("answer")
	from = c.resolveSender(conn.ID(), from)

	target, ok := c.Presence.Lookup(to)
	if !ok {
		log.Info().Str("module", "app.coordinator").Str("from", string(from)).
			Str("to", string(to)).Msg("answer target not present, dropping")
		return
	}
	c.send(target, core.CallAnswered{Type: core.MsgCallAnswered, From: from, Answer: answer})

	if sess, transitioned := c.Sessions.Connect(conn.ID()); transitioned {
		log.Info().Str("module", "app.coordinator").Str("session", string(sess.ID)).
			Msg("call answered")
	} else {
		log.Info().Str("module", "app.coordinator").Str("from", string(from)).
			Msg("answer without calling session, relayed only")
	}
}

// Candidate is a pure relay; candidates may arrive before negotiation
// finishes, so no session is required.
func (c *Coordinator) Candidate(conn core.SignalConnection, from, to domain.PeerID, ci webrtc.ICECandidateInit) {
	c.Metrics.event("ice-candidate")
	from = c.resolveSender(conn.ID(), from)

	target, ok := c.Presence.Lookup(to)
	if !ok {
		log.Info().Str("module", "app.coordinator").Str("from", string(from)).
			Str("to", string(to)).Msg("candidate target not present, dropping")
		return
	}
	c.send(target, core.NewCandidateMessage(from, ci))
}

// EndCall deletes the sender's session and notifies the other party.
// Ending a call that no longer exists is a complete no-op, not an
// error, so repeated end-calls have no further observable effect.
func (c *Coordinator) EndCall(conn core.SignalConnection, from, to domain.PeerID) {
	c.Metrics.event("end-call")
	from = c.resolveSender(conn.ID(), from)

	sess, ok := c.Sessions.DeleteByConn(conn.ID())
	if !ok {
		log.Info().Str("module", "app.coordinator").Str("from", string(from)).
			Msg("end-call without session, ignoring")
		return
	}

	if target, ok := c.Presence.Lookup(to); ok {
		c.send(target, core.CallEnded{Type: core.MsgCallEnded, From: from})
	} else {
		log.Info().Str("module", "app.coordinator").Str("from", string(from)).
			Str("to", string(to)).Msg("end-call target not present")
	}

	c.terminateAsync(sess.ID)
	c.updateGauges()
}

// Disconnect is the implicit cancellation of everything the connection
// was part of: its registration (guarded against stale eviction) and
// every session its identity participates in.
func (c *Coordinator) Disconnect(conn core.SignalConnection) {
	c.Metrics.event("disconnect")

	var removed []domain.CallSession
	if sess, ok := c.Sessions.DeleteByConn(conn.ID()); ok {
		removed = append(removed, sess)
	}

	if peer, ok := c.Presence.Unregister(conn); ok {
		removed = append(removed, c.Sessions.DeleteByPeer(peer)...)
		if c.Calls != nil {
			c.Calls.Forget(peer)
		}
		log.Info().Str("module", "app.coordinator").Str("peer", string(peer)).
			Int("sessions", len(removed)).Msg("peer disconnected")
	}

	for _, sess := range removed {
		c.terminateAsync(sess.ID)
	}
	c.updateGauges()
}

func (c *Coordinator) PresentPeers() []domain.PeerID {
	return c.Presence.Peers()
}

func (c *Coordinator) ActiveSessions() []core.SessionInfo {
	return c.Sessions.Snapshot()
}

// resolveSender prefers the registered identity of the connection over
// whatever the payload claims; a mismatch is logged and the event runs
// under the registered identity.
func (c *Coordinator) resolveSender(connID core.ConnID, claimed domain.PeerID) domain.PeerID {
	registered, ok := c.Presence.PeerOf(connID)
	if !ok {
		return claimed
	}
	if claimed != "" && claimed != registered {
		log.Warn().Str("module", "app.coordinator").Str("claimed", string(claimed)).
			Str("registered", string(registered)).Msg("sender identity mismatch")
	}
	return registered
}

func (c *Coordinator) send(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("marshal outbound")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").
			Str("conn", string(conn.ID())).Msg("outbound send failed")
	}
}

// terminateAsync tells the relay to drop media for a session that no
// longer exists on our side. Best effort: the participants are already
// gone, a failure is only logged.
func (c *Coordinator) terminateAsync(id domain.SessionID) {
	if c.Relay == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.relayTimeout())
		defer cancel()
		if err := c.Relay.TerminateSession(ctx, id); err != nil {
			c.Metrics.relayFailure("terminate")
			log.Warn().Err(err).Str("module", "app.coordinator").
				Str("session", string(id)).Msg("relay terminate failed")
		}
	}()
}

func (c *Coordinator) relayTimeout() time.Duration {
	if c.RelayTimeout > 0 {
		return c.RelayTimeout
	}
	return defaultRelayTimeout
}

func (c *Coordinator) updateGauges() {
	c.Metrics.gauges(c.Sessions.Count(), c.Presence.Count())
}
