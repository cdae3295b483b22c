package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/core"
	"github.com/akvel/callsig/internal/domain"
)

type sessionEntry struct {
	sess       *domain.CallSession
	callerConn core.ConnID
	calleeConn core.ConnID
}

// SessionTable owns every call-session record plus the conn -> session
// index. The index is a cache for O(1) cleanup on disconnect; it is
// updated in the same critical section as the table and never survives
// the session it points at.
type SessionTable struct {
	mu     sync.RWMutex
	byID   map[domain.SessionID]*sessionEntry
	byConn map[core.ConnID]domain.SessionID
}

func NewSessionTable() *SessionTable {
	return &SessionTable{
		byID:   make(map[domain.SessionID]*sessionEntry),
		byConn: make(map[core.ConnID]domain.SessionID),
	}
}

// Create allocates a calling session and binds both participants'
// connections to it, so later events from either side resolve without
// re-supplying the id.
func (t *SessionTable) Create(caller, callee domain.PeerID, callerConn, calleeConn core.ConnID) domain.CallSession {
	sess := domain.NewCallSession(caller, callee)

	t.mu.Lock()
	t.byID[sess.ID] = &sessionEntry{sess: sess, callerConn: callerConn, calleeConn: calleeConn}
	t.byConn[callerConn] = sess.ID
	t.byConn[calleeConn] = sess.ID
	t.mu.Unlock()

	log.Info().Str("module", "app.sessions").Str("session", string(sess.ID)).
		Str("caller", string(caller)).Str("callee", string(callee)).Msg("session created")
	return *sess
}

// ByConn resolves the session the connection is currently part of.
func (t *SessionTable) ByConn(connID core.ConnID) (domain.CallSession, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sid, ok := t.byConn[connID]
	if !ok {
		return domain.CallSession{}, false
	}
	e, ok := t.byID[sid]
	if !ok {
		return domain.CallSession{}, false
	}
	return *e.sess, true
}

func (t *SessionTable) Get(id domain.SessionID) (domain.CallSession, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.byID[id]
	if !ok {
		return domain.CallSession{}, false
	}
	return *e.sess, true
}

func (t *SessionTable) Exists(id domain.SessionID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byID[id]
	return ok
}

// Connect transitions the session bound to the connection from calling
// to connected. Returns the session and whether a transition happened;
// a session already connected, or no session at all, transitions nothing.
func (t *SessionTable) Connect(connID core.ConnID) (domain.CallSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sid, ok := t.byConn[connID]
	if !ok {
		return domain.CallSession{}, false
	}
	e, ok := t.byID[sid]
	if !ok || e.sess.State != domain.StateCalling {
		return domain.CallSession{}, false
	}
	e.sess.State = domain.StateConnected
	log.Info().Str("module", "app.sessions").Str("session", string(sid)).Msg("session connected")
	return *e.sess, true
}

// DeleteByConn removes the session the connection is part of, if any.
// Idempotent: a second delete for the same session is a no-op.
func (t *SessionTable) DeleteByConn(connID core.ConnID) (domain.CallSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sid, ok := t.byConn[connID]
	if !ok {
		return domain.CallSession{}, false
	}
	return t.deleteLocked(sid)
}

// Delete removes the session by id, if it still exists.
func (t *SessionTable) Delete(id domain.SessionID) (domain.CallSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deleteLocked(id)
}

// DeleteByPeer removes every session the identity participates in,
// whichever side it is on, and returns the removed records.
func (t *SessionTable) DeleteByPeer(id domain.PeerID) []domain.CallSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	var victims []domain.SessionID
	for sid, e := range t.byID {
		if e.sess.Caller == id || e.sess.Callee == id {
			victims = append(victims, sid)
		}
	}
	out := make([]domain.CallSession, 0, len(victims))
	for _, sid := range victims {
		if sess, ok := t.deleteLocked(sid); ok {
			out = append(out, sess)
		}
	}
	return out
}

func (t *SessionTable) deleteLocked(sid domain.SessionID) (domain.CallSession, bool) {
	e, ok := t.byID[sid]
	if !ok {
		return domain.CallSession{}, false
	}
	delete(t.byID, sid)
	// Only clear index entries still pointing at this session; either
	// connection may already be bound to a newer one.
	if cur, ok := t.byConn[e.callerConn]; ok && cur == sid {
		delete(t.byConn, e.callerConn)
	}
	if cur, ok := t.byConn[e.calleeConn]; ok && cur == sid {
		delete(t.byConn, e.calleeConn)
	}
	log.Info().Str("module", "app.sessions").Str("session", string(sid)).Msg("session deleted")
	return *e.sess, true
}

func (t *SessionTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

func (t *SessionTable) Snapshot() []core.SessionInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.SessionInfo, 0, len(t.byID))
	for _, e := range t.byID {
		out = append(out, core.SessionInfo{
			ID:     e.sess.ID,
			Caller: e.sess.Caller,
			Callee: e.sess.Callee,
			State:  e.sess.State,
		})
	}
	return out
}
