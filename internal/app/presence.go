package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/core"
	"github.com/akvel/callsig/internal/domain"
)

// Presence is the directory of identities currently reachable over a
// live connection. At most one connection per identity; registering an
// identity that is already present replaces the mapping (last-writer-wins).
// The old connection is not closed here, its adapter owns it.
type Presence struct {
	mu     sync.RWMutex
	byPeer map[domain.PeerID]core.SignalConnection
	byConn map[core.ConnID]domain.PeerID
}

func NewPresence() *Presence {
	return &Presence{
		byPeer: make(map[domain.PeerID]core.SignalConnection),
		byConn: make(map[core.ConnID]domain.PeerID),
	}
}

func (p *Presence) Register(id domain.PeerID, conn core.SignalConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.byPeer[id]; ok && old.ID() != conn.ID() {
		log.Warn().Str("module", "app.presence").Str("peer", string(id)).
			Str("old_conn", string(old.ID())).Str("conn", string(conn.ID())).
			Msg("replacing live registration")
		delete(p.byConn, old.ID())
	}
	// A connection re-registering under a new identity drops its old claim,
	// otherwise the stale identity would keep routing to this connection.
	if prev, ok := p.byConn[conn.ID()]; ok && prev != id {
		log.Info().Str("module", "app.presence").Str("conn", string(conn.ID())).
			Str("old_peer", string(prev)).Str("peer", string(id)).
			Msg("connection switched identity")
		delete(p.byPeer, prev)
	}
	p.byPeer[id] = conn
	p.byConn[conn.ID()] = id
	log.Info().Str("module", "app.presence").Str("peer", string(id)).
		Str("conn", string(conn.ID())).Msg("registered")
}

func (p *Presence) Lookup(id domain.PeerID) (core.SignalConnection, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	conn, ok := p.byPeer[id]
	return conn, ok
}

// PeerOf returns the identity that last registered on the connection.
func (p *Presence) PeerOf(connID core.ConnID) (domain.PeerID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.byConn[connID]
	return id, ok
}

// Unregister removes the identity mapping only if the directory still
// points at this exact connection. A disconnect of a connection that was
// already replaced by a newer registration must not evict the newcomer.
func (p *Presence) Unregister(conn core.SignalConnection) (domain.PeerID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.byConn[conn.ID()]
	if !ok {
		return "", false
	}
	delete(p.byConn, conn.ID())

	cur, ok := p.byPeer[id]
	if !ok || cur.ID() != conn.ID() {
		log.Info().Str("module", "app.presence").Str("peer", string(id)).
			Str("conn", string(conn.ID())).Msg("stale unregister ignored")
		return "", false
	}
	delete(p.byPeer, id)
	log.Info().Str("module", "app.presence").Str("peer", string(id)).
		Str("conn", string(conn.ID())).Msg("unregistered")
	return id, true
}

func (p *Presence) Peers() []domain.PeerID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.PeerID, 0, len(p.byPeer))
	for id := range p.byPeer {
		out = append(out, id)
	}
	return out
}

func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byPeer)
}
