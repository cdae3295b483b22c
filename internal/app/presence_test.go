package app

import "testing"

func TestRegisterLastWriterWins(t *testing.T) {
	p := NewPresence()
	conn1 := newFakeConn("conn-1")
	conn2 := newFakeConn("conn-2")

	p.Register("userA", conn1)
	p.Register("userA", conn2)

	got, ok := p.Lookup("userA")
	if !ok || got.ID() != conn2.ID() {
		t.Fatalf("expected conn-2 to win, got %v ok=%v", got, ok)
	}
	if _, ok := p.PeerOf(conn1.ID()); ok {
		t.Fatal("replaced connection must lose its back-reference")
	}
}

func TestUnregisterOnlyEvictsOwnMapping(t *testing.T) {
	p := NewPresence()
	conn1 := newFakeConn("conn-1")
	conn2 := newFakeConn("conn-2")
	p.Register("userA", conn1)
	p.Register("userA", conn2)

	if _, ok := p.Unregister(conn1); ok {
		t.Fatal("stale connection must not unregister the identity")
	}
	if got, ok := p.Lookup("userA"); !ok || got.ID() != conn2.ID() {
		t.Fatal("newer registration must survive a stale unregister")
	}

	id, ok := p.Unregister(conn2)
	if !ok || id != "userA" {
		t.Fatalf("current connection should unregister, got %q ok=%v", id, ok)
	}
	if _, ok := p.Lookup("userA"); ok {
		t.Fatal("identity should be gone")
	}
}

func TestConnectionSwitchingIdentityDropsOldClaim(t *testing.T) {
	p := NewPresence()
	conn := newFakeConn("conn-1")
	p.Register("userA", conn)
	p.Register("userB", conn)

	if _, ok := p.Lookup("userA"); ok {
		t.Fatal("old identity must not keep routing to the connection")
	}
	if got, ok := p.Lookup("userB"); !ok || got.ID() != conn.ID() {
		t.Fatal("new identity should map to the connection")
	}
	if id, _ := p.PeerOf(conn.ID()); id != "userB" {
		t.Fatalf("back-reference should follow the last registration, got %q", id)
	}
}

func TestPeersSnapshot(t *testing.T) {
	p := NewPresence()
	p.Register("userA", newFakeConn("conn-1"))
	p.Register("userB", newFakeConn("conn-2"))

	peers := p.Peers()
	if len(peers) != 2 || p.Count() != 2 {
		t.Fatalf("expected two present peers, got %v", peers)
	}
}
