package app

import (
	"testing"

	"github.com/akvel/callsig/internal/domain"
)

func TestSessionIDsAreUniquePerPair(t *testing.T) {
	tbl := NewSessionTable()
	s1 := tbl.Create("userA", "userB", "conn-a", "conn-b")
	tbl.DeleteByConn("conn-a")
	s2 := tbl.Create("userA", "userB", "conn-a", "conn-b")

	if s1.ID == s2.ID {
		t.Fatal("repeated calls between the same pair must get distinct ids")
	}
}

func TestConnectOnlyMovesForward(t *testing.T) {
	tbl := NewSessionTable()
	tbl.Create("userA", "userB", "conn-a", "conn-b")

	if _, ok := tbl.Connect("conn-b"); !ok {
		t.Fatal("calling session should transition on connect")
	}
	if _, ok := tbl.Connect("conn-b"); ok {
		t.Fatal("a connected session must not transition again")
	}
	sess, _ := tbl.ByConn("conn-a")
	if sess.State != domain.StateConnected {
		t.Fatalf("state should stay connected, got %s", sess.State)
	}
}

func TestConnectWithoutSession(t *testing.T) {
	tbl := NewSessionTable()
	if _, ok := tbl.Connect("nobody"); ok {
		t.Fatal("connect without a bound session must be a no-op")
	}
}

func TestDeleteClearsBothConnBindings(t *testing.T) {
	tbl := NewSessionTable()
	tbl.Create("userA", "userB", "conn-a", "conn-b")

	if _, ok := tbl.DeleteByConn("conn-b"); !ok {
		t.Fatal("callee side should resolve and delete the session")
	}
	if _, ok := tbl.ByConn("conn-a"); ok {
		t.Fatal("caller binding must die with the session")
	}
	if _, ok := tbl.DeleteByConn("conn-a"); ok {
		t.Fatal("second delete must be a no-op")
	}
	if tbl.Count() != 0 {
		t.Fatalf("table should be empty, has %d", tbl.Count())
	}
}

func TestDeleteByPeerScansBothSides(t *testing.T) {
	tbl := NewSessionTable()
	tbl.Create("userA", "userB", "conn-a", "conn-b")
	tbl.Create("userC", "userA", "conn-c", "conn-a2")

	removed := tbl.DeleteByPeer("userA")
	if len(removed) != 2 {
		t.Fatalf("expected both sessions removed, got %d", len(removed))
	}
	if tbl.Count() != 0 {
		t.Fatal("table should be empty")
	}
}

func TestDeleteKeepsNewerConnBinding(t *testing.T) {
	tbl := NewSessionTable()
	old := tbl.Create("userA", "userB", "conn-a", "conn-b")

	// conn-a moved on to a newer session before the old record died.
	fresh := tbl.Create("userA", "userC", "conn-a", "conn-c")
	if _, ok := tbl.Delete(old.ID); !ok {
		t.Fatal("old session should still be deletable")
	}
	sess, ok := tbl.ByConn("conn-a")
	if !ok || sess.ID != fresh.ID {
		t.Fatal("deleting an old session must not clear a newer binding")
	}
}

func TestSnapshot(t *testing.T) {
	tbl := NewSessionTable()
	tbl.Create("userA", "userB", "conn-a", "conn-b")
	snap := tbl.Snapshot()
	if len(snap) != 1 || snap[0].Caller != "userA" || snap[0].State != domain.StateCalling {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
