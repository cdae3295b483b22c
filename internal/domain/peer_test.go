package domain

import (
	"strings"
	"testing"
)

func TestParsePeerID(t *testing.T) {
	if _, err := ParsePeerID(""); err != ErrPeerIDEmpty {
		t.Fatalf("expected ErrPeerIDEmpty, got %v", err)
	}
	if _, err := ParsePeerID(strings.Repeat("x", MaxPeerIDLen+1)); err != ErrPeerIDTooLong {
		t.Fatalf("expected ErrPeerIDTooLong, got %v", err)
	}
	id, err := ParsePeerID("userA")
	if err != nil || id != "userA" {
		t.Fatalf("expected valid id, got %q err=%v", id, err)
	}
}

func TestNewCallSessionDefaults(t *testing.T) {
	s := NewCallSession("userA", "userB")
	if s.State != StateCalling {
		t.Fatalf("new session must start calling, got %s", s.State)
	}
	if s.ID == "" {
		t.Fatal("session id must be set")
	}
	if s2 := NewCallSession("userA", "userB"); s2.ID == s.ID {
		t.Fatal("session ids must be unique")
	}
}
