// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const MaxPeerIDLen = 64

var (
	ErrPeerIDEmpty   = errors.New("peer id empty")
	ErrPeerIDTooLong = errors.New("peer id too long")
)

// PeerID is the label a client claims for itself when registering.
// Nothing guarantees global uniqueness; the last registration wins.
type PeerID string

// ParsePeerID validates a raw identity string from the wire.
func ParsePeerID(raw string) (PeerID, error) {
	if len(raw) == 0 {
		return "", ErrPeerIDEmpty
	}
	if len(raw) > MaxPeerIDLen {
		return "", ErrPeerIDTooLong
	}
	return PeerID(raw), nil
}
