package core

// Frame is a raw encoded signal payload.
type Frame []byte

// ConnID identifies one live transport connection for the lifetime of
// that connection. A peer that reconnects gets a new ConnID.
type ConnID string

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it. The coordinator
// only looks connections up and writes to them.
type SignalConnection interface {
	ID() ConnID
	TrySend(Frame) error
	Close()
}
