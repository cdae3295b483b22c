package core

import (
	"github.com/pion/webrtc/v4"

	"github.com/akvel/callsig/internal/domain"
)

// Outbound message types pushed to clients over the signal transport.
const (
	MsgIncomingCall    = "incoming-call"
	MsgCallSessionInfo = "call-session-info"
	MsgCallAnswered    = "call-answered"
	MsgICECandidate    = "ice-candidate"
	MsgCallEnded       = "call-ended"
	MsgStartRecording  = "start-recording-signal"
	MsgStopRecording   = "stop-recording-signal"
	MsgRecordingFailed = "recording-failed"
)

type IncomingCall struct {
	Type  string        `json:"type"`
	From  domain.PeerID `json:"from"`
	Offer string        `json:"offer"`
}

type CallSessionInfo struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
}

type CallAnswered struct {
	Type   string        `json:"type"`
	From   domain.PeerID `json:"from"`
	Answer string        `json:"answer"`
}

type CandidateMessage struct {
	Type          string        `json:"type"`
	From          domain.PeerID `json:"from"`
	Candidate     string        `json:"candidate"`
	SDPMid        string        `json:"sdpMid,omitempty"`
	SDPMLineIndex uint16        `json:"sdpMLineIndex,omitempty"`
}

// NewCandidateMessage flattens a pion candidate into the wire shape
// clients expect (optional fields dereferenced, zero when absent).
func NewCandidateMessage(from domain.PeerID, ci webrtc.ICECandidateInit) CandidateMessage {
	msg := CandidateMessage{
		Type:      MsgICECandidate,
		From:      from,
		Candidate: ci.Candidate,
	}
	if ci.SDPMid != nil {
		msg.SDPMid = *ci.SDPMid
	}
	if ci.SDPMLineIndex != nil {
		msg.SDPMLineIndex = *ci.SDPMLineIndex
	}
	return msg
}

type CallEnded struct {
	Type string        `json:"type"`
	From domain.PeerID `json:"from"`
}

type RecordingSignal struct {
	Type     string        `json:"type"`
	From     domain.PeerID `json:"from"`
	Artifact string        `json:"artifact,omitempty"`
}

type RecordingFailed struct {
	Type   string `json:"type"`
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

// SessionInfo is a read-only view of an active session for APIs.
type SessionInfo struct {
	ID     domain.SessionID    `json:"id"`
	Caller domain.PeerID       `json:"caller"`
	Callee domain.PeerID       `json:"callee"`
	State  domain.SessionState `json:"state"`
}
