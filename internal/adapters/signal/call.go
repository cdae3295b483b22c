package signal

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/domain"
)

type routedPayload struct {
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (ctl *SignalWSController) handleCall(c *WsSignalConn, data []byte) {
	type callPayload struct {
		routedPayload
		Offer string `json:"offer"`
	}
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad call payload")
		return
	}
	to, err := domain.ParsePeerID(p.To)
	if err != nil {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "invalid_target"})
		return
	}
	ctl.Coord.Call(c, domain.PeerID(p.From), to, p.Offer)
}

func (ctl *SignalWSController) handleAnswer(c *WsSignalConn, data []byte) {
	type answerPayload struct {
		routedPayload
		Answer string `json:"answer"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answer payload")
		return
	}
	to, err := domain.ParsePeerID(p.To)
	if err != nil {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "invalid_target"})
		return
	}
	ctl.Coord.Answer(c, domain.PeerID(p.From), to, p.Answer)
}

func (ctl *SignalWSController) handleCandidate(c *WsSignalConn, data []byte) {
	type candidatePayload struct {
		routedPayload
		Candidate     string `json:"candidate"`
		SDPMid        string `json:"sdpMid"`
		SDPMLineIndex uint16 `json:"sdpMLineIndex"`
	}
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad candidate payload")
		return
	}
	to, err := domain.ParsePeerID(p.To)
	if err != nil {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "invalid_target"})
		return
	}

	cand := webrtc.ICECandidateInit{
		Candidate: p.Candidate,
	}
	if p.SDPMid != "" {
		cand.SDPMid = &p.SDPMid
	}
	cand.SDPMLineIndex = &p.SDPMLineIndex

	ctl.Coord.Candidate(c, domain.PeerID(p.From), to, cand)
}

func (ctl *SignalWSController) handleEndCall(c *WsSignalConn, data []byte) {
	var p routedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad end-call payload")
		return
	}
	ctl.Coord.EndCall(c, domain.PeerID(p.From), domain.PeerID(p.To))
}
