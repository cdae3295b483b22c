package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/domain"
)

func (ctl *SignalWSController) handleRegister(c *WsSignalConn, data []byte) {
	type registerPayload struct {
		Type string `json:"type"`
		Role string `json:"role"`
	}
	var p registerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad register payload")
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "bad_payload"})
		return
	}

	id, err := domain.ParsePeerID(p.Role)
	if err != nil {
		ctl.sendJSON(c, map[string]any{"type": "error", "error": "invalid_role"})
		return
	}

	log.Info().Str("module", "signal").Str("role", p.Role).Str("conn", string(c.id)).Msg("register")
	ctl.Coord.Register(c, id)
	ctl.sendJSON(c, map[string]any{"type": "registered", "role": id})
}

func (ctl *SignalWSController) handleWhoAmI(c *WsSignalConn) {
	resp := struct {
		Type    string           `json:"type"`
		Role    domain.PeerID    `json:"role,omitempty"`
		Session domain.SessionID `json:"session,omitempty"`
	}{
		Type: "whoami",
	}
	if id, ok := ctl.Coord.Presence.PeerOf(c.id); ok {
		resp.Role = id
	}
	if sess, ok := ctl.Coord.Sessions.ByConn(c.id); ok {
		resp.Session = sess.ID
	}
	ctl.sendJSON(c, resp)
}

func (ctl *SignalWSController) handlePing(c *WsSignalConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(c, resp)
}
