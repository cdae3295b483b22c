package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/domain"
)

func (ctl *SignalWSController) handleStartRecording(c *WsSignalConn, data []byte) {
	var p routedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad start-recording payload")
		return
	}
	ctl.Coord.StartRecording(c, domain.PeerID(p.From), domain.PeerID(p.To))
}

func (ctl *SignalWSController) handleStopRecording(c *WsSignalConn, data []byte) {
	var p routedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad stop-recording payload")
		return
	}
	ctl.Coord.StopRecording(c, domain.PeerID(p.From), domain.PeerID(p.To))
}
