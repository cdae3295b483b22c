// Package relay is the control-plane adapter for the external media
// relay. The relay owns rooms, transports and recording capture; this
// service only tells it when to record and when to tear a session down.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akvel/callsig/internal/domain"
)

// Client talks to the relay's HTTP control API.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) StartRecording(ctx context.Context, id domain.SessionID) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/sessions/%s/recording/start", id))
	return err
}

func (c *Client) StopRecording(ctx context.Context, id domain.SessionID) (string, error) {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/sessions/%s/recording/stop", id))
	if err != nil {
		return "", err
	}
	var resp struct {
		Artifact string `json:"artifact"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode stop response: %w", err)
		}
	}
	return resp.Artifact, nil
}

func (c *Client) TerminateSession(ctx context.Context, id domain.SessionID) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/sessions/%s", id))
	return err
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(nil))
	if err != nil {
		return nil, fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(buf.Bytes(), &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("relay %s %s: %s", method, path, e.Error)
		}
		return nil, fmt.Errorf("relay %s %s: status %d", method, path, resp.StatusCode)
	}
	return buf.Bytes(), nil
}

// Noop is used when no relay is configured (local development). It
// confirms everything so the signaling path stays exercisable.
type Noop struct{}

func (Noop) StartRecording(_ context.Context, id domain.SessionID) error {
	log.Info().Str("module", "adapters.relay").Str("session", string(id)).Msg("noop start recording")
	return nil
}

func (Noop) StopRecording(_ context.Context, id domain.SessionID) (string, error) {
	log.Info().Str("module", "adapters.relay").Str("session", string(id)).Msg("noop stop recording")
	return "", nil
}

func (Noop) TerminateSession(_ context.Context, id domain.SessionID) error {
	log.Info().Str("module", "adapters.relay").Str("session", string(id)).Msg("noop terminate")
	return nil
}
