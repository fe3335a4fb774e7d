// Package core relays user commands into the external command processing
// system. The API layer owns sessions and queuing; the processor contract is
// the only thing this service knows about the core.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"assistant/internal/common"
	"assistant/internal/session"
)

// Processor handles one relayed command and returns the response envelope to
// hand back to the client.
type Processor interface {
	Command(ctx context.Context, sess *session.Session, cmd session.Command) (*common.Response, error)
}

// commandRequest is the payload posted to the core's /command endpoint
type commandRequest struct {
	ID        string `json:"id"`
	Command   string `json:"command"`
	Username  string `json:"username"`
	SessionID string `json:"session_id"`
}

// HTTPProcessor forwards commands to the core over HTTP
type HTTPProcessor struct {
	baseURL string
	client  *http.Client
}

func NewHTTPProcessor(baseURL string) *HTTPProcessor {
	return &HTTPProcessor{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *HTTPProcessor) Command(ctx context.Context, sess *session.Session, cmd session.Command) (*common.Response, error) {
	payload := commandRequest{
		ID:        cmd.ID,
		Command:   cmd.Text,
		Username:  sess.Username,
		SessionID: sess.ID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal command request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/command", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build command request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send command to core: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("core returned status %s", resp.Status)
	}

	var envelope common.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode core response: %w", err)
	}

	return &envelope, nil
}
