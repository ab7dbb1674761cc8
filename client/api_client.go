package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/layer-3/amicbridge/core"
)

// ServerError is a non-2xx answer from the verification endpoint
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("verification failed on server: status %d", e.StatusCode)
	}
	return e.Message
}

// APIClient calls the verification endpoint over HTTP
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the service at baseURL
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Challenge fetches a server-built challenge
func (c *APIClient) Challenge(ctx context.Context) (core.Challenge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/challenge", nil)
	if err != nil {
		return core.Challenge{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.Challenge{}, fmt.Errorf("challenge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Challenge{}, decodeServerError(resp)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.Challenge{}, fmt.Errorf("failed to decode challenge: %w", err)
	}

	return core.ParseChallenge(body.Message)
}

// Verify submits proof to the verification endpoint
func (c *APIClient) Verify(ctx context.Context, proof core.SignatureProof) error {
	payload, err := json.Marshal(proof)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeServerError(resp)
	}

	return nil
}

// decodeServerError reads the {"error": "..."} body when there is one
func decodeServerError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return &ServerError{StatusCode: resp.StatusCode, Message: body.Error}
}
