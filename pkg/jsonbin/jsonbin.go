// Package jsonbin is a minimal client for the jsonbin.io v3 key-value paste
// API, used as an ad-hoc channel for sharing database image snapshots. An
// image is uploaded as a public bin holding a base64 payload and read back
// by bin id without credentials.
package jsonbin

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the production jsonbin.io API root.
const DefaultBaseURL = "https://api.jsonbin.io/v3"

// ErrBadKey reports a rejected master key. Callers should discard the
// stored key and re-prompt.
var ErrBadKey = errors.New("invalid master key")

// Client talks to the paste service. The zero value is not usable; use
// NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// snapshotDocument is the wire shape of a stored snapshot.
type snapshotDocument struct {
	Timestamp string `json:"timestamp"`
	DBData    string `json:"db_data"`
}

// Upload stores image as a public bin and returns the bin id. Writing
// requires the caller-supplied master key; a 401 maps to ErrBadKey.
func (c *Client) Upload(ctx context.Context, apiKey string, image []byte) (string, error) {
	doc := snapshotDocument{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DBData:    base64.StdEncoding.EncodeToString(image),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/b", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", apiKey)
	req.Header.Set("X-Bin-Private", "false") // readable without a key

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("snapshot upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrBadKey
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return "", fmt.Errorf("snapshot upload failed: %s", apiErr.Message)
	}

	var result struct {
		Metadata struct {
			ID string `json:"id"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.Metadata.ID == "" {
		return "", fmt.Errorf("upload response carried no bin id")
	}
	return result.Metadata.ID, nil
}

// Download fetches the snapshot stored under binID and returns the decoded
// image bytes. A missing bin or an unreachable service returns (nil, nil)
// so the caller can fall back to local state.
func (c *Client) Download(ctx context.Context, binID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/b/"+binID+"/latest", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil // unreachable: caller falls back to local load
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var result struct {
		Record snapshotDocument `json:"record"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot document: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(result.Record.DBData)
	if err != nil {
		return nil, fmt.Errorf("snapshot payload is not valid base64: %w", err)
	}
	return data, nil
}
