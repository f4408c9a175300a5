// Package pinning provides the client for the content-addressable metadata
// store. The store is append-only from the relay's point of view: content can
// be pinned and fetched, never mutated or deleted.
package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nutcas3/tokenized-credit/internal/config"
	"github.com/nutcas3/tokenized-credit/internal/faults"
)

const (
	defaultBaseURL    = "https://api.pinata.cloud"
	defaultGatewayURL = "https://gateway.pinata.cloud"
)

// Client uploads and fetches opaque JSON blobs against a Pinata-compatible
// pinning service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	gatewayURL string
	apiKey     string
	apiSecret  string
}

// NewClient creates a pinning client. The API credentials are required.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.PinningAPIKey == "" {
		return nil, faults.NewConfiguration("PINATA_API_KEY")
	}
	if cfg.PinningAPISecret == "" {
		return nil, faults.NewConfiguration("PINATA_SECRET_API_KEY")
	}

	baseURL := cfg.PinningBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	gatewayURL := cfg.PinningGatewayURL
	if gatewayURL == "" {
		gatewayURL = defaultGatewayURL
	}

	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		gatewayURL: gatewayURL,
		apiKey:     cfg.PinningAPIKey,
		apiSecret:  cfg.PinningAPISecret,
	}, nil
}

// PinJSON uploads a JSON blob and returns its content reference.
func (c *Client) PinJSON(ctx context.Context, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal blob: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", faults.NewStoreUnavailable("pin request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", faults.NewStoreUnavailable(
			fmt.Sprintf("pinning service returned %d", resp.StatusCode), nil)
	}

	var result struct {
		IpfsHash string `json:"IpfsHash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", faults.NewStoreUnavailable("decode pin response", err)
	}
	if result.IpfsHash == "" {
		return "", faults.NewStoreUnavailable("pinning service returned no hash", nil)
	}
	return result.IpfsHash, nil
}

// FetchJSON fetches previously pinned content by reference.
func (c *Client) FetchJSON(ctx context.Context, ref string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.gatewayURL+"/ipfs/"+ref, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, faults.NewStoreUnavailable("fetch request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, faults.NewNotFound(ref)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, faults.NewStoreUnavailable(
			fmt.Sprintf("gateway returned %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.NewStoreUnavailable("read gateway response", err)
	}
	if !json.Valid(body) {
		return nil, faults.NewStoreUnavailable("gateway returned invalid JSON", nil)
	}
	return json.RawMessage(body), nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.apiSecret)
}
