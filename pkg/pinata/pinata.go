// Package pinata is a thin client for the Pinata IPFS pinning API. It is the
// artifact store behind the submission workflow: pinning is idempotent per
// identical bytes (the same content always resolves to the same CID) but not
// per call.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.pinata.cloud"

// Config contains credentials and endpoints for the pinning service.
type Config struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	GatewayURL string
}

// Client pins artifacts and builds retrieval URLs from their CIDs.
type Client struct {
	baseURL    string
	gatewayURL string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	logger     zerolog.Logger
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// New constructs a pinning client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("pinata credentials must be provided")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	gatewayURL := strings.TrimRight(cfg.GatewayURL, "/")
	if gatewayURL == "" {
		gatewayURL = "https://gateway.pinata.cloud"
	}

	return &Client{
		baseURL:    baseURL,
		gatewayURL: gatewayURL,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger.With().Str("component", "pinata").Logger(),
	}, nil
}

// Pin uploads the artifact and returns the CID the service assigned to it.
func (c *Client) Pin(ctx context.Context, name string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pin upload rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if parsed.IpfsHash == "" {
		return "", fmt.Errorf("pin response did not include a CID")
	}

	c.logger.Info().
		Str("cid", parsed.IpfsHash).
		Str("content_type", mimetype.Detect(data).String()).
		Int("size_bytes", len(data)).
		Msg("artifact pinned")

	return parsed.IpfsHash, nil
}

// GatewayURL builds the retrieval URL for a CID; any pinned artifact is
// resolvable from its CID alone.
func (c *Client) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", c.gatewayURL, cid)
}
