// Package facematch calls the face-verification service that decides whether
// two photos show the same person.
package facematch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"kyc/internal/evidence/providers"
)

const (
	providerID     = "facematch"
	verifyPath     = "/verify"
	defaultTimeout = 30 * time.Second
)

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + verifyPath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	PersonPhoto   string `json:"person_foto"`
	DocumentPhoto string `json:"document_verification_photo"`
}

// verifyResponse accepts both the service's "response" field and the
// "verified" field returned by newer deployments.
type verifyResponse struct {
	Response *bool `json:"response"`
	Verified *bool `json:"verified"`
}

// Match sends both base64 photos and returns the service's verdict.
func (c *Client) Match(ctx context.Context, reference, submitted string) (bool, error) {
	body, err := json.Marshal(verifyRequest{PersonPhoto: submitted, DocumentPhoto: reference})
	if err != nil {
		return false, providers.NewProviderError(providers.ErrorInternal, providerID, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, providers.NewProviderError(providers.ErrorInternal, providerID, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, providers.FromTransport(providerID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, providers.FromStatus(providerID, resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, providers.NewProviderError(providers.ErrorBadData, providerID, "decode response", err)
	}
	switch {
	case out.Response != nil:
		return *out.Response, nil
	case out.Verified != nil:
		return *out.Verified, nil
	default:
		return false, providers.NewProviderError(providers.ErrorBadData, providerID, "response carries no verdict", nil)
	}
}
