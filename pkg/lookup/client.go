// Package lookup is the HTTP client for the config service's identifier
// resolution endpoint.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrRefNotFound marks a lookup the config service answered but could not
// resolve, as opposed to a transport failure.
var ErrRefNotFound = errors.New("reference not found")

type Client interface {
	LookupRef(ctx context.Context, kind, ref string) (string, error)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type resolvePayload struct {
	ID string `json:"id"`
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// LookupRef calls GET {base}/api/config/resolve/{kind}/{ref}. A 404 maps to
// ErrRefNotFound; other non-2xx statuses and malformed envelopes are
// transport errors.
func (c *httpClient) LookupRef(ctx context.Context, kind, ref string) (string, error) {

	endpoint := fmt.Sprintf("%s/api/config/resolve/%s/%s", c.baseURL, url.PathEscape(kind), url.PathEscape(ref))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrRefNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var env envelope

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("failed to decode lookup response: %w", err)
	}

	if !env.Success {
		if env.Error != nil {
			return "", fmt.Errorf("lookup rejected: %s", env.Error.Message)
		}

		return "", errors.New("lookup rejected without error detail")
	}

	var payload resolvePayload

	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return "", fmt.Errorf("malformed lookup payload: %w", err)
	}

	if payload.ID == "" {
		return "", errors.New("lookup payload missing id")
	}

	return payload.ID, nil
}
