// Package places looks up address predictions for partially typed text.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wedding-rsvp/internal/models"
)

// Provider returns predictions for a partial address. A nil error with no
// predictions means nothing matched.
type Provider interface {
	Predict(ctx context.Context, text string, token SessionToken) ([]models.PlaceCandidate, error)
}

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Client talks to the Google Places autocomplete endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	components string
	http       *http.Client
}

type Option func(*Client)

// WithComponents restricts predictions, e.g. "country:us".
func WithComponents(components string) Option {
	return func(c *Client) { c.components = components }
}

// WithTimeout bounds each lookup request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a new places client
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type autocompleteResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
	Predictions  []prediction `json:"predictions"`
}

type prediction struct {
	PlaceID              string `json:"place_id"`
	Description          string `json:"description"`
	StructuredFormatting struct {
		MainText                  string                    `json:"main_text"`
		MainTextMatchedSubstrings []models.MatchedSubstring `json:"main_text_matched_substrings"`
		SecondaryText             string                    `json:"secondary_text"`
	} `json:"structured_formatting"`
}

// Predict asks the provider for address predictions.
func (c *Client) Predict(ctx context.Context, text string, token SessionToken) ([]models.PlaceCandidate, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse places url: %w", err)
	}
	q := u.Query()
	q.Set("input", text)
	q.Set("types", "address")
	q.Set("key", c.apiKey)
	if token != "" {
		q.Set("sessiontoken", string(token))
	}
	if c.components != "" {
		q.Set("components", c.components)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places returned %d", resp.StatusCode)
	}

	var body autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	switch body.Status {
	case statusOK:
	case statusZeroResults:
		return []models.PlaceCandidate{}, nil
	default:
		return nil, fmt.Errorf("places returned %s: %s", body.Status, body.ErrorMessage)
	}

	candidates := make([]models.PlaceCandidate, 0, len(body.Predictions))
	for _, p := range body.Predictions {
		candidates = append(candidates, models.PlaceCandidate{
			PlaceID:       p.PlaceID,
			Description:   p.Description,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
			Matches:       p.StructuredFormatting.MainTextMatchedSubstrings,
		})
	}
	return candidates, nil
}
