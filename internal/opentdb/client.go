// Package opentdb fetches multiple-choice trivia from the Open Trivia DB API.
package opentdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://opentdb.com"
	defaultAmount  = 10
	// MaxAmount is the largest batch the API serves in one call.
	MaxAmount = 50
)

// ErrUpstream wraps every failure reported by the trivia API itself.
var ErrUpstream = errors.New("opentdb upstream error")

// RawQuestion is one entry of the API's results array. Text fields are HTML-escaped.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

var responseCodes = map[int]string{
	1: "not enough questions for the query",
	2: "invalid parameter",
	3: "session token not found",
	4: "session token exhausted",
	5: "rate limited",
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{httpClient: httpClient, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchQuestions requests amount multiple-choice questions. Non-positive amounts
// use the default batch; larger ones are capped at MaxAmount.
func (c *Client) FetchQuestions(ctx context.Context, amount int) ([]RawQuestion, error) {
	switch {
	case amount <= 0:
		amount = defaultAmount
	case amount > MaxAmount:
		amount = MaxAmount
	}

	query := url.Values{
		"amount": {strconv.Itoa(amount)},
		"type":   {"multiple"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api.php?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build opentdb request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opentdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http status %d", ErrUpstream, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode opentdb response: %w", err)
	}
	if payload.ResponseCode != 0 {
		reason, ok := responseCodes[payload.ResponseCode]
		if !ok {
			reason = "unknown response code"
		}
		return nil, fmt.Errorf("%w: %s (response_code=%d)", ErrUpstream, reason, payload.ResponseCode)
	}

	kept := payload.Results[:0]
	for _, raw := range payload.Results {
		if raw.Type == "" || raw.Type == "multiple" {
			kept = append(kept, raw)
		}
	}
	return kept, nil
}
