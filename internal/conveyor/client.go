package conveyor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"conveyormcp/pkg/logging"

	"github.com/google/uuid"
)

// Executor is the single execution path every tool call routes
// through. Implementations send one GraphQL request and either return
// the operation's data payload or a typed failure.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error)
}

// Client executes GraphQL operations against the Conveyor API over
// HTTP. It holds no per-request state: the credential, auth mode, and
// endpoint are fixed at construction and shared read-only across
// concurrent calls.
type Client struct {
	endpoint   string
	credential string
	mode       AuthMode
	userAgent  string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, mainly for
// tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthMode forces the auth mode instead of inferring it from the
// credential content.
func WithAuthMode(mode AuthMode) ClientOption {
	return func(c *Client) { c.mode = mode }
}

// NewClient creates a client for the given endpoint and credential.
// Unless overridden, the auth mode is classified once from the
// credential.
func NewClient(endpoint, credential, version string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		credential: credential,
		mode:       ClassifyCredential(credential),
		userAgent:  "conveyor-mcp/" + version,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthMode reports how the client authenticates.
func (c *Client) AuthMode() AuthMode {
	return c.mode
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// Execute sends one GraphQL request and normalizes the outcome.
// Ordering: a non-2xx status is a *TransportError, a body with a
// non-empty errors collection is a *GraphQLError, anything else
// returns the data payload. No retries, no special-casing of
// individual operations.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	switch c.mode {
	case AuthSessionCookie:
		req.Header.Set("Cookie", c.credential)
	default:
		req.Header.Set("Authorization", "UserAccessKey "+c.credential)
	}

	logging.Debug("Client", "Executing request %s (%d bytes)", requestID, len(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach conveyor API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Warn("Client", "Request %s failed with HTTP %d", requestID, resp.StatusCode)
		return nil, &TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Errors) > 0 && string(parsed.Errors) != "null" && string(parsed.Errors) != "[]" {
		logging.Warn("Client", "Request %s returned GraphQL errors", requestID)
		return nil, &GraphQLError{Errors: parsed.Errors}
	}

	return parsed.Data, nil
}
