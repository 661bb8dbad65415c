// Package apiclient is the authenticated HTTP client for the Hero Records API.
//
// Every request carries the stored bearer credential when one exists. A 401
// response clears the credential and calls the client's unauthorized handler
// before the error reaches the caller, so no page has to repeat that logic.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/pkg/model"
)

var (
	// ErrUnauthorized is returned for 401 responses, after the credential is cleared.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransport wraps network failures where no response arrived.
	ErrTransport = errors.New("transport failure")
	// ErrDecode is returned when a response body does not match the expected shape.
	ErrDecode = errors.New("unexpected response shape")
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for the Hero Records API.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials session.CredentialStore
	Logger      *slog.Logger

	// OnUnauthorized runs once per 401 response, after the credential is cleared.
	// Front ends use it to send the user to the login screen.
	OnUnauthorized func()
}

// Option configures optional Client fields.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
	}
}

// WithUnauthorizedHandler sets the handler run after a 401 purge.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.OnUnauthorized = fn
	}
}

// New creates an API client. creds may be nil for anonymous use.
func New(baseURL string, creds session.CredentialStore, logger *slog.Logger, opts ...Option) *Client {
	if creds == nil {
		creds = session.NewMemoryStore("")
	}
	c := &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTPClient:  &http.Client{Timeout: DefaultTimeout},
		Credentials: creds,
		Logger:      logger.With("component", "apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// send performs one HTTP exchange and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	url := c.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Credentials.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	c.Logger.Debug("HTTP request", "method", method, "url", url)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w: %w", method, path, ErrTransport, err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized()
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &model.APIError{Status: resp.StatusCode}
		// Best effort: not every failure carries {"error": "..."}.
		_ = json.Unmarshal(respBody, apiErr)
		apiErr.Status = resp.StatusCode
		return nil, fmt.Errorf("%s %s: %w", method, path, apiErr)
	}
	return respBody, nil
}

func (c *Client) unauthorized() {
	c.Logger.Warn("API rejected credential, clearing session")
	if err := c.Credentials.Clear(); err != nil {
		c.Logger.Error("clear credential failed", "error", err)
	}
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

// doJSON sends in as a JSON body (when non-nil) and returns the raw response body.
func (c *Client) doJSON(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, body, contentType)
}

// decodeStrict unmarshals data into out after checking that every required
// key is present under its exact name. Go's decoder matches keys without
// regard to case; the API contract does not.
func decodeStrict(data []byte, out any, required ...string) error {
	if len(required) > 0 {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		for _, key := range required {
			if _, ok := obj[key]; !ok {
				return fmt.Errorf("%w: missing field %q", ErrDecode, key)
			}
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// decodeStrictList is decodeStrict for a JSON array: every element must carry
// the required keys.
func decodeStrictList(data []byte, out any, required ...string) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	for i, elem := range elems {
		if err := decodeStrict(elem, &map[string]json.RawMessage{}, required...); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return decodeStrict(data, out)
}

// ErrorMessage returns the server's message for err, or fallback when the
// failure carried none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return fallback
}
