// Package api implements the HTTP access layer for the Ewan Geniuses
// backend: a single request executor that classifies every failure into a
// closed taxonomy, and envelope normalization for the backend's
// inconsistent response shapes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/logger"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/tokenstore"
)

// tunnelMarkers identify a Localtunnel interstitial verification page in an
// HTML response body.
var tunnelMarkers = []string{"tunnel", "Localtunnel", "loca.lt"}

// Client issues requests against one backend base address. The base address
// is fixed for the lifetime of the client; switching endpoints constructs a
// new client so no call site can observe a stale address.
type Client struct {
	base   string
	tokens tokenstore.TokenStore
	http   *http.Client
	log    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client for the given base address. The bearer credential is
// read from the token store on every request, never cached.
func New(base string, tokens tokenstore.TokenStore, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		tokens: tokens,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logger.Get(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the backend base address this client was built with.
func (c *Client) BaseURL() string {
	return c.base
}

// Body is a request payload with its content type. A nil *Body means no
// payload.
type Body struct {
	ContentType string
	Reader      io.Reader
}

// JSONBody marshals v into a JSON request body.
func JSONBody(v any) (*Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "failed to encode request body", err: err}
	}
	return &Body{ContentType: "application/json", Reader: bytes.NewReader(data)}, nil
}

// MultipartBody builds a multipart/form-data body from fields and an
// optional file part. The returned content type carries the boundary chosen
// by the multipart writer; the executor must not replace it.
func MultipartBody(fields map[string]string, fileField, filePath string) (*Body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, &Error{Kind: KindRequestFailed, Message: "failed to build form body", err: err}
		}
	}

	if fileField != "" && filePath != "" {
		// #nosec G304 - filePath is a user-supplied upload path
		f, err := os.Open(filePath)
		if err != nil {
			return nil, &Error{Kind: KindRequestFailed, Message: "failed to open upload file", err: err}
		}
		defer f.Close()

		part, err := w.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return nil, &Error{Kind: KindRequestFailed, Message: "failed to build form body", err: err}
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, &Error{Kind: KindRequestFailed, Message: "failed to read upload file", err: err}
		}
	}

	if err := w.Close(); err != nil {
		return nil, &Error{Kind: KindRequestFailed, Message: "failed to build form body", err: err}
	}

	return &Body{ContentType: w.FormDataContentType(), Reader: &buf}, nil
}

// errorBody is the subset of a JSON error response the executor inspects.
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// Do executes one request against base+path and returns the raw response
// body. The body is either valid JSON or plain text that the backend chose
// to return on success; error responses never reach the caller as bytes,
// they are classified into *Error.
func (c *Client) Do(ctx context.Context, method, path string, body *Body) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = body.Reader
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Message: "failed to create request", err: err}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil && body.ContentType != "" {
		req.Header.Set("Content-Type", body.ContentType)
	}
	if token, err := c.tokens.Get(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("transport failure")
		return nil, &Error{
			Kind:    KindNetworkError,
			Message: "unable to connect to backend",
			Address: c.base,
			err:     err,
		}
	}
	defer resp.Body.Close()

	// The body is read as text first; nothing past this point assumes JSON.
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetworkError,
			Message: "failed to read response body",
			Address: c.base,
			err:     err,
		}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("request completed")

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return c.classifyHTML(resp.StatusCode, text)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok {
		// A parse failure on success passes the raw text through: some
		// endpoints return plain text.
		return text, nil
	}

	return nil, c.classifyFailure(resp.StatusCode, text)
}

// classifyHTML handles a markup response: either a tunnel interstitial or a
// backend error page.
func (c *Client) classifyHTML(status int, text []byte) ([]byte, error) {
	body := string(text)
	for _, marker := range tunnelMarkers {
		if strings.Contains(body, marker) {
			return nil, &Error{
				Kind:    KindTunnelVerificationRequired,
				Message: "tunnel verification required: open the endpoint address in a browser to verify the connection",
				Address: c.base,
			}
		}
	}

	if status < 200 || status >= 300 {
		return nil, &Error{
			Kind:    KindUpstreamHTMLError,
			Message: "server returned an HTML error page",
			Status:  status,
		}
	}

	// Success HTML passes through like any other non-JSON success payload.
	return text, nil
}

// classifyFailure maps a non-2xx non-HTML response onto the error taxonomy.
func (c *Client) classifyFailure(status int, text []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(text, &parsed)

	message := parsed.Message
	if message == "" {
		message = parsed.Error
	}
	if message == "" {
		message = "API request failed"
	}

	if status == http.StatusUnauthorized {
		// Fail closed on an invalid or expired credential.
		if err := c.tokens.Delete(); err != nil {
			c.log.Warn().Err(err).Msg("failed to clear rejected credential")
		}
		return &Error{Kind: KindUnauthorized, Message: message, Status: status}
	}

	if len(parsed.Errors) > 0 {
		return &Error{
			Kind:    KindValidationFailed,
			Message: message,
			Status:  status,
			Fields:  parsed.Errors,
		}
	}

	return &Error{Kind: KindRequestFailed, Message: message, Status: status}
}

// Ping probes the backend for reachability without touching the credential.
// It reports nil when any API response came back, KindNetworkError when the
// transport failed, and KindTunnelVerificationRequired when an interstitial
// was served instead of the API.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base, nil)
	if err != nil {
		return &Error{Kind: KindRequestFailed, Message: "failed to create request", err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{
			Kind:    KindNetworkError,
			Message: "unable to connect to backend",
			Address: c.base,
			err:     err,
		}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetworkError, Message: "failed to read response body", Address: c.base, err: err}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		if _, herr := c.classifyHTML(resp.StatusCode, text); herr != nil {
			if IsKind(herr, KindTunnelVerificationRequired) {
				return herr
			}
		}
	}

	return nil
}
