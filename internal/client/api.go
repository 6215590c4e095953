package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"
)

// TokenSource supplies the bearer token for the current session.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Envelope is the {success, message} wrapper every backend response carries
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Upload is a file attached to a multipart request
type Upload struct {
	FileName string
	Content  io.Reader
}

// IsImage reports whether the upload looks like a picture, judged by its extension
func (u *Upload) IsImage() bool {
	if u == nil {
		return false
	}
	return strings.HasPrefix(mime.TypeByExtension(strings.ToLower(filepath.Ext(u.FileName))), "image/")
}

// API issues requests against the job-board backend
type API struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	logger  *pterm.Logger

	// ProgressOutput receives an upload progress bar for multipart requests when set
	ProgressOutput io.Writer
}

// Options configures a new API
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *pterm.Logger
}

// New creates an API for the given base URL
func New(opts Options) (*API, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host required", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = CreateHTTPClient(0)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}

	return &API{
		baseURL: base,
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
	}, nil
}

// endpoint joins path segments onto the base URL, escaping each segment
func (a *API) endpoint(query url.Values, segments ...string) string {
	u := *a.baseURL
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// getJSON issues a GET and decodes the response into out
func (a *API) getJSON(ctx context.Context, target string, out any) error {
	return a.do(ctx, http.MethodGet, target, nil, "", out)
}

// sendJSON encodes payload as the request body and decodes the response into out
func (a *API) sendJSON(ctx context.Context, method, target string, payload, out any) error {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return a.do(ctx, method, target, bytes.NewReader(body), "application/json", out)
}

// sendMultipart posts form fields and an optional file as multipart/form-data
func (a *API) sendMultipart(ctx context.Context, method, target string, fields map[string]string, fileField string, file *Upload, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	if file != nil && file.Content != nil {
		part, err := writer.CreateFormFile(fileField, filepath.Base(file.FileName))
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("failed to read %s: %w", file.FileName, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	size := int64(buf.Len())
	var body io.Reader = &buf
	if a.ProgressOutput != nil && file != nil {
		bar := pb.New64(size)
		bar.SetWriter(a.ProgressOutput)
		bar.Set(pb.Bytes, true)
		bar.Start()
		defer bar.Finish()
		body = bar.NewProxyReader(&buf)
	}

	return a.doSized(ctx, method, target, body, size, writer.FormDataContentType(), out)
}

func (a *API) do(ctx context.Context, method, target string, body io.Reader, contentType string, out any) error {
	size := int64(-1)
	if r, ok := body.(*bytes.Reader); ok {
		size = int64(r.Len())
	}
	return a.doSized(ctx, method, target, body, size, contentType, out)
}

// doSized performs the request and maps the response onto out.
// Status >= 400 and success:false both become *APIError.
func (a *API) doSized(ctx context.Context, method, target string, body io.Reader, size int64, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if size >= 0 && body != nil {
		req.ContentLength = size
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := a.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		a.logger.Debug("request failed", a.logger.Args("method", method, "url", target, "request_id", requestID, "error", err))
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, target, err)
	}
	defer resp.Body.Close()

	payload, err := ReadResponseBody(resp)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	a.logger.Debug("api response", a.logger.Args("method", method, "url", target, "status", resp.StatusCode, "request_id", requestID))

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: messageFrom(payload)}
	}
	if success := gjson.GetBytes(payload, "success"); success.Exists() && !success.Bool() {
		return &APIError{Status: resp.StatusCode, Message: messageFrom(payload)}
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}

// messageFrom pulls the human message out of a response body that may not be valid JSON
func messageFrom(payload []byte) string {
	if !gjson.ValidBytes(payload) {
		return ""
	}
	for _, key := range []string{"message", "error", "msg"} {
		if m := gjson.GetBytes(payload, key); m.Exists() && m.Type == gjson.String {
			return m.String()
		}
	}
	return ""
}
