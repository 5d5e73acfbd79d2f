package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "relpub/0.1.0"

// DefaultBaseURL is the public API endpoint used when none is configured.
const DefaultBaseURL = "https://sentry.io/api/0"

const defaultRequestTimeout = 30 * time.Second

// HTTPDoer describes the HTTP client used by the tracker client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the release API of the error-tracking service.
type Client struct {
	baseURL    string
	org        string
	apiKey     string
	timeout    time.Duration
	httpClient HTTPDoer
}

// Options describes client construction parameters.
type Options struct {
	BaseURL        string
	Organization   string
	APIKey         string
	RequestTimeout time.Duration
	HTTPClient     HTTPDoer
}

// New constructs a client. Zero-valued options fall back to the public
// endpoint, the default timeout, and http.DefaultClient.
func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		org:        strings.TrimSpace(opts.Organization),
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		httpClient: httpClient,
	}
}

// Release describes the release record created on the remote service.
type Release struct {
	Version  string   `json:"version"`
	Projects []string `json:"projects"`
}

// CreateRelease issues the create-release call. The remote treats creation
// as idempotent: re-posting an existing version succeeds.
func (c *Client) CreateRelease(ctx context.Context, rel Release) error {
	body, err := json.Marshal(rel)
	if err != nil {
		return fmt.Errorf("encode release: %w", err)
	}
	endpoint := fmt.Sprintf("%s/organizations/%s/releases/", c.baseURL, url.PathEscape(c.org))
	return c.do(ctx, endpoint, "application/json", bytes.NewReader(body))
}

// UploadFile attaches one file to the release under remoteName. The file is
// read fully per attempt so retries never reuse a drained stream.
func (c *Client) UploadFile(ctx context.Context, version, sourcePath, remoteName string) error {
	f, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open upload source: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(sourcePath))
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read upload source: %w", err)
	}
	if err := mw.WriteField("name", remoteName); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/organizations/%s/releases/%s/files/",
		c.baseURL, url.PathEscape(c.org), url.PathEscape(version))
	return c.do(ctx, endpoint, mw.FormDataContentType(), &buf)
}

// do performs exactly one POST under the per-request timeout. The timeout
// context is released on every exit path; no retries, no status
// interpretation beyond classification.
func (c *Client) do(ctx context.Context, endpoint, contentType string, body io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: POST %s", ErrTimeout, c.timeout, endpoint)
		}
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
