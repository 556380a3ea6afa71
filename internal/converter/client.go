// Package converter talks to the remote notebook conversion service.
package converter

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	// FileField is the multipart part name the service reads the notebook from.
	FileField = "file"

	healthPath  = "/health"
	convertPath = "/convert/"

	defaultUserAgent = "notebookconv/dev"
)

// Config describes how to reach the service.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client issues health and conversion requests against one base address.
type Client struct {
	base      string
	userAgent string
	client    *http.Client
}

// New builds a client. A nil HTTPClient gets one without a timeout; the
// service's cold start can take a while and the client never gives up on
// its own.
func New(cfg Config) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		base:      strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: ua,
		client:    pickHTTPClient(cfg.HTTPClient),
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{}
}

// BaseURL returns the normalized service origin.
func (c *Client) BaseURL() string {
	return c.base
}

// Health returns nil when GET /health answers with a 2xx status.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+healthPath, nil)
	if err != nil {
		return err
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		return &HealthError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}
	return nil
}

// Convert posts the notebook as multipart form data to /convert/{format}
// and returns the raw response body on success. The body is streamed, so
// reads from body happen while the request is on the wire. Non-2xx
// responses come back as *ServiceError.
func (c *Client) Convert(ctx context.Context, format, filename string, body io.Reader) ([]byte, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	written := make(chan struct{})
	go func() {
		defer close(written)
		pw.CloseWithError(writeMultipart(mw, filename, body))
	}()
	// Unblocks the writer when the request ends early, then waits for it
	// so body is no longer read once Convert returns.
	defer func() {
		pr.Close()
		<-written
	}()

	endpoint := c.base + convertPath + url.PathEscape(format)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(resp.Body)
	if !isSuccess(resp.StatusCode) {
		return nil, newServiceError(resp, payload, readErr)
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading converted file: %w", readErr)
	}
	return payload, nil
}

func writeMultipart(mw *multipart.Writer, filename string, body io.Reader) error {
	part, err := mw.CreateFormFile(FileField, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return mw.Close()
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// statusText strips the numeric prefix from resp.Status ("502 Bad Gateway").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
