package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/hrdocs-cli/internal/resilience"
)

// GraphOption configures the Graph client.
type GraphOption func(*graphClient)

// WithGraphBaseURL sets a custom API base URL (for testing).
func WithGraphBaseURL(u string) GraphOption {
	return func(c *graphClient) {
		c.baseURL = u
	}
}

// WithGraphHTTPClient sets a custom HTTP client.
func WithGraphHTTPClient(hc *http.Client) GraphOption {
	return func(c *graphClient) {
		c.http = hc
	}
}

// WithGraphRateLimit overrides the default request rate limit (10 req/s).
func WithGraphRateLimit(rps float64) GraphOption {
	return func(c *graphClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithGraphRetry overrides the retry configuration for transient failures.
func WithGraphRetry(cfg resilience.RetryConfig) GraphOption {
	return func(c *graphClient) {
		c.retry = cfg
	}
}

// graphClient implements Client against the Microsoft Graph drive API.
type graphClient struct {
	token   string
	driveID string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewGraph creates a OneDrive storage client for the given drive. Requests
// are throttled to 10 req/s by default, and 429/5xx responses are retried
// with backoff.
func NewGraph(token, driveID string, opts ...GraphOption) Client {
	c := &graphClient{
		token:   token,
		driveID: driveID,
		baseURL: "https://graph.microsoft.com/v1.0",
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(10, 10),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// drivePath returns the API path prefix for the configured drive.
func (c *graphClient) drivePath() string {
	if c.driveID == "" {
		return c.baseURL + "/me/drive"
	}
	return c.baseURL + "/drives/" + url.PathEscape(c.driveID)
}

type driveItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModifiedDateTime"`
	File         *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
}

func (c *graphClient) ListFiles(ctx context.Context, folderPath string) ([]FileMetadata, error) {
	u := fmt.Sprintf("%s/root:/%s:/children", c.drivePath(), escapePath(folderPath))

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		b, _, err := c.do(ctx, http.MethodGet, u, nil, "")
		return b, err
	})
	if err != nil {
		return nil, eris.Wrapf(err, "graph: list %s", folderPath)
	}

	var resp struct {
		Value []driveItem `json:"value"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "graph: decode children")
	}

	var files []FileMetadata
	for _, item := range resp.Value {
		if item.File == nil {
			continue // folders and packages
		}
		files = append(files, FileMetadata{
			ID:       item.ID,
			Name:     item.Name,
			Size:     item.Size,
			Modified: item.LastModified,
		})
	}
	return files, nil
}

func (c *graphClient) DownloadFile(ctx context.Context, id string) ([]byte, error) {
	u := fmt.Sprintf("%s/items/%s/content", c.drivePath(), url.PathEscape(id))

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		b, _, err := c.do(ctx, http.MethodGet, u, nil, "")
		return b, err
	})
	if err != nil {
		return nil, eris.Wrapf(err, "graph: download %s", id)
	}
	return body, nil
}

func (c *graphClient) UploadFile(ctx context.Context, data []byte, folderPath, filename string) (string, error) {
	u := fmt.Sprintf("%s/root:/%s/%s:/content", c.drivePath(), escapePath(folderPath), url.PathEscape(filename))

	// The reader is built per attempt; a retried request must resend the
	// full payload.
	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		b, _, err := c.do(ctx, http.MethodPut, u, bytes.NewReader(data), "application/octet-stream")
		return b, err
	})
	if err != nil {
		return "", eris.Wrapf(err, "graph: upload %s/%s", folderPath, filename)
	}

	var item driveItem
	if err := json.Unmarshal(body, &item); err != nil {
		return "", eris.Wrap(err, "graph: decode upload response")
	}
	return item.ID, nil
}

func (c *graphClient) DeleteFile(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/items/%s", c.drivePath(), url.PathEscape(id))

	err := resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		_, status, err := c.do(ctx, http.MethodDelete, u, nil, "")
		if err != nil && status == http.StatusNotFound {
			return nil // already gone
		}
		return err
	})
	if err != nil {
		return eris.Wrapf(err, "graph: delete %s", id)
	}
	return nil
}

// do performs one authenticated request and returns the response body and
// status code. Non-2xx responses become errors.
func (c *graphClient) do(ctx context.Context, method, u string, body io.Reader, contentType string) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, eris.Wrap(err, "graph: rate limiter")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, 0, eris.Wrap(err, "graph: build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, eris.Wrap(err, "graph: request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "graph: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := eris.Errorf("graph: status %d: %s", resp.StatusCode, truncate(respBody, 200))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resp.StatusCode, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

// escapePath escapes each segment of a drive folder path.
func escapePath(p string) string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, url.PathEscape(s))
		}
	}
	return strings.Join(segs, "/")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
