package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config holds upstream API client configuration.
type Config struct {
	BaseURL        string
	Version        string
	MaxPages       int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to the workspace-database API. The access token is passed
// per call, not stored, since requests may carry their own credential.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	version        string
	maxPages       int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates an upstream API client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		version:        cfg.Version,
		maxPages:       cfg.MaxPages,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "upstream"),
	}
}

// Query fetches the full snapshot for one data source, following
// pagination cursors up to the configured page cap.
func (c *Client) Query(ctx context.Context, token, dataSourceID string, filter, sorts json.RawMessage) ([]Page, error) {
	url := fmt.Sprintf("%s/databases/%s/query", c.baseURL, dataSourceID)

	var all []Page
	cursor := ""

	for page := 0; page < c.maxPages; page++ {
		body := queryRequest{
			Filter:      filter,
			Sorts:       sorts,
			StartCursor: cursor,
		}

		var resp QueryResponse
		if err := c.doWithRetry(ctx, token, url, body, &resp); err != nil {
			return nil, fmt.Errorf("query page %d: %w", page, err)
		}

		all = append(all, resp.Results...)

		c.logger.Debug("fetched page",
			"data_source_id", dataSourceID,
			"page", page,
			"results", len(resp.Results),
			"total", len(all),
		)

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}

	return all, nil
}

// CreatePage creates one record in the given data source and returns the
// raw created page.
func (c *Client) CreatePage(ctx context.Context, token, dataSourceID string, properties json.RawMessage) (*Page, error) {
	url := fmt.Sprintf("%s/pages", c.baseURL)

	body := createPageRequest{
		Parent:     pageParent{DatabaseID: dataSourceID},
		Properties: properties,
	}

	var page Page
	if err := c.doWithRetry(ctx, token, url, body, &page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	return &page, nil
}

func (c *Client) doWithRetry(ctx context.Context, token, url string, body any, out any) error {
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.doRequest(ctx, token, url, body, out)
		if err == nil {
			return nil
		}

		var upErr *Error
		if errors.As(err, &upErr) && !upErr.Retryable() {
			return err
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

func (c *Client) doRequest(ctx context.Context, token, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.readError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) readError(resp *http.Response) error {
	upErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		upErr.Message = resp.Status
		return upErr
	}

	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		upErr.Message = string(data)
		return upErr
	}

	upErr.Code = body.Code
	upErr.Message = body.Message
	return upErr
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
