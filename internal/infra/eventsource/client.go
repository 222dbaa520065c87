package eventsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
)

const windowLayout = "2006-01-02 15:04"

var (
	// ErrMissingAPIKey is returned before any request when no key is configured.
	ErrMissingAPIKey = errors.New("event source api key is missing")
	// ErrMissingURL is returned before any request when no endpoint is configured.
	ErrMissingURL = errors.New("event source url is missing")
)

// Client fetches event records from the upstream API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSpace(baseURL),
		apiKey:  strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves every record between window.Start and window.End.
func (c *Client) Fetch(ctx context.Context, window dailyreport.Window) ([]dailyreport.EventRecord, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if c.baseURL == "" {
		return nil, ErrMissingURL
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse event source url: %w", err)
	}
	query := endpoint.Query()
	query.Set("startDate", window.Start.Format(windowLayout))
	query.Set("endDate", window.End.Format(windowLayout))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("ApiKey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("event request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("event request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read event response: %w", err)
	}
	return decodeRecords(body)
}

// decodeRecords accepts a JSON array of objects, or a single object.
func decodeRecords(body []byte) ([]dailyreport.EventRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []dailyreport.EventRecord{}, nil
	}
	if trimmed[0] == '{' {
		var single dailyreport.EventRecord
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("decode event response: %w", err)
		}
		return []dailyreport.EventRecord{single}, nil
	}
	var records []dailyreport.EventRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode event response: %w", err)
	}
	if records == nil {
		records = []dailyreport.EventRecord{}
	}
	return records, nil
}

var _ dailyreport.EventSource = (*Client)(nil)
