package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/dailyreport/internal/domain/weather"
)

const (
	defaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"
	hourlyFields   = "temperature_2m,rain,weather_code"
	timeLayout     = "2006-01-02T15:04"
)

// Client reads hourly observations from the Open-Meteo archive API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(u, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type apiResponse struct {
	Timezone string `json:"timezone"`
	Hourly   struct {
		Time          []string   `json:"time"`
		Temperature2m []*float64 `json:"temperature_2m"`
		Rain          []*float64 `json:"rain"`
		WeatherCode   []*int     `json:"weather_code"`
	} `json:"hourly"`
}

type apiError struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// Hourly fetches the hourly series for q. Timestamps are interpreted in q.Timezone.
func (c *Client) Hourly(ctx context.Context, q weather.Query) (weather.HourlySeries, error) {
	loc := time.UTC
	if q.Timezone != "" {
		l, err := time.LoadLocation(q.Timezone)
		if err != nil {
			return weather.HourlySeries{}, fmt.Errorf("load timezone %q: %w", q.Timezone, err)
		}
		loc = l
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return weather.HourlySeries{}, fmt.Errorf("parse weather url: %w", err)
	}
	query := endpoint.Query()
	query.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	query.Set("start_date", q.StartDate)
	query.Set("end_date", q.EndDate)
	query.Set("hourly", hourlyFields)
	query.Set("timezone", loc.String())
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return weather.HourlySeries{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.HourlySeries{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.HourlySeries{}, fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Reason != "" {
			return weather.HourlySeries{}, fmt.Errorf("weather request error: status=%d reason=%s", resp.StatusCode, apiErr.Reason)
		}
		if len(body) > 4<<10 {
			body = body[:4<<10]
		}
		return weather.HourlySeries{}, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.HourlySeries{}, fmt.Errorf("decode weather response: %w", err)
	}
	return toSeries(raw, loc)
}

func toSeries(raw apiResponse, loc *time.Location) (weather.HourlySeries, error) {
	series := weather.HourlySeries{
		Time:          make([]time.Time, 0, len(raw.Hourly.Time)),
		Temperature2m: raw.Hourly.Temperature2m,
		Rain:          raw.Hourly.Rain,
		WeatherCode:   raw.Hourly.WeatherCode,
	}
	for _, ts := range raw.Hourly.Time {
		parsed, err := time.ParseInLocation(timeLayout, ts, loc)
		if err != nil {
			return weather.HourlySeries{}, fmt.Errorf("parse hourly time %q: %w", ts, err)
		}
		series.Time = append(series.Time, parsed)
	}
	return series, nil
}

var _ weather.Client = (*Client)(nil)
