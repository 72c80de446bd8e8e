// Package weather fetches current conditions for a city and decides when
// the task list needs them.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidCity = errors.New("invalid city")
	ErrUpstream    = errors.New("weather upstream error")
)

// Report is the normalized current weather for one city.
type Report struct {
	City        string    `json:"city"`
	Country     string    `json:"country,omitempty"`
	TempC       float64   `json:"tempC"`
	FeelsLikeC  float64   `json:"feelsLikeC"`
	HumidityPct float64   `json:"humidityPct"`
	WindSpeedMS float64   `json:"windSpeedMs"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Fetcher returns the current weather for a city.
type Fetcher interface {
	Current(ctx context.Context, city string) (Report, error)
}

// Client talks to an OpenWeatherMap compatible API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

func (c *Client) Current(ctx context.Context, city string) (Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Report{}, ErrInvalidCity
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return Report{}, fmt.Errorf("%w: %q", ErrInvalidCity, city)
	case resp.StatusCode != http.StatusOK:
		return Report{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	report := Report{
		City:        body.Name,
		Country:     body.Sys.Country,
		TempC:       body.Main.Temp,
		FeelsLikeC:  body.Main.FeelsLike,
		HumidityPct: body.Main.Humidity,
		WindSpeedMS: body.Wind.Speed,
		FetchedAt:   time.Now().UTC(),
	}
	if len(body.Weather) > 0 {
		report.Condition = body.Weather[0].Main
		report.Description = body.Weather[0].Description
		report.Icon = body.Weather[0].Icon
	}
	return report, nil
}
