package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/propace/pace/internal/config"
)

// Client resolves the server's location by IP and fetches the current
// conditions there. Two collaborators, one call site.
type Client struct {
	cfg    config.WeatherConfig
	client *http.Client
}

// NewClient builds a client with the configured request timeout.
func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Observation is the current weather at the resolved location. Temperatures
// are imperial, as delivered by the collaborator.
type Observation struct {
	City        string
	Description string
	Temp        float64
	FeelsLike   float64
}

type geoResponse struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	City string  `json:"city"`
}

type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
}

// Current geolocates by IP, then queries the weather collaborator for that
// latitude/longitude.
func (c *Client) Current(ctx context.Context) (Observation, error) {
	var geo geoResponse
	if err := c.get(ctx, c.cfg.GeoURL, &geo); err != nil {
		return Observation{}, fmt.Errorf("geolocation: %w", err)
	}

	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%g", geo.Lat))
	query.Set("lon", fmt.Sprintf("%g", geo.Lon))
	query.Set("units", "imperial")
	query.Set("appid", c.cfg.APIKey)

	var wx weatherResponse
	if err := c.get(ctx, c.cfg.WeatherURL+"?"+query.Encode(), &wx); err != nil {
		return Observation{}, fmt.Errorf("weather: %w", err)
	}

	if len(wx.Weather) == 0 {
		return Observation{}, fmt.Errorf("weather response missing conditions")
	}

	return Observation{
		City:        geo.City,
		Description: wx.Weather[0].Description,
		Temp:        wx.Main.Temp,
		FeelsLike:   wx.Main.FeelsLike,
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
