package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every runtime setting for the PACE server.
type Config struct {
	Server  ServerConfig
	Carter  CarterConfig
	Weather WeatherConfig
	News    NewsConfig
}

// Load reads configuration from environment variables. Missing required
// credentials surface here, before any connection is accepted.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	carter, err := loadCarterConfig()
	if err != nil {
		return nil, err
	}

	weather, err := loadWeatherConfig()
	if err != nil {
		return nil, err
	}

	news, err := loadNewsConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Carter: carter, Weather: weather, News: news}, nil
}

// ServerConfig describes the websocket/HTTP listen address.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "9001"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":9001" or "0.0.0.0:9001" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// CarterConfig describes the chat-completion collaborator. The API key is the
// only credential the server refuses to start without.
type CarterConfig struct {
	APIKey  string
	UserID  string
	BaseURL string
	Timeout time.Duration
}

func loadCarterConfig() (CarterConfig, error) {
	apiKey := strings.TrimSpace(os.Getenv("CARTER_API_KEY"))
	if apiKey == "" {
		return CarterConfig{}, fmt.Errorf("CARTER_API_KEY is required")
	}

	timeout, err := parseTimeoutEnv("COLLABORATOR_TIMEOUT", 15*time.Second)
	if err != nil {
		return CarterConfig{}, err
	}

	return CarterConfig{
		APIKey:  apiKey,
		UserID:  getEnvOrDefault("CARTER_USER_ID", "pace"),
		BaseURL: getEnvOrDefault("CARTER_BASE_URL", "https://api.carterapi.com/v0"),
		Timeout: timeout,
	}, nil
}

// WeatherConfig describes the geolocation and current-weather collaborators.
type WeatherConfig struct {
	APIKey     string
	GeoURL     string
	WeatherURL string
	Timeout    time.Duration
}

// Enabled reports whether the weather collaborator has credentials.
func (c WeatherConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadWeatherConfig() (WeatherConfig, error) {
	timeout, err := parseTimeoutEnv("COLLABORATOR_TIMEOUT", 15*time.Second)
	if err != nil {
		return WeatherConfig{}, err
	}

	return WeatherConfig{
		APIKey:     strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		GeoURL:     getEnvOrDefault("GEOLOCATION_URL", "http://ip-api.com/json"),
		WeatherURL: getEnvOrDefault("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
		Timeout:    timeout,
	}, nil
}

// NewsConfig describes the headline feed and the optional snapshot artifact
// external display clients poll.
type NewsConfig struct {
	FeedURL      string
	SnapshotPath string
	Timeout      time.Duration
}

// Enabled reports whether a feed URL is configured.
func (c NewsConfig) Enabled() bool {
	return c.FeedURL != ""
}

func loadNewsConfig() (NewsConfig, error) {
	timeout, err := parseTimeoutEnv("COLLABORATOR_TIMEOUT", 15*time.Second)
	if err != nil {
		return NewsConfig{}, err
	}

	const defaultFeed = "https://en.wikinews.org/w/index.php?title=Special:NewsFeed&feed=atom&categories=Published&notcategories=No%20publish%7CArchived%7CAutoArchived%7Cdisputed&namespace=0&count=30&hourcount=124&ordermethod=categoryadd&stablepages=only"

	return NewsConfig{
		FeedURL:      getEnvOrDefault("NEWS_FEED_URL", defaultFeed),
		SnapshotPath: strings.TrimSpace(os.Getenv("NEWS_SNAPSHOT_PATH")),
		Timeout:      timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseTimeoutEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	seconds, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if seconds == nil {
		return defaultValue, nil
	}
	if *seconds <= 0 {
		return 0, fmt.Errorf("invalid %s value %d: must be positive seconds", key, *seconds)
	}
	return time.Duration(*seconds) * time.Second, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
