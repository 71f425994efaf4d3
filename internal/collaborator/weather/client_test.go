package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/propace/pace/internal/config"
)

func TestCurrent(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lat":41.88,"lon":-87.63,"city":"Chicago"}`))
	}))
	defer geo.Close()

	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("units") != "imperial" {
			t.Errorf("expected imperial units, got %q", q.Get("units"))
		}
		if q.Get("appid") != "wx-key" {
			t.Errorf("unexpected appid: %q", q.Get("appid"))
		}
		if q.Get("lat") != "41.88" || q.Get("lon") != "-87.63" {
			t.Errorf("unexpected coordinates: lat=%q lon=%q", q.Get("lat"), q.Get("lon"))
		}
		w.Write([]byte(`{"weather":[{"description":"clear sky"}],"main":{"temp":70.6,"feels_like":68.2}}`))
	}))
	defer wx.Close()

	client := NewClient(config.WeatherConfig{
		APIKey:     "wx-key",
		GeoURL:     geo.URL,
		WeatherURL: wx.URL,
		Timeout:    2 * time.Second,
	})

	got, err := client.Current(context.Background())
	if err != nil {
		t.Fatalf("Current err: %v", err)
	}
	if got.City != "Chicago" {
		t.Fatalf("unexpected city: %q", got.City)
	}
	if got.Description != "clear sky" {
		t.Fatalf("unexpected description: %q", got.Description)
	}
	if got.Temp != 70.6 || got.FeelsLike != 68.2 {
		t.Fatalf("unexpected temps: %v %v", got.Temp, got.FeelsLike)
	}
}

func TestCurrentGeolocationFailure(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer geo.Close()

	client := NewClient(config.WeatherConfig{
		APIKey:     "wx-key",
		GeoURL:     geo.URL,
		WeatherURL: "http://127.0.0.1:1",
		Timeout:    2 * time.Second,
	})

	if _, err := client.Current(context.Background()); err == nil {
		t.Fatal("expected error when geolocation fails")
	}
}

func TestCurrentMissingConditions(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lat":1,"lon":2,"city":"Nowhere"}`))
	}))
	defer geo.Close()

	wx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather":[],"main":{"temp":50,"feels_like":49}}`))
	}))
	defer wx.Close()

	client := NewClient(config.WeatherConfig{
		APIKey:     "wx-key",
		GeoURL:     geo.URL,
		WeatherURL: wx.URL,
		Timeout:    2 * time.Second,
	})

	if _, err := client.Current(context.Background()); err == nil {
		t.Fatal("expected error for empty conditions list")
	}
}
