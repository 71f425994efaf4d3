package carter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/propace/pace/internal/config"
)

func testClient(url string) *Client {
	return NewClient(config.CarterConfig{
		APIKey:  "key",
		UserID:  "pace",
		BaseURL: url,
		Timeout: 2 * time.Second,
	})
}

func TestCompleteWithIntent(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":{"text":"$city$ is $weather$"},"triggers":[{"type":"Weather Request"}]}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Complete(context.Background(), "how is the weather")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if got.Text != "$city$ is $weather$" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
	if got.Intent != "Weather Request" {
		t.Fatalf("unexpected intent: %q", got.Intent)
	}
	if gotBody["api_key"] != "key" || gotBody["query"] != "how is the weather" || gotBody["uuid"] != "pace" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
}

func TestCompleteWithoutTriggers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":{"text":"hello there"}}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if got.Intent != "" {
		t.Fatalf("expected empty intent, got %q", got.Intent)
	}
}

func TestCompleteRejectsEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for empty output text")
	}
}

func TestCompleteRejectsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestOpener(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/opener" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"sentence":"Hi, I'm back"}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Opener(context.Background())
	if err != nil {
		t.Fatalf("Opener err: %v", err)
	}
	if got != "Hi, I'm back" {
		t.Fatalf("unexpected opener: %q", got)
	}
}

func TestOpenerRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read; without
		// it a client disconnect is never noticed and Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := testClient(srv.URL).Opener(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}
