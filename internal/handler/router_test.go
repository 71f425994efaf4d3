package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/propace/pace/internal/capability"
	dispatchHandler "github.com/propace/pace/internal/handler/dispatch"
	dispatchService "github.com/propace/pace/internal/service/dispatch"
)

type noopGenerator struct{}

func (noopGenerator) Generate(context.Context, string) (string, error) { return "ok", nil }
func (noopGenerator) GenerateOpener(context.Context) (string, error)   { return "hi", nil }

func TestHealthzReportsCapabilities(t *testing.T) {
	dispatcher := dispatchHandler.New(dispatchService.NewRegistry(), noopGenerator{})
	router := NewRouter(dispatcher, capability.Capabilities{Chat: true, News: true})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Status       string          `json:"status"`
		Capabilities map[string]bool `json:"capabilities"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("unexpected status: %s", payload.Status)
	}
	if !payload.Capabilities["chat"] || payload.Capabilities["weather"] || !payload.Capabilities["news"] {
		t.Fatalf("unexpected capabilities: %v", payload.Capabilities)
	}
}
