package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/propace/pace/internal/capability"
	dispatchHandler "github.com/propace/pace/internal/handler/dispatch"
	middlewarePkg "github.com/propace/pace/internal/middleware"
	"github.com/propace/pace/pkg/utils"
)

// NewRouter wires the websocket endpoint and the health surface.
func NewRouter(dispatch *dispatchHandler.Handler, caps capability.Capabilities) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	dispatch.RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"capabilities": map[string]bool{
				capability.Chat:    caps.Chat,
				capability.Weather: caps.Weather,
				capability.News:    caps.News,
			},
		})
	})

	return r
}
