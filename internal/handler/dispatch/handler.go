package dispatch

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/propace/pace/internal/model/wire"
	dispatchsvc "github.com/propace/pace/internal/service/dispatch"
)

// apologyReply acknowledges a message whose reply could not be generated.
// The sender must never be answered with silence.
const apologyReply = "Sorry, I couldn't come up with a reply just now."

// Generator produces replies and openers for the dispatch loop.
type Generator interface {
	Generate(ctx context.Context, text string) (string, error)
	GenerateOpener(ctx context.Context) (string, error)
}

// Handler owns the websocket endpoint: it upgrades connections, maintains the
// session registry, and routes inbound text through the reply generator.
type Handler struct {
	registry *dispatchsvc.Registry
	replies  Generator
	upgrader websocket.Upgrader
}

// New creates the dispatch handler around a shared registry.
func New(registry *dispatchsvc.Registry, replies Generator) *Handler {
	return &Handler{
		registry: registry,
		replies:  replies,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[dispatch] upgrade failed: %v", err)
		return
	}

	session := dispatchsvc.NewSession(conn)
	defer session.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	// The greeting goes out before the session joins the broadcast set, so a
	// new client always sees its opener ahead of any exchange frame and no
	// other session ever sees the greeting.
	h.sendOpener(ctx, session)

	if err := h.registry.Add(session); err != nil {
		log.Printf("[dispatch] register failed: %v", err)
		return
	}
	defer h.registry.Remove(session.ID)

	log.Printf("[dispatch] session %s connected (%d online)", session.ID, h.registry.Len())
	defer log.Printf("[dispatch] session %s disconnected", session.ID)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					log.Printf("[dispatch] read error on %s: %v", session.ID, err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if messageType != websocket.TextMessage {
				if err := session.Send(wire.NewError("text frames only")); err != nil {
					return
				}
				continue
			}

			text := strings.TrimSpace(string(data))
			if text == "" {
				continue
			}

			// "exit" is a client-side convention; the server dispatches it
			// like any other message.
			h.onMessage(ctx, session, text)
		}
	}
}

// sendOpener fetches a greeting and delivers it to the new session alone.
// Failure is logged and the connection stays open without a greeting.
func (h *Handler) sendOpener(ctx context.Context, session *dispatchsvc.Session) {
	opener, err := h.replies.GenerateOpener(ctx)
	if err != nil {
		log.Printf("[dispatch] opener generation failed for %s: %v", session.ID, err)
		return
	}

	if err := session.Send(wire.NewOpener(opener)); err != nil {
		log.Printf("[dispatch] opener send failed for %s: %v", session.ID, err)
	}
}

// onMessage is the dispatch hot path: generate a reply for the inbound text
// and broadcast the exchange to every session, the sender included. A
// generator failure degrades to an apology so the exchange is still
// acknowledged.
func (h *Handler) onMessage(ctx context.Context, session *dispatchsvc.Session, text string) {
	log.Printf("[dispatch] session %s said: %s", session.ID, text)

	reply, err := h.replies.Generate(ctx, text)
	if err != nil {
		log.Printf("[dispatch] reply generation failed for %s: %v", session.ID, err)
		reply = apologyReply
	}

	if err := h.registry.Broadcast(wire.NewExchange(text, reply)); err != nil {
		// Dead sessions are cleaned up by their own read loops; a partial
		// broadcast is only worth a log line.
		log.Printf("[dispatch] broadcast incomplete: %v", err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// WriteControl is safe alongside the session's data writes.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
