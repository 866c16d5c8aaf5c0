package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/infinito/platform/internal/events"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsReadLimit  = 512
)

// EventHub registers websocket subscribers for change events
type EventHub interface {
	Register(tables []string) *events.Client
	Unregister(c *events.Client)
}

// EventsHandler streams database change events to admin pages over a websocket
type EventsHandler struct {
	BaseHandler
	hub      EventHub
	upgrader websocket.Upgrader
}

// NewEventsHandler creates a new events handler. Browser origins are checked against allowedOrigins.
func NewEventsHandler(hub EventHub, allowedOrigins []string, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		BaseHandler: BaseHandler{Logger: logger},
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.ContainsFunc(allowedOrigins, func(o string) bool { return strings.EqualFold(o, origin) })
			},
		},
	}
}

// RegisterAdminRoutes registers the events route
func (h *EventsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/events", h.Subscribe)
}

// Subscribe handles GET /admin/events
// @Summary Change notifications
// @Description Upgrades to a websocket that receives {table, action, id} messages. Delivery is best effort.
// @Tags admin
// @Security ApiKeyAuth
// @Param tables query string false "Comma-separated tables, default: all"
// @Success 101
// @Router /admin/events [get]
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.Register(parseTables(r.URL.Query().Get("tables")))
	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// readPump discards incoming messages and keeps the connection alive until the peer goes away
func (h *EventsHandler) readPump(conn *websocket.Conn, client *events.Client) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Debug("events client closed", zap.String("client_id", client.ID), zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards events to the connection and pings it until the client is unregistered
func (h *EventsHandler) writePump(conn *websocket.Conn, client *events.Client) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send():
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func parseTables(raw string) []string {
	var tables []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}
