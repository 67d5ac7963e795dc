package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/example/slideconv/internal/orchestrator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientSendSize = 32
)

// ProgressHub fans extraction lifecycle events out to connected
// WebSocket clients. It implements orchestrator.ProgressNotifier.
type ProgressHub struct {
	log        zerolog.Logger
	upgrader   websocket.Upgrader
	clients    map[*progressClient]bool
	register   chan *progressClient
	unregister chan *progressClient
	broadcast  chan orchestrator.ProgressEvent
	done       chan struct{}
	closeOnce  sync.Once
}

type progressClient struct {
	id   string
	conn *websocket.Conn
	send chan orchestrator.ProgressEvent
}

// NewProgressHub creates the hub; Run must be called before any client
// connects.
func NewProgressHub(log zerolog.Logger, allowedOrigins []string) *ProgressHub {
	return &ProgressHub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return r.Header.Get("Sec-WebSocket-Version") != ""
				}
				if len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				log.Warn().Str("origin", origin).Msg("rejected websocket connection")
				return false
			},
		},
		clients:    make(map[*progressClient]bool),
		register:   make(chan *progressClient),
		unregister: make(chan *progressClient),
		broadcast:  make(chan orchestrator.ProgressEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run processes client registration and event fan-out until Close.
func (h *ProgressHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug().Str("client", client.id).Msg("progress client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case event := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer, drop it rather than blocking the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-h.done:
			for client := range h.clients {
				close(client.send)
			}
			return
		}
	}
}

// Close shuts the hub down.
func (h *ProgressHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Notify implements orchestrator.ProgressNotifier. Events are dropped
// when the hub's buffer is full so extraction never blocks on slow
// websocket consumers.
func (h *ProgressHub) Notify(event orchestrator.ProgressEvent) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
	}
}

// ServeWS upgrades an HTTP request to a progress event stream.
func (h *ProgressHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &progressClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan orchestrator.ProgressEvent, clientSendSize),
	}
	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *ProgressHub) writePump(client *progressClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; the stream is one-way. It exists
// to process pongs and detect closed connections.
func (h *ProgressHub) readPump(client *progressClient) {
	defer func() {
		h.unregister <- client
		client.conn.Close()
	}()
	client.conn.SetReadLimit(1024)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
