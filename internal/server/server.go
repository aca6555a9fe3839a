package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/franckalain/frigozen/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// maxMessageSize bounds one incoming frame; a base64 receipt photo fits
var maxMessageSize int64 = 16 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // single-device app, the front-end may be served elsewhere
	},
}

// message is the envelope of every WebSocket frame
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// client is one connected front-end. gorilla connections allow a single
// concurrent writer, so every write goes through writeMu.
type client struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex

	voiceMu sync.Mutex
	voice   *voiceRelay
}

type Server struct {
	app     *app.App
	clients sync.Map // id -> *client
	debug   bool
}

func New(a *app.App, debug bool) *Server {
	if debug {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Println("Debug logging enabled")
	}
	s := &Server{
		app:   a,
		debug: debug,
	}
	a.OnChange(s.broadcastState)
	return s
}

// Router returns the HTTP routes, with the front-end served from staticDir
func (s *Server) Router(staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/api/state", s.handleState)
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}

func (s *Server) Start(port, staticDir string) error {
	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Router(staticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case err := <-errChan:
		return err
	case <-sigChan:
	}
	log.Println("Shutting down server...")

	s.clients.Range(func(_, value any) bool {
		value.(*client).stopVoice()
		return true
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	// Store client connection
	c := &client{id: uuid.New().String(), conn: conn}
	s.clients.Store(c.id, c)
	defer s.clients.Delete(c.id)
	defer c.stopVoice()

	s.send(c, "state", s.app.Snapshot())

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("Error reading message:", err)
			}
			break
		}

		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Println("Error parsing message:", err)
			s.sendError(c, "Invalid message format")
			continue
		}

		s.handleWebSocketMessage(c, msg)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.app.Snapshot()); err != nil {
		log.Printf("Error encoding state: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) broadcastState() {
	s.broadcast("state", s.app.Snapshot())
}

func (s *Server) broadcast(messageType string, data any) {
	s.clients.Range(func(_, value any) bool {
		s.send(value.(*client), messageType, data)
		return true
	})
}

func (s *Server) send(c *client, messageType string, data any) {
	msg := map[string]any{
		"type": messageType,
		"data": data,
	}

	if s.debug && messageType != "voice_audio" {
		log.Printf("Sending message to client %s - Type: %s", c.id, messageType)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Println("Error sending message:", err)
	}
}

func (s *Server) sendError(c *client, message string) {
	msg := map[string]any{
		"type":    "error",
		"message": message,
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Println("Error sending error message:", err)
	}
}
