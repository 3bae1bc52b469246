package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lvaneyck/holdem/room"
	"github.com/lvaneyck/holdem/server/connection"
	"github.com/lvaneyck/holdem/server/events"
	"github.com/lvaneyck/holdem/server/handlers"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server is the websocket front end of the game. It owns the connection
// manager and wires the command router and event dispatcher to the room
// manager.
type Server struct {
	manager    *room.Manager
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	logger     *log.Logger
}

// corsMiddleware adds CORS headers to all responses.
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// NewServer creates a server around the given room manager.
func NewServer(manager *room.Manager, logger *log.Logger, debugEvents bool) *Server {
	connMgr := connection.NewManager()

	dispatcher := events.NewDispatcher(connMgr, manager.Registry(), logger, debugEvents)
	cmdRouter := handlers.NewCommandRouter(manager, connMgr, logger)

	manager.Registry().RegisterEventHandler(dispatcher.HandleEvent)

	return &Server{
		manager:    manager,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
		logger:     logger.WithPrefix("server"),
	}
}

// Start serves until ctx is cancelled, then drains rooms and shuts the
// listener down.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.connMgr.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/rooms", corsMiddleware(s.handleGetRooms))

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		s.manager.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

// handleWebSocket handles incoming websocket connections.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrading to websocket", "err", err)
		return
	}

	clientID := uuid.NewString()
	s.logger.Info("client connected", "remote", r.RemoteAddr, "client", clientID)

	client := &connection.Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	s.connMgr.Register <- client

	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads messages from the websocket connection.
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.cmdRouter.HandleDisconnect(client)
		s.connMgr.Unregister <- client
		client.Conn.Close()
		s.logger.Info("client disconnected", "client", client.ID)
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("reading message", "client", client.ID, "err", err)
			}
			break
		}

		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			s.logger.Error("handling command", "client", client.ID, "err", err)
		}
	}
}

// writePump sends messages to the websocket connection.
func (s *Server) writePump(client *connection.Client) {
	defer client.Conn.Close()

	for {
		message, ok := <-client.Send
		if !ok {
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			s.logger.Warn("writing message", "client", client.ID, "err", err)
			return
		}
	}
}

// handleGetRooms returns the spectator view of every room.
func (s *Server) handleGetRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.manager.RoomList())
}
