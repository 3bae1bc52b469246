package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents one websocket session. PlayerID is set once the session
// has issued a JOIN command.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	PlayerID string
}

// Manager tracks all live clients and maps player IDs onto their sessions.
type Manager struct {
	clients    map[string]*Client // connection ID -> client
	playerMap  map[string]string  // player ID -> connection ID
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new connection manager.
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		playerMap:  make(map[string]string),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start begins processing register/unregister events.
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.Register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			if client.PlayerID != "" {
				m.playerMap[client.PlayerID] = client.ID
			}
			m.mutex.Unlock()
		case client := <-m.Unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				if client.PlayerID != "" {
					delete(m.playerMap, client.PlayerID)
				}
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
		}
	}
}

// BindPlayer associates a player ID with an existing session.
func (m *Manager) BindPlayer(clientID, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	client.PlayerID = playerID
	m.playerMap[playerID] = clientID
	return true
}

// SendToPlayer sends a message to a specific player.
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if connID, exists := m.playerMap[playerID]; exists {
		if client, ok := m.clients[connID]; ok {
			select {
			case client.Send <- message:
				return true
			default:
			}
		}
	}
	return false
}

// SendToPlayers sends the same message to every listed player.
func (m *Manager) SendToPlayers(playerIDs []string, message []byte) {
	for _, id := range playerIDs {
		m.SendToPlayer(id, message)
	}
}

// Broadcast sends a message to every connected client.
func (m *Manager) Broadcast(message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}
