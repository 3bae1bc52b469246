package room

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lvaneyck/holdem/domain"
)

// Config carries the table rules and timing knobs shared by every room.
type Config struct {
	TurnTimeout     time.Duration
	RoundPause      time.Duration
	SmallBlind      int
	StartingBalance int
	Seed            int64
	DebugEvents     bool
}

// DefaultConfig returns the stakes and timers used when nothing is
// configured.
func DefaultConfig() Config {
	return Config{
		TurnTimeout:     30 * time.Second,
		RoundPause:      5 * time.Second,
		SmallBlind:      10,
		StartingBalance: 1000,
	}
}

// Manager is the front door for everything above the domain layer. It owns
// the player registry and one controller per live room, and routes every
// room mutation through that room's controller goroutine.
type Manager struct {
	cfg      Config
	logger   *log.Logger
	registry *domain.Registry

	mu          sync.RWMutex
	controllers map[string]*Controller
}

func NewManager(cfg Config, logger *log.Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		logger:      logger,
		registry:    domain.NewRegistry(cfg.StartingBalance),
		controllers: make(map[string]*Controller),
	}
}

// Registry exposes the underlying registry so the server can attach its
// event dispatcher.
func (m *Manager) Registry() *domain.Registry {
	return m.registry
}

func (m *Manager) controller(roomID string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.controllers[roomID]
	if !ok {
		return nil, domain.ValidationError{Reason: "unknown room " + roomID}
	}
	return c, nil
}

// Join registers a new player session under the given id.
func (m *Manager) Join(id, name string) (*domain.Player, error) {
	return m.registry.Join(id, name)
}

// CreateRoom creates a room owned by creatorID and seats the creator in it.
func (m *Manager) CreateRoom(name, creatorID string) (*domain.Room, error) {
	player, err := m.registry.Player(creatorID)
	if err != nil {
		return nil, err
	}
	if player.RoomID != "" {
		return nil, domain.ValidationError{Reason: "already in a room"}
	}

	room, err := m.registry.CreateRoom(name, creatorID)
	if err != nil {
		return nil, err
	}

	c := NewController(room, m.cfg, m.logger)
	m.mu.Lock()
	m.controllers[room.ID] = c
	m.mu.Unlock()

	if err := c.Do(func(r *domain.Room) error { return r.Seat(player) }); err != nil {
		return nil, err
	}
	return room, nil
}

// JoinRoom seats a player in an existing room. Joining mid-round is allowed;
// the newcomer sits out until the next hand is dealt.
func (m *Manager) JoinRoom(roomID, playerID string) error {
	player, err := m.registry.Player(playerID)
	if err != nil {
		return err
	}

	c, err := m.controller(roomID)
	if err != nil {
		return err
	}
	return c.Do(func(r *domain.Room) error { return r.Seat(player) })
}

// LeaveRoom removes a player from their room. The creator leaving closes the
// room for everyone; anyone else leaving mid-round is folded and swept out
// before the next hand.
func (m *Manager) LeaveRoom(playerID string) error {
	player, err := m.registry.Player(playerID)
	if err != nil {
		return err
	}
	if player.RoomID == "" {
		return domain.ValidationError{Reason: "not in a room"}
	}

	roomID := player.RoomID
	c, err := m.controller(roomID)
	if err != nil {
		return err
	}

	var closed bool
	err = c.Do(func(r *domain.Room) error {
		if r.CreatorID == playerID {
			r.Close()
			closed = true
			return nil
		}
		if r.Game != nil && !r.Game.Finished {
			r.Resign(playerID)
			return nil
		}
		return r.RemoveSeat(playerID)
	})
	if err != nil {
		return err
	}

	if closed {
		m.dropRoom(roomID, c)
	}
	return nil
}

// StartGame begins dealing hands in the room. Only the creator may start,
// and at least two seated players must hold chips.
func (m *Manager) StartGame(roomID, playerID string) error {
	c, err := m.controller(roomID)
	if err != nil {
		return err
	}
	return c.Do(func(r *domain.Room) error {
		if r.CreatorID != playerID {
			return domain.ValidationError{Reason: "only the room creator can start the game"}
		}
		if r.Started {
			return domain.ValidationError{Reason: "game already started"}
		}
		r.Started = true
		if err := c.startRound(); err != nil {
			return err
		}
		return nil
	})
}

// SubmitAction applies a betting action for the player whose turn it is.
func (m *Manager) SubmitAction(roomID, playerID string, action domain.Action, amount int) error {
	c, err := m.controller(roomID)
	if err != nil {
		return err
	}
	return c.Do(func(r *domain.Room) error {
		return r.HandleAction(playerID, action, amount)
	})
}

// Disconnect resolves a dropped session: the player leaves their room (which
// may close it) and is forgotten by the registry.
func (m *Manager) Disconnect(playerID string) {
	player, err := m.registry.Player(playerID)
	if err != nil {
		return
	}

	if player.RoomID != "" {
		if err := m.LeaveRoom(playerID); err != nil {
			m.logger.Warn("leaving room on disconnect", "player", playerID, "err", err)
		}
	}
	m.registry.Forget(playerID)
}

// RoomList returns the spectator projection of every room, each taken on its
// own controller goroutine so listings never observe a half-applied action.
func (m *Manager) RoomList() []domain.RoomView {
	m.mu.RLock()
	controllers := make([]*Controller, 0, len(m.controllers))
	for _, c := range m.controllers {
		controllers = append(controllers, c)
	}
	m.mu.RUnlock()

	list := make([]domain.RoomView, 0, len(controllers))
	for _, c := range controllers {
		var view domain.RoomView
		if err := c.Do(func(r *domain.Room) error {
			view = domain.ProjectForSpectator(r.Snapshot())
			return nil
		}); err != nil {
			continue
		}
		list = append(list, view)
	}
	return list
}

// Snapshot returns the participant projection of a room for one viewer.
func (m *Manager) Snapshot(roomID, viewerID string) (domain.RoomView, error) {
	c, err := m.controller(roomID)
	if err != nil {
		return domain.RoomView{}, err
	}

	var view domain.RoomView
	err = c.Do(func(r *domain.Room) error {
		view = domain.ProjectForParticipant(r.Snapshot(), viewerID)
		return nil
	})
	return view, err
}

// Close shuts down every room, refunding in-flight chips.
func (m *Manager) Close() {
	m.mu.Lock()
	controllers := m.controllers
	m.controllers = make(map[string]*Controller)
	m.mu.Unlock()

	for roomID, c := range controllers {
		if err := c.Do(func(r *domain.Room) error { r.Close(); return nil }); err != nil {
			m.logger.Warn("closing room", "room", roomID, "err", err)
		}
		c.Stop()
		m.registry.RemoveRoom(roomID)
	}
}

func (m *Manager) dropRoom(roomID string, c *Controller) {
	m.mu.Lock()
	delete(m.controllers, roomID)
	m.mu.Unlock()

	c.Stop()
	m.registry.RemoveRoom(roomID)
}
