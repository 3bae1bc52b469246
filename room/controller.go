package room

import (
	"context"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/weedbox/timebank"

	"github.com/lvaneyck/holdem/cards"
	"github.com/lvaneyck/holdem/domain"
	"github.com/lvaneyck/holdem/domain/events"
)

// Controller serializes all access to one room. Every mutation, whether it
// comes from a command, a timer or a disconnect, runs as a task on the
// controller goroutine, so the domain layer never needs a lock and broadcast
// order matches the order actions were accepted in.
type Controller struct {
	room   *domain.Room
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand

	tasks  chan func()
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	turnTimer  *timebank.TimeBank
	pauseTimer *timebank.TimeBank
}

// NewController wraps a room in its own goroutine. The room's own event
// stream drives the turn and round-pause timers.
func NewController(room *domain.Room, cfg Config, logger *log.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		room:       room,
		cfg:        cfg,
		logger:     logger.With("room", room.ID),
		tasks:      make(chan func(), 32),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		turnTimer:  timebank.NewTimeBank(),
		pauseTimer: timebank.NewTimeBank(),
	}
	if cfg.Seed != 0 {
		c.rng = cards.NewRand(cfg.Seed)
	}

	room.RegisterEventHandler(c.onEvent)

	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		select {
		case task := <-c.tasks:
			task()
		case <-c.ctx.Done():
			c.turnTimer.Cancel()
			c.pauseTimer.Cancel()
			return
		}
	}
}

// Do runs fn on the controller goroutine and returns its error. Callers on
// other goroutines must touch the room only through here.
func (c *Controller) Do(fn func(r *domain.Room) error) error {
	errc := make(chan error, 1)

	select {
	case c.tasks <- func() { errc <- fn(c.room) }:
	case <-c.ctx.Done():
		return domain.ValidationError{Reason: "room is closed"}
	}

	select {
	case err := <-errc:
		return err
	case <-c.ctx.Done():
		return domain.ValidationError{Reason: "room is closed"}
	}
}

// enqueue schedules fn without waiting for it. Used by timer callbacks.
func (c *Controller) enqueue(fn func()) {
	select {
	case c.tasks <- fn:
	case <-c.ctx.Done():
	}
}

// Stop tears the controller down. The room itself must already be closed.
func (c *Controller) Stop() {
	c.cancel()
	<-c.done
}

// onEvent runs synchronously inside whatever task mutated the room, so it is
// always on the controller goroutine and may re-arm timers directly.
func (c *Controller) onEvent(event events.Event) {
	switch e := event.(type) {
	case events.TurnStarted:
		c.armTurnTimer(e.Turn, e.Seat)
	case events.RoundEnded:
		c.turnTimer.Cancel()
		c.checkConservation()
		c.armRoundPause()
	case events.RoomClosed:
		c.turnTimer.Cancel()
		c.pauseTimer.Cancel()
	}
}

func (c *Controller) armTurnTimer(turn, seat int) {
	round := c.room.Game.Round

	c.turnTimer.Cancel()
	err := c.turnTimer.NewTask(c.cfg.TurnTimeout, func(isCancelled bool) {
		if isCancelled {
			return
		}
		c.enqueue(func() {
			// Stale fires are rejected by the identity check: the round
			// may have ended or the turn may have moved on already.
			if err := c.room.HandleTimeout(round, turn, seat); err != nil {
				c.logger.Debug("stale turn timer", "round", round, "turn", turn, "seat", seat, "err", err)
			}
		})
	})
	if err != nil {
		c.logger.Error("arming turn timer", "err", err)
	}
}

func (c *Controller) armRoundPause() {
	c.pauseTimer.Cancel()
	err := c.pauseTimer.NewTask(c.cfg.RoundPause, func(isCancelled bool) {
		if isCancelled {
			return
		}
		c.enqueue(func() {
			if !c.room.Started {
				return
			}
			if err := c.startRound(); err != nil {
				c.logger.Info("game stopped", "err", err)
			}
		})
	})
	if err != nil {
		c.logger.Error("arming round pause", "err", err)
	}
}

// startRound sweeps departed seats, verifies enough players can still post
// chips and deals the next hand. On failure the game reverts to idle.
func (c *Controller) startRound() error {
	c.room.RemoveDepartedSeats()

	if c.fundedSeats() < 2 {
		c.room.Started = false
		return domain.ValidationError{Reason: "need at least two players with chips"}
	}

	deck := cards.Shuffled(c.rng)
	if err := c.room.StartRound(deck, c.cfg.SmallBlind); err != nil {
		c.room.Started = false
		return err
	}
	return nil
}

func (c *Controller) fundedSeats() int {
	n := 0
	for _, p := range c.room.Seats {
		if p.Balance > 0 {
			n++
		}
	}
	return n
}

// checkConservation verifies the pot drained to zero during settlement.
// A residual pot means chips were minted or burnt somewhere.
func (c *Controller) checkConservation() {
	if c.room.Game != nil && c.room.Game.Pot != 0 {
		c.logger.Error("residual pot after settlement", "round", c.room.Game.Round, "pot", c.room.Game.Pot)
	}
}
