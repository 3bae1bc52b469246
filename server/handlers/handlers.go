package handlers

import (
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/lvaneyck/holdem/domain"
	"github.com/lvaneyck/holdem/room"
	"github.com/lvaneyck/holdem/server/commands"
	"github.com/lvaneyck/holdem/server/connection"
	"github.com/lvaneyck/holdem/server/events"
)

// CommandRouter routes incoming commands to the appropriate handler.
type CommandRouter struct {
	manager *room.Manager
	connMgr *connection.Manager
	logger  *log.Logger
}

// NewCommandRouter creates a new command router.
func NewCommandRouter(manager *room.Manager, connMgr *connection.Manager, logger *log.Logger) *CommandRouter {
	return &CommandRouter{
		manager: manager,
		connMgr: connMgr,
		logger:  logger.WithPrefix("commands"),
	}
}

// HandleCommand processes an incoming command message. Validation failures
// are reported back to the sending client only; they never interrupt the
// game for anyone else.
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		r.sendError(client, "malformed command")
		return err
	}

	var err error
	switch baseCmd.Name {
	case commands.Join{}.Name():
		var cmd commands.Join
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleJoin(client, cmd)
		}

	case commands.CreateRoom{}.Name():
		var cmd commands.CreateRoom
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleCreateRoom(client, cmd)
		}

	case commands.JoinRoom{}.Name():
		var cmd commands.JoinRoom
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleJoinRoom(client, cmd)
		}

	case commands.LeaveRoom{}.Name():
		err = r.handleLeaveRoom(client)

	case commands.ListRooms{}.Name():
		err = r.handleListRooms(client)

	case commands.StartGame{}.Name():
		var cmd commands.StartGame
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleStartGame(client, cmd)
		}

	case commands.GameAction{}.Name():
		var cmd commands.GameAction
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleGameAction(client, cmd)
		}

	default:
		r.sendError(client, "unknown command "+baseCmd.Name)
		return nil
	}

	if err != nil {
		r.sendError(client, err.Error())
		if !domain.IsValidation(err) {
			return err
		}
		r.logger.Debug("rejected command", "name", baseCmd.Name, "player", client.PlayerID, "err", err)
	}
	return nil
}

// HandleDisconnect resolves a dropped session.
func (r *CommandRouter) HandleDisconnect(client *connection.Client) {
	if client.PlayerID == "" {
		return
	}
	r.manager.Disconnect(client.PlayerID)
}

func (r *CommandRouter) handleJoin(client *connection.Client, cmd commands.Join) error {
	if client.PlayerID != "" {
		return domain.ValidationError{Reason: "already joined"}
	}
	if cmd.PlayerName == "" {
		return domain.ValidationError{Reason: "player name is required"}
	}

	// The connection id doubles as the player id. Binding before Join makes
	// sure the joined event can reach this client.
	r.connMgr.BindPlayer(client.ID, client.ID)
	client.PlayerID = client.ID

	if _, err := r.manager.Join(client.ID, cmd.PlayerName); err != nil {
		return err
	}
	return nil
}

func (r *CommandRouter) handleCreateRoom(client *connection.Client, cmd commands.CreateRoom) error {
	if client.PlayerID == "" {
		return domain.ValidationError{Reason: "join first"}
	}
	if cmd.RoomName == "" {
		return domain.ValidationError{Reason: "room name is required"}
	}

	_, err := r.manager.CreateRoom(cmd.RoomName, client.PlayerID)
	return err
}

func (r *CommandRouter) handleJoinRoom(client *connection.Client, cmd commands.JoinRoom) error {
	if client.PlayerID == "" {
		return domain.ValidationError{Reason: "join first"}
	}
	return r.manager.JoinRoom(cmd.RoomID, client.PlayerID)
}

func (r *CommandRouter) handleLeaveRoom(client *connection.Client) error {
	if client.PlayerID == "" {
		return domain.ValidationError{Reason: "join first"}
	}
	return r.manager.LeaveRoom(client.PlayerID)
}

func (r *CommandRouter) handleListRooms(client *connection.Client) error {
	// Listing works before JOIN too, so reply on the raw session channel.
	data, err := events.Envelope("ROOM_LIST", r.manager.RoomList())
	if err != nil {
		return err
	}

	select {
	case client.Send <- data:
	default:
	}
	return nil
}

func (r *CommandRouter) handleStartGame(client *connection.Client, cmd commands.StartGame) error {
	if client.PlayerID == "" {
		return domain.ValidationError{Reason: "join first"}
	}
	return r.manager.StartGame(cmd.RoomID, client.PlayerID)
}

func (r *CommandRouter) handleGameAction(client *connection.Client, cmd commands.GameAction) error {
	if client.PlayerID == "" {
		return domain.ValidationError{Reason: "join first"}
	}

	action := domain.Action(cmd.Action)
	switch action {
	case domain.ActionCall, domain.ActionRaise, domain.ActionCheck, domain.ActionFold, domain.ActionAllIn:
	default:
		return domain.ValidationError{Reason: "unknown action " + cmd.Action}
	}

	return r.manager.SubmitAction(cmd.RoomID, client.PlayerID, action, cmd.Amount)
}

func (r *CommandRouter) sendError(client *connection.Client, reason string) {
	data, err := events.Envelope("ERROR", map[string]string{"message": reason})
	if err != nil {
		return
	}

	select {
	case client.Send <- data:
	default:
	}
}
