package commands

type Command interface {
	Name() string
}

type Join struct {
	PlayerName string `json:"playerName"`
}

func (c Join) Name() string { return "JOIN" }

type CreateRoom struct {
	RoomName string `json:"roomName"`
}

func (c CreateRoom) Name() string { return "CREATE_ROOM" }

type JoinRoom struct {
	RoomID string `json:"roomId"`
}

func (c JoinRoom) Name() string { return "JOIN_ROOM" }

type LeaveRoom struct{}

func (c LeaveRoom) Name() string { return "LEAVE_ROOM" }

type ListRooms struct{}

func (c ListRooms) Name() string { return "LIST_ROOMS" }

type StartGame struct {
	RoomID string `json:"roomId"`
}

func (c StartGame) Name() string { return "START_GAME" }

type GameAction struct {
	RoomID string `json:"roomId"`
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (c GameAction) Name() string { return "GAME_ACTION" }
