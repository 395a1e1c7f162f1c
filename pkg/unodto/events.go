package unodto

type RoomsEvent struct {
	Rooms []RoomSummary `json:"rooms"`
}

type RoomCreatedEvent struct {
	Room     *RoomView `json:"room"`
	PlayerID string    `json:"player_id"`
}

type RoomJoinedEvent struct {
	Room     *RoomView `json:"room"`
	PlayerID string    `json:"player_id"`
}

type RoomUpdatedEvent struct {
	Room *RoomView `json:"room"`
}

type GameStartedEvent struct {
	Room *RoomView `json:"room"`
}

type CardPlayedEvent struct {
	RoomID   string   `json:"room_id"`
	PlayerID string   `json:"player_id"`
	Card     CardView `json:"card"`
}

type CardDrawnEvent struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	KeptTurn bool   `json:"kept_turn"`
}

type ChatEvent struct {
	RoomID  string          `json:"room_id"`
	Message ChatMessageView `json:"message"`
}

type GameOverEvent struct {
	RoomID     string `json:"room_id"`
	WinnerName string `json:"winner_name"`
}

type PlayerLeftEvent struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

type ReconnectedEvent struct {
	Room     *RoomView `json:"room"`
	PlayerID string    `json:"player_id"`
}

type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
