package unodto

type CreateRoomCommand struct {
	Name           string `json:"name"`
	PlayerName     string `json:"player_name"`
	IsPrivate      bool   `json:"is_private"`
	IsSinglePlayer bool   `json:"is_single_player"`
}

type JoinRoomCommand struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
	Code       string `json:"code,omitempty"`
}

type StartGameCommand struct {
	RoomID string `json:"room_id"`
}

type PlayCardsCommand struct {
	RoomID      string   `json:"room_id"`
	PlayerID    string   `json:"player_id"`
	CardIDs     []string `json:"card_ids"`
	ChosenColor string   `json:"chosen_color,omitempty"`
}

type DrawCardCommand struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

type SendChatCommand struct {
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

type ReconnectCommand struct {
	PlayerID string `json:"player_id"`
}

type LeaveRoomCommand struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}
