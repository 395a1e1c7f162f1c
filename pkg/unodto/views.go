package unodto

// CardView is a card as seen on the wire.
type CardView struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// PlayerView carries full hand contents only for the recipient; every other
// seat exposes its hand size alone.
type PlayerView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Cards         []CardView `json:"cards,omitempty"`
	CardCount     int        `json:"card_count"`
	IsHost        bool       `json:"is_host"`
	IsCurrentTurn bool       `json:"is_current_turn"`
	Connected     bool       `json:"connected"`
}

type ChatMessageView struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
	IsRead     bool   `json:"is_read"`
}

// RoomView is the per-recipient projection of one room. Pile contents are
// never exposed, only sizes; Code is set only for participants.
type RoomView struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Players         []PlayerView      `json:"players"`
	Status          string            `json:"status"`
	CurrentPlayerID string            `json:"current_player_id,omitempty"`
	CurrentCard     *CardView         `json:"current_card,omitempty"`
	Direction       string            `json:"direction"`
	DrawPileSize    int               `json:"draw_pile_size"`
	DiscardPileSize int               `json:"discard_pile_size"`
	IsPrivate       bool              `json:"is_private"`
	Code            string            `json:"code,omitempty"`
	IsSinglePlayer  bool              `json:"is_single_player"`
	TurnCount       int               `json:"turn_count"`
	ShuffleCount    int               `json:"shuffle_count"`
	StartTime       int64             `json:"start_time,omitempty"`
	WinnerName      string            `json:"winner_name,omitempty"`
	Messages        []ChatMessageView `json:"messages,omitempty"`
}

// RoomSummary is a public directory entry. It never carries a private code.
type RoomSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PlayerNames     []string `json:"player_names"`
	PlayerCount     int      `json:"player_count"`
	Status          string   `json:"status"`
	CurrentPlayerID string   `json:"current_player_id,omitempty"`
	IsPrivate       bool     `json:"is_private"`
	IsSinglePlayer  bool     `json:"is_single_player"`
	TurnCount       int      `json:"turn_count"`
	ShuffleCount    int      `json:"shuffle_count"`
}
