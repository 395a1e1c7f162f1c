package unodto

import "encoding/json"

// Envelope is the tagged wire frame for every inbound command and outbound
// event. Dispatch over Type must be exhaustive: an unknown command yields an
// error reply, never silence.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound command types.
const (
	CmdListRooms  = "list_rooms"
	CmdCreateRoom = "create_room"
	CmdJoinRoom   = "join_room"
	CmdStartGame  = "start_game"
	CmdPlayCards  = "play_cards"
	CmdDrawCard   = "draw_card"
	CmdSendChat   = "send_chat"
	CmdReconnect  = "reconnect"
	CmdLeaveRoom  = "leave_room"
)

// Outbound event types.
const (
	EvtRooms       = "rooms"
	EvtRoomCreated = "room_created"
	EvtRoomJoined  = "room_joined"
	EvtRoomUpdated = "room_updated"
	EvtGameStarted = "game_started"
	EvtCardPlayed  = "card_played"
	EvtCardDrawn   = "card_drawn"
	EvtChat        = "chat"
	EvtGameOver    = "game_over"
	EvtPlayerLeft  = "player_left"
	EvtReconnected = "reconnected"
	EvtError       = "error"
)

// Wrap marshals payload into an Envelope. A marshal failure is a programming
// defect; the envelope is returned with an empty payload in that case.
func Wrap(typ string, payload any) Envelope {
	if payload == nil {
		return Envelope{Type: typ}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{Type: typ}
	}
	return Envelope{Type: typ, Payload: raw}
}
