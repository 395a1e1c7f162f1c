package engine

import "github.com/Xremix39-prog/uno-web-chat-party/pkg/unodto"

// Every engine error is user-facing and recoverable: reported to the
// requesting connection only, never broadcast, never fatal to the room.
var (
	ErrRoomNotFound       = &unodto.DomainError{Code: "ROOM_NOT_FOUND", Message: "room not found"}
	ErrGameInProgress     = &unodto.DomainError{Code: "GAME_IN_PROGRESS", Message: "game already in progress"}
	ErrRoomFull           = &unodto.DomainError{Code: "ROOM_FULL", Message: "room is full"}
	ErrInvalidCode        = &unodto.DomainError{Code: "INVALID_CODE", Message: "invalid room code"}
	ErrNotHost            = &unodto.DomainError{Code: "NOT_HOST", Message: "only the host can start the game"}
	ErrNotEnoughPlayers   = &unodto.DomainError{Code: "NOT_ENOUGH_PLAYERS", Message: "need at least 2 players to start"}
	ErrPlayerNotFound     = &unodto.DomainError{Code: "PLAYER_NOT_FOUND", Message: "player not found"}
	ErrNotYourTurn        = &unodto.DomainError{Code: "NOT_YOUR_TURN", Message: "not your turn"}
	ErrCardNotInHand      = &unodto.DomainError{Code: "CARD_NOT_IN_HAND", Message: "card not found in your hand"}
	ErrIllegalCardPlay    = &unodto.DomainError{Code: "ILLEGAL_CARD_PLAY", Message: "cannot play this card"}
	ErrMissingColorChoice = &unodto.DomainError{Code: "MISSING_COLOR_CHOICE", Message: "must choose a valid color for wild card"}
	ErrEmptyDrawPile      = &unodto.DomainError{Code: "EMPTY_DRAW_PILE", Message: "no cards left to draw"}
	ErrGameNotInProgress  = &unodto.DomainError{Code: "GAME_NOT_IN_PROGRESS", Message: "game not in progress"}
	ErrNoCardsGiven       = &unodto.DomainError{Code: "NO_CARDS", Message: "no cards to play"}
	ErrRoomCorrupt        = &unodto.DomainError{Code: "ROOM_CORRUPT", Message: "room state is unrecoverable"}
	ErrRoomLimit          = &unodto.DomainError{Code: "ROOM_LIMIT", Message: "room limit reached"}
)
