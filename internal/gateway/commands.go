package gateway

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/obslog"
	"github.com/Xremix39-prog/uno-web-chat-party/pkg/unodto"
)

var errBadCommand = &unodto.DomainError{Code: "BAD_COMMAND", Message: "malformed command"}

// dispatch routes one inbound envelope. Every branch either answers the
// sender or sends it an error; unknown types are an error, not silence.
func (c *client) dispatch(ctx context.Context, env unodto.Envelope) {
	switch env.Type {
	case unodto.CmdListRooms:
		c.handleListRooms()
	case unodto.CmdCreateRoom:
		c.handleCreateRoom(ctx, env.Payload)
	case unodto.CmdJoinRoom:
		c.handleJoinRoom(ctx, env.Payload)
	case unodto.CmdStartGame:
		c.handleStartGame(ctx, env.Payload)
	case unodto.CmdPlayCards:
		c.handlePlayCards(ctx, env.Payload)
	case unodto.CmdDrawCard:
		c.handleDrawCard(ctx, env.Payload)
	case unodto.CmdSendChat:
		c.handleSendChat(ctx, env.Payload)
	case unodto.CmdReconnect:
		c.handleReconnect(ctx, env.Payload)
	case unodto.CmdLeaveRoom:
		c.handleLeaveRoom(ctx, env.Payload)
	default:
		obslog.L().Debug("ws_unknown_command", zap.String("type", env.Type))
		c.sendError(errBadCommand)
	}
}

func decode[T any](raw json.RawMessage) (T, bool) {
	var cmd T
	if len(raw) == 0 {
		return cmd, false
	}
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return cmd, false
	}
	return cmd, true
}

func (c *client) handleListRooms() {
	c.send(unodto.Wrap(unodto.EvtRooms, unodto.RoomsEvent{Rooms: c.hub.engine.Directory()}))
}

func (c *client) handleCreateRoom(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.CreateRoomCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	view, playerID, err := c.hub.engine.CreateRoom(ctx, cmd.Name, cmd.PlayerName, cmd.IsPrivate, cmd.IsSinglePlayer)
	if err != nil {
		c.sendError(err)
		return
	}
	c.hub.bind(c, playerID, view.ID)
	c.send(unodto.Wrap(unodto.EvtRoomCreated, unodto.RoomCreatedEvent{Room: view, PlayerID: playerID}))
	c.hub.broadcastDirectory()
}

func (c *client) handleJoinRoom(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.JoinRoomCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	view, playerID, err := c.hub.engine.JoinRoom(ctx, cmd.RoomID, cmd.PlayerName, cmd.Code)
	if err != nil {
		c.sendError(err)
		return
	}
	c.hub.bind(c, playerID, view.ID)
	c.send(unodto.Wrap(unodto.EvtRoomJoined, unodto.RoomJoinedEvent{Room: view, PlayerID: playerID}))
	c.hub.fanOutRoom(view.ID)
	c.hub.notice(view.ID, "notices.player_joined", map[string]string{"Name": cmd.PlayerName})
	c.hub.broadcastDirectory()
}

func (c *client) handleStartGame(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.StartGameCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	if err := c.hub.engine.StartGame(ctx, cmd.RoomID, c.playerID); err != nil {
		c.sendError(err)
		return
	}
	views, err := c.hub.engine.Views(cmd.RoomID)
	if err != nil {
		c.sendError(err)
		return
	}
	var firstName string
	for playerID, view := range views {
		if cl := c.hub.clientFor(playerID); cl != nil {
			cl.send(unodto.Wrap(unodto.EvtGameStarted, unodto.GameStartedEvent{Room: view}))
		}
		for _, p := range view.Players {
			if p.IsCurrentTurn {
				firstName = p.Name
			}
		}
	}
	c.hub.notice(cmd.RoomID, "notices.game_started", map[string]string{"Name": firstName})
	c.hub.broadcastDirectory()
}

func (c *client) handlePlayCards(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.PlayCardsCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	res, err := c.hub.engine.PlayCards(ctx, cmd.RoomID, c.playerID, cmd.CardIDs, cmd.ChosenColor)
	if err != nil {
		c.sendError(err)
		return
	}
	c.hub.fanOutEvent(cmd.RoomID, unodto.Wrap(unodto.EvtCardPlayed, unodto.CardPlayedEvent{
		RoomID:   cmd.RoomID,
		PlayerID: c.playerID,
		Card:     res.Card,
	}))
	c.hub.fanOutRoom(cmd.RoomID)
	if res.Finished {
		c.hub.fanOutEvent(cmd.RoomID, unodto.Wrap(unodto.EvtGameOver, unodto.GameOverEvent{
			RoomID:     cmd.RoomID,
			WinnerName: res.WinnerName,
		}))
		c.hub.notice(cmd.RoomID, "notices.game_over", map[string]string{"Name": res.WinnerName})
		c.hub.broadcastDirectory()
	}
}

func (c *client) handleDrawCard(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.DrawCardCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	res, err := c.hub.engine.DrawCard(ctx, cmd.RoomID, c.playerID)
	if err != nil {
		c.sendError(err)
		return
	}
	c.hub.fanOutEvent(cmd.RoomID, unodto.Wrap(unodto.EvtCardDrawn, unodto.CardDrawnEvent{
		RoomID:   cmd.RoomID,
		PlayerID: c.playerID,
		KeptTurn: res.KeptTurn,
	}))
	c.hub.fanOutRoom(cmd.RoomID)
}

func (c *client) handleSendChat(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.SendChatCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	msg, err := c.hub.engine.SendChat(ctx, cmd.RoomID, c.playerID, cmd.Text)
	if err != nil {
		c.sendError(err)
		return
	}
	if msg == nil {
		return // debounced duplicate, dropped without a reply
	}
	c.hub.fanOutEvent(cmd.RoomID, unodto.Wrap(unodto.EvtChat, unodto.ChatEvent{
		RoomID:  cmd.RoomID,
		Message: *msg,
	}))
}

func (c *client) handleReconnect(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.ReconnectCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	view, roomID, err := c.hub.engine.Reconnect(ctx, cmd.PlayerID)
	if err != nil {
		c.sendError(err)
		return
	}
	c.hub.bind(c, cmd.PlayerID, roomID)
	c.send(unodto.Wrap(unodto.EvtReconnected, unodto.ReconnectedEvent{Room: view, PlayerID: cmd.PlayerID}))
	c.hub.fanOutRoom(roomID)
}

func (c *client) handleLeaveRoom(ctx context.Context, raw json.RawMessage) {
	cmd, ok := decode[unodto.LeaveRoomCommand](raw)
	if !ok {
		c.sendError(errBadCommand)
		return
	}
	res, err := c.hub.engine.Leave(ctx, cmd.RoomID, c.playerID)
	if err != nil {
		c.sendError(err)
		return
	}

	c.hub.mu.Lock()
	if c.hub.byPlayer[c.playerID] == c {
		delete(c.hub.byPlayer, c.playerID)
	}
	c.playerID, c.roomID = "", ""
	c.hub.mu.Unlock()

	if !res.Destroyed {
		c.hub.fanOutEvent(cmd.RoomID, unodto.Wrap(unodto.EvtPlayerLeft, unodto.PlayerLeftEvent{
			RoomID:   cmd.RoomID,
			PlayerID: res.PlayerID,
		}))
		c.hub.fanOutRoom(cmd.RoomID)
		if res.Finished {
			c.hub.fanOutEvent(cmd.RoomID, unodto.Wrap(unodto.EvtGameOver, unodto.GameOverEvent{
				RoomID:     cmd.RoomID,
				WinnerName: res.WinnerName,
			}))
			c.hub.notice(cmd.RoomID, "notices.game_over", map[string]string{"Name": res.WinnerName})
		}
	}
	c.hub.broadcastDirectory()
}
