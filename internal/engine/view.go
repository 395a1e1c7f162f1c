package engine

import (
	"github.com/Xremix39-prog/uno-web-chat-party/internal/deck"
	"github.com/Xremix39-prog/uno-web-chat-party/pkg/unodto"
)

func cardView(c deck.Card) unodto.CardView {
	return unodto.CardView{
		ID:    c.ID,
		Color: string(c.Color),
		Kind:  string(c.Kind),
		Value: c.Value,
	}
}

func cardViews(cards []deck.Card) []unodto.CardView {
	out := make([]unodto.CardView, len(cards))
	for i, c := range cards {
		out[i] = cardView(c)
	}
	return out
}

func chatView(m ChatMessage) unodto.ChatMessageView {
	return unodto.ChatMessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		Timestamp:  m.Timestamp.UnixMilli(),
		IsRead:     m.IsRead,
	}
}

// viewFor projects the room for one recipient. Only the recipient's own
// hand is materialized; every other hand collapses to a count. The private
// code appears only when withCode is set (host, or the player the create or
// join just minted). Caller holds r.mu.
func viewFor(r *Room, playerID string, withCode, withMessages bool) *unodto.RoomView {
	v := &unodto.RoomView{
		ID:              r.ID,
		Name:            r.Name,
		Status:          string(r.Status),
		Direction:       string(r.Direction),
		DrawPileSize:    len(r.DrawPile),
		DiscardPileSize: len(r.DiscardPile),
		IsPrivate:       r.IsPrivate,
		IsSinglePlayer:  r.IsSinglePlayer,
		TurnCount:       r.TurnCount,
		ShuffleCount:    r.ShuffleCount,
		WinnerName:      r.WinnerName,
	}
	if !r.StartTime.IsZero() {
		v.StartTime = r.StartTime.UnixMilli()
	}
	if r.CurrentCard != nil {
		cc := cardView(*r.CurrentCard)
		v.CurrentCard = &cc
	}
	if cur := r.currentPlayer(); cur != nil && r.Status == StatusPlaying {
		v.CurrentPlayerID = cur.ID
	}
	if r.IsPrivate && withCode {
		v.Code = r.Code
	}

	v.Players = make([]unodto.PlayerView, len(r.Players))
	for i, p := range r.Players {
		pv := unodto.PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			CardCount:     len(p.Hand),
			IsHost:        p.IsHost,
			IsCurrentTurn: r.Status == StatusPlaying && i == r.CurrentIndex,
			Connected:     p.Connected,
		}
		if p.ID == playerID {
			pv.Cards = cardViews(p.Hand)
		}
		v.Players[i] = pv
	}

	if withMessages {
		v.Messages = make([]unodto.ChatMessageView, len(r.Messages))
		for i, m := range r.Messages {
			v.Messages[i] = chatView(m)
		}
	}
	return v
}

// summarize builds the directory entry for one room. Caller holds r.mu.
func summarize(r *Room) unodto.RoomSummary {
	s := unodto.RoomSummary{
		ID:             r.ID,
		Name:           r.Name,
		PlayerCount:    len(r.Players),
		Status:         string(r.Status),
		IsPrivate:      r.IsPrivate,
		IsSinglePlayer: r.IsSinglePlayer,
		TurnCount:      r.TurnCount,
		ShuffleCount:   r.ShuffleCount,
	}
	for _, p := range r.Players {
		s.PlayerNames = append(s.PlayerNames, p.Name)
	}
	if cur := r.currentPlayer(); cur != nil && r.Status == StatusPlaying {
		s.CurrentPlayerID = cur.ID
	}
	return s
}
