package engine

import (
	"context"
	"crypto/rand"
	"fmt"
	mrand "math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/deck"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/history"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/identity"
	"github.com/Xremix39-prog/uno-web-chat-party/internal/obslog"
	"github.com/Xremix39-prog/uno-web-chat-party/pkg/unodto"
)

const (
	fullDeck = 108
	maxSeats = 4
)

// Manager is the process-wide room registry and session lifecycle owner.
// Each room mutates under its own lock; the registry lock only guards the
// map itself, so cross-room reads tolerate eventual consistency.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	ids  identity.Store
	hist *history.Repository

	seatTTL      time.Duration
	chatDebounce time.Duration
	maxRooms     int
	seed         func() int64
}

type Option func(*Manager)

// WithSeatTTL bounds how long a disconnected seat's identity binding stays
// reclaimable. Zero keeps bindings until explicit leave.
func WithSeatTTL(d time.Duration) Option {
	return func(m *Manager) { m.seatTTL = d }
}

func WithChatDebounce(d time.Duration) Option {
	return func(m *Manager) { m.chatDebounce = d }
}

func WithMaxRooms(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRooms = n
		}
	}
}

// WithSeedFunc overrides per-room rng seeding for deterministic tests.
func WithSeedFunc(f func() int64) Option {
	return func(m *Manager) { m.seed = f }
}

var seedSeq uint64

func defaultSeed() int64 {
	return time.Now().UnixNano() + int64(atomic.AddUint64(&seedSeq, 1))
}

func NewManager(ids identity.Store, opts ...Option) *Manager {
	m := &Manager{
		rooms:        make(map[string]*Room),
		ids:          ids,
		chatDebounce: 5 * time.Second,
		maxRooms:     200,
		seed:         defaultSeed,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AttachHistory wires a database repository for persisting finished games.
func (m *Manager) AttachHistory(r *history.Repository) {
	if m != nil {
		m.hist = r
	}
}

func (m *Manager) room(roomID string) (*Room, bool) {
	m.mu.RLock()
	r, ok := m.rooms[roomID]
	m.mu.RUnlock()
	return r, ok
}

// CreateRoom registers a new waiting room with the creator seated as host.
// Private rooms receive a short human-typable join code.
func (m *Manager) CreateRoom(ctx context.Context, name, hostName string, isPrivate, isSinglePlayer bool) (*unodto.RoomView, string, error) {
	host := &Player{ID: uuid.NewString(), Name: strings.TrimSpace(hostName), IsHost: true, Connected: true}
	r := &Room{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		Players:        []*Player{host},
		Status:         StatusWaiting,
		Direction:      Clockwise,
		IsPrivate:      isPrivate,
		IsSinglePlayer: isSinglePlayer,
		rng:            mrand.New(mrand.NewSource(m.seed())),
	}
	if isPrivate {
		code, err := roomCode()
		if err != nil {
			return nil, "", err
		}
		r.Code = code
	}

	m.mu.Lock()
	if len(m.rooms) >= m.maxRooms {
		m.mu.Unlock()
		return nil, "", ErrRoomLimit
	}
	m.rooms[r.ID] = r
	m.mu.Unlock()

	if err := m.ids.Bind(ctx, host.ID, r.ID, m.seatTTL); err != nil {
		obslog.L().Warn("identity_bind_error", zap.String("room_id", r.ID), zap.Error(err))
	}
	obslog.L().Info("room_create",
		zap.String("room_id", r.ID),
		zap.String("name", r.Name),
		zap.String("host_id", host.ID),
		zap.Bool("private", isPrivate),
	)

	r.mu.Lock()
	view := viewFor(r, host.ID, true, false)
	r.mu.Unlock()
	return view, host.ID, nil
}

// JoinRoom appends a new seat at the end of the seat order.
func (m *Manager) JoinRoom(ctx context.Context, roomID, playerName, code string) (*unodto.RoomView, string, error) {
	r, ok := m.room(roomID)
	if !ok {
		return nil, "", ErrRoomNotFound
	}

	p := &Player{ID: uuid.NewString(), Name: strings.TrimSpace(playerName), Connected: true}

	r.mu.Lock()
	switch {
	case r.Status != StatusWaiting:
		r.mu.Unlock()
		return nil, "", ErrGameInProgress
	case len(r.Players) >= maxSeats:
		r.mu.Unlock()
		return nil, "", ErrRoomFull
	case r.IsPrivate && r.Code != strings.TrimSpace(code):
		r.mu.Unlock()
		return nil, "", ErrInvalidCode
	}
	r.Players = append(r.Players, p)
	view := viewFor(r, p.ID, true, false)
	r.mu.Unlock()

	if err := m.ids.Bind(ctx, p.ID, r.ID, m.seatTTL); err != nil {
		obslog.L().Warn("identity_bind_error", zap.String("room_id", r.ID), zap.Error(err))
	}
	obslog.L().Info("room_join",
		zap.String("room_id", r.ID),
		zap.String("player_id", p.ID),
		zap.String("player_name", p.Name),
	)
	return view, p.ID, nil
}

// StartGame deals a fresh deck and moves the room into play. Host only.
func (m *Manager) StartGame(ctx context.Context, roomID, requesterID string) error {
	r, ok := m.room(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.corrupt {
		return ErrRoomCorrupt
	}
	if r.Status != StatusWaiting {
		return ErrGameInProgress
	}
	if len(r.Players) < 2 {
		return ErrNotEnoughPlayers
	}
	idx := r.seatIndex(requesterID)
	if idx < 0 || !r.Players[idx].IsHost {
		return ErrNotHost
	}

	pile := deck.New(r.rng)
	hands, pile := deck.Deal(pile, len(r.Players))
	for i, p := range r.Players {
		p.Hand = hands[i]
	}
	start, pile := deck.PickStarting(pile)
	r.DrawPile = pile
	r.DiscardPile = nil
	r.setCurrent(start)

	r.Status = StatusPlaying
	r.CurrentIndex = 0
	r.Direction = Clockwise
	r.TurnCount = 0
	r.ShuffleCount = 0
	r.StartTime = time.Now()
	r.WinnerName = ""

	obslog.L().Info("game_start",
		zap.String("room_id", r.ID),
		zap.Int("players", len(r.Players)),
		zap.String("starting_card", string(start.Color)+" "+start.Value),
	)
	return nil
}

// PlayResult reports one resolved card play for event fan-out.
type PlayResult struct {
	Card       unodto.CardView
	Finished   bool
	WinnerName string
}

// PlayCards resolves a play. The payload is batch-shaped but resolution is
// single-card: only cardIDs[0] is honored. True multi-card stacking would
// need atomic batch validation and a defined discard order first.
func (m *Manager) PlayCards(ctx context.Context, roomID, playerID string, cardIDs []string, chosenColor string) (*PlayResult, error) {
	r, ok := m.room(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.mu.Lock()
	res, err := m.playLocked(r, playerID, cardIDs, chosenColor)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if res.Finished {
		m.persistResult(ctx, r)
	}
	return res, nil
}

func (m *Manager) playLocked(r *Room, playerID string, cardIDs []string, chosenColor string) (*PlayResult, error) {
	if r.corrupt {
		return nil, ErrRoomCorrupt
	}
	if r.Status != StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	seat := r.seatIndex(playerID)
	if seat < 0 {
		return nil, ErrPlayerNotFound
	}
	if seat != r.CurrentIndex {
		return nil, ErrNotYourTurn
	}
	if len(cardIDs) == 0 {
		return nil, ErrNoCardsGiven
	}

	p := r.Players[seat]
	cardIdx := -1
	for i, c := range p.Hand {
		if c.ID == cardIDs[0] {
			cardIdx = i
			break
		}
	}
	if cardIdx < 0 {
		return nil, ErrCardNotInHand
	}

	card := p.Hand[cardIdx]
	if !deck.CanPlay(card, *r.CurrentCard) {
		return nil, ErrIllegalCardPlay
	}
	if card.IsWild() {
		if !deck.ValidChoice(strings.TrimSpace(chosenColor)) {
			return nil, ErrMissingColorChoice
		}
		card.Color = deck.Color(strings.TrimSpace(chosenColor))
	}

	// All validation passed; mutate.
	p.Hand = append(p.Hand[:cardIdx], p.Hand[cardIdx+1:]...)
	r.setCurrent(card)
	r.TurnCount++

	res := &PlayResult{Card: cardView(card)}

	if len(p.Hand) == 0 {
		r.Status = StatusFinished
		r.WinnerName = p.Name
		res.Finished = true
		res.WinnerName = p.Name
		obslog.L().Info("game_over",
			zap.String("room_id", r.ID),
			zap.String("winner", p.Name),
			zap.Int("turns", r.TurnCount),
		)
		return res, nil
	}

	steps := advanceSteps(card.Kind, len(r.Players))
	if card.Kind == deck.KindReverse {
		r.Direction = r.Direction.Flipped()
	}
	r.penalize(penaltyDraws(card.Kind))
	r.advance(steps)

	m.verifyConservation(r)
	obslog.L().Info("play_card",
		zap.String("room_id", r.ID),
		zap.String("player_id", playerID),
		zap.String("card", string(card.Color)+" "+card.Value),
		zap.Int("turn", r.TurnCount),
	)
	return res, nil
}

// DrawResult reports a voluntary draw.
type DrawResult struct {
	PlayerID string
	KeptTurn bool
}

// DrawCard serves a voluntary draw. The drawn card is never auto-played;
// the turn is kept only when the card would be playable.
func (m *Manager) DrawCard(ctx context.Context, roomID, playerID string) (*DrawResult, error) {
	r, ok := m.room(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.corrupt {
		return nil, ErrRoomCorrupt
	}
	if r.Status != StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	seat := r.seatIndex(playerID)
	if seat < 0 {
		return nil, ErrPlayerNotFound
	}
	if seat != r.CurrentIndex {
		return nil, ErrNotYourTurn
	}

	c, err := r.drawOne()
	if err != nil {
		return nil, err
	}
	p := r.Players[seat]
	p.Hand = append(p.Hand, c)
	r.TurnCount++

	kept := deck.CanPlay(c, *r.CurrentCard)
	if !kept {
		r.advance(1)
	}

	m.verifyConservation(r)
	obslog.L().Info("draw_card",
		zap.String("room_id", r.ID),
		zap.String("player_id", playerID),
		zap.Bool("kept_turn", kept),
	)
	return &DrawResult{PlayerID: playerID, KeptTurn: kept}, nil
}

// SendChat appends to the room's chat log. A message identical in sender
// and text to the immediately preceding one within the debounce window is
// dropped silently: (nil, nil).
func (m *Manager) SendChat(ctx context.Context, roomID, playerID, text string) (*unodto.ChatMessageView, error) {
	r, ok := m.room(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.seatIndex(playerID)
	if seat < 0 {
		return nil, ErrPlayerNotFound
	}
	p := r.Players[seat]

	now := time.Now()
	if n := len(r.Messages); n > 0 {
		last := r.Messages[n-1]
		if last.SenderID == p.ID && last.Text == text && now.Sub(last.Timestamp) < m.chatDebounce {
			obslog.L().Debug("chat_debounced", zap.String("room_id", r.ID), zap.String("player_id", p.ID))
			return nil, nil
		}
	}

	msg := ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   p.ID,
		SenderName: p.Name,
		Text:       text,
		Timestamp:  now,
	}
	r.Messages = append(r.Messages, msg)
	view := chatView(msg)
	return &view, nil
}

// LeaveResult reports the fallout of a seat removal.
type LeaveResult struct {
	PlayerID   string
	Destroyed  bool
	Finished   bool
	WinnerName string
	NewHostID  string
}

// Leave removes a seat. The turn pointer is recomputed by identity: resolve
// who holds the turn after removal before splicing the seat list, then
// derive the index, so no off-by-one arithmetic survives.
func (m *Manager) Leave(ctx context.Context, roomID, playerID string) (*LeaveResult, error) {
	r, ok := m.room(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	res := &LeaveResult{PlayerID: playerID}

	r.mu.Lock()
	seat := r.seatIndex(playerID)
	if seat < 0 {
		r.mu.Unlock()
		return nil, ErrPlayerNotFound
	}
	leaver := r.Players[seat]

	var turnHolderID string
	if r.Status == StatusPlaying && len(r.Players) > 1 {
		if seat == r.CurrentIndex {
			turnHolderID = r.Players[nextIndex(seat, r.Direction, len(r.Players))].ID
		} else {
			turnHolderID = r.Players[r.CurrentIndex].ID
		}
	}

	r.Players = append(r.Players[:seat], r.Players[seat+1:]...)

	if leaver.IsHost && len(r.Players) > 0 {
		r.Players[0].IsHost = true
		res.NewHostID = r.Players[0].ID
	}

	if r.Status == StatusPlaying {
		if idx := r.seatIndex(turnHolderID); idx >= 0 {
			r.CurrentIndex = idx
		}
		if len(r.Players) == 1 {
			r.Status = StatusFinished
			r.WinnerName = r.Players[0].Name
			res.Finished = true
			res.WinnerName = r.WinnerName
		}
	}
	res.Destroyed = len(r.Players) == 0
	r.mu.Unlock()

	if res.Destroyed {
		m.mu.Lock()
		delete(m.rooms, r.ID)
		m.mu.Unlock()
		obslog.L().Info("room_destroy", zap.String("room_id", r.ID))
	}
	if err := m.ids.Unbind(ctx, playerID); err != nil {
		obslog.L().Warn("identity_unbind_error", zap.String("player_id", playerID), zap.Error(err))
	}
	if res.Finished {
		m.persistResult(ctx, r)
	}
	obslog.L().Info("room_leave",
		zap.String("room_id", r.ID),
		zap.String("player_id", playerID),
		zap.Bool("destroyed", res.Destroyed),
	)
	return res, nil
}

// Reconnect resolves a stable identity back to its room, refreshes the seat
// binding, and returns a full snapshot scoped to that player, chat log
// included.
func (m *Manager) Reconnect(ctx context.Context, playerID string) (*unodto.RoomView, string, error) {
	roomID, err := m.ids.Lookup(ctx, playerID)
	if err != nil {
		return nil, "", err
	}
	if roomID == "" {
		return nil, "", ErrPlayerNotFound
	}
	r, ok := m.room(roomID)
	if !ok {
		_ = m.ids.Unbind(ctx, playerID)
		return nil, "", ErrRoomNotFound
	}

	r.mu.Lock()
	seat := r.seatIndex(playerID)
	if seat < 0 {
		r.mu.Unlock()
		_ = m.ids.Unbind(ctx, playerID)
		return nil, "", ErrPlayerNotFound
	}
	r.Players[seat].Connected = true
	view := viewFor(r, playerID, r.Players[seat].IsHost, true)
	r.mu.Unlock()

	if err := m.ids.Bind(ctx, playerID, roomID, m.seatTTL); err != nil {
		obslog.L().Warn("identity_bind_error", zap.String("player_id", playerID), zap.Error(err))
	}
	obslog.L().Info("reconnect", zap.String("room_id", roomID), zap.String("player_id", playerID))
	return view, roomID, nil
}

// MarkConnected records transport reachability for presence display. It
// never evicts a seat; only Leave does.
func (m *Manager) MarkConnected(roomID, playerID string, connected bool) {
	r, ok := m.room(roomID)
	if !ok {
		return
	}
	r.mu.Lock()
	if seat := r.seatIndex(playerID); seat >= 0 {
		r.Players[seat].Connected = connected
	}
	r.mu.Unlock()
}

// Views builds the per-recipient projections of one room, keyed by player
// id. Hosts see the private code; nobody sees another hand's contents.
func (m *Manager) Views(roomID string) (map[string]*unodto.RoomView, error) {
	r, ok := m.room(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*unodto.RoomView, len(r.Players))
	for _, p := range r.Players {
		out[p.ID] = viewFor(r, p.ID, p.IsHost, false)
	}
	return out, nil
}

// Directory snapshots the public room list. Private codes never appear.
func (m *Manager) Directory() []unodto.RoomSummary {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]unodto.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		out = append(out, summarize(r))
		r.mu.Unlock()
	}
	return out
}

// verifyConservation enforces the 108-card partition invariant while a game
// runs. A violation is a programming defect: the room is marked
// unrecoverable and further commands rejected.
func (m *Manager) verifyConservation(r *Room) {
	if r.Status != StatusPlaying {
		return
	}
	if total := r.totalCards(); total != fullDeck {
		r.corrupt = true
		obslog.L().Error("card_conservation_violation",
			zap.String("room_id", r.ID),
			zap.Int("total", total),
		)
	}
}

func (m *Manager) persistResult(ctx context.Context, r *Room) {
	if m.hist == nil {
		return
	}
	r.mu.Lock()
	res := &history.GameResult{
		RoomID:       r.ID,
		RoomName:     r.Name,
		WinnerName:   r.WinnerName,
		TurnCount:    r.TurnCount,
		ShuffleCount: r.ShuffleCount,
		StartedAt:    r.StartTime,
		EndedAt:      time.Now(),
	}
	for _, p := range r.Players {
		res.PlayerNames = append(res.PlayerNames, p.Name)
	}
	r.mu.Unlock()

	if err := m.hist.SaveResult(ctx, res); err != nil {
		obslog.L().Error("history_persist_error", zap.String("room_id", r.ID), zap.Error(err))
		return
	}
	obslog.L().Info("history_persist", zap.String("room_id", r.ID), zap.String("winner", res.WinnerName))
}

// roomCode returns 6 uppercase alphanumerics from crypto/rand. Collisions
// across live private rooms are accepted as negligible.
func roomCode() (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("room code: %w", err)
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return string(b), nil
}
