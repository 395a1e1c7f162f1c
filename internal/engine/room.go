package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Xremix39-prog/uno-web-chat-party/internal/deck"
)

// Status represents a room lifecycle state.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Direction is the turn rotation sense.
type Direction string

const (
	Clockwise        Direction = "clockwise"
	CounterClockwise Direction = "counter-clockwise"
)

func (d Direction) Flipped() Direction {
	if d == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

// Player is one seat. ID survives reconnection; the transport binding lives
// in the gateway, the engine only tracks reachability for presence display.
type Player struct {
	ID        string
	Name      string
	Hand      []deck.Card
	IsHost    bool
	Connected bool
}

type ChatMessage struct {
	ID         string
	SenderID   string
	SenderName string
	Text       string
	Timestamp  time.Time
	IsRead     bool
}

// Room is the authoritative record of one session. All mutation happens
// under mu, one command at a time; the manager never holds two room locks.
type Room struct {
	ID             string
	Name           string
	Players        []*Player // seat order = join order = turn order
	Status         Status
	CurrentIndex   int
	Direction      Direction
	DrawPile       []deck.Card
	DiscardPile    []deck.Card // index 0 = most recently played
	CurrentCard    *deck.Card
	IsPrivate      bool
	Code           string
	IsSinglePlayer bool
	TurnCount      int
	ShuffleCount   int
	StartTime      time.Time
	WinnerName     string
	Messages       []ChatMessage

	mu      sync.Mutex
	rng     *rand.Rand
	corrupt bool
}

func (r *Room) seatIndex(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) currentPlayer() *Player {
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(r.Players) {
		return nil
	}
	return r.Players[r.CurrentIndex]
}

func (r *Room) totalCards() int {
	total := len(r.DrawPile) + len(r.DiscardPile)
	for _, p := range r.Players {
		total += len(p.Hand)
	}
	return total
}

// drawOne takes the next card off the draw pile, reshuffling the discard
// pile beneath its top card when the draw pile is exhausted. It fails only
// when no recyclable card exists at all.
func (r *Room) drawOne() (deck.Card, error) {
	if len(r.DrawPile) == 0 {
		if len(r.DiscardPile) <= 1 {
			return deck.Card{}, ErrEmptyDrawPile
		}
		r.DrawPile, r.DiscardPile = deck.Reshuffle(r.DiscardPile, r.rng)
		r.ShuffleCount++
	}
	c := r.DrawPile[len(r.DrawPile)-1]
	r.DrawPile = r.DrawPile[:len(r.DrawPile)-1]
	return c, nil
}

// setCurrent pushes the card onto the discard pile head and records it as
// the current card, keeping the two in lockstep.
func (r *Room) setCurrent(c deck.Card) {
	r.DiscardPile = append([]deck.Card{c}, r.DiscardPile...)
	top := c
	r.CurrentCard = &top
}
