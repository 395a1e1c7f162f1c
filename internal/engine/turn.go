package engine

import "github.com/Xremix39-prog/uno-web-chat-party/internal/deck"

// nextIndex steps one seat from idx in the given direction.
func nextIndex(idx int, dir Direction, seats int) int {
	if seats <= 0 {
		return 0
	}
	if dir == Clockwise {
		return (idx + 1) % seats
	}
	return (idx - 1 + seats) % seats
}

// advanceSteps returns how many seats the turn pointer moves after the
// given card resolves. Skip forfeits the next seat; reverse collapses to a
// skip when only two seats remain; draw2/wild4 skip the penalized seat.
func advanceSteps(kind deck.Kind, seats int) int {
	switch kind {
	case deck.KindSkip, deck.KindDraw2, deck.KindWild4:
		return 2
	case deck.KindReverse:
		if seats == 2 {
			return 2
		}
		return 1
	default:
		return 1
	}
}

// penaltyDraws returns the number of cards the next seat is forced to draw.
func penaltyDraws(kind deck.Kind) int {
	switch kind {
	case deck.KindDraw2:
		return 2
	case deck.KindWild4:
		return 4
	default:
		return 0
	}
}

// advance moves the room's turn pointer by n seats.
func (r *Room) advance(n int) {
	for i := 0; i < n; i++ {
		r.CurrentIndex = nextIndex(r.CurrentIndex, r.Direction, len(r.Players))
	}
}

// penalize forces the seat after the current one to draw n cards. Draws that
// cannot be served (both piles drained mid-penalty) are dropped silently;
// card conservation makes that pathological.
func (r *Room) penalize(n int) {
	if n <= 0 || len(r.Players) == 0 {
		return
	}
	target := r.Players[nextIndex(r.CurrentIndex, r.Direction, len(r.Players))]
	for i := 0; i < n; i++ {
		c, err := r.drawOne()
		if err != nil {
			return
		}
		target.Hand = append(target.Hand, c)
	}
}
