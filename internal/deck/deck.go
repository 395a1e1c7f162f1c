package deck

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Color is a card face color. Wild cards carry ColorWild until played, at
// which point the player's chosen color replaces it.
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorWild   Color = "wild"
)

// Kind classifies a card's effect.
type Kind string

const (
	KindNumber  Kind = "number"
	KindSkip    Kind = "skip"
	KindReverse Kind = "reverse"
	KindDraw2   Kind = "draw2"
	KindWild    Kind = "wild"
	KindWild4   Kind = "wild4"
)

// Card identity is assigned once at deck construction. Color is mutable
// exactly once, when a wild card is played and a replacement color chosen.
type Card struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// IsWild reports whether the card was printed wild, regardless of any color
// chosen later.
func (c Card) IsWild() bool {
	return c.Kind == KindWild || c.Kind == KindWild4
}

var faceColors = []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// FaceColors returns the four playable colors a wild card may assume.
func FaceColors() []Color {
	out := make([]Color, len(faceColors))
	copy(out, faceColors)
	return out
}

// ValidChoice reports whether s names a color a wild card may become.
func ValidChoice(s string) bool {
	for _, c := range faceColors {
		if string(c) == s {
			return true
		}
	}
	return false
}

// New builds a fresh 108-card deck and shuffles it. Per color: one 0, two
// each of 1..9, two each of skip/reverse/draw2; plus four wild and four
// wild4. Pass a seeded rng for deterministic order, or nil.
func New(rng *rand.Rand) []Card {
	cards := make([]Card, 0, 108)
	for _, color := range faceColors {
		cards = append(cards, newCard(color, KindNumber, "0"))
		for _, v := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"} {
			cards = append(cards, newCard(color, KindNumber, v), newCard(color, KindNumber, v))
		}
		for _, k := range []Kind{KindSkip, KindReverse, KindDraw2} {
			cards = append(cards, newCard(color, k, string(k)), newCard(color, k, string(k)))
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, newCard(ColorWild, KindWild, "wild"))
		cards = append(cards, newCard(ColorWild, KindWild4, "wild4"))
	}
	return Shuffle(cards, rng)
}

func newCard(color Color, kind Kind, value string) Card {
	return Card{ID: uuid.NewString(), Color: color, Kind: kind, Value: value}
}

// Shuffle returns a uniformly permuted copy of cards.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal draws seven cards per hand from the pile's end, round-robin, and
// returns the hands with the shrunk pile.
func Deal(pile []Card, hands int) ([][]Card, []Card) {
	out := make([][]Card, hands)
	for i := range out {
		out[i] = make([]Card, 0, 7)
	}
	for i := 0; i < 7; i++ {
		for j := 0; j < hands; j++ {
			var c Card
			c, pile = pop(pile)
			out[j] = append(out[j], c)
		}
	}
	return out, pile
}

// PickStarting removes and returns the first non-wild card in the pile to
// seed the discard pile. If every card is wild it falls back to the last
// card; there is no shuffle-retry.
func PickStarting(pile []Card) (Card, []Card) {
	for i := range pile {
		if !pile[i].IsWild() {
			c := pile[i]
			return c, append(pile[:i:i], pile[i+1:]...)
		}
	}
	return pile[len(pile)-1], pile[:len(pile)-1]
}

// Reshuffle recycles a discard pile whose head is the current card: the head
// survives as the sole discard entry and the remainder becomes the new,
// shuffled draw pile.
func Reshuffle(discard []Card, rng *rand.Rand) (draw, kept []Card) {
	top := discard[0]
	draw = Shuffle(discard[1:], rng)
	return draw, []Card{top}
}

// CanPlay reports card-play legality: any wild is always legal, otherwise
// the color or the value must match the current card.
func CanPlay(card, current Card) bool {
	if card.Color == ColorWild {
		return true
	}
	return card.Color == current.Color || card.Value == current.Value
}

func pop(pile []Card) (Card, []Card) {
	c := pile[len(pile)-1]
	return c, pile[:len(pile)-1]
}
