package deck

import (
	"math/rand"
	"testing"
)

func testRNG() *rand.Rand { return rand.New(rand.NewSource(42)) }

func TestNewDeckComposition(t *testing.T) {
	cards := New(testRNG())
	if len(cards) != 108 {
		t.Fatalf("expected 108 cards, got %d", len(cards))
	}

	type key struct {
		color Color
		value string
	}
	counts := map[key]int{}
	ids := map[string]bool{}
	for _, c := range cards {
		counts[key{c.Color, c.Value}]++
		if ids[c.ID] {
			t.Fatalf("duplicate card id %s", c.ID)
		}
		ids[c.ID] = true
	}

	for _, color := range FaceColors() {
		if n := counts[key{color, "0"}]; n != 1 {
			t.Fatalf("%s 0: expected 1, got %d", color, n)
		}
		for _, v := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "skip", "reverse", "draw2"} {
			if n := counts[key{color, v}]; n != 2 {
				t.Fatalf("%s %s: expected 2, got %d", color, v, n)
			}
		}
	}
	if n := counts[key{ColorWild, "wild"}]; n != 4 {
		t.Fatalf("wild: expected 4, got %d", n)
	}
	if n := counts[key{ColorWild, "wild4"}]; n != 4 {
		t.Fatalf("wild4: expected 4, got %d", n)
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	base := New(testRNG())
	a := Shuffle(base, rand.New(rand.NewSource(7)))
	b := Shuffle(base, rand.New(rand.NewSource(7)))
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("seeded shuffles diverge at %d", i)
		}
	}
}

func TestDeal(t *testing.T) {
	pile := New(testRNG())
	hands, rest := Deal(pile, 4)
	if len(hands) != 4 {
		t.Fatalf("expected 4 hands, got %d", len(hands))
	}
	for i, h := range hands {
		if len(h) != 7 {
			t.Fatalf("hand %d: expected 7 cards, got %d", i, len(h))
		}
	}
	if len(rest) != 108-28 {
		t.Fatalf("expected %d cards left, got %d", 108-28, len(rest))
	}
}

func TestPickStartingSkipsWilds(t *testing.T) {
	pile := []Card{
		{ID: "w1", Color: ColorWild, Kind: KindWild, Value: "wild"},
		{ID: "r5", Color: ColorRed, Kind: KindNumber, Value: "5"},
		{ID: "b2", Color: ColorBlue, Kind: KindNumber, Value: "2"},
	}
	c, rest := PickStarting(pile)
	if c.ID != "r5" {
		t.Fatalf("expected first non-wild r5, got %s", c.ID)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 cards left, got %d", len(rest))
	}
	for _, r := range rest {
		if r.ID == "r5" {
			t.Fatalf("starting card still in pile")
		}
	}
}

func TestPickStartingAllWildFallback(t *testing.T) {
	pile := []Card{
		{ID: "w1", Color: ColorWild, Kind: KindWild, Value: "wild"},
		{ID: "w2", Color: ColorWild, Kind: KindWild4, Value: "wild4"},
	}
	c, rest := PickStarting(pile)
	if c.ID != "w2" {
		t.Fatalf("expected fallback to last card, got %s", c.ID)
	}
	if len(rest) != 1 {
		t.Fatalf("expected 1 card left, got %d", len(rest))
	}
}

func TestReshufflePreservesTop(t *testing.T) {
	discard := New(testRNG())[:20]
	top := discard[0]
	draw, kept := Reshuffle(discard, testRNG())
	if len(kept) != 1 || kept[0].ID != top.ID {
		t.Fatalf("expected top card %s to survive as sole discard entry", top.ID)
	}
	if len(draw) != 19 {
		t.Fatalf("expected draw pile of 19, got %d", len(draw))
	}
	for _, c := range draw {
		if c.ID == top.ID {
			t.Fatalf("top card leaked into draw pile")
		}
	}
}

func TestCanPlay(t *testing.T) {
	current := Card{Color: ColorRed, Kind: KindNumber, Value: "3"}
	cases := []struct {
		name string
		card Card
		want bool
	}{
		{"color match", Card{Color: ColorRed, Kind: KindNumber, Value: "9"}, true},
		{"value match", Card{Color: ColorBlue, Kind: KindNumber, Value: "3"}, true},
		{"wild always", Card{Color: ColorWild, Kind: KindWild, Value: "wild"}, true},
		{"wild4 always", Card{Color: ColorWild, Kind: KindWild4, Value: "wild4"}, true},
		{"no match", Card{Color: ColorGreen, Kind: KindNumber, Value: "7"}, false},
		{"action color match", Card{Color: ColorRed, Kind: KindSkip, Value: "skip"}, true},
		{"action no match", Card{Color: ColorBlue, Kind: KindSkip, Value: "skip"}, false},
	}
	for _, tc := range cases {
		if got := CanPlay(tc.card, current); got != tc.want {
			t.Fatalf("%s: CanPlay=%v want %v", tc.name, got, tc.want)
		}
	}
}
