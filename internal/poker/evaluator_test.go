package poker

import (
	"testing"

	"github.com/sebastiansanchezsa/PokareGame/internal/deck"
)

func c(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.NewCard(rank, suit)
}

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name      string
		hole      []deck.Card
		community []deck.Card
		expected  Category
	}{
		{
			name:      "royal flush from seven cards",
			hole:      []deck.Card{c(deck.Ace, deck.Hearts), c(deck.King, deck.Hearts)},
			community: []deck.Card{c(deck.Queen, deck.Hearts), c(deck.Jack, deck.Hearts), c(deck.Ten, deck.Hearts), c(deck.Two, deck.Clubs), c(deck.Three, deck.Diamonds)},
			expected:  RoyalFlush,
		},
		{
			name:      "straight flush nine high",
			hole:      []deck.Card{c(deck.Nine, deck.Spades), c(deck.Eight, deck.Spades)},
			community: []deck.Card{c(deck.Seven, deck.Spades), c(deck.Six, deck.Spades), c(deck.Five, deck.Spades), c(deck.Ace, deck.Hearts), c(deck.Ace, deck.Diamonds)},
			expected:  StraightFlush,
		},
		{
			name:      "four of a kind",
			hole:      []deck.Card{c(deck.Two, deck.Hearts), c(deck.Two, deck.Diamonds)},
			community: []deck.Card{c(deck.Two, deck.Clubs), c(deck.Two, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Five, deck.Clubs), c(deck.Seven, deck.Diamonds)},
			expected:  FourOfAKind,
		},
		{
			name:      "full house",
			hole:      []deck.Card{c(deck.King, deck.Hearts), c(deck.King, deck.Diamonds)},
			community: []deck.Card{c(deck.King, deck.Clubs), c(deck.Four, deck.Spades), c(deck.Four, deck.Hearts), c(deck.Nine, deck.Clubs), c(deck.Two, deck.Diamonds)},
			expected:  FullHouse,
		},
		{
			name:      "flush",
			hole:      []deck.Card{c(deck.Ace, deck.Clubs), c(deck.Nine, deck.Clubs)},
			community: []deck.Card{c(deck.Seven, deck.Clubs), c(deck.Five, deck.Clubs), c(deck.Two, deck.Clubs), c(deck.King, deck.Hearts), c(deck.Queen, deck.Diamonds)},
			expected:  Flush,
		},
		{
			name:      "straight built across hole and board",
			hole:      []deck.Card{c(deck.Seven, deck.Spades), c(deck.Eight, deck.Spades)},
			community: []deck.Card{c(deck.Nine, deck.Spades), c(deck.Ten, deck.Spades), c(deck.Jack, deck.Diamonds), c(deck.Two, deck.Clubs), c(deck.Three, deck.Clubs)},
			expected:  Straight,
		},
		{
			name:      "wheel straight",
			hole:      []deck.Card{c(deck.Ace, deck.Spades), c(deck.Two, deck.Hearts)},
			community: []deck.Card{c(deck.Three, deck.Diamonds), c(deck.Four, deck.Clubs), c(deck.Five, deck.Hearts), c(deck.King, deck.Spades), c(deck.Nine, deck.Diamonds)},
			expected:  Straight,
		},
		{
			name:      "three of a kind",
			hole:      []deck.Card{c(deck.Six, deck.Hearts), c(deck.Six, deck.Diamonds)},
			community: []deck.Card{c(deck.Six, deck.Clubs), c(deck.King, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Two, deck.Clubs), c(deck.Four, deck.Diamonds)},
			expected:  ThreeOfAKind,
		},
		{
			name:      "two pair",
			hole:      []deck.Card{c(deck.Jack, deck.Hearts), c(deck.Jack, deck.Diamonds)},
			community: []deck.Card{c(deck.Four, deck.Clubs), c(deck.Four, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Two, deck.Clubs), c(deck.King, deck.Diamonds)},
			expected:  TwoPair,
		},
		{
			name:      "one pair",
			hole:      []deck.Card{c(deck.Ten, deck.Hearts), c(deck.Ten, deck.Diamonds)},
			community: []deck.Card{c(deck.Four, deck.Clubs), c(deck.Six, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Two, deck.Clubs), c(deck.King, deck.Diamonds)},
			expected:  OnePair,
		},
		{
			name:      "high card",
			hole:      []deck.Card{c(deck.Ace, deck.Hearts), c(deck.Ten, deck.Diamonds)},
			community: []deck.Card{c(deck.Four, deck.Clubs), c(deck.Six, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Two, deck.Clubs), c(deck.King, deck.Diamonds)},
			expected:  HighCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(tt.hole, tt.community)
			if result.Category != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result.Category)
			}
		})
	}
}

func TestQuadsKicker(t *testing.T) {
	result := Evaluate(
		[]deck.Card{c(deck.Two, deck.Hearts), c(deck.Two, deck.Diamonds)},
		[]deck.Card{c(deck.Two, deck.Clubs), c(deck.Two, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Five, deck.Clubs), c(deck.Seven, deck.Diamonds)},
	)
	if result.Category != FourOfAKind {
		t.Fatalf("Expected four of a kind, got %s", result.Category)
	}
	if result.Tiebreak[0] != 2 {
		t.Errorf("Expected quad value 2, got %d", result.Tiebreak[0])
	}
	if result.Tiebreak[1] != 9 {
		t.Errorf("Expected kicker 9 (best of the board), got %d", result.Tiebreak[1])
	}
}

func TestWheelIsFiveHigh(t *testing.T) {
	wheel := Evaluate(
		[]deck.Card{c(deck.Ace, deck.Spades), c(deck.Two, deck.Hearts)},
		[]deck.Card{c(deck.Three, deck.Diamonds), c(deck.Four, deck.Clubs), c(deck.Five, deck.Hearts)},
	)
	sixHigh := Evaluate(
		[]deck.Card{c(deck.Six, deck.Spades), c(deck.Two, deck.Hearts)},
		[]deck.Card{c(deck.Three, deck.Diamonds), c(deck.Four, deck.Clubs), c(deck.Five, deck.Hearts)},
	)
	if wheel.Category != Straight || sixHigh.Category != Straight {
		t.Fatal("Both hands should be straights")
	}
	if wheel.Tiebreak[0] != 5 {
		t.Errorf("Wheel should be 5-high, got %d", wheel.Tiebreak[0])
	}
	if Compare(sixHigh, wheel) <= 0 {
		t.Error("A 6-high straight should beat the wheel")
	}
}

func TestCompareTiebreaks(t *testing.T) {
	higherPair := Evaluate(
		[]deck.Card{c(deck.King, deck.Hearts), c(deck.King, deck.Diamonds)},
		[]deck.Card{c(deck.Four, deck.Clubs), c(deck.Six, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Two, deck.Clubs), c(deck.Seven, deck.Diamonds)},
	)
	lowerPair := Evaluate(
		[]deck.Card{c(deck.Queen, deck.Hearts), c(deck.Queen, deck.Diamonds)},
		[]deck.Card{c(deck.Four, deck.Clubs), c(deck.Six, deck.Spades), c(deck.Nine, deck.Hearts), c(deck.Two, deck.Clubs), c(deck.Seven, deck.Diamonds)},
	)
	if Compare(higherPair, lowerPair) <= 0 {
		t.Error("Kings should beat queens")
	}
	if Compare(lowerPair, higherPair) >= 0 {
		t.Error("Comparison should be antisymmetric")
	}
	if Compare(higherPair, higherPair) != 0 {
		t.Error("A hand should tie with itself")
	}
}

func TestDetermineWinnersSplit(t *testing.T) {
	community := []deck.Card{
		c(deck.Ace, deck.Hearts), c(deck.King, deck.Diamonds), c(deck.Queen, deck.Clubs),
		c(deck.Jack, deck.Spades), c(deck.Ten, deck.Hearts),
	}
	// Both players play the board straight
	a := Evaluate([]deck.Card{c(deck.Two, deck.Hearts), c(deck.Three, deck.Diamonds)}, community)
	b := Evaluate([]deck.Card{c(deck.Four, deck.Clubs), c(deck.Five, deck.Spades)}, community)
	// This player makes a flush instead
	f := Evaluate([]deck.Card{c(deck.Two, deck.Hearts), c(deck.Three, deck.Hearts)}, []deck.Card{
		c(deck.Ace, deck.Hearts), c(deck.King, deck.Hearts), c(deck.Queen, deck.Clubs),
		c(deck.Jack, deck.Spades), c(deck.Ten, deck.Hearts),
	})

	winners := DetermineWinners([]HandResult{a, b})
	if len(winners) != 2 {
		t.Fatalf("Expected a 2-way split, got %v", winners)
	}

	winners = DetermineWinners([]HandResult{a, f, b})
	if len(winners) != 1 || winners[0] != 1 {
		t.Fatalf("Expected the flush alone to win, got %v", winners)
	}
}

func TestEvaluateTooFewCards(t *testing.T) {
	result := Evaluate([]deck.Card{c(deck.Ace, deck.Hearts), c(deck.King, deck.Hearts)}, nil)
	if result.Category != HighCard {
		t.Errorf("Short hand should score as the sentinel high card, got %s", result.Category)
	}
}
