package poker

import (
	"sort"

	"github.com/sebastiansanchezsa/PokareGame/internal/deck"
)

// Category represents a poker hand category, weakest to strongest
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the display name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult is the outcome of evaluating a hand. Tiebreak holds the
// ordered rank values that disambiguate hands within the same category
// (e.g. quad value then kicker for four of a kind).
type HandResult struct {
	Category Category
	Tiebreak []int
}

// Evaluate returns the best 5-card hand from the player's hole cards plus
// the community cards. With fewer than 5 total cards it returns the
// sentinel lowest result; that only happens defensively, never in a real
// showdown.
func Evaluate(hole, community []deck.Card) HandResult {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	if len(all) < 5 {
		return HandResult{Category: HighCard, Tiebreak: []int{0}}
	}

	best := HandResult{Category: HighCard, Tiebreak: []int{0}}
	first := true
	var combo [5]deck.Card
	forEachCombination(all, combo[:], 0, 0, func(hand []deck.Card) {
		r := evaluate5(hand)
		if first || Compare(r, best) > 0 {
			best = r
			first = false
		}
	})
	return best
}

// forEachCombination visits every 5-card subset of cards
func forEachCombination(cards, combo []deck.Card, start, depth int, visit func([]deck.Card)) {
	if depth == len(combo) {
		visit(combo)
		return
	}
	for i := start; i <= len(cards)-(len(combo)-depth); i++ {
		combo[depth] = cards[i]
		forEachCombination(cards, combo, i+1, depth+1, visit)
	}
}

// evaluate5 scores exactly 5 cards
func evaluate5(cards []deck.Card) HandResult {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	unique := dedupe(values)
	straight, straightHigh := findStraight(unique)

	// Group ranks by multiplicity, ordered by count desc then value desc
	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	type group struct{ value, count int }
	groups := make([]group, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, group{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	groupValues := make([]int, len(groups))
	for i, g := range groups {
		groupValues[i] = g.value
	}

	switch {
	case flush && straight && straightHigh == int(deck.Ace):
		return HandResult{Category: RoyalFlush, Tiebreak: []int{straightHigh}}
	case flush && straight:
		return HandResult{Category: StraightFlush, Tiebreak: []int{straightHigh}}
	case groups[0].count == 4:
		return HandResult{Category: FourOfAKind, Tiebreak: groupValues}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandResult{Category: FullHouse, Tiebreak: groupValues}
	case flush:
		return HandResult{Category: Flush, Tiebreak: values}
	case straight:
		return HandResult{Category: Straight, Tiebreak: []int{straightHigh}}
	case groups[0].count == 3:
		return HandResult{Category: ThreeOfAKind, Tiebreak: groupValues}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandResult{Category: TwoPair, Tiebreak: groupValues}
	case groups[0].count == 2:
		return HandResult{Category: OnePair, Tiebreak: groupValues}
	default:
		return HandResult{Category: HighCard, Tiebreak: values}
	}
}

// findStraight looks for 5 consecutive values in a descending-sorted list
// of unique values. The wheel (A-2-3-4-5) counts as a 5-high straight.
func findStraight(unique []int) (bool, int) {
	if len(unique) < 5 {
		return false, 0
	}
	for i := 0; i <= len(unique)-5; i++ {
		if unique[i]-unique[i+4] == 4 {
			return true, unique[i]
		}
	}
	if contains(unique, int(deck.Ace)) && contains(unique, 5) &&
		contains(unique, 4) && contains(unique, 3) && contains(unique, 2) {
		return true, 5
	}
	return false, 0
}

func dedupe(sorted []int) []int {
	out := make([]int, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func contains(vals []int, v int) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

// Compare returns >0 if a beats b, <0 if b beats a, 0 on a tie. Category
// decides first, then the tiebreak vectors element-wise. This is a total
// order over hands and is deterministic for identical inputs.
func Compare(a, b HandResult) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	n := len(a.Tiebreak)
	if len(b.Tiebreak) < n {
		n = len(b.Tiebreak)
	}
	for i := 0; i < n; i++ {
		if a.Tiebreak[i] != b.Tiebreak[i] {
			return a.Tiebreak[i] - b.Tiebreak[i]
		}
	}
	return 0
}

// DetermineWinners returns the indexes of every result that compares equal
// to the maximum. Multiple indexes mean a split pot.
func DetermineWinners(results []HandResult) []int {
	if len(results) == 0 {
		return nil
	}
	best := results[0]
	winners := []int{0}
	for i := 1; i < len(results); i++ {
		cmp := Compare(results[i], best)
		if cmp > 0 {
			best = results[i]
			winners = []int{i}
		} else if cmp == 0 {
			winners = append(winners, i)
		}
	}
	return winners
}
