package game

import (
	"github.com/sebastiansanchezsa/PokareGame/internal/deck"
)

// Player represents a seated player. Seat order is the order of the
// Room's Players slice and is insertion-order stable.
type Player struct {
	ID        string
	Name      string
	Avatar    string
	Chips     int
	HoleCards []deck.Card
	Bet       int // chips committed this betting round
	TotalBet  int // chips committed this hand
	Folded    bool
	AllIn     bool

	LastAction string

	// Transient ability flags, cleared at the start of every hand
	Shielded   bool
	DoubleDown bool

	// raiseAbsorbed is set when a shield consumes a raise: the player is
	// treated as matched for the rest of the street and skipped by turn
	// rotation. Cleared on street change or a subsequent raise.
	raiseAbsorbed bool

	needsAction bool

	// hadChips records whether the player entered the current hand with
	// chips, so an elimination is reported exactly once.
	hadChips bool
}

// CanAct returns true if the player can be prompted for an action
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0 && !p.raiseAbsorbed
}

// eligible returns true if the player counts for the betting-complete
// predicate: in the hand, not all-in, and holding chips.
func (p *Player) eligible() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0
}
