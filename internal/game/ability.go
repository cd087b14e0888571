package game

import (
	"fmt"

	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

// AbilityID identifies a special ability
type AbilityID string

const (
	AbilityPeek       AbilityID = "peek"
	AbilityShield     AbilityID = "shield"
	AbilityIntimidate AbilityID = "intimidate"
	AbilitySwap       AbilityID = "swap"
	AbilityDoubleDown AbilityID = "doubledown"
)

// Ability describes a special ability: its chip cost and its cooldown in
// hands. The set is closed; there is no plug-in mechanism.
type Ability struct {
	ID       AbilityID
	Name     string
	Desc     string
	Cost     int
	Cooldown int
}

// Abilities is the full ability table, in display order
var Abilities = []Ability{
	{ID: AbilityPeek, Name: "Peek", Desc: "Secretly see the next community card", Cost: 100, Cooldown: 3},
	{ID: AbilityShield, Name: "Shield", Desc: "Absorb the next raise against you this street", Cost: 150, Cooldown: 5},
	{ID: AbilityIntimidate, Name: "Intimidate", Desc: "Reveal the suit of one opponent card", Cost: 75, Cooldown: 2},
	{ID: AbilitySwap, Name: "Swap", Desc: "Exchange one of your cards for a fresh one", Cost: 200, Cooldown: 4},
	{ID: AbilityDoubleDown, Name: "Double or Nothing", Desc: "Double the pot if you win, pay double if you lose", Cost: 0, Cooldown: 6},
}

func abilityByID(id AbilityID) (Ability, bool) {
	for _, a := range Abilities {
		if a.ID == id {
			return a, true
		}
	}
	return Ability{}, false
}

func abilityInfos() []protocol.AbilityInfo {
	infos := make([]protocol.AbilityInfo, len(Abilities))
	for i, a := range Abilities {
		infos[i] = protocol.AbilityInfo{
			ID:       string(a.ID),
			Name:     a.Name,
			Desc:     a.Desc,
			Cost:     a.Cost,
			Cooldown: a.Cooldown,
		}
	}
	return infos
}

// UseAbility applies an ability on behalf of a player. Economic
// rejections (cooldown, cost) answer with an error message and leave the
// room untouched; protocol misuse is silently dropped.
func (r *Room) UseAbility(playerID string, id AbilityID) {
	if !r.Settings.Abilities || !r.GameStarted {
		return
	}
	p := r.playerByID(playerID)
	if p == nil || p.Folded {
		return
	}
	ability, ok := abilityByID(id)
	if !ok {
		return
	}

	cd := r.cooldowns[playerID]
	if cd[id] > 0 {
		r.sendError(playerID, "ability_cooldown", fmt.Sprintf("Ability on cooldown (%d hands left)", cd[id]))
		return
	}
	if p.Chips < ability.Cost {
		r.sendError(playerID, "ability_cost", "Not enough chips")
		return
	}

	p.Chips -= ability.Cost
	if cd == nil {
		cd = make(map[AbilityID]int)
		r.cooldowns[playerID] = cd
	}
	cd[id] = ability.Cooldown

	switch id {
	case AbilityPeek:
		r.applyPeek(p)
	case AbilityShield:
		p.Shielded = true
	case AbilityIntimidate:
		r.applyIntimidate(p)
	case AbilitySwap:
		r.applySwap(p)
	case AbilityDoubleDown:
		p.DoubleDown = true
	}

	// Spending the whole stack leaves nothing to bet with. The seat goes
	// all-in for its current bet so the hand cannot wait forever on a
	// player who can no longer act.
	wentAllIn := false
	if p.Chips == 0 && !p.AllIn {
		p.AllIn = true
		p.needsAction = false
		p.LastAction = "ALL IN"
		wentAllIn = true
	}

	r.logger.Info("ability used", "player", p.Name, "ability", id)
	r.broadcast(protocol.MessageTypeAbilityUsed, protocol.AbilityUsedData{
		PlayerID:    p.ID,
		Name:        p.Name,
		Ability:     string(id),
		AbilityName: ability.Name,
	})
	r.BroadcastGameState()

	if wentAllIn && r.Phase.Betting() && !r.RoundComplete && r.indexOf(p.ID) == r.ActiveIndex {
		r.cancelTurnTimer()
		r.afterAction()
	}
}

// applyPeek reveals the next community card privately without removing it
// from the deck.
func (r *Room) applyPeek(p *Player) {
	result := protocol.AbilityResultData{Ability: string(AbilityPeek)}
	if len(r.Community) < 5 && r.Deck.Len() > 0 {
		if card, ok := r.Deck.Peek(); ok {
			result.Card = &card
		}
	}
	r.sendTo(p.ID, protocol.MessageTypeAbilityResult, result)
}

// applyIntimidate reveals the suit (not rank) of one hole card of an
// opponent picked uniformly at random among non-folded opponents holding
// cards.
func (r *Room) applyIntimidate(p *Player) {
	var opponents []*Player
	for _, other := range r.Players {
		if other.ID != p.ID && !other.Folded && len(other.HoleCards) > 0 {
			opponents = append(opponents, other)
		}
	}
	if len(opponents) == 0 {
		return
	}
	target := opponents[r.rng.IntN(len(opponents))]
	card := target.HoleCards[r.rng.IntN(len(target.HoleCards))]
	r.sendTo(p.ID, protocol.MessageTypeAbilityResult, protocol.AbilityResultData{
		Ability:    string(AbilityIntimidate),
		TargetName: target.Name,
		Suit:       card.Suit.String(),
	})
}

// applySwap replaces the player's first hole card with a fresh draw. The
// discard goes back on top of the deck, so deck size is preserved while
// its composition changes. The discard is not reshuffled in.
func (r *Room) applySwap(p *Player) {
	if len(p.HoleCards) == 0 || r.Deck.Len() == 0 {
		return
	}
	old := p.HoleCards[0]
	fresh, ok := r.Deck.Draw()
	if !ok {
		return
	}
	p.HoleCards[0] = fresh
	r.Deck.Push(old)
	r.sendTo(p.ID, protocol.MessageTypeAbilityResult, protocol.AbilityResultData{
		Ability:  string(AbilitySwap),
		NewCards: p.HoleCards,
	})
}

// decrementCooldowns reduces every cooldown by one hand, floored at zero.
// Called once at the start of every hand.
func (r *Room) decrementCooldowns() {
	for _, cd := range r.cooldowns {
		for id, left := range cd {
			if left > 0 {
				cd[id] = left - 1
			}
		}
	}
}
