package game

import (
	"fmt"

	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

func formatAmount(label string, amount int) string {
	return fmt.Sprintf("%s $%d", label, amount)
}

// startBettingRound opens a betting round for the current phase. If at
// most one player can still act the street is fast-forwarded after a
// short delay so clients can render the all-in state.
func (r *Room) startBettingRound() {
	canAct := 0
	for _, p := range r.Players {
		if p.eligible() {
			canAct++
		}
	}
	if canAct <= 1 {
		r.schedule(r.timing.FastForwardDelay, r.advancePhase)
		return
	}

	if r.Phase == Preflop {
		bb := r.getNextActive(r.getNextActive(r.DealerIndex))
		r.ActiveIndex = r.getNextActive(bb)
	} else {
		r.ActiveIndex = r.getNextActive(r.DealerIndex)
	}

	if r.Phase != Preflop {
		for _, p := range r.Players {
			p.Bet = 0
		}
		r.CurrentBet = 0
	}

	for _, p := range r.Players {
		if p.eligible() {
			p.needsAction = true
		}
	}

	r.BroadcastGameState()
	r.promptPlayer()
}

// promptPlayer asks the active seat to act and arms the auto-fold timer.
// Seats that cannot act are skipped; if skipping detects a finished
// betting round the phase advances instead.
func (r *Room) promptPlayer() {
	if r.ActiveIndex < 0 || r.ActiveIndex >= len(r.Players) {
		return
	}
	p := r.Players[r.ActiveIndex]
	if !p.CanAct() {
		if r.checkBettingComplete() {
			r.advancePhase()
		} else {
			r.ActiveIndex = r.getNextActive(r.ActiveIndex)
			r.promptPlayer()
		}
		return
	}

	r.BroadcastGameState()

	toCall := r.CurrentBet - p.Bet
	r.sendTo(p.ID, protocol.MessageTypeYourTurn, protocol.YourTurnData{
		CanCheck:   toCall <= 0,
		CanCall:    toCall > 0,
		CallAmount: toCall,
		MinRaise:   min(r.CurrentBet+r.MinRaise, p.Chips+p.Bet),
		MaxRaise:   p.Chips + p.Bet,
	})

	// Arm the auto-fold timer for this turn. The captured generation
	// makes a stale timer a no-op if the turn has moved on by the time
	// it reaches the serialized context.
	r.cancelTurnTimer()
	gen := r.turnGen
	playerID := p.ID
	r.cancelTurn = r.sched.After(r.timing.TurnTimeout, func() {
		if r.RoundComplete || r.turnGen != gen {
			return
		}
		if r.ActiveIndex >= len(r.Players) || r.Players[r.ActiveIndex].ID != playerID {
			return
		}
		r.logger.Info("turn timeout, auto-folding", "player", playerID)
		r.HandleAction(playerID, Fold, 0)
	})
}

// HandleAction processes an action from a player. Actions from any seat
// other than the active one, or arriving after the hand ended, are
// discarded without touching room state.
func (r *Room) HandleAction(playerID string, action Action, amount int) {
	idx := r.indexOf(playerID)
	if idx == -1 || idx != r.ActiveIndex || r.RoundComplete || !r.Phase.Betting() {
		return
	}
	p := r.Players[idx]
	if !p.CanAct() {
		return
	}
	if !p.needsAction {
		// The street already closed behind this seat; a repeated action
		// here must not re-run the completion checks.
		return
	}
	if action == Check && r.CurrentBet > p.Bet {
		// Not a legal check. Dropped without touching the turn timer so
		// the player can still act, or time out, normally.
		return
	}
	r.cancelTurnTimer()

	switch action {
	case Fold:
		p.Folded = true
		p.LastAction = "FOLD"
		p.needsAction = false

	case Check:
		p.LastAction = "CHECK"
		p.needsAction = false

	case Call:
		callAmt := min(r.CurrentBet-p.Bet, p.Chips)
		r.placeBet(p, callAmt)
		p.LastAction = formatAmount("CALL", callAmt)
		p.needsAction = false
		amount = callAmt

	case Raise:
		raiseTo := clamp(amount, r.CurrentBet+r.MinRaise, p.Chips+p.Bet)
		r.MinRaise = raiseTo - r.CurrentBet
		r.CurrentBet = raiseTo
		r.placeBet(p, raiseTo-p.Bet)
		p.LastAction = formatAmount("RAISE", raiseTo)
		p.needsAction = false
		r.reopenActionAfterRaise(p)
		amount = raiseTo

	case AllIn:
		allAmt := p.Chips
		total := p.Bet + allAmt
		if total > r.CurrentBet {
			r.MinRaise = total - r.CurrentBet
			r.CurrentBet = total
			r.reopenActionAfterRaise(p)
		}
		r.placeBet(p, allAmt)
		p.AllIn = true
		p.needsAction = false
		p.LastAction = formatAmount("ALL IN", total)
		amount = total
	}

	r.broadcast(protocol.MessageTypeActionTaken, protocol.ActionTakenData{
		PlayerID: p.ID,
		Name:     p.Name,
		Action:   action.String(),
		Amount:   amount,
	})

	r.afterAction()
}

// afterAction runs the common checks after any action, real or forced:
// last-standing win, street completion, or rotating the turn.
func (r *Room) afterAction() {
	var inHand []*Player
	for _, p := range r.Players {
		if !p.Folded {
			inHand = append(inHand, p)
		}
	}
	if len(inHand) == 1 {
		r.endRound(inHand, nil)
		return
	}

	if r.checkBettingComplete() {
		r.schedule(r.timing.AdvanceDelay, r.advancePhase)
	} else {
		r.ActiveIndex = r.getNextActive(r.ActiveIndex)
		r.schedule(r.timing.PromptDelay, r.promptPlayer)
	}
}

// forceFold folds a seat outside the normal turn flow, used when a player
// leaves mid-hand. It flows through the same completion checks as a real
// action so the round cannot hang on the departed seat.
func (r *Room) forceFold(idx int) {
	p := r.Players[idx]
	if p.Folded {
		return
	}
	p.Folded = true
	p.LastAction = "FOLD"
	p.needsAction = false
	r.broadcast(protocol.MessageTypeActionTaken, protocol.ActionTakenData{
		PlayerID: p.ID,
		Name:     p.Name,
		Action:   Fold.String(),
	})
	// No armed turn timer means no turn is in progress: a phase task is
	// already pending and owns the transition. ActiveIndex is stale then,
	// so running the completion checks would advance the street twice.
	if r.cancelTurn == nil {
		return
	}
	if idx == r.ActiveIndex {
		r.cancelTurnTimer()
		r.afterAction()
	} else if r.checkBettingComplete() {
		r.cancelTurnTimer()
		r.schedule(r.timing.AdvanceDelay, r.advancePhase)
	}
}

// reopenActionAfterRaise flags every other live player as needing to act
// again. A shield absorbs exactly one raise: the shielded player is not
// reopened and counts as matched for the rest of the street; a later
// raise clears the absorption and reopens them like anyone else.
func (r *Room) reopenActionAfterRaise(raiser *Player) {
	for _, p := range r.Players {
		if p == raiser || p.Folded || p.AllIn {
			continue
		}
		if p.Shielded {
			p.Shielded = false
			p.raiseAbsorbed = true
			r.logger.Debug("shield absorbed raise", "player", p.Name)
			continue
		}
		p.raiseAbsorbed = false
		p.needsAction = true
	}
}

// checkBettingComplete is the sole termination condition for a betting
// round: every eligible player has matched the current bet (or absorbed
// the raise that set it) and nobody is still flagged to act.
func (r *Room) checkBettingComplete() bool {
	for _, p := range r.Players {
		if !p.eligible() {
			continue
		}
		if p.Bet < r.CurrentBet && !p.raiseAbsorbed {
			return false
		}
		if p.needsAction {
			return false
		}
	}
	return true
}

// getNextActive returns the next seat after fromIdx that can act. Returns
// fromIdx when no such seat exists; it never loops forever.
func (r *Room) getNextActive(fromIdx int) int {
	n := len(r.Players)
	idx := (fromIdx + 1) % n
	for count := 0; count < n; count++ {
		if r.Players[idx].CanAct() {
			return idx
		}
		idx = (idx + 1) % n
	}
	return fromIdx
}

// advancePhase deals the next street or runs the showdown
func (r *Room) advancePhase() {
	if r.RoundComplete {
		return
	}
	for _, p := range r.Players {
		p.needsAction = false
		p.raiseAbsorbed = false
	}
	switch r.Phase {
	case Preflop:
		r.Phase = Flop
		r.dealCommunity(3)
	case Flop:
		r.Phase = Turn
		r.dealCommunity(1)
	case Turn:
		r.Phase = River
		r.dealCommunity(1)
	case River:
		r.Phase = Showdown
		r.showdown()
		return
	default:
		return
	}
	r.logger.Info("phase advanced", "phase", r.Phase, "pot", r.Pot)
	r.broadcast(protocol.MessageTypePhaseChange, protocol.PhaseChangeData{
		Phase:          r.Phase.String(),
		CommunityCards: r.Community,
	})
	r.schedule(r.timing.InterPhaseDelay, r.startBettingRound)
}

func (r *Room) dealCommunity(count int) {
	for i := 0; i < count; i++ {
		card, ok := r.Deck.Draw()
		if !ok {
			break
		}
		r.Community = append(r.Community, card)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
