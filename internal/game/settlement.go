package game

import (
	"github.com/sebastiansanchezsa/PokareGame/internal/poker"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

// showdown evaluates every hand still in play and settles on the winners.
// All non-folded hands are revealed in the round-end broadcast.
func (r *Room) showdown() {
	var contenders []*Player
	for _, p := range r.Players {
		if !p.Folded {
			contenders = append(contenders, p)
		}
	}
	if len(contenders) == 0 {
		return
	}

	results := make([]poker.HandResult, len(contenders))
	revealed := make([]protocol.RevealedHand, len(contenders))
	for i, p := range contenders {
		results[i] = poker.Evaluate(p.HoleCards, r.Community)
		revealed[i] = protocol.RevealedHand{
			PlayerID: p.ID,
			Name:     p.Name,
			Cards:    p.HoleCards,
			HandName: results[i].Category.String(),
		}
	}

	var winners []*Player
	for _, i := range poker.DetermineWinners(results) {
		winners = append(winners, contenders[i])
	}
	r.endRound(winners, revealed)
}

// endRound settles the pot. The double-down ability doubles the payout
// when a winner holds it; losers holding it pay an extra penalty of up to
// the pre-double pot. Split pots divide evenly; odd chips go one at a
// time to winners in seat order starting left of the dealer, so chips
// are conserved.
func (r *Room) endRound(winners []*Player, allHands []protocol.RevealedHand) {
	r.RoundComplete = true
	r.cancelTurnTimer()

	isWinner := make(map[*Player]bool, len(winners))
	for _, w := range winners {
		isWinner[w] = true
	}

	totalPot := r.Pot
	hasDoubleDown := false
	for _, w := range winners {
		if w.DoubleDown {
			hasDoubleDown = true
		}
	}
	if hasDoubleDown {
		totalPot *= 2
	}

	for _, p := range r.Players {
		if p.DoubleDown && !isWinner[p] {
			penalty := min(p.Chips, r.Pot)
			p.Chips -= penalty
		}
		p.DoubleDown = false
	}

	share := totalPot / len(winners)
	for _, w := range winners {
		w.Chips += share
	}
	remainder := totalPot - share*len(winners)
	for offset := 1; offset <= len(r.Players) && remainder > 0; offset++ {
		seat := r.Players[(r.DealerIndex+offset)%len(r.Players)]
		if isWinner[seat] {
			seat.Chips++
			remainder--
		}
	}

	var eliminated []protocol.EliminatedInfo
	for _, p := range r.Players {
		if p.Chips <= 0 && p.hadChips && !isWinner[p] {
			eliminated = append(eliminated, protocol.EliminatedInfo{ID: p.ID, Name: p.Name})
			p.LastAction = "ELIMINATED"
		}
	}

	winnerInfos := make([]protocol.WinnerInfo, len(winners))
	for i, w := range winners {
		winnerInfos[i] = protocol.WinnerInfo{ID: w.ID, Name: w.Name, Chips: w.Chips}
	}

	r.logger.Info("hand settled",
		"pot", r.Pot,
		"winners", len(winners),
		"doubleDown", hasDoubleDown,
		"eliminated", len(eliminated))

	r.broadcast(protocol.MessageTypeRoundEnd, protocol.RoundEndData{
		Winners:    winnerInfos,
		Pot:        r.Pot,
		AllHands:   allHands,
		Eliminated: eliminated,
		DoubleDown: hasDoubleDown,
	})
	r.BroadcastGameState()
}

// endGame ends the session and reports the last player holding chips
func (r *Room) endGame() {
	r.cancelTurnTimer()
	var winner *protocol.WinnerInfo
	for _, p := range r.Players {
		if p.Chips > 0 {
			winner = &protocol.WinnerInfo{ID: p.ID, Name: p.Name, Chips: p.Chips}
			break
		}
	}
	if winner == nil && len(r.Players) > 0 {
		p := r.Players[0]
		winner = &protocol.WinnerInfo{ID: p.ID, Name: p.Name, Chips: p.Chips}
	}
	r.logger.Info("game over")
	r.broadcast(protocol.MessageTypeGameOver, protocol.GameOverData{Winner: winner})
	r.GameStarted = false
	r.Phase = GameOver
}
