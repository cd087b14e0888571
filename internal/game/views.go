package game

import (
	"github.com/sebastiansanchezsa/PokareGame/internal/deck"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

// broadcast sends a message to every seated player
func (r *Room) broadcast(typ protocol.MessageType, payload interface{}) {
	r.sink.Broadcast(protocol.MustMessage(typ, payload))
}

// sendTo sends a message to one player
func (r *Room) sendTo(playerID string, typ protocol.MessageType, payload interface{}) {
	r.sink.SendTo(playerID, protocol.MustMessage(typ, payload))
}

func (r *Room) sendError(playerID, code, message string) {
	r.sendTo(playerID, protocol.MessageTypeError, protocol.ErrorData{Code: code, Message: message})
}

// BroadcastRoomState sends the lobby roster to everyone
func (r *Room) BroadcastRoomState() {
	roster := make([]protocol.RosterEntry, len(r.Players))
	for i, p := range r.Players {
		roster[i] = protocol.RosterEntry{
			ID:     p.ID,
			Name:   p.Name,
			Avatar: p.Avatar,
			Chips:  p.Chips,
		}
	}
	r.broadcast(protocol.MessageTypeRoomState, protocol.RoomStateData{
		Code:        r.Code,
		HostID:      r.HostID,
		Players:     roster,
		GameStarted: r.GameStarted,
		Settings:    r.Settings,
	})
}

// BroadcastGameState sends each player their personalized view of the
// table. Hole cards appear only in the owner's view, except at showdown
// where every non-folded hand is public. This is the hidden-information
// boundary: nothing above the transport may widen it.
func (r *Room) BroadcastGameState() {
	var activeID string
	if r.ActiveIndex >= 0 && r.ActiveIndex < len(r.Players) {
		activeID = r.Players[r.ActiveIndex].ID
	}

	for _, viewer := range r.Players {
		seats := make([]protocol.SeatView, len(r.Players))
		for i, p := range r.Players {
			var cards []deck.Card
			if (r.Phase == Showdown && !p.Folded) || p.ID == viewer.ID {
				cards = p.HoleCards
			}
			seats[i] = protocol.SeatView{
				ID:         p.ID,
				Name:       p.Name,
				Avatar:     p.Avatar,
				Chips:      p.Chips,
				Bet:        p.Bet,
				Folded:     p.Folded,
				AllIn:      p.AllIn,
				LastAction: p.LastAction,
				IsActive:   i == r.ActiveIndex,
				HasCards:   len(p.HoleCards) > 0,
				Cards:      cards,
				Shielded:   p.Shielded,
				DoubleDown: p.DoubleDown,
			}
		}

		cooldowns := make(map[string]int)
		for id, left := range r.cooldowns[viewer.ID] {
			cooldowns[string(id)] = left
		}

		state := protocol.GameStateData{
			Phase:            r.Phase.String(),
			Pot:              r.Pot,
			CurrentBet:       r.CurrentBet,
			CommunityCards:   r.Community,
			ActiveSeatIndex:  r.ActiveIndex,
			ActivePlayerID:   activeID,
			DealerSeatIndex:  r.DealerIndex,
			Players:          seats,
			YourCards:        viewer.HoleCards,
			YourChips:        viewer.Chips,
			AbilityCooldowns: cooldowns,
		}
		if r.Settings.Abilities {
			state.Abilities = abilityInfos()
		}
		r.sendTo(viewer.ID, protocol.MessageTypeGameState, state)
	}
}
