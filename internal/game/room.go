package game

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sebastiansanchezsa/PokareGame/internal/deck"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

// Sink delivers outbound messages. Implemented by the transport adapter;
// a room never talks to sockets directly.
type Sink interface {
	Broadcast(msg *protocol.Message)
	SendTo(playerID string, msg *protocol.Message)
}

// Scheduler runs fn on the room's serialized execution context after d.
// The returned cancel func stops the task if it has not fired yet; a task
// that fires after cancellation loses the race and must not run.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// Timing holds the scheduled-delay configuration for a room
type Timing struct {
	TurnTimeout      time.Duration // window for a prompted player to act
	InterPhaseDelay  time.Duration // pause after community cards are dealt
	AdvanceDelay     time.Duration // pause after the action that closes a street
	PromptDelay      time.Duration // pause between consecutive turn prompts
	FastForwardDelay time.Duration // pause before skipping an all-in street
}

// DefaultTiming mirrors the pacing of the production client
func DefaultTiming() Timing {
	return Timing{
		TurnTimeout:      60 * time.Second,
		InterPhaseDelay:  1200 * time.Millisecond,
		AdvanceDelay:     800 * time.Millisecond,
		PromptDelay:      300 * time.Millisecond,
		FastForwardDelay: 500 * time.Millisecond,
	}
}

// Room holds all mutable state of one game session. Every method must be
// called from the room's serialized execution context; the Room itself
// does no locking.
type Room struct {
	Code     string
	Settings protocol.RoomSettings

	Players     []*Player // seat order
	HostID      string
	GameStarted bool

	Phase         Phase
	Deck          *deck.Deck
	Community     []deck.Card
	Pot           int
	CurrentBet    int
	MinRaise      int
	DealerIndex   int
	ActiveIndex   int
	RoundComplete bool

	cooldowns map[string]map[AbilityID]int

	rng    *rand.Rand
	logger *log.Logger
	sink   Sink
	sched  Scheduler
	timing Timing

	// turnGen increases every time the turn moves or the hand ends. A
	// turn timeout captures the generation it was armed for and is a
	// no-op if the room has moved on by the time it fires.
	turnGen    uint64
	cancelTurn func()
}

// NewRoom creates a room in the waiting phase
func NewRoom(code string, settings protocol.RoomSettings, rng *rand.Rand, logger *log.Logger, sink Sink, sched Scheduler, timing Timing) *Room {
	return &Room{
		Code:      code,
		Settings:  settings,
		Phase:     Waiting,
		cooldowns: make(map[string]map[AbilityID]int),
		rng:       rng,
		logger:    logger.WithPrefix("room").With("room", code),
		sink:      sink,
		sched:     sched,
		timing:    timing,
	}
}

// AddPlayer seats a player. The first player to join becomes host. The
// registry enforces capacity and started-game checks at the join boundary.
func (r *Room) AddPlayer(id, name, avatar string) *Player {
	p := &Player{
		ID:     id,
		Name:   name,
		Avatar: avatar,
		Chips:  r.Settings.StartingChips,
	}
	r.Players = append(r.Players, p)
	if r.HostID == "" {
		r.HostID = id
	}
	r.cooldowns[id] = make(map[AbilityID]int)
	r.logger.Info("player joined", "player", name, "seats", len(r.Players))
	return p
}

// RemovePlayer unseats a player. A mid-hand leave is forced through the
// normal fold path first so the betting round cannot stall. Host duties
// migrate to the earliest remaining seat.
func (r *Room) RemovePlayer(playerID string) {
	idx := r.indexOf(playerID)
	if idx == -1 {
		return
	}

	if r.GameStarted && !r.RoundComplete && r.Phase.Betting() {
		r.forceFold(idx)
		idx = r.indexOf(playerID) // seat may not have moved, but the hand may have ended
	}

	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	delete(r.cooldowns, playerID)
	if r.DealerIndex > idx || r.DealerIndex >= len(r.Players) {
		r.DealerIndex--
		if r.DealerIndex < 0 {
			r.DealerIndex = 0
		}
	}
	if r.ActiveIndex > idx || r.ActiveIndex >= len(r.Players) {
		r.ActiveIndex--
		if r.ActiveIndex < 0 {
			r.ActiveIndex = 0
		}
	}
	if r.HostID == playerID && len(r.Players) > 0 {
		r.HostID = r.Players[0].ID
	}
	r.logger.Info("player left", "player", playerID, "seats", len(r.Players))

	if r.GameStarted && len(r.Players) < 2 {
		r.endGame()
	}
	r.BroadcastRoomState()
	if r.GameStarted {
		r.BroadcastGameState()
	}
}

// StartGame begins the session: host only, at least 2 players. Chips
// reset to the configured starting stack.
func (r *Room) StartGame(byID string) {
	if byID != r.HostID {
		r.sendError(byID, "not_host", "Only the host can start the game")
		return
	}
	if len(r.Players) < 2 {
		r.sendError(byID, "not_enough_players", "At least 2 players required")
		return
	}
	if r.GameStarted {
		return
	}
	r.GameStarted = true
	r.DealerIndex = -1 // advanced to seat 0 when the first hand starts
	for _, p := range r.Players {
		p.Chips = r.Settings.StartingChips
	}
	r.logger.Info("game started", "players", len(r.Players))
	r.broadcast(protocol.MessageTypeGameStarted, struct{}{})
	r.startNewRound()
}

// NextRound starts the next hand on the host's request
func (r *Room) NextRound(byID string) {
	if byID != r.HostID || !r.GameStarted {
		return
	}
	r.startNewRound()
}

// startNewRound resets all per-hand state, advances the dealer, posts
// blinds and deals. Players who are out of chips sit the hand out folded
// so they remain visible for elimination reporting.
func (r *Room) startNewRound() {
	r.cancelTurnTimer()
	r.Deck = deck.New(r.rng)
	r.Community = nil
	r.Pot = 0
	r.CurrentBet = 0
	r.RoundComplete = false

	for _, p := range r.Players {
		p.HoleCards = nil
		p.Bet = 0
		p.TotalBet = 0
		p.Folded = p.Chips <= 0
		p.AllIn = false
		p.needsAction = false
		p.Shielded = false
		p.raiseAbsorbed = false
		p.DoubleDown = false
		p.hadChips = p.Chips > 0
		if p.Chips <= 0 {
			p.LastAction = "ELIMINATED"
		} else {
			p.LastAction = ""
		}
	}

	r.decrementCooldowns()

	eligible := 0
	for _, p := range r.Players {
		if !p.Folded {
			eligible++
		}
	}
	if eligible < 2 {
		r.endGame()
		return
	}

	// Advance the dealer exactly one live seat
	r.DealerIndex = (r.DealerIndex + 1) % len(r.Players)
	for r.Players[r.DealerIndex].Folded {
		r.DealerIndex = (r.DealerIndex + 1) % len(r.Players)
	}

	r.postBlinds()
	r.dealHoleCards()
	r.Phase = Preflop
	r.logger.Info("hand started", "dealer", r.DealerIndex, "pot", r.Pot)
	r.startBettingRound()
}

// postBlinds posts small and big blinds from the two seats after the
// dealer. Short stacks post what they have; the bet to match stays the
// configured big blind.
func (r *Room) postBlinds() {
	sb := r.getNextActive(r.DealerIndex)
	bb := r.getNextActive(sb)
	sbP := r.Players[sb]
	bbP := r.Players[bb]

	sbAmt := min(r.Settings.SmallBlind, sbP.Chips)
	r.placeBet(sbP, sbAmt)
	sbP.LastAction = formatAmount("SB", sbAmt)

	bbAmt := min(r.Settings.BigBlind, bbP.Chips)
	r.placeBet(bbP, bbAmt)
	bbP.LastAction = formatAmount("BB", bbAmt)

	r.CurrentBet = r.Settings.BigBlind
	r.MinRaise = r.Settings.BigBlind
}

// dealHoleCards gives two cards to every player in the hand and tells
// each of them privately
func (r *Room) dealHoleCards() {
	for _, p := range r.Players {
		if p.Folded {
			continue
		}
		p.HoleCards = r.Deck.DrawN(2)
	}
	r.broadcast(protocol.MessageTypeCardsDealt, struct{}{})
	for _, p := range r.Players {
		if !p.Folded {
			r.sendTo(p.ID, protocol.MessageTypeYourCards, protocol.YourCardsData{Cards: p.HoleCards})
		}
	}
}

// placeBet moves chips into the pot, capped at the player's stack. A
// player whose stack hits zero is all-in.
func (r *Room) placeBet(p *Player, amount int) {
	actual := min(amount, p.Chips)
	p.Chips -= actual
	p.Bet += actual
	p.TotalBet += actual
	r.Pot += actual
	if p.Chips <= 0 {
		p.AllIn = true
	}
}

// Chat relays a chat line from a seated player
func (r *Room) Chat(playerID, text string) {
	p := r.playerByID(playerID)
	if p == nil {
		return
	}
	if len(text) > 200 {
		text = text[:200]
	}
	r.broadcast(protocol.MessageTypeChat, protocol.ChatData{
		PlayerID: p.ID,
		Name:     p.Name,
		Text:     text,
	})
}

// IsEmpty returns true when no players are seated
func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

func (r *Room) indexOf(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) playerByID(playerID string) *Player {
	if idx := r.indexOf(playerID); idx != -1 {
		return r.Players[idx]
	}
	return nil
}

func (r *Room) cancelTurnTimer() {
	if r.cancelTurn != nil {
		r.cancelTurn()
		r.cancelTurn = nil
	}
	r.turnGen++
}

// schedule runs fn on the room's serialized context after d, unless the
// hand has ended or the turn generation moved on in the meantime. All
// pacing tasks (phase advances, prompts) go through here so a superseded
// task cannot fire a second transition.
func (r *Room) schedule(d time.Duration, fn func()) {
	gen := r.turnGen
	r.sched.After(d, func() {
		if r.RoundComplete || r.turnGen != gen {
			return
		}
		fn()
	})
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
