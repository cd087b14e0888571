package protocol

import (
	"github.com/sebastiansanchezsa/PokareGame/internal/deck"
)

// RoomSettings carries the room configuration chosen at creation time
type RoomSettings struct {
	StartingChips int  `json:"startingChips"`
	SmallBlind    int  `json:"smallBlind"`
	BigBlind      int  `json:"bigBlind"`
	MaxPlayers    int  `json:"maxPlayers"`
	Abilities     bool `json:"abilities"`
}

// Client → Server payloads

type SetProfileData struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type CreateRoomData struct {
	StartingChips int   `json:"startingChips,omitempty"`
	SmallBlind    int   `json:"smallBlind,omitempty"`
	BigBlind      int   `json:"bigBlind,omitempty"`
	MaxPlayers    int   `json:"maxPlayers,omitempty"`
	Abilities     *bool `json:"abilities,omitempty"`
}

type JoinRoomData struct {
	Code string `json:"code"`
}

type PlayerActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type UseAbilityData struct {
	Ability string `json:"ability"`
}

type ChatMessageData struct {
	Text string `json:"text"`
}

// Server → Client payloads

type WelcomeData struct {
	PlayerID string `json:"playerId"`
}

type PlayerProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type ProfileSetData struct {
	Player PlayerProfile `json:"player"`
}

type RoomCreatedData struct {
	Code     string       `json:"code"`
	Settings RoomSettings `json:"settings"`
}

type RoomJoinedData struct {
	Code     string       `json:"code"`
	Settings RoomSettings `json:"settings"`
}

type RoomLeftData struct {
	Code string `json:"code"`
}

// RosterEntry is the lobby view of a player, before and between hands
type RosterEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Chips  int    `json:"chips"`
}

type RoomStateData struct {
	Code        string        `json:"code"`
	HostID      string        `json:"hostId"`
	Players     []RosterEntry `json:"players"`
	GameStarted bool          `json:"gameStarted"`
	Settings    RoomSettings  `json:"settings"`
}

type YourCardsData struct {
	Cards []deck.Card `json:"cards"`
}

// SeatView is the per-seat public view inside a gameState broadcast.
// Cards is nil except for the recipient's own seat and, at showdown,
// every non-folded seat. Hole cards must never leak otherwise.
type SeatView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Avatar     string      `json:"avatar,omitempty"`
	Chips      int         `json:"chips"`
	Bet        int         `json:"bet"`
	Folded     bool        `json:"folded"`
	AllIn      bool        `json:"allIn"`
	LastAction string      `json:"lastAction"`
	IsActive   bool        `json:"isActive"`
	HasCards   bool        `json:"hasCards"`
	Cards      []deck.Card `json:"cards,omitempty"`
	Shielded   bool        `json:"shielded"`
	DoubleDown bool        `json:"doubleDownActive"`
}

type AbilityInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Cost     int    `json:"cost"`
	Cooldown int    `json:"cooldown"`
}

type GameStateData struct {
	Phase            string         `json:"phase"`
	Pot              int            `json:"pot"`
	CurrentBet       int            `json:"currentBet"`
	CommunityCards   []deck.Card    `json:"communityCards"`
	ActiveSeatIndex  int            `json:"activePlayerIndex"`
	ActivePlayerID   string         `json:"activePlayerId,omitempty"`
	DealerSeatIndex  int            `json:"dealerIndex"`
	Players          []SeatView     `json:"players"`
	YourCards        []deck.Card    `json:"yourCards"`
	YourChips        int            `json:"yourChips"`
	AbilityCooldowns map[string]int `json:"abilityCooldowns"`
	Abilities        []AbilityInfo  `json:"abilities,omitempty"`
}

type YourTurnData struct {
	CanCheck   bool `json:"canCheck"`
	CanCall    bool `json:"canCall"`
	CallAmount int  `json:"callAmount"`
	MinRaise   int  `json:"minRaise"`
	MaxRaise   int  `json:"maxRaise"`
}

type ActionTakenData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	Amount   int    `json:"amount,omitempty"`
}

type PhaseChangeData struct {
	Phase          string      `json:"phase"`
	CommunityCards []deck.Card `json:"communityCards"`
}

type AbilityUsedData struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	Ability     string `json:"ability"`
	AbilityName string `json:"abilityName"`
}

// AbilityResultData is the private outcome of an ability, sent only to
// the caller. Which fields are set depends on the ability.
type AbilityResultData struct {
	Ability    string      `json:"ability"`
	Card       *deck.Card  `json:"card,omitempty"`       // peek
	TargetName string      `json:"targetName,omitempty"` // intimidate
	Suit       string      `json:"suit,omitempty"`       // intimidate
	NewCards   []deck.Card `json:"newCards,omitempty"`   // swap
}

type WinnerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Chips int    `json:"chips"`
}

type RevealedHand struct {
	PlayerID string      `json:"playerId"`
	Name     string      `json:"name"`
	Cards    []deck.Card `json:"cards"`
	HandName string      `json:"handName"`
}

type EliminatedInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RoundEndData struct {
	Winners    []WinnerInfo     `json:"winners"`
	Pot        int              `json:"pot"`
	AllHands   []RevealedHand   `json:"allHands,omitempty"`
	Eliminated []EliminatedInfo `json:"eliminated"`
	DoubleDown bool             `json:"doubleDown"`
}

type GameOverData struct {
	Winner *WinnerInfo `json:"winner"`
}

type ChatData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
