package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/sebastiansanchezsa/PokareGame/internal/game"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
	"github.com/sebastiansanchezsa/PokareGame/internal/randutil"
)

// Session is the serialized execution context of one room. Every
// mutating operation on the room — inbound player messages and scheduled
// timer firings alike — is funneled through one goroutine, so the room
// itself needs no locking. Rooms run in parallel with each other.
type Session struct {
	room *game.Room

	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once
	clock     quartz.Clock
	logger    *log.Logger
}

// NewSession creates a room and starts its command loop
func NewSession(code string, settings protocol.RoomSettings, seed int64, logger *log.Logger, sink game.Sink, clock quartz.Clock, timing game.Timing) *Session {
	s := &Session{
		cmds:   make(chan func(), 256),
		done:   make(chan struct{}),
		clock:  clock,
		logger: logger.WithPrefix("session").With("room", code),
	}
	s.room = game.NewRoom(code, settings, randutil.New(seed), logger, sink, s, timing)
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case fn := <-s.cmds:
			fn()
		case <-s.done:
			return
		}
	}
}

// Do enqueues fn onto the room's serialized context. Calls after Close
// are dropped.
func (s *Session) Do(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
	}
}

// do runs fn on the room goroutine and waits for it to finish
func (s *Session) do(fn func()) {
	doneCh := make(chan struct{})
	s.Do(func() {
		fn()
		close(doneCh)
	})
	select {
	case <-doneCh:
	case <-s.done:
	}
}

// After implements game.Scheduler. The callback is bounced back through
// the command channel so it runs serialized with everything else; the
// cancel func stops a timer that has not fired yet, and the room's own
// generation checks catch the one that already has.
func (s *Session) After(d time.Duration, fn func()) (cancel func()) {
	if d <= 0 {
		s.Do(fn)
		return func() {}
	}
	timer := s.clock.AfterFunc(d, func() {
		s.Do(fn)
	})
	return func() { timer.Stop() }
}

// Close stops the command loop. Pending commands are dropped.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Join seats a player, enforcing the join boundary inside the room's
// context: no seats in a started game, none past capacity.
func (s *Session) Join(id, name, avatar string) error {
	errCh := make(chan error, 1)
	s.Do(func() {
		switch {
		case s.room.GameStarted:
			errCh <- ErrGameStarted
		case len(s.room.Players) >= s.room.Settings.MaxPlayers:
			errCh <- ErrRoomFull
		default:
			s.room.AddPlayer(id, name, avatar)
			s.room.BroadcastRoomState()
			errCh <- nil
		}
	})
	select {
	case err := <-errCh:
		return err
	case <-s.done:
		return ErrRoomNotFound
	}
}

// Leave removes a player, folding them first if a hand is running
func (s *Session) Leave(playerID string) {
	s.Do(func() { s.room.RemovePlayer(playerID) })
}

// Code returns the room code (immutable after creation)
func (s *Session) Code() string {
	return s.room.Code
}

// Settings returns the room settings (immutable after creation)
func (s *Session) Settings() protocol.RoomSettings {
	var out protocol.RoomSettings
	s.do(func() { out = s.room.Settings })
	return out
}

// Empty reports whether the room has no seated players
func (s *Session) Empty() bool {
	empty := false
	s.do(func() { empty = s.room.IsEmpty() })
	return empty
}

// Inbound message entry points; all serialized through Do.

func (s *Session) StartGame(playerID string) {
	s.Do(func() { s.room.StartGame(playerID) })
}

func (s *Session) NextRound(playerID string) {
	s.Do(func() { s.room.NextRound(playerID) })
}

func (s *Session) PlayerAction(playerID, action string, amount int) {
	parsed, ok := game.ParseAction(action)
	if !ok {
		s.logger.Debug("dropping unknown action", "player", playerID, "action", action)
		return
	}
	s.Do(func() { s.room.HandleAction(playerID, parsed, amount) })
}

func (s *Session) UseAbility(playerID, ability string) {
	s.Do(func() { s.room.UseAbility(playerID, game.AbilityID(ability)) })
}

func (s *Session) Chat(playerID, text string) {
	s.Do(func() { s.room.Chat(playerID, text) })
}
