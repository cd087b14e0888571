package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/sebastiansanchezsa/PokareGame/internal/game"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
	"github.com/sebastiansanchezsa/PokareGame/internal/randutil"
	"github.com/sebastiansanchezsa/PokareGame/internal/roomcode"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrGameStarted  = errors.New("game already in progress")
)

// SinkFactory builds the outbound delivery path for a room
type SinkFactory func(code string) game.Sink

// Registry creates, looks up and destroys room sessions by code. Unlike
// a room's internals, the registry is touched from many connection
// goroutines concurrently and guards itself with a mutex.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Session
	emptySince map[string]time.Time

	sinks    SinkFactory
	codes    *roomcode.Generator
	clock    quartz.Clock
	timing   game.Timing
	logger   *log.Logger
	seedFn   func() int64
	emptyTTL time.Duration
}

// NewRegistry creates a room registry
func NewRegistry(sinks SinkFactory, clock quartz.Clock, timing game.Timing, emptyTTL time.Duration, logger *log.Logger) *Registry {
	return &Registry{
		rooms:      make(map[string]*Session),
		emptySince: make(map[string]time.Time),
		sinks:      sinks,
		codes:      roomcode.NewGenerator(nil),
		clock:      clock,
		timing:     timing,
		logger:     logger.WithPrefix("registry"),
		seedFn:     randutil.Seed,
		emptyTTL:   emptyTTL,
	}
}

// Create makes a room with a code unique among live rooms
func (reg *Registry) Create(settings protocol.RoomSettings) *Session {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.codes.Generate()
	for _, taken := reg.rooms[code]; taken; _, taken = reg.rooms[code] {
		code = reg.codes.Generate()
	}

	session := NewSession(code, settings, reg.seedFn(), reg.logger, reg.sinks(code), reg.clock, reg.timing)
	reg.rooms[code] = session
	reg.logger.Info("room created", "room", code, "rooms", len(reg.rooms))
	return session
}

// Get looks up a live room by its (normalized) code
func (reg *Registry) Get(code string) (*Session, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s, ok := reg.rooms[roomcode.Normalize(code)]
	return s, ok
}

// Count returns the number of live rooms
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// RunJanitor destroys rooms that have sat empty longer than the TTL.
// Blocks until ctx is done.
func (reg *Registry) RunJanitor(ctx context.Context, interval time.Duration) error {
	return reg.clock.TickerFunc(ctx, interval, func() error {
		reg.sweep()
		return nil
	}).Wait()
}

func (reg *Registry) sweep() {
	type candidate struct {
		code    string
		session *Session
	}
	var doomed []candidate

	reg.mu.Lock()
	now := reg.clock.Now()
	for code, session := range reg.rooms {
		if !session.Empty() {
			delete(reg.emptySince, code)
			continue
		}
		since, ok := reg.emptySince[code]
		if !ok {
			reg.emptySince[code] = now
			continue
		}
		if now.Sub(since) >= reg.emptyTTL {
			doomed = append(doomed, candidate{code: code, session: session})
			delete(reg.rooms, code)
			delete(reg.emptySince, code)
		}
	}
	reg.mu.Unlock()

	for _, c := range doomed {
		c.session.Close()
		reg.logger.Info("room removed after sitting empty", "room", c.code)
	}
}
