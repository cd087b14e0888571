package server

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansanchezsa/PokareGame/internal/game"
	"github.com/sebastiansanchezsa/PokareGame/internal/roomcode"
)

func newTestRegistry(t *testing.T, mock quartz.Clock) *Registry {
	t.Helper()
	sinks := func(code string) game.Sink { return &recorderSink{} }
	return NewRegistry(sinks, mock, game.Timing{TurnTimeout: 30 * time.Second}, time.Minute, log.New(io.Discard))
}

func TestRegistryCreateAndGet(t *testing.T) {
	mock := quartz.NewMock(t)
	reg := newTestRegistry(t, mock)

	sess := reg.Create(testRoomSettings())
	t.Cleanup(sess.Close)

	code := sess.Code()
	require.NoError(t, roomcode.Validate(code))

	found, ok := reg.Get(code)
	require.True(t, ok)
	assert.Same(t, sess, found)

	// Lookup is case-insensitive
	found, ok = reg.Get(strings.ToLower(code))
	require.True(t, ok)
	assert.Same(t, sess, found)

	_, ok = reg.Get("ZZZZZ")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Count())
}

func TestRegistrySweepRemovesLongEmptyRooms(t *testing.T) {
	mock := quartz.NewMock(t)
	reg := newTestRegistry(t, mock)

	empty := reg.Create(testRoomSettings())
	occupied := reg.Create(testRoomSettings())
	t.Cleanup(empty.Close)
	t.Cleanup(occupied.Close)
	require.NoError(t, occupied.Join("p1", "Alice", ""))
	require.Equal(t, 2, reg.Count())

	// First sweep only marks the empty room
	reg.sweep()
	require.Equal(t, 2, reg.Count())

	mock.Advance(time.Minute)
	reg.sweep()

	assert.Equal(t, 1, reg.Count())
	_, ok := reg.Get(empty.Code())
	assert.False(t, ok, "empty room should be removed after the TTL")
	_, ok = reg.Get(occupied.Code())
	assert.True(t, ok, "occupied room must survive sweeps")
}

func TestRegistrySweepResetsWhenRoomRefills(t *testing.T) {
	mock := quartz.NewMock(t)
	reg := newTestRegistry(t, mock)

	sess := reg.Create(testRoomSettings())
	t.Cleanup(sess.Close)
	reg.sweep() // marks the room empty

	require.NoError(t, sess.Join("p1", "Alice", ""))
	mock.Advance(time.Minute)
	reg.sweep()
	require.Equal(t, 1, reg.Count(), "a refilled room must not be reaped")

	sess.Leave("p1")
	reg.sweep() // marks again, from now
	mock.Advance(30 * time.Second)
	reg.sweep()
	require.Equal(t, 1, reg.Count(), "TTL should restart from the new mark")

	mock.Advance(30 * time.Second)
	reg.sweep()
	require.Equal(t, 0, reg.Count())
}

func TestRegistryCodesAreUnique(t *testing.T) {
	mock := quartz.NewMock(t)
	reg := newTestRegistry(t, mock)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		sess := reg.Create(testRoomSettings())
		t.Cleanup(sess.Close)
		require.False(t, seen[sess.Code()], "duplicate room code %s", sess.Code())
		seen[sess.Code()] = true
	}
	assert.Equal(t, 20, reg.Count())
}
