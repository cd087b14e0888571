package server

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansanchezsa/PokareGame/internal/game"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

// recorderSink captures outbound traffic. Sends happen on the room
// goroutine while assertions run on the test goroutine, so it locks.
type recorderSink struct {
	mu   sync.Mutex
	sent []*protocol.Message
}

func (s *recorderSink) Broadcast(msg *protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
}

func (s *recorderSink) SendTo(_ string, msg *protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
}

func (s *recorderSink) count(typ protocol.MessageType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, msg := range s.sent {
		if msg.Type == typ {
			n++
		}
	}
	return n
}

func testRoomSettings() protocol.RoomSettings {
	return protocol.RoomSettings{
		StartingChips: 1000,
		SmallBlind:    10,
		BigBlind:      20,
		MaxPlayers:    4,
		Abilities:     true,
	}
}

func newTestSession(t *testing.T, mock quartz.Clock, sink game.Sink) *Session {
	t.Helper()
	timing := game.Timing{
		TurnTimeout: 30 * time.Second,
		// Pacing delays stay zero so hands flow without clock advances
	}
	s := NewSession("ROOM1", testRoomSettings(), 7, log.New(io.Discard), sink, mock, timing)
	t.Cleanup(s.Close)
	return s
}

// flush waits for everything already queued on the room goroutine
func flush(s *Session) {
	s.do(func() {})
}

func TestSessionJoinBoundaries(t *testing.T) {
	mock := quartz.NewMock(t)
	sess := newTestSession(t, mock, &recorderSink{})

	require.NoError(t, sess.Join("p1", "Alice", ""))
	require.NoError(t, sess.Join("p2", "Bob", ""))
	require.NoError(t, sess.Join("p3", "Carol", ""))
	require.NoError(t, sess.Join("p4", "Dave", ""))
	require.ErrorIs(t, sess.Join("p5", "Eve", ""), ErrRoomFull)

	sess.Leave("p4")
	sess.StartGame("p1")
	flush(sess)
	require.ErrorIs(t, sess.Join("p5", "Eve", ""), ErrGameStarted)
}

func TestSessionTurnTimeoutAutoFolds(t *testing.T) {
	mock := quartz.NewMock(t)
	sink := &recorderSink{}
	sess := newTestSession(t, mock, sink)

	require.NoError(t, sess.Join("p1", "Alice", ""))
	require.NoError(t, sess.Join("p2", "Bob", ""))
	sess.StartGame("p1")
	flush(sess)

	var started bool
	sess.do(func() { started = sess.room.GameStarted })
	require.True(t, started, "game should be running")

	// Nobody acts; the turn timer fires and the prompted seat folds,
	// which heads-up settles the hand immediately.
	mock.Advance(30 * time.Second).MustWait(context.Background())
	flush(sess)

	var folded, complete bool
	sess.do(func() {
		folded = sess.room.Players[1].Folded
		complete = sess.room.RoundComplete
	})
	require.True(t, folded, "prompted seat should be auto-folded")
	require.True(t, complete, "heads-up fold should settle the hand")
	require.GreaterOrEqual(t, sink.count(protocol.MessageTypeRoundEnd), 1)
}

func TestSessionTimeoutAfterActionIsNoop(t *testing.T) {
	mock := quartz.NewMock(t)
	sink := &recorderSink{}
	sess := newTestSession(t, mock, sink)

	require.NoError(t, sess.Join("p1", "Alice", ""))
	require.NoError(t, sess.Join("p2", "Bob", ""))
	sess.StartGame("p1")
	flush(sess)

	// Seat 1 acts first heads-up preflop. Acting rearms the timer for
	// the next seat, so the deadline passing folds that seat and never
	// the one that already acted.
	sess.PlayerAction("p2", "call", 0)
	flush(sess)

	mock.Advance(30 * time.Second).MustWait(context.Background())
	flush(sess)

	var p1Folded, p2Folded bool
	sess.do(func() {
		p1Folded = sess.room.Players[0].Folded
		p2Folded = sess.room.Players[1].Folded
	})
	require.False(t, p2Folded, "a seat that acted must not be folded later")
	require.True(t, p1Folded, "the rearmed timer folds the newly prompted seat")
}

func TestSessionDropsUnknownAction(t *testing.T) {
	mock := quartz.NewMock(t)
	sess := newTestSession(t, mock, &recorderSink{})

	require.NoError(t, sess.Join("p1", "Alice", ""))
	require.NoError(t, sess.Join("p2", "Bob", ""))
	sess.StartGame("p1")
	flush(sess)

	sess.PlayerAction("p2", "jump", 0)
	flush(sess)

	var bet int
	sess.do(func() { bet = sess.room.CurrentBet })
	require.Equal(t, 20, bet, "unknown action names must not reach the room")
}

func TestSessionEmptyAfterLeave(t *testing.T) {
	mock := quartz.NewMock(t)
	sess := newTestSession(t, mock, &recorderSink{})

	require.True(t, sess.Empty())
	require.NoError(t, sess.Join("p1", "Alice", ""))
	require.False(t, sess.Empty())
	sess.Leave("p1")
	require.True(t, sess.Empty())
}
