package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
	assert.Equal(t, 1000, cfg.Rooms.StartingChips)
	assert.Equal(t, time.Minute, cfg.EmptyRoomTTL())
	assert.Equal(t, 30*time.Second, cfg.CleanupInterval())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.hcl")
	content := `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

rooms {
  starting_chips = 2000
  small_blind    = 25
  big_blind      = 50
  abilities      = true
}

timing {
  turn_timeout = 45
}

cleanup {
  empty_room_ttl = 120
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
	assert.Equal(t, 2000, cfg.Rooms.StartingChips)
	assert.Equal(t, 25, cfg.Rooms.SmallBlind)
	assert.Equal(t, 50, cfg.Rooms.BigBlind)
	assert.Equal(t, 45*time.Second, cfg.GameTiming().TurnTimeout)
	assert.Equal(t, 2*time.Minute, cfg.EmptyRoomTTL())

	// Unset values fall back to defaults
	assert.Equal(t, 6, cfg.Rooms.MaxPlayers)
	assert.Equal(t, 800*time.Millisecond, cfg.GameTiming().AdvanceDelay)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Rooms.BigBlind = cfg.Rooms.SmallBlind
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Rooms.StartingChips = cfg.Rooms.BigBlind
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Timing.TurnTimeoutSec = -1
	assert.Error(t, cfg.Validate())
}

func TestRoomSettingsResolution(t *testing.T) {
	cfg := DefaultConfig()

	// Empty request takes all defaults
	settings := cfg.RoomSettings(protocol.CreateRoomData{})
	assert.Equal(t, 1000, settings.StartingChips)
	assert.Equal(t, 10, settings.SmallBlind)
	assert.Equal(t, 20, settings.BigBlind)
	assert.True(t, settings.Abilities)

	// Explicit values win, capped by the configured player cap
	off := false
	settings = cfg.RoomSettings(protocol.CreateRoomData{
		StartingChips: 5000,
		SmallBlind:    50,
		BigBlind:      100,
		MaxPlayers:    99,
		Abilities:     &off,
	})
	assert.Equal(t, 5000, settings.StartingChips)
	assert.Equal(t, 50, settings.SmallBlind)
	assert.Equal(t, 100, settings.BigBlind)
	assert.Equal(t, cfg.Rooms.PlayerCap, settings.MaxPlayers)
	assert.False(t, settings.Abilities)
}
