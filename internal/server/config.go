package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/sebastiansanchezsa/PokareGame/internal/game"
	"github.com/sebastiansanchezsa/PokareGame/internal/protocol"
)

// Config represents the complete server configuration. Every block is
// optional in the file; missing blocks and fields take the defaults.
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Rooms   *RoomDefaults    `hcl:"rooms,block"`
	Timing  *TimingSettings  `hcl:"timing,block"`
	Cleanup *CleanupSettings `hcl:"cleanup,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// RoomDefaults defines defaults and caps applied when a client
// creates a room
type RoomDefaults struct {
	StartingChips int  `hcl:"starting_chips,optional"`
	SmallBlind    int  `hcl:"small_blind,optional"`
	BigBlind      int  `hcl:"big_blind,optional"`
	MaxPlayers    int  `hcl:"max_players,optional"`
	PlayerCap     int  `hcl:"player_cap,optional"`
	Abilities     bool `hcl:"abilities,optional"`
}

// TimingSettings controls game pacing, in milliseconds except the
// turn timeout which is in seconds
type TimingSettings struct {
	TurnTimeoutSec     int `hcl:"turn_timeout,optional"`
	InterPhaseDelayMs  int `hcl:"inter_phase_delay,optional"`
	AdvanceDelayMs     int `hcl:"advance_delay,optional"`
	PromptDelayMs      int `hcl:"prompt_delay,optional"`
	FastForwardDelayMs int `hcl:"fast_forward_delay,optional"`
}

// CleanupSettings controls empty-room reaping
type CleanupSettings struct {
	EmptyRoomTTLSec    int `hcl:"empty_room_ttl,optional"`
	CleanupIntervalSec int `hcl:"cleanup_interval,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Rooms: &RoomDefaults{
			StartingChips: 1000,
			SmallBlind:    10,
			BigBlind:      20,
			MaxPlayers:    6,
			PlayerCap:     8,
			Abilities:     true,
		},
		Timing: &TimingSettings{
			TurnTimeoutSec:     60,
			InterPhaseDelayMs:  1200,
			AdvanceDelayMs:     800,
			PromptDelayMs:      300,
			FastForwardDelayMs: 500,
		},
		Cleanup: &CleanupSettings{
			EmptyRoomTTLSec:    60,
			CleanupIntervalSec: 30,
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing blocks and values
	def := DefaultConfig()
	if config.Server == nil {
		config.Server = def.Server
	}
	if config.Rooms == nil {
		config.Rooms = def.Rooms
	}
	if config.Timing == nil {
		config.Timing = def.Timing
	}
	if config.Cleanup == nil {
		config.Cleanup = def.Cleanup
	}
	if config.Server.Address == "" {
		config.Server.Address = def.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = def.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = def.Server.LogLevel
	}
	if config.Rooms.StartingChips == 0 {
		config.Rooms.StartingChips = def.Rooms.StartingChips
	}
	if config.Rooms.SmallBlind == 0 {
		config.Rooms.SmallBlind = def.Rooms.SmallBlind
	}
	if config.Rooms.BigBlind == 0 {
		config.Rooms.BigBlind = def.Rooms.BigBlind
	}
	if config.Rooms.MaxPlayers == 0 {
		config.Rooms.MaxPlayers = def.Rooms.MaxPlayers
	}
	if config.Rooms.PlayerCap == 0 {
		config.Rooms.PlayerCap = def.Rooms.PlayerCap
	}
	if config.Timing.TurnTimeoutSec == 0 {
		config.Timing.TurnTimeoutSec = def.Timing.TurnTimeoutSec
	}
	if config.Timing.InterPhaseDelayMs == 0 {
		config.Timing.InterPhaseDelayMs = def.Timing.InterPhaseDelayMs
	}
	if config.Timing.AdvanceDelayMs == 0 {
		config.Timing.AdvanceDelayMs = def.Timing.AdvanceDelayMs
	}
	if config.Timing.PromptDelayMs == 0 {
		config.Timing.PromptDelayMs = def.Timing.PromptDelayMs
	}
	if config.Timing.FastForwardDelayMs == 0 {
		config.Timing.FastForwardDelayMs = def.Timing.FastForwardDelayMs
	}
	if config.Cleanup.EmptyRoomTTLSec == 0 {
		config.Cleanup.EmptyRoomTTLSec = def.Cleanup.EmptyRoomTTLSec
	}
	if config.Cleanup.CleanupIntervalSec == 0 {
		config.Cleanup.CleanupIntervalSec = def.Cleanup.CleanupIntervalSec
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Rooms.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Rooms.BigBlind <= c.Rooms.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Rooms.MaxPlayers < 2 || c.Rooms.MaxPlayers > c.Rooms.PlayerCap {
		return fmt.Errorf("max players must be between 2 and %d", c.Rooms.PlayerCap)
	}
	if c.Rooms.StartingChips < c.Rooms.BigBlind*2 {
		return fmt.Errorf("starting chips must cover at least two big blinds")
	}
	if c.Timing.TurnTimeoutSec <= 0 {
		return fmt.Errorf("turn timeout must be positive")
	}
	return nil
}

// ListenAddr returns the full listen address
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameTiming converts the timing settings into game pacing
func (c *Config) GameTiming() game.Timing {
	return game.Timing{
		TurnTimeout:      time.Duration(c.Timing.TurnTimeoutSec) * time.Second,
		InterPhaseDelay:  time.Duration(c.Timing.InterPhaseDelayMs) * time.Millisecond,
		AdvanceDelay:     time.Duration(c.Timing.AdvanceDelayMs) * time.Millisecond,
		PromptDelay:      time.Duration(c.Timing.PromptDelayMs) * time.Millisecond,
		FastForwardDelay: time.Duration(c.Timing.FastForwardDelayMs) * time.Millisecond,
	}
}

// EmptyRoomTTL returns how long an empty room lingers before removal
func (c *Config) EmptyRoomTTL() time.Duration {
	return time.Duration(c.Cleanup.EmptyRoomTTLSec) * time.Second
}

// CleanupInterval returns how often the janitor sweeps for empty rooms
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Cleanup.CleanupIntervalSec) * time.Second
}

// RoomSettings resolves a client room creation request against the
// configured defaults and caps
func (c *Config) RoomSettings(req protocol.CreateRoomData) protocol.RoomSettings {
	settings := protocol.RoomSettings{
		StartingChips: c.Rooms.StartingChips,
		SmallBlind:    c.Rooms.SmallBlind,
		BigBlind:      c.Rooms.BigBlind,
		MaxPlayers:    c.Rooms.MaxPlayers,
		Abilities:     c.Rooms.Abilities,
	}
	if req.StartingChips > 0 {
		settings.StartingChips = req.StartingChips
	}
	if req.SmallBlind > 0 {
		settings.SmallBlind = req.SmallBlind
	}
	if req.BigBlind > settings.SmallBlind {
		settings.BigBlind = req.BigBlind
	}
	if req.MaxPlayers >= 2 {
		settings.MaxPlayers = min(req.MaxPlayers, c.Rooms.PlayerCap)
	}
	if req.Abilities != nil {
		settings.Abilities = *req.Abilities
	}
	return settings
}
