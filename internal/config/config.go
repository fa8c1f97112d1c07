// Package config loads the table configuration from an HCL file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/holdem-table/internal/policy"
)

// Config is the complete configuration with defaults applied
type Config struct {
	Table     TableSettings
	Player    PlayerSettings
	Opponents OpponentSettings
	Logging   LoggingSettings
	History   HistorySettings
	Server    ServerSettings
}

// TableSettings describes the single table
type TableSettings struct {
	Seats         int    `hcl:"seats,optional"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	ThinkDelay    string `hcl:"think_delay,optional"`
	// Seed of zero means seed from the time.
	Seed int64 `hcl:"seed,optional"`
}

// PlayerSettings describes the human seat. Seat -1 seats no human.
type PlayerSettings struct {
	Name string `hcl:"name,optional"`
	Seat int    `hcl:"seat,optional"`
}

// OpponentSettings selects the policy driving the other seats
type OpponentSettings struct {
	Strategy string `hcl:"strategy,optional"`
}

// LoggingSettings controls diagnostic logging
type LoggingSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// HistorySettings controls hand history export. An empty file disables it.
type HistorySettings struct {
	File string `hcl:"file,optional"`
}

// ServerSettings configures the websocket feed
type ServerSettings struct {
	Address string `hcl:"address,optional"`
}

// file mirrors the HCL layout; every block is optional.
type file struct {
	Table     *TableSettings    `hcl:"table,block"`
	Player    *PlayerSettings   `hcl:"player,block"`
	Opponents *OpponentSettings `hcl:"opponents,block"`
	Logging   *LoggingSettings  `hcl:"logging,block"`
	History   *HistorySettings  `hcl:"history,block"`
	Server    *ServerSettings   `hcl:"server,block"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: TableSettings{
			Seats:         6,
			SmallBlind:    10,
			BigBlind:      20,
			StartingChips: 10000,
			ThinkDelay:    "1s",
		},
		Player: PlayerSettings{
			Name: "You",
			Seat: 0,
		},
		Opponents: OpponentSettings{
			Strategy: policy.NameHeuristic,
		},
		Logging: LoggingSettings{
			Level: "info",
			File:  "holdem.log",
		},
		Server: ServerSettings{
			Address: "localhost:8080",
		},
	}
}

// Load reads the configuration from filename. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills unset fields from the defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if t := raw.Table; t != nil {
		setInt(&cfg.Table.Seats, t.Seats)
		setInt(&cfg.Table.SmallBlind, t.SmallBlind)
		setInt(&cfg.Table.BigBlind, t.BigBlind)
		setInt(&cfg.Table.StartingChips, t.StartingChips)
		setString(&cfg.Table.ThinkDelay, t.ThinkDelay)
		cfg.Table.Seed = t.Seed
	}
	if p := raw.Player; p != nil {
		setString(&cfg.Player.Name, p.Name)
		cfg.Player.Seat = p.Seat
	}
	if o := raw.Opponents; o != nil {
		setString(&cfg.Opponents.Strategy, o.Strategy)
	}
	if l := raw.Logging; l != nil {
		setString(&cfg.Logging.Level, l.Level)
		setString(&cfg.Logging.File, l.File)
	}
	if h := raw.History; h != nil {
		cfg.History.File = h.File
	}
	if s := raw.Server; s != nil {
		setString(&cfg.Server.Address, s.Address)
	}
	return cfg, nil
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ThinkDelayDuration returns the parsed opponent think delay
func (c *Config) ThinkDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Table.ThinkDelay)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks the configuration for values the table cannot run with
func (c *Config) Validate() error {
	t := c.Table
	if t.Seats < 2 || t.Seats > 10 {
		return fmt.Errorf("seats must be between 2 and 10, got %d", t.Seats)
	}
	if t.SmallBlind <= 0 || t.BigBlind <= 0 {
		return fmt.Errorf("blinds must be positive, got %d/%d", t.SmallBlind, t.BigBlind)
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("big blind %d must exceed small blind %d", t.BigBlind, t.SmallBlind)
	}
	if t.StartingChips < t.BigBlind {
		return fmt.Errorf("starting chips %d must cover the big blind %d", t.StartingChips, t.BigBlind)
	}
	if d, err := time.ParseDuration(t.ThinkDelay); err != nil || d < 0 {
		return fmt.Errorf("invalid think_delay %q", t.ThinkDelay)
	}
	if c.Player.Seat < -1 || c.Player.Seat >= t.Seats {
		return fmt.Errorf("player seat %d out of range", c.Player.Seat)
	}
	if !policy.IsKnown(c.Opponents.Strategy) {
		return fmt.Errorf("unknown opponent strategy %q (want one of %v)", c.Opponents.Strategy, policy.Names())
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	return nil
}
