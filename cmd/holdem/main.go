package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command. Non-zero values override the
// config file.
type Globals struct {
	Config   string `short:"c" help:"Path to the HCL config file" default:"holdem.hcl" type:"path"`
	Seed     int64  `help:"Deterministic RNG seed (0 keeps the config value)"`
	Seats    int    `help:"Number of seats at the table (0 keeps the config value)"`
	LogLevel string `help:"Log level: debug, info, warn or error"`
	LogFile  string `help:"Write diagnostic logs to this file"`
}

type CLI struct {
	Globals

	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Play        PlayCmd          `cmd:"" default:"1" help:"Play against scripted opponents in the terminal"`
	Simulate    SimulateCmd      `cmd:"" help:"Run bot-only tables and report per-seat statistics"`
	Serve       ServeCmd         `cmd:"" help:"Serve the table over WebSocket"`
	HandHistory HandHistoryCmd   `cmd:"hand-history" help:"Work with PHH hand history files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Single-table Texas Hold'em"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
