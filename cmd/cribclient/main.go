package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging to stderr"`

	Create CreateCmd `cmd:"" help:"Create a new game and play it"`
	Join   JoinCmd   `cmd:"" help:"Join an existing game by code"`
	Watch  WatchCmd  `cmd:"" help:"Show the lobby view of a game"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cribclient"),
		kong.Description("Terminal client for multiplayer cribbage"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(newLogger(cli.Debug))
	ctx.FatalIfErrorf(err)
}

func newLogger(debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}
