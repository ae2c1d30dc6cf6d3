package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/cribclient/internal/session"
)

type WatchCmd struct {
	Code   string `kong:"arg,help='Game code to inspect'"`
	Server string `kong:"default='http://localhost:8000',help='Game server base URL'"`
}

func (c *WatchCmd) Run(logger *log.Logger) error {
	code := strings.ToUpper(strings.TrimSpace(c.Code))
	info, err := session.NewClient(strings.TrimSpace(c.Server), logger).Info(context.Background(), code)
	if err != nil {
		return err
	}

	fmt.Printf("game %s: %s", info.Code, info.Status)
	if info.CurrentPhase != "" {
		fmt.Printf(" (%s)", info.CurrentPhase)
	}
	fmt.Printf(", %d/%d seats\n", info.CurrentPlayers, info.PlayerCount)
	for _, p := range info.Players {
		status := "connected"
		if !p.Connected {
			status = "away"
		}
		fmt.Printf("  seat %d  %-12s %3d  %s\n", p.Seat, p.Name, p.Score, status)
	}
	return nil
}
