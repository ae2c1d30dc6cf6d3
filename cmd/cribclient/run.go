package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/cribclient/internal/client"
	"github.com/lox/cribclient/internal/session"
	"github.com/lox/cribclient/internal/tui"
)

// runGame connects the WebSocket client for the granted seat and runs
// the interactive UI until the player quits or the process is signalled.
func runGame(server string, grant *session.Grant, logger *log.Logger) error {
	c, err := client.New(client.Options{
		ServerURL:    server,
		GameCode:     grant.GameCode,
		SessionToken: grant.SessionToken,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Open(); err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(c, logger), tea.WithAltScreen())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		_, err := program.Run()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		program.Quit()
		return nil
	})
	return g.Wait()
}

// displayName resolves the player name, falling back to $USER.
func displayName(flag string) string {
	if name := strings.TrimSpace(flag); name != "" {
		return name
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "Player"
}
