package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/cribclient/internal/session"
)

type CreateCmd struct {
	Server  string `kong:"default='http://localhost:8000',help='Game server base URL'"`
	Name    string `kong:"default='',help='Display name (defaults to $USER or \"Player\")'"`
	Players int    `kong:"default='2',help='Number of seats (2-4)'"`
}

func (c *CreateCmd) Run(logger *log.Logger) error {
	server := strings.TrimSpace(c.Server)
	name := displayName(c.Name)

	grant, err := session.NewClient(server, logger).Create(context.Background(), c.Players, name)
	if err != nil {
		return err
	}
	logger.Info("game created", "code", grant.GameCode, "seat", grant.Seat)

	return runGame(server, grant, logger)
}
