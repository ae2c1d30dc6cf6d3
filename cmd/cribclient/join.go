package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/cribclient/internal/session"
)

type JoinCmd struct {
	Code   string `kong:"arg,help='Game code to join'"`
	Server string `kong:"default='http://localhost:8000',help='Game server base URL'"`
	Name   string `kong:"default='',help='Display name (defaults to $USER or \"Player\")'"`
}

func (c *JoinCmd) Run(logger *log.Logger) error {
	server := strings.TrimSpace(c.Server)

	grant, err := session.NewClient(server, logger).Join(
		context.Background(), strings.ToUpper(strings.TrimSpace(c.Code)), displayName(c.Name))
	if err != nil {
		return err
	}

	return runGame(server, grant, logger)
}
