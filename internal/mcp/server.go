// Package mcp exposes the vault's engine surface as MCP tools.
package mcp

import (
	"log/slog"

	"github.com/ardiva/vaulthk/internal/domain/vault"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `vaulthk is a shared-fund ledger. Each project (vault) tracks a cash
balance, a member roster and an append-style log of monetary events.
Amounts are decimal strings; positive amounts are expenses, negative
amounts are injections. Mutations are serialized: a call made while
another is in flight is rejected and should be retried.`

// Config contains server configuration.
type Config struct {
	Vault  *vault.Service
	Logger *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "vaulthk",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Vault)

	return server
}
