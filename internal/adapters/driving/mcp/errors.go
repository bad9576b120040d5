// Package mcp provides an MCP (Model Context Protocol) server adapter for dailyrank.
// It lets AI assistants play the daily game and inspect past rankings.
package mcp

import "errors"

// ErrMissingGameService is returned when the game service is not provided.
var ErrMissingGameService = errors.New("mcp: game service is required")
