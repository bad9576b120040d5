package mcp

import (
	"github.com/custodia-labs/dailyrank/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Game serves today's game, guesses and rankings.
	Game driving.GameService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Game == nil {
		return ErrMissingGameService
	}
	return nil
}
