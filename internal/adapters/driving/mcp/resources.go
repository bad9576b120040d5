package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for dailyrank resources.
	uriScheme = "dailyrank://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "names",
		Name:        "names",
		Description: "Every guessable entity name in today's game, sorted",
		MIMEType:    "application/json",
	}, s.handleNamesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "ranking/{date}",
		Name:        "ranking",
		Description: "Full similarity ranking for a revealed date (YYYY-MM-DD)",
		MIMEType:    "application/json",
	}, s.handleRankingResource)
}

func (s *Server) handleNamesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	names, err := s.ports.Game.Names(ctx)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("listing names: %w", err)
	}
	return jsonResource(req.Params.URI, names)
}

// handleRankingResource serves dailyrank://ranking/{date}. Future and
// missing dates are both reported as not found.
func (s *Server) handleRankingResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	date, ok := extractRankingDate(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	view, err := s.ports.Game.Ranking(ctx, &date)
	if errors.Is(err, domain.ErrSnapshotNotFound) || errors.Is(err, domain.ErrFutureDate) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting ranking: %w", err)
	}
	return jsonResource(req.Params.URI, view)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRankingDate parses the date from dailyrank://ranking/{date}.
func extractRankingDate(uri string) (domain.Date, bool) {
	raw, ok := strings.CutPrefix(uri, uriScheme+"ranking/")
	if !ok {
		return domain.Date{}, false
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, false
	}
	return date, true
}
