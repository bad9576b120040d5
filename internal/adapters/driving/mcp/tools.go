package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// defaultRankingLimit caps ranking tool output unless a limit is given.
const defaultRankingLimit = 20

// TodayInput is the input schema for the today tool.
type TodayInput struct{}

// TodayOutput is the output schema for the today tool.
type TodayOutput struct {
	Date     string `json:"date" jsonschema:"the game date, YYYY-MM-DD"`
	AnswerID int64  `json:"answer_id" jsonschema:"opaque answer id to send back with guesses"`
	Version  string `json:"version" jsonschema:"version token to send back with guesses"`
}

// GuessInput is the input schema for the guess tool.
type GuessInput struct {
	Guess    string `json:"guess" jsonschema:"the exact entity name to guess"`
	AnswerID int64  `json:"answer_id" jsonschema:"answer id from the today tool"`
	Version  string `json:"version" jsonschema:"version token from the today tool"`
}

// GuessOutput is the output schema for the guess tool.
type GuessOutput struct {
	Name      string  `json:"name"`
	Known     bool    `json:"known" jsonschema:"false when no entity has this name"`
	Score     float64 `json:"score,omitempty"`
	Rank      int     `json:"rank,omitempty"`
	Total     int     `json:"total,omitempty"`
	IsCorrect bool    `json:"is_correct"`
	Content   string  `json:"content,omitempty" jsonschema:"the answer content, only on a correct guess"`
}

// RankingInput is the input schema for the ranking tool.
type RankingInput struct {
	Date  string `json:"date,omitempty" jsonschema:"date to reveal, YYYY-MM-DD (default today)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default 20)"`
}

// RankingOutput is the output schema for the ranking tool.
type RankingOutput struct {
	Date       string             `json:"date"`
	AnswerName string             `json:"answer_name"`
	Total      int                `json:"total"`
	Ranking    []domain.RankEntry `json:"ranking"`
}

// YesterdayInput is the input schema for the yesterday tool.
type YesterdayInput struct{}

// YesterdayOutput is the output schema for the yesterday tool.
type YesterdayOutput struct {
	Available  bool   `json:"available"`
	Date       string `json:"date,omitempty"`
	AnswerName string `json:"answer_name,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "today",
		Description: "Get today's game: date, answer id and version token",
	}, s.handleToday)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "guess",
		Description: "Guess an entity by exact name and get its similarity rank against today's answer",
	}, s.handleGuess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ranking",
		Description: "Reveal the similarity ranking for today or a past date",
	}, s.handleRanking)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "yesterday",
		Description: "Reveal yesterday's answer name",
	}, s.handleYesterday)
}

func (s *Server) handleToday(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ TodayInput,
) (*mcp.CallToolResult, TodayOutput, error) {
	info, err := s.ports.Game.Today(ctx)
	if err != nil {
		return nil, TodayOutput{}, err
	}
	return nil, TodayOutput{
		Date:     info.Date.String(),
		AnswerID: info.AnswerID,
		Version:  info.Version,
	}, nil
}

// handleGuess reports an unknown name as a normal result rather than a
// tool error so the assistant can try another name.
func (s *Server) handleGuess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GuessInput,
) (*mcp.CallToolResult, GuessOutput, error) {
	result, err := s.ports.Game.SubmitGuess(ctx, domain.Guess{
		Name:     input.Guess,
		AnswerID: input.AnswerID,
		Version:  input.Version,
	})
	if errors.Is(err, domain.ErrUnknownEntity) {
		return nil, GuessOutput{Name: input.Guess}, nil
	}
	if errors.Is(err, domain.ErrStaleVersion) {
		return nil, GuessOutput{}, fmt.Errorf("%w: call the today tool again", err)
	}
	if err != nil {
		return nil, GuessOutput{}, err
	}

	return nil, GuessOutput{
		Name:      result.Name,
		Known:     true,
		Score:     result.Score,
		Rank:      result.Rank,
		Total:     result.Total,
		IsCorrect: result.IsCorrect,
		Content:   result.Content,
	}, nil
}

func (s *Server) handleRanking(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RankingInput,
) (*mcp.CallToolResult, RankingOutput, error) {
	var date *domain.Date
	if input.Date != "" {
		d, err := domain.ParseDate(input.Date)
		if err != nil {
			return nil, RankingOutput{}, err
		}
		date = &d
	}

	view, err := s.ports.Game.Ranking(ctx, date)
	if err != nil {
		return nil, RankingOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultRankingLimit
	}
	return nil, RankingOutput{
		Date:       view.Date.String(),
		AnswerName: view.AnswerName,
		Total:      len(view.Ranking),
		Ranking:    view.Ranking[:min(limit, len(view.Ranking))],
	}, nil
}

func (s *Server) handleYesterday(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ YesterdayInput,
) (*mcp.CallToolResult, YesterdayOutput, error) {
	reveal, err := s.ports.Game.PreviousAnswer(ctx)
	if err != nil {
		return nil, YesterdayOutput{}, err
	}
	if reveal == nil {
		return nil, YesterdayOutput{}, nil
	}
	return nil, YesterdayOutput{
		Available:  true,
		Date:       reveal.Date.String(),
		AnswerName: reveal.AnswerName,
	}, nil
}
