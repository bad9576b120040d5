package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailyrank/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractRankingDate(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
		ok   bool
	}{
		{"valid", "dailyrank://ranking/2025-10-09", "2025-10-09", true},
		{"wrong scheme", "file://ranking/2025-10-09", "", false},
		{"bad date", "dailyrank://ranking/today", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, ok := extractRankingDate(tt.uri)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, date.String())
			}
		})
	}
}

func TestServer_handleRankingResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranking JSON", func(t *testing.T) {
		game := &mockGameService{ranking: abcRanking("2025-10-09")}
		server := newTestServer(game)

		res, err := server.handleRankingResource(ctx, makeReadResourceRequest("dailyrank://ranking/2025-10-09"))
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var view domain.RankingView
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &view))
		assert.Equal(t, "A", view.AnswerName)
		assert.Len(t, view.Ranking, 3)
		assert.Equal(t, "2025-10-09", game.lastDate.String())
	})

	for name, err := range map[string]error{
		"future":  domain.ErrFutureDate,
		"missing": domain.ErrSnapshotNotFound,
	} {
		t.Run(name+" is not found", func(t *testing.T) {
			server := newTestServer(&mockGameService{err: err})

			_, got := server.handleRankingResource(ctx, makeReadResourceRequest("dailyrank://ranking/2025-10-20"))
			require.Error(t, got)
			assert.NotErrorIs(t, got, err)
		})
	}

	t.Run("malformed uri", func(t *testing.T) {
		server := newTestServer(&mockGameService{})

		_, err := server.handleRankingResource(ctx, makeReadResourceRequest("dailyrank://ranking/x"))
		assert.Error(t, err)
	})

	t.Run("store error", func(t *testing.T) {
		server := newTestServer(&mockGameService{err: errors.New("boom")})

		_, err := server.handleRankingResource(ctx, makeReadResourceRequest("dailyrank://ranking/2025-10-09"))
		assert.ErrorContains(t, err, "boom")
	})
}

func TestServer_handleNamesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns names", func(t *testing.T) {
		server := newTestServer(&mockGameService{names: []string{"A", "B", "C"}})

		res, err := server.handleNamesResource(ctx, makeReadResourceRequest("dailyrank://names"))
		require.NoError(t, err)

		var names []string
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &names))
		assert.Equal(t, []string{"A", "B", "C"}, names)
	})

	t.Run("not generated", func(t *testing.T) {
		server := newTestServer(&mockGameService{err: domain.ErrSnapshotNotFound})

		_, err := server.handleNamesResource(ctx, makeReadResourceRequest("dailyrank://names"))
		assert.Error(t, err)
	})
}
