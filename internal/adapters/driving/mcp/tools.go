package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string   `json:"question" jsonschema:"the question to answer from analysed videos"`
	VideoIDs []string `json:"video_ids,omitempty" jsonschema:"restrict the answer to these video ids"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string        `json:"answer"`
	Sources []ChunkOutput `json:"sources"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query    string   `json:"query" jsonschema:"the text to find similar chunks for"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
	VideoIDs []string `json:"video_ids,omitempty" jsonschema:"restrict results to these video ids"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	VideoID    string  `json:"video_id"`
	VideoTitle string  `json:"video_title"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Distance   float64 `json:"distance"`
	Text       string  `json:"text"`
}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	Reports     int `json:"reports"`
	Transcripts int `json:"transcripts"`
	Total       int `json:"total"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about analysed YouTube videos using their reports and transcripts",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the indexed chunks most similar to a query",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Report how many chunks are indexed per collection",
	}, s.handleStats)
}

// handleAsk handles the ask tool invocation. Each call is a fresh
// conversation; MCP clients carry their own context.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.QA.Ask(ctx, input.Question, nil, input.VideoIDs)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: chunkOutputs(answer.Sources),
	}
	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultRetrieveLimit
	}

	opts := domain.DefaultRetrieveOptions(limit)
	opts.VideoIDs = input.VideoIDs

	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks: chunkOutputs(results),
		Count:  len(results),
	}
	return nil, output, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		Reports:     stats.Reports,
		Transcripts: stats.Transcripts,
		Total:       stats.Total(),
	}, nil
}

func chunkOutputs(chunks []domain.RetrievedChunk) []ChunkOutput {
	outputs := make([]ChunkOutput, len(chunks))
	for i, chunk := range chunks {
		outputs[i] = ChunkOutput{
			VideoID:    chunk.VideoID,
			VideoTitle: chunk.VideoTitle,
			Source:     string(chunk.SourceType),
			ChunkIndex: chunk.Index,
			Distance:   chunk.Distance,
			Text:       chunk.Text,
		}
	}
	return outputs
}
