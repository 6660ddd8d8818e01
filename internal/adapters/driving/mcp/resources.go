package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for Tubelens resources.
const uriScheme = "tubelens://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing analysed videos.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "reports",
		Name:        "reports",
		Description: "List of all analysed videos with report metadata",
		MIMEType:    "application/json",
	}, s.handleReportsResource)

	// Template for a single report.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "reports/{videoId}",
		Name:        "report",
		Description: "Full analysis report for a video",
		MIMEType:    "application/json",
	}, s.handleReportResource)

	// Template for a transcript.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "transcripts/{videoId}",
		Name:        "transcript",
		Description: "Raw transcript of a video",
		MIMEType:    "text/plain",
	}, s.handleTranscriptResource)
}

// handleReportsResource returns a listing of every stored report.
func (s *Server) handleReportsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Reports == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	reports, err := s.ports.Reports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	type reportInfo struct {
		VideoID      string    `json:"video_id"`
		VideoTitle   string    `json:"video_title"`
		ChannelTitle string    `json:"channel_title"`
		GeneratedAt  time.Time `json:"generated_at"`
	}

	infos := make([]reportInfo, len(reports))
	for i, report := range reports {
		infos[i] = reportInfo{
			VideoID:      report.VideoID,
			VideoTitle:   report.VideoTitle,
			ChannelTitle: report.ChannelTitle,
			GeneratedAt:  report.GeneratedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling reports: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleReportResource returns the full report for one video.
func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Reports == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	videoID := pathSuffix(req.Params.URI, "reports/")
	if videoID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.Reports.Get(ctx, videoID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleTranscriptResource returns the raw transcript for one video.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Transcripts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	videoID := pathSuffix(req.Params.URI, "transcripts/")
	if videoID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	transcript, err := s.ports.Transcripts.Get(ctx, videoID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     transcript.Text,
		}},
	}, nil
}

// pathSuffix extracts the trailing id from a tubelens:// URI.
func pathSuffix(uri, prefix string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+prefix)
	if !ok || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}
