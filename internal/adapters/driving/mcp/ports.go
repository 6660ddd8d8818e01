package mcp

import (
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server exposes.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers similarity queries over indexed chunks.
	Retrieval driving.RetrievalService

	// QA answers free-form questions about analysed videos.
	QA driving.QAService

	// Reports backs the report resources. Optional; without it the
	// resources return empty listings.
	Reports driven.ReportStore

	// Transcripts backs the transcript resources. Optional.
	Transcripts driven.TranscriptStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.QA == nil {
		return ErrMissingQAService
	}
	return nil
}
