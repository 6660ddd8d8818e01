// Package watcher keeps the vector index in sync with the data
// directory. Reports or transcripts dropped in (or deleted) by other
// tools are indexed or removed without a manual reindex.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driving"
	"github.com/tubelens/tubelens-cli/internal/logger"
)

const (
	reportSuffix     = "_report.json"
	transcriptSuffix = "_transcript.txt"
)

// Watcher reacts to data directory changes by updating the index.
type Watcher struct {
	dataDir     string
	retrieval   driving.RetrievalService
	reports     driven.ReportStore
	transcripts driven.TranscriptStore
}

// New creates a watcher over dataDir.
func New(
	dataDir string,
	retrieval driving.RetrievalService,
	reports driven.ReportStore,
	transcripts driven.TranscriptStore,
) *Watcher {
	return &Watcher{
		dataDir:     dataDir,
		retrieval:   retrieval,
		reports:     reports,
		transcripts: transcripts,
	}
}

// Run watches the data directory until ctx is cancelled. Individual
// file failures are logged and skipped; only watcher-level errors end
// the run.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.dataDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dataDir, err)
	}
	logger.Info("Watching %s", w.dataDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent dispatches one filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)

	var collection domain.Collection
	var videoID string
	switch {
	case strings.HasSuffix(name, reportSuffix):
		collection = domain.CollectionReports
		videoID = strings.TrimSuffix(name, reportSuffix)
	case strings.HasSuffix(name, transcriptSuffix):
		collection = domain.CollectionTranscripts
		videoID = strings.TrimSuffix(name, transcriptSuffix)
	default:
		return
	}

	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		w.indexFile(ctx, collection, videoID)
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		logger.Debug("Removing %s/%s from index", collection, videoID)
		if err := w.retrieval.RemoveSource(ctx, collection, videoID); err != nil {
			logger.Warn("Removing %s/%s: %v", collection, videoID, err)
		}
	}
}

// indexFile re-indexes a changed report or transcript.
func (w *Watcher) indexFile(ctx context.Context, collection domain.Collection, videoID string) {
	logger.Debug("Indexing %s/%s", collection, videoID)

	var err error
	switch collection {
	case domain.CollectionReports:
		var report *domain.Report
		if report, err = w.reports.Get(ctx, videoID); err == nil {
			err = w.retrieval.IndexReport(ctx, *report)
		}
	case domain.CollectionTranscripts:
		var transcript *domain.Transcript
		if transcript, err = w.transcripts.Get(ctx, videoID); err == nil {
			title := transcript.VideoTitle
			if title == "" {
				if report, getErr := w.reports.Get(ctx, videoID); getErr == nil {
					title = report.VideoTitle
				} else {
					title = videoID
				}
			}
			err = w.retrieval.IndexTranscript(ctx, videoID, title, transcript.Text)
		}
	}

	if err != nil {
		// Writers that use temp-and-rename can still race a partial
		// read; the next write event retries.
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("File for %s/%s vanished before indexing", collection, videoID)
			return
		}
		logger.Warn("Indexing %s/%s: %v", collection, videoID, err)
	}
}
