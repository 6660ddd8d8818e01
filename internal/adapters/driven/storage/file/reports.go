// Package file provides report and transcript persistence on the local
// filesystem.
//
// The data directory holds one pair of files per analysed video:
//
//	<video_id>_report.json
//	<video_id>_transcript.txt
//
// These files are the authoritative record; the vector index can
// always be rebuilt from them.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tubelens/tubelens-cli/internal/core/domain"
	"github.com/tubelens/tubelens-cli/internal/core/ports/driven"
)

const (
	reportSuffix     = "_report.json"
	transcriptSuffix = "_transcript.txt"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore persists reports as JSON files in the data directory.
type ReportStore struct {
	dir string
}

// NewReportStore creates a report store rooted at dataDir.
// If dataDir is empty, defaults to ~/.tubelens/data.
func NewReportStore(dataDir string) (*ReportStore, error) {
	dir, err := ensureDataDir(dataDir)
	if err != nil {
		return nil, err
	}
	return &ReportStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *ReportStore) Dir() string {
	return s.dir
}

// Save stores or replaces the report for its video id.
func (s *ReportStore) Save(_ context.Context, report domain.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling report %s: %w", report.VideoID, err)
	}

	path := filepath.Join(s.dir, report.VideoID+reportSuffix)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("saving report %s: %w", report.VideoID, err)
	}
	return nil
}

// Get retrieves the report for a video.
func (s *ReportStore) Get(_ context.Context, videoID string) (*domain.Report, error) {
	path := filepath.Join(s.dir, videoID+reportSuffix)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("report %s: %w", videoID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading report %s: %w", videoID, err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", videoID, err)
	}
	if report.VideoID == "" {
		report.VideoID = videoID
	}
	return &report, nil
}

// List enumerates every persisted report, sorted by filename.
func (s *ReportStore) List(ctx context.Context) ([]domain.Report, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var reports []domain.Report
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, reportSuffix) {
			continue
		}
		videoID := strings.TrimSuffix(name, reportSuffix)

		report, err := s.Get(ctx, videoID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// Delete removes the report for a video. Unknown ids are a no-op.
func (s *ReportStore) Delete(_ context.Context, videoID string) error {
	path := filepath.Join(s.dir, videoID+reportSuffix)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting report %s: %w", videoID, err)
	}
	return nil
}

// Ensure TranscriptStore implements the interface.
var _ driven.TranscriptStore = (*TranscriptStore)(nil)

// TranscriptStore persists transcripts as plain text files in the data
// directory.
type TranscriptStore struct {
	dir string
}

// NewTranscriptStore creates a transcript store rooted at dataDir.
// If dataDir is empty, defaults to ~/.tubelens/data.
func NewTranscriptStore(dataDir string) (*TranscriptStore, error) {
	dir, err := ensureDataDir(dataDir)
	if err != nil {
		return nil, err
	}
	return &TranscriptStore{dir: dir}, nil
}

// Save stores or replaces the transcript for its video id.
func (s *TranscriptStore) Save(_ context.Context, transcript domain.Transcript) error {
	if err := transcript.Validate(); err != nil {
		return err
	}

	path := filepath.Join(s.dir, transcript.VideoID+transcriptSuffix)
	if err := writeFileAtomic(path, []byte(transcript.Text)); err != nil {
		return fmt.Errorf("saving transcript %s: %w", transcript.VideoID, err)
	}
	return nil
}

// Get retrieves the transcript for a video. The stored file carries no
// title; callers that need one resolve it from the matching report.
func (s *TranscriptStore) Get(_ context.Context, videoID string) (*domain.Transcript, error) {
	path := filepath.Join(s.dir, videoID+transcriptSuffix)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("transcript %s: %w", videoID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading transcript %s: %w", videoID, err)
	}

	return &domain.Transcript{VideoID: videoID, Text: string(data)}, nil
}

// List enumerates every persisted transcript, sorted by filename.
func (s *TranscriptStore) List(ctx context.Context) ([]domain.Transcript, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var transcripts []domain.Transcript
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, transcriptSuffix) {
			continue
		}
		videoID := strings.TrimSuffix(name, transcriptSuffix)

		transcript, err := s.Get(ctx, videoID)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, *transcript)
	}
	return transcripts, nil
}

// Delete removes the transcript for a video. Unknown ids are a no-op.
func (s *TranscriptStore) Delete(_ context.Context, videoID string) error {
	path := filepath.Join(s.dir, videoID+transcriptSuffix)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting transcript %s: %w", videoID, err)
	}
	return nil
}

// ensureDataDir resolves and creates the data directory.
func ensureDataDir(dataDir string) (string, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tubelens", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dataDir, nil
}

// writeFileAtomic writes data to a temporary file in the same
// directory and renames it into place, so readers never observe a
// half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
