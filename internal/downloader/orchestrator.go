// Package downloader stages media downloads through per-call scratch
// directories and hands the resulting file back for streaming.
package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/iconidentify/vidgrab/internal/domain"
	"github.com/iconidentify/vidgrab/internal/extractor"
)

// videoExtensions are the container extensions a completed download may
// produce.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
}

// Result is a completed download ready to stream. Cleanup removes the
// scratch directory and must be called once the file has been fully
// sent, on error paths included.
type Result struct {
	File     *os.File
	Filename string
	Cleanup  func()
}

// Orchestrator drives the extraction client in download mode and
// locates the produced media file.
type Orchestrator struct {
	client extractor.Client
	logger *slog.Logger
}

// New creates a download orchestrator.
func New(client extractor.Client, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		logger: logger,
	}
}

// Fetch downloads the rendition selected by formatID into a fresh
// scratch directory and returns an open handle on the single media file
// it produced. Every call gets its own directory so concurrent calls
// cannot collide. On any error the scratch directory is removed before
// returning.
func (o *Orchestrator) Fetch(ctx context.Context, url, formatID string) (*Result, error) {
	scratchDir, err := os.MkdirTemp("", "vidgrab-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(scratchDir); err != nil {
			o.logger.Error("failed to remove scratch directory", "dir", scratchDir, "error", err)
		}
	}

	info, err := o.client.Download(ctx, url, formatID, scratchDir)
	if err != nil {
		cleanup()
		return nil, err
	}

	mediaPath, err := locateOutput(scratchDir)
	if err != nil {
		cleanup()
		return nil, err
	}

	f, err := os.Open(mediaPath)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("open downloaded file: %w", err)
	}

	return &Result{
		File:     f,
		Filename: suggestedFilename(info),
		Cleanup: func() {
			f.Close()
			cleanup()
		},
	}, nil
}

// locateOutput finds exactly one media file in the scratch directory.
// Zero candidates means the download produced nothing; more than one
// means the output is ambiguous. Both fail rather than guess.
func locateOutput(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read scratch directory: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			candidates = append(candidates, filepath.Join(dir, e.Name()))
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", domain.ErrNoOutput
	default:
		return "", fmt.Errorf("%w: %d candidate files", domain.ErrNoOutput, len(candidates))
	}
}

// suggestedFilename derives the attachment filename from the video
// title. Downloads are always served as mp4 per the response contract.
func suggestedFilename(info *extractor.RawInfo) string {
	title := "video"
	if info != nil && info.Title != "" {
		title = info.Title
	}
	return title + ".mp4"
}
