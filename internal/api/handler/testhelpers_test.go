package handler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/iconidentify/vidgrab/internal/domain"
	"github.com/iconidentify/vidgrab/internal/downloader"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockVideoService is a test implementation of VideoService.
type mockVideoService struct {
	info    *domain.VideoInfo
	infoErr error

	result      *downloader.Result
	downloadErr error

	entries []*domain.DownloadLogEntry
	listErr error

	extractCalls  int
	downloadCalls int
}

func (m *mockVideoService) ExtractInfo(ctx context.Context, url string) (*domain.VideoInfo, error) {
	m.extractCalls++
	return m.info, m.infoErr
}

func (m *mockVideoService) Download(ctx context.Context, url, formatID string) (*downloader.Result, error) {
	m.downloadCalls++
	return m.result, m.downloadErr
}

func (m *mockVideoService) ListRecent(ctx context.Context) ([]*domain.DownloadLogEntry, error) {
	return m.entries, m.listErr
}

// downloadResult stages a real file so the handler can stream it.
func downloadResult(t *testing.T, filename, content string) *downloader.Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	return &downloader.Result{
		File:     f,
		Filename: filename,
		Cleanup:  func() { f.Close() },
	}
}

func sampleInfo() *domain.VideoInfo {
	return &domain.VideoInfo{
		ID:        "11111111-2222-3333-4444-555555555555",
		URL:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:     "Never Gonna Give You Up",
		Platform:  domain.PlatformYouTube,
		Thumbnail: "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		Duration:  212,
		Formats: []domain.FormatVariant{
			{FormatID: "22", Ext: "mp4", Height: 720, VCodec: "avc1", QualityDesc: "720p • MP4"},
		},
		Status: domain.StatusReady,
	}
}
