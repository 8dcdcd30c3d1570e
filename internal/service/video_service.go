// Package service ties the classifier, extractor, normalizer, download
// orchestrator and log store together behind one request-scoped API.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iconidentify/vidgrab/internal/domain"
	"github.com/iconidentify/vidgrab/internal/downloader"
	"github.com/iconidentify/vidgrab/internal/extractor"
	"github.com/iconidentify/vidgrab/internal/format"
	"github.com/iconidentify/vidgrab/internal/platform"
	"github.com/iconidentify/vidgrab/internal/repository"
)

// RecentListSize is how many log entries the listing endpoint returns.
const RecentListSize = 10

// Fetcher stages an actual media download.
type Fetcher interface {
	Fetch(ctx context.Context, url, formatID string) (*downloader.Result, error)
}

// VideoService implements the extract-info, download and
// recent-downloads operations.
type VideoService struct {
	client        extractor.Client
	fetcher       Fetcher
	logRepo       repository.DownloadLogRepository
	retentionDays int
	logger        *slog.Logger
}

// NewVideoService creates a video service. retentionDays bounds the
// download log; zero keeps entries forever.
func NewVideoService(
	client extractor.Client,
	fetcher Fetcher,
	logRepo repository.DownloadLogRepository,
	retentionDays int,
	logger *slog.Logger,
) *VideoService {
	return &VideoService{
		client:        client,
		fetcher:       fetcher,
		logRepo:       logRepo,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// ExtractInfo classifies the URL, fetches metadata from the extractor
// and returns the normalized rendition list. The result is appended to
// the download log; a log write failure never fails the extraction.
func (s *VideoService) ExtractInfo(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	url := strings.TrimSpace(rawURL)

	plat, err := platform.Classify(url)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.ExtractInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	info := &domain.VideoInfo{
		ID:        uuid.NewString(),
		URL:       url,
		Title:     titleOrUnknown(raw.Title),
		Platform:  plat,
		Thumbnail: raw.Thumbnail,
		Duration:  int(raw.Duration),
		Formats:   format.Normalize(raw.Formats, format.DefaultLimit),
		Status:    domain.StatusReady,
	}

	s.appendLog(ctx, info, raw.Raw)

	return info, nil
}

// Download classifies the URL and stages the selected rendition for
// streaming. formatID may be empty; the orchestrator then falls back to
// the bounded default selection.
func (s *VideoService) Download(ctx context.Context, rawURL, formatID string) (*downloader.Result, error) {
	url := strings.TrimSpace(rawURL)

	if _, err := platform.Classify(url); err != nil {
		return nil, err
	}

	return s.fetcher.Fetch(ctx, url, formatID)
}

// ListRecent returns the newest log entries. Read failures surface to
// the caller, unlike write failures.
func (s *VideoService) ListRecent(ctx context.Context) ([]*domain.DownloadLogEntry, error) {
	entries, err := s.logRepo.ListRecent(ctx, RecentListSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLogStore, err)
	}
	return entries, nil
}

// appendLog persists the extraction result. Failures are reported
// server-side only; the caller already holds a successful result.
func (s *VideoService) appendLog(ctx context.Context, info *domain.VideoInfo, raw []byte) {
	now := time.Now()

	if s.retentionDays > 0 {
		horizon := now.AddDate(0, 0, -s.retentionDays)
		if n, err := s.logRepo.Prune(ctx, horizon); err != nil {
			s.logger.Error("download log prune failed", "error", err)
		} else if n > 0 {
			s.logger.Info("pruned download log", "removed", n, "older_than", horizon)
		}
	}

	entry := domain.LogEntryFromInfo(info, raw, now)
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.logger.Error("download log append failed", "id", info.ID, "url", info.URL, "error", err)
	}
}

func titleOrUnknown(title string) string {
	if title == "" {
		return "Unknown"
	}
	return title
}
