package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iconidentify/vidgrab/internal/domain"
	"github.com/iconidentify/vidgrab/internal/downloader"
	"github.com/iconidentify/vidgrab/internal/validation"
)

const unsupportedPlatformDetail = "Unsupported platform. Only YouTube, Facebook, and Instagram are supported."

// VideoService is the behavior the video handler needs.
type VideoService interface {
	ExtractInfo(ctx context.Context, url string) (*domain.VideoInfo, error)
	Download(ctx context.Context, url, formatID string) (*downloader.Result, error)
	ListRecent(ctx context.Context) ([]*domain.DownloadLogEntry, error)
}

// VideoHandler handles extract-info, download and recent-downloads
// requests.
type VideoHandler struct {
	svc    VideoService
	logger *slog.Logger
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(svc VideoService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{
		svc:    svc,
		logger: logger,
	}
}

// ExtractInfoRequest is the JSON body for POST /api/extract-info.
type ExtractInfoRequest struct {
	URL string `json:"url" validate:"required"`
}

// DownloadRequest is the JSON body for POST /api/download.
type DownloadRequest struct {
	URL      string `json:"url" validate:"required"`
	FormatID string `json:"format_id,omitempty"`
}

// InfoResponse is the extract-info response body. Duration is a string
// for historical compatibility with existing clients.
type InfoResponse struct {
	ID        string                 `json:"id"`
	URL       string                 `json:"url"`
	Title     string                 `json:"title"`
	Platform  string                 `json:"platform"`
	Thumbnail string                 `json:"thumbnail"`
	Duration  string                 `json:"duration"`
	Formats   []domain.FormatVariant `json:"formats"`
	Status    string                 `json:"status"`
}

// DownloadLogResponse is one entry of the recent-downloads listing. The
// raw extractor payload is deliberately absent.
type DownloadLogResponse struct {
	ID        string                 `json:"id"`
	URL       string                 `json:"url"`
	Title     string                 `json:"title"`
	Platform  string                 `json:"platform"`
	Thumbnail string                 `json:"thumbnail"`
	Duration  int                    `json:"duration"`
	Formats   []domain.FormatVariant `json:"formats"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
}

// ExtractInfo handles POST /api/extract-info.
func (h *VideoHandler) ExtractInfo(w http.ResponseWriter, r *http.Request) {
	var req ExtractInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		h.writeDetail(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}

	info, err := h.svc.ExtractInfo(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedPlatform) {
			h.writeDetail(w, http.StatusBadRequest, unsupportedPlatformDetail)
			return
		}
		h.logger.Error("extract-info failed", "url", req.URL, "error", err)
		h.writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error extracting video info: %v", err))
		return
	}

	h.writeJSON(w, http.StatusOK, InfoResponse{
		ID:        info.ID,
		URL:       info.URL,
		Title:     info.Title,
		Platform:  info.Platform.String(),
		Thumbnail: info.Thumbnail,
		Duration:  strconv.Itoa(info.Duration),
		Formats:   info.Formats,
		Status:    string(info.Status),
	})
}

// Download handles POST /api/download. On success the media file is
// streamed as the response body.
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		h.writeDetail(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}

	res, err := h.svc.Download(r.Context(), req.URL, req.FormatID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedPlatform):
			h.writeDetail(w, http.StatusBadRequest, unsupportedPlatformDetail)
		case errors.Is(err, domain.ErrFormatUnavailable):
			h.writeDetail(w, http.StatusInternalServerError,
				fmt.Sprintf("Error downloading video: requested format %q is not available", req.FormatID))
		case errors.Is(err, domain.ErrNoOutput):
			h.writeDetail(w, http.StatusInternalServerError, "Failed to download video")
		default:
			h.logger.Error("download failed", "url", req.URL, "format_id", req.FormatID, "error", err)
			h.writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error downloading video: %v", err))
		}
		return
	}
	defer res.Cleanup()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sanitizeFilename(res.Filename)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, res.File); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error("streaming download interrupted", "url", req.URL, "error", err)
	}
}

// ListDownloads handles GET /api/downloads.
func (h *VideoHandler) ListDownloads(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListRecent(r.Context())
	if err != nil {
		h.logger.Error("list downloads failed", "error", err)
		h.writeDetail(w, http.StatusInternalServerError, "Error fetching downloads")
		return
	}

	resp := make([]DownloadLogResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, DownloadLogResponse{
			ID:        e.ID,
			URL:       e.URL,
			Title:     e.Title,
			Platform:  e.Platform.String(),
			Thumbnail: e.Thumbnail,
			Duration:  e.Duration,
			Formats:   e.Formats,
			Status:    string(e.Status),
			CreatedAt: e.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *VideoHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *VideoHandler) writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// sanitizeFilename strips characters that would break the
// Content-Disposition header.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	return name
}
