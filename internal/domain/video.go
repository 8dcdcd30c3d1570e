package domain

import (
	"time"
)

// Platform identifies the video hosting site a URL belongs to.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
)

// String returns the display name of the platform.
func (p Platform) String() string {
	return string(p)
}

// VideoStatus represents the state of an extract-info result.
type VideoStatus string

const (
	StatusReady VideoStatus = "ready"
)

// FormatVariant is one downloadable rendition of a video, shaped for
// client display. Field names follow the extractor's own vocabulary so
// a format_id can be passed back verbatim on download.
type FormatVariant struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Resolution     string   `json:"resolution"`
	Height         int      `json:"height"`
	Width          int      `json:"width"`
	FPS            float64  `json:"fps"`
	Filesize       int64    `json:"filesize"`
	FilesizeApprox int64    `json:"filesize_approx"`
	TBR            float64  `json:"tbr"`
	VBR            float64  `json:"vbr"`
	ABR            float64  `json:"abr"`
	ACodec         string   `json:"acodec"`
	VCodec         string   `json:"vcodec"`
	FormatNote     string   `json:"format_note"`
	Quality        float64  `json:"quality"`
	QualityDesc    string   `json:"quality_desc"`
	SizeMB         *float64 `json:"size_mb"`
}

// VideoInfo is the result of a metadata extraction: everything a client
// needs to choose a rendition and request a download.
type VideoInfo struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	Title     string          `json:"title"`
	Platform  Platform        `json:"platform"`
	Thumbnail string          `json:"thumbnail"`
	Duration  int             `json:"duration"`
	Formats   []FormatVariant `json:"formats"`
	Status    VideoStatus     `json:"status"`
}

// DownloadLogEntry is the persisted superset of VideoInfo. RawInfo
// holds the complete extractor payload and is never returned to
// clients.
type DownloadLogEntry struct {
	ID        string
	URL       string
	Title     string
	Platform  Platform
	Thumbnail string
	Duration  int
	Formats   []FormatVariant
	Status    VideoStatus
	RawInfo   []byte
	CreatedAt time.Time
}

// LogEntryFromInfo builds a log entry from an extraction result and the
// raw payload it was derived from.
func LogEntryFromInfo(info *VideoInfo, raw []byte, at time.Time) *DownloadLogEntry {
	return &DownloadLogEntry{
		ID:        info.ID,
		URL:       info.URL,
		Title:     info.Title,
		Platform:  info.Platform,
		Thumbnail: info.Thumbnail,
		Duration:  info.Duration,
		Formats:   info.Formats,
		Status:    info.Status,
		RawInfo:   raw,
		CreatedAt: at,
	}
}
