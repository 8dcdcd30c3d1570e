// Package extractor wraps the external yt-dlp binary. All site-specific
// extraction logic lives in that tool; this package only builds its
// command line, decodes its JSON output, and maps its failures onto
// domain errors.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iconidentify/vidgrab/internal/config"
	"github.com/iconidentify/vidgrab/internal/domain"
)

// DefaultFormatSelector caps unattended downloads at 720p to bound
// resource use when the client does not pick a rendition.
const DefaultFormatSelector = "best[height<=720]"

// formatUnavailableMarker is the stderr fragment yt-dlp emits when a
// requested format_id does not exist for the video.
const formatUnavailableMarker = "Requested format is not available"

// Client is the boundary between this service and the external
// media-extraction capability.
type Client interface {
	// ExtractInfo fetches metadata and the raw format list without
	// downloading any media.
	ExtractInfo(ctx context.Context, url string) (*RawInfo, error)

	// Download retrieves the media selected by formatSelector into
	// destDir and returns the metadata payload of what was downloaded.
	Download(ctx context.Context, url, formatSelector, destDir string) (*RawInfo, error)
}

// runner executes an external command and returns its stdout and
// stderr separately. Split out so tests can feed canned output.
type runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}

// YtDlp invokes the yt-dlp binary. Network timeout and retry bounds are
// delegated to the tool itself via --socket-timeout and --retries; this
// adapter never retries on its own.
type YtDlp struct {
	cfg    config.YtDlpConfig
	run    runner
	logger *slog.Logger
}

// NewYtDlp creates a yt-dlp backed extraction client.
func NewYtDlp(cfg config.YtDlpConfig, logger *slog.Logger) *YtDlp {
	return &YtDlp{
		cfg:    cfg,
		run:    execRunner{},
		logger: logger,
	}
}

// ExtractInfo implements Client.
func (y *YtDlp) ExtractInfo(ctx context.Context, url string) (*RawInfo, error) {
	args := append(y.commonArgs(), "-J", "--no-playlist", url)

	out, errOut, err := y.run.Run(ctx, y.cfg.Path, args...)
	if err != nil {
		y.logger.Error("yt-dlp extract-info failed",
			"url", url,
			"stderr", truncate(string(errOut), 500),
			"error", err,
		)
		return nil, domain.NewExtractError(url, "extract-info",
			fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err))
	}

	info, err := decodeInfo(out)
	if err != nil {
		return nil, domain.NewExtractError(url, "extract-info",
			fmt.Errorf("%w: decode output: %v", domain.ErrExtractionFailed, err))
	}
	return info, nil
}

// Download implements Client. The scratch directory is caller-supplied;
// the adapter only writes the media file and an info payload there.
func (y *YtDlp) Download(ctx context.Context, url, formatSelector, destDir string) (*RawInfo, error) {
	if formatSelector == "" {
		formatSelector = DefaultFormatSelector
	}

	args := append(y.commonArgs(),
		"-f", formatSelector,
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		"--no-playlist",
		"--print-json",
		url,
	)

	out, errOut, err := y.run.Run(ctx, y.cfg.Path, args...)
	if err != nil {
		if strings.Contains(string(errOut), formatUnavailableMarker) {
			return nil, domain.NewExtractError(url, "download", domain.ErrFormatUnavailable)
		}
		y.logger.Error("yt-dlp download failed",
			"url", url,
			"format", formatSelector,
			"stderr", truncate(string(errOut), 500),
			"error", err,
		)
		return nil, domain.NewExtractError(url, "download",
			fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err))
	}

	info, err := decodeInfo(out)
	if err != nil {
		return nil, domain.NewExtractError(url, "download",
			fmt.Errorf("%w: decode output: %v", domain.ErrExtractionFailed, err))
	}
	return info, nil
}

func (y *YtDlp) commonArgs() []string {
	return []string{
		"--quiet",
		"--no-warnings",
		"--socket-timeout", strconv.Itoa(int(y.cfg.SocketTimeout.Seconds())),
		"--retries", strconv.Itoa(y.cfg.Retries),
	}
}

func decodeInfo(out []byte) (*RawInfo, error) {
	var info RawInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, err
	}
	info.Raw = json.RawMessage(bytes.TrimSpace(out))
	return &info, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
