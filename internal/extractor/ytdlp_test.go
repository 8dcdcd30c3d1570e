package extractor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/iconidentify/vidgrab/internal/config"
	"github.com/iconidentify/vidgrab/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner records the invocation and returns canned output.
type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error

	name string
	args []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name = name
	f.args = args
	return f.stdout, f.stderr, f.err
}

func testClient(run *fakeRunner) *YtDlp {
	y := NewYtDlp(config.YtDlpConfig{
		Path:          "yt-dlp",
		SocketTimeout: 30 * time.Second,
		Retries:       3,
	}, testLogger())
	y.run = run
	return y
}

const sampleJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
	"duration": 212.0,
	"formats": [
		{"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "abr": 128.0},
		{"format_id": "22", "ext": "mp4", "height": 720, "width": 1280, "fps": 30,
		 "vcodec": "avc1.64001F", "acodec": "mp4a.40.2", "filesize": 52428800,
		 "resolution": "1280x720", "quality": 8.0},
		{"format_id": "137", "ext": "mp4", "height": 1080, "width": 1920, "fps": null,
		 "vcodec": "avc1.640028", "acodec": "none", "filesize_approx": 104857600}
	]
}`

func TestExtractInfo_DecodesPayload(t *testing.T) {
	run := &fakeRunner{stdout: []byte(sampleJSON)}
	y := testClient(run)

	info, err := y.ExtractInfo(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("ExtractInfo() error = %v", err)
	}

	if info.Title != "Never Gonna Give You Up" {
		t.Errorf("Title = %q", info.Title)
	}
	if info.Duration != 212 {
		t.Errorf("Duration = %v, want 212", info.Duration)
	}
	if len(info.Formats) != 3 {
		t.Fatalf("len(Formats) = %d, want 3", len(info.Formats))
	}

	f := info.Formats[1]
	if f.FormatID != "22" || f.Height != 720 || f.Ext != "mp4" {
		t.Errorf("format[1] = %+v", f)
	}
	if f.Filesize != 52428800 {
		t.Errorf("Filesize = %d", f.Filesize)
	}

	// Null JSON values decode to zero values.
	if info.Formats[2].FPS != 0 {
		t.Errorf("null fps should decode to 0, got %v", info.Formats[2].FPS)
	}

	if len(info.Raw) == 0 {
		t.Error("Raw payload should be retained")
	}
}

func TestExtractInfo_Args(t *testing.T) {
	run := &fakeRunner{stdout: []byte(sampleJSON)}
	y := testClient(run)

	url := "https://youtu.be/abc"
	if _, err := y.ExtractInfo(context.Background(), url); err != nil {
		t.Fatalf("ExtractInfo() error = %v", err)
	}

	if run.name != "yt-dlp" {
		t.Errorf("binary = %q, want yt-dlp", run.name)
	}
	assertArgPair(t, run.args, "--socket-timeout", "30")
	assertArgPair(t, run.args, "--retries", "3")
	assertArg(t, run.args, "-J")
	assertArg(t, run.args, "--no-playlist")
	if run.args[len(run.args)-1] != url {
		t.Errorf("last arg = %q, want the URL", run.args[len(run.args)-1])
	}
}

func TestExtractInfo_Failure(t *testing.T) {
	run := &fakeRunner{err: errors.New("exit status 1"), stderr: []byte("ERROR: Unable to download webpage")}
	y := testClient(run)

	_, err := y.ExtractInfo(context.Background(), "https://youtu.be/abc")
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("error = %v, want ErrExtractionFailed", err)
	}

	var xerr *domain.ExtractError
	if !errors.As(err, &xerr) {
		t.Fatalf("error should be an ExtractError, got %T", err)
	}
	if xerr.Op != "extract-info" {
		t.Errorf("Op = %q", xerr.Op)
	}
}

func TestExtractInfo_BadOutput(t *testing.T) {
	run := &fakeRunner{stdout: []byte("not json")}
	y := testClient(run)

	_, err := y.ExtractInfo(context.Background(), "https://youtu.be/abc")
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("error = %v, want ErrExtractionFailed", err)
	}
}

func TestDownload_DefaultSelector(t *testing.T) {
	run := &fakeRunner{stdout: []byte(sampleJSON)}
	y := testClient(run)

	if _, err := y.Download(context.Background(), "https://youtu.be/abc", "", t.TempDir()); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	assertArgPair(t, run.args, "-f", DefaultFormatSelector)
	assertArg(t, run.args, "--print-json")
}

func TestDownload_ExplicitFormatPassedVerbatim(t *testing.T) {
	run := &fakeRunner{stdout: []byte(sampleJSON)}
	y := testClient(run)

	if _, err := y.Download(context.Background(), "https://youtu.be/abc", "137", t.TempDir()); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	assertArgPair(t, run.args, "-f", "137")
}

func TestDownload_FormatUnavailable(t *testing.T) {
	run := &fakeRunner{
		err:    errors.New("exit status 1"),
		stderr: []byte("ERROR: [youtube] abc: Requested format is not available. Use --list-formats"),
	}
	y := testClient(run)

	_, err := y.Download(context.Background(), "https://youtu.be/abc", "9999", t.TempDir())
	if !errors.Is(err, domain.ErrFormatUnavailable) {
		t.Fatalf("error = %v, want ErrFormatUnavailable", err)
	}
}

func TestDownload_OutputTemplateInDestDir(t *testing.T) {
	run := &fakeRunner{stdout: []byte(sampleJSON)}
	y := testClient(run)

	dir := t.TempDir()
	if _, err := y.Download(context.Background(), "https://youtu.be/abc", "", dir); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	var outTemplate string
	for i, a := range run.args {
		if a == "-o" && i+1 < len(run.args) {
			outTemplate = run.args[i+1]
		}
	}
	if outTemplate == "" {
		t.Fatal("no -o argument passed")
	}
	if got := outTemplate; len(got) < len(dir) || got[:len(dir)] != dir {
		t.Errorf("output template %q not rooted in dest dir %q", got, dir)
	}
}

func assertArg(t *testing.T, args []string, want string) {
	t.Helper()
	for _, a := range args {
		if a == want {
			return
		}
	}
	t.Errorf("args %v missing %q", args, want)
}

func assertArgPair(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i, a := range args {
		if a == flag && i+1 < len(args) && args[i+1] == value {
			return
		}
	}
	t.Errorf("args %v missing %q %q", args, flag, value)
}
