package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/FlameInTheDark/alfred/internal/config"
	"github.com/FlameInTheDark/alfred/internal/feature"
)

const Name = "YouTube Downloader"

const (
	formatMP3 = "mp3"
	formatMP4 = "mp4"

	maxFilesizeMsg = "larger than max-filesize"
)

var (
	keywords      = []string{"youtube.com", "youtu.be"}
	audioKeywords = []string{"mp3", "audio", "song", "music"}
	urlRe         = regexp.MustCompile(`(?i)https?://(?:(?:www|m|music)\.)?(?:youtube\.com/(?:watch\?\S*?v=|shorts/|embed/|live/)|youtu\.be/)[\w-]{11}\S*`)
)

// runner executes the downloader and returns its combined output.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type Feature struct {
	ytDlp    string
	maxBytes int64
	timeout  time.Duration
	run      runner
}

func New(cfg config.YouTube) *Feature {
	f := &Feature{ytDlp: cfg.YtDlpPath, maxBytes: cfg.MaxBytes, timeout: cfg.Timeout, run: execRunner}
	if f.ytDlp == "" {
		f.ytDlp = "yt-dlp"
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 25 << 20
	}
	if f.timeout <= 0 {
		f.timeout = 5 * time.Minute
	}
	return f
}

func (f *Feature) Name() string        { return Name }
func (f *Feature) Description() string { return "Download YouTube videos as mp3 audio or mp4 video" }

func (f *Feature) Capabilities() string {
	return `Downloads a YouTube video from a link and sends it back as a file.
Sends mp3 audio when the user asks for audio, a song, music or mp3, otherwise mp4 video.
Files larger than the Discord upload limit cannot be sent.

Examples:
- "https://youtu.be/dQw4w9WgXcQ"
- "Download this as mp3 https://www.youtube.com/watch?v=dQw4w9WgXcQ"
- "Grab the song from https://youtube.com/watch?v=..."`
}

func (f *Feature) CanHandle(text string) bool {
	return feature.ContainsAny(text, keywords...)
}

func (f *Feature) Handle(ctx context.Context, req *feature.Request) (string, error) {
	url := findURL(req.Text)
	if url == "" {
		return "Please send me a YouTube link (youtube.com or youtu.be) to download.", nil
	}
	if req.Replier == nil {
		return "I can only send downloaded files in a Discord chat.", nil
	}
	format := pickFormat(req.Text)

	dir, err := os.MkdirTemp("", "alfred-yt-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	slog.Info("Downloading video", slog.String("request", req.ID), slog.String("url", url), slog.String("format", format))
	out, err := f.run(ctx, f.ytDlp, f.args(dir, format, url)...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed: %s: %w", tail(string(out), 500), err)
	}
	// yt-dlp exits 0 without a file when --max-filesize rejects the download.
	if strings.Contains(string(out), maxFilesizeMsg) {
		return fmt.Sprintf("The %s is over the %.0f MB upload limit.", format, megabytes(f.maxBytes)), nil
	}

	path, size, err := findOutput(dir, format)
	if err != nil {
		return "", err
	}
	name := filepath.Base(path)
	if size > f.maxBytes {
		return fmt.Sprintf("The %s is %.1f MB, which is over the %.0f MB upload limit.",
			format, megabytes(size), megabytes(f.maxBytes)), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open download: %w", err)
	}
	defer file.Close()
	if err := req.Replier.SendFile(ctx, name, file); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return fmt.Sprintf("✓ Here's your %s: **%s**", format, strings.TrimSuffix(name, filepath.Ext(name))), nil
}

func (f *Feature) args(dir, format, url string) []string {
	args := []string{
		"--no-playlist",
		"--restrict-filenames",
		"--max-filesize", fmt.Sprintf("%d", f.maxBytes),
		"-o", filepath.Join(dir, "%(title)s.%(ext)s"),
	}
	if format == formatMP3 {
		args = append(args, "-x", "--audio-format", "mp3", "--audio-quality", "0")
	} else {
		args = append(args, "-f", "b[ext=mp4]/bv*[ext=mp4]+ba[ext=m4a]/b", "--merge-output-format", "mp4")
	}
	return append(args, url)
}

func findURL(text string) string {
	return urlRe.FindString(text)
}

// pickFormat ignores the link itself so music.youtube.com does not imply audio.
func pickFormat(text string) string {
	if feature.ContainsAny(urlRe.ReplaceAllString(text, " "), audioKeywords...) {
		return formatMP3
	}
	return formatMP4
}

func findOutput(dir, format string) (string, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, fmt.Errorf("read temp dir: %w", err)
	}
	var fallback os.DirEntry
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".part") {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), "."+format) {
			return stat(dir, e)
		}
		if fallback == nil {
			fallback = e
		}
	}
	if fallback == nil {
		return "", 0, fmt.Errorf("yt-dlp produced no file")
	}
	return stat(dir, fallback)
}

func stat(dir string, e os.DirEntry) (string, int64, error) {
	info, err := e.Info()
	if err != nil {
		return "", 0, err
	}
	return filepath.Join(dir, e.Name()), info.Size(), nil
}

func megabytes(n int64) float64 {
	return float64(n) / (1 << 20)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
