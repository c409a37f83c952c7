package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// MediaInfo holds duration and codec information from ffprobe.
type MediaInfo struct {
	Duration float64
	Codec    string
}

// Available returns true if ffmpeg is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// ProbeMedia uses ffprobe to get media duration and audio codec.
func ProbeMedia(ctx context.Context, path string) (*MediaInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name:format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, _ := strconv.ParseFloat(probe.Format.Duration, 64)

	codec := "N/A"
	if len(probe.Streams) > 0 && probe.Streams[0].CodecName != "" {
		codec = probe.Streams[0].CodecName
	}

	return &MediaInfo{Duration: dur, Codec: codec}, nil
}

// ConcatAudio joins the audio parts, in order, into a single file using the
// concat demuxer with stream copy.
func ConcatAudio(ctx context.Context, parts []string, outputPath string) error {
	if len(parts) == 0 {
		return fmt.Errorf("no audio parts to concatenate")
	}

	// Single part: a plain copy is enough.
	if len(parts) == 1 {
		data, err := os.ReadFile(parts[0])
		if err != nil {
			return fmt.Errorf("read audio part: %w", err)
		}
		return os.WriteFile(outputPath, data, 0644)
	}

	listPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_concat.txt"
	var sb strings.Builder
	for _, p := range parts {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve audio part %s: %w", p, err)
		}
		fmt.Fprintf(&sb, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(listPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	slog.Info("concatenating narration audio", "parts", len(parts), "output", filepath.Base(outputPath))

	cmd := exec.CommandContext(ctx,
		"ffmpeg",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w\n%s", err, string(out))
	}
	return nil
}

// ComposeOptions configures the final video composition.
type ComposeOptions struct {
	BackgroundPath string // looping background video
	AudioPath      string // narration track
	CaptionsPath   string // SRT file burned into the frame
	OutputPath     string
	Encoder        string // e.g. libx264
	VideoBitrate   string // e.g. 2M
	Preset         string // e.g. medium
}

// ComposeVideo loops the background video under the narration audio, burns
// the captions in, and cuts the result at the end of the audio track.
func ComposeVideo(ctx context.Context, opts ComposeOptions) error {
	args := []string{
		"-stream_loop", "-1",
		"-i", opts.BackgroundPath,
		"-i", opts.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
	}

	if opts.CaptionsPath != "" {
		args = append(args, "-vf", "subtitles="+escapeFilterPath(opts.CaptionsPath))
	}

	encoder := opts.Encoder
	if encoder == "" {
		encoder = "libx264"
	}
	args = append(args, "-c:v", encoder)
	if opts.VideoBitrate != "" {
		args = append(args, "-b:v", opts.VideoBitrate)
	}
	if opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}

	args = append(args,
		"-c:a", "aac",
		"-shortest",
		"-y",
		opts.OutputPath,
	)

	slog.Info("composing video",
		"background", filepath.Base(opts.BackgroundPath),
		"audio", filepath.Base(opts.AudioPath),
		"output", filepath.Base(opts.OutputPath))

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg compose failed: %w\n%s", err, string(out))
	}
	return nil
}

// escapeFilterPath escapes a path for use inside an ffmpeg filter argument.
func escapeFilterPath(path string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
	)
	return r.Replace(path)
}

// IsVideoExtension returns true for common video file extensions.
func IsVideoExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp4", ".mkv", ".mov", ".avi", ".flv", ".webm":
		return true
	}
	return false
}

// LogMediaInfo logs file size and media information.
func LogMediaInfo(ctx context.Context, path string) *MediaInfo {
	stat, err := os.Stat(path)
	if err != nil {
		slog.Warn("cannot stat file", "path", path, "err", err)
		return nil
	}

	sizeMB := float64(stat.Size()) / (1024 * 1024)
	msg := fmt.Sprintf("file size: %.2f MB", sizeMB)

	info, err := ProbeMedia(ctx, path)
	if err == nil && info != nil {
		minutes := int(info.Duration) / 60
		seconds := int(info.Duration) % 60
		msg += fmt.Sprintf(" | duration: %02d:%02d | codec: %s", minutes, seconds, info.Codec)
	}

	slog.Info(msg)
	return info
}
