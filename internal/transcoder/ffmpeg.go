package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	probe "gopkg.in/vansante/go-ffprobe.v2"
)

// FFmpegConfig holds configuration for the FFmpeg transcoder.
type FFmpegConfig struct {
	// FFmpegPath is the path to the ffmpeg binary.
	// If empty, "ffmpeg" will be used (assumes it's in PATH).
	FFmpegPath string

	// VideoCodec is the video codec to use. Default: libx264.
	VideoCodec string

	// VideoPreset controls the encoding speed/quality tradeoff. Default: fast.
	VideoPreset string

	// VideoProfile is the H.264 profile. Default: baseline, for maximum
	// playback compatibility across HLS clients.
	VideoProfile string

	// VideoLevel is the H.264 level. Default: 3.0.
	VideoLevel string

	// HLSSegmentDuration is the target duration of each HLS segment in
	// seconds. Default: 5.
	HLSSegmentDuration int
}

// DefaultFFmpegConfig returns an FFmpegConfig with production-ready defaults.
func DefaultFFmpegConfig() FFmpegConfig {
	return FFmpegConfig{
		FFmpegPath:         "ffmpeg",
		VideoCodec:         "libx264",
		VideoPreset:        "fast",
		VideoProfile:       "baseline",
		VideoLevel:         "3.0",
		HLSSegmentDuration: 5,
	}
}

// FFmpegTranscoder implements Transcoder using the FFmpeg and ffprobe CLIs.
type FFmpegTranscoder struct {
	config FFmpegConfig
}

// Compile-time verification that FFmpegTranscoder implements Transcoder.
var _ Transcoder = (*FFmpegTranscoder)(nil)

// NewFFmpegTranscoder creates a new FFmpeg-based transcoder.
func NewFFmpegTranscoder(cfg FFmpegConfig) *FFmpegTranscoder {
	return &FFmpegTranscoder{config: cfg}
}

// ProbeResolution inspects inputPath's first video stream via ffprobe.
func (t *FFmpegTranscoder) ProbeResolution(ctx context.Context, inputPath string) (int, int, error) {
	data, err := probe.ProbeURL(ctx, inputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to probe video: %w", err)
	}

	stream := data.FirstVideoStream()
	if stream == nil {
		return 0, 0, fmt.Errorf("no video stream found in %s", inputPath)
	}

	return stream.Width, stream.Height, nil
}

// TranscodeToABR probes the source, builds the rendition ladder for its
// resolution, transcodes each rung, and writes a master playlist
// referencing all of them.
func (t *FFmpegTranscoder) TranscodeToABR(ctx context.Context, inputPath, outputDir, videoUUID string) (*ABROutput, error) {
	if err := t.validateInput(inputPath); err != nil {
		return nil, err
	}
	if err := t.validateOutputDir(outputDir); err != nil {
		return nil, err
	}

	width, height, err := t.ProbeResolution(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	ladder := BuildLadder(width, height)
	renditions := make([]RenditionOutput, 0, len(ladder))
	for _, r := range ladder {
		out, err := t.transcodeRendition(ctx, inputPath, outputDir, videoUUID, r)
		if err != nil {
			return nil, err
		}
		renditions = append(renditions, out)
	}

	masterPath := filepath.Join(outputDir, "master.m3u8")
	if err := WriteMasterPlaylist(masterPath, renditions); err != nil {
		return nil, fmt.Errorf("failed to write master playlist: %w", err)
	}

	return &ABROutput{MasterPlaylistPath: masterPath, Renditions: renditions}, nil
}

// transcodeRendition runs ffmpeg for a single rung of the ladder.
// Naming (<height>p-<uuid>.m3u8) keeps downstream object keys
// predictable across the ladder.
func (t *FFmpegTranscoder) transcodeRendition(ctx context.Context, inputPath, outputDir, videoUUID string, r Rendition) (RenditionOutput, error) {
	name := fmt.Sprintf("%dp-%s", r.Height, videoUUID)
	manifestPath := filepath.Join(outputDir, name+".m3u8")

	args := []string{
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d", r.Width, r.Height),
		"-c:v", t.config.VideoCodec,
		"-preset", t.config.VideoPreset,
		"-profile:v", t.config.VideoProfile,
		"-level", t.config.VideoLevel,
		"-loglevel", "warning",
		"-start_number", "0",
		"-hls_time", strconv.Itoa(t.config.HLSSegmentDuration),
		"-hls_list_size", "0",
		"-f", "hls",
		manifestPath,
	}

	cmd := exec.CommandContext(ctx, t.config.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return RenditionOutput{}, fmt.Errorf("transcoding cancelled: %w", ctx.Err())
		}
		return RenditionOutput{}, fmt.Errorf("ffmpeg failed for %dp: %w: %s", r.Height, err, stderr.String())
	}

	if _, err := os.Stat(manifestPath); err != nil {
		return RenditionOutput{}, fmt.Errorf("ffmpeg did not produce manifest for %dp: %w", r.Height, err)
	}

	segments, err := collectSegments(outputDir, name)
	if err != nil {
		return RenditionOutput{}, err
	}

	return RenditionOutput{Rendition: r, PlaylistPath: manifestPath, SegmentPaths: segments}, nil
}

// validateInput checks if the input file exists and is readable.
func (t *FFmpegTranscoder) validateInput(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputPath)
		}
		return fmt.Errorf("failed to access input file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path is a directory, expected a file: %s", inputPath)
	}

	return nil
}

// validateOutputDir checks if the output directory exists.
func (t *FFmpegTranscoder) validateOutputDir(outputDir string) error {
	info, err := os.Stat(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", outputDir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", outputDir)
	}

	return nil
}

// collectSegments finds every .ts segment file ffmpeg produced for a
// given rendition name prefix.
func collectSegments(outputDir, namePrefix string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var segments []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), namePrefix) && strings.HasSuffix(entry.Name(), ".ts") {
			segments = append(segments, filepath.Join(outputDir, entry.Name()))
		}
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments generated for %s", namePrefix)
	}

	return segments, nil
}
