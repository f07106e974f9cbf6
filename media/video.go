package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/promptkit/promptkit/util/fileutil"
)

// VideoAsset is the decoded form of a video: its frames in playback order.
type VideoAsset struct {
	Frames   []image.Image
	Location string
}

// Video is a prompt video in one of two source encodings: an already decoded
// asset handle or a location reference. Frame extraction for references is
// deferred until Resolve is called.
type Video interface {
	Resolve(ctx context.Context, dec FrameDecoder) (*VideoAsset, error)
	isVideo()
}

// VideoHandle wraps an asset that has already been decoded.
type VideoHandle struct {
	Asset *VideoAsset
}

func FromAsset(asset *VideoAsset) VideoHandle { return VideoHandle{Asset: asset} }

func (VideoHandle) isVideo() {}

func (v VideoHandle) Resolve(context.Context, FrameDecoder) (*VideoAsset, error) {
	if v.Asset == nil {
		return nil, &LoadError{Location: "<video asset>"}
	}
	return v.Asset, nil
}

// VideoReference points at a video by location.
type VideoReference struct {
	URL string
}

func VideoFromURL(url string) VideoReference { return VideoReference{URL: url} }

func (VideoReference) isVideo() {}

func (v VideoReference) Resolve(ctx context.Context, dec FrameDecoder) (*VideoAsset, error) {
	if dec == nil {
		dec = DefaultFrameDecoder()
	}
	b, err := fileutil.ReadBytes(ctx, v.URL)
	if err != nil {
		return nil, &LoadError{Location: v.URL, Err: err}
	}
	frames, err := dec.Frames(ctx, b)
	if err != nil {
		return nil, &LoadError{Location: v.URL, Err: err}
	}
	return &VideoAsset{Frames: frames, Location: v.URL}, nil
}

// FrameDecoder extracts still frames from raw video bytes.
type FrameDecoder interface {
	Frames(ctx context.Context, data []byte) ([]image.Image, error)
}

// FFmpegDecoder extracts frames with the system ffmpeg binary.
type FFmpegDecoder struct {
	// FPS is the extraction rate, e.g. 1.0 for one frame per second.
	FPS float64
	// Quality is the JPEG quality for extracted frames (1-31, lower is better).
	Quality int
	// MaxFrames limits the number of extracted frames; 0 means no limit.
	MaxFrames int
	// Timeout bounds the extraction; 0 falls back to a minute.
	Timeout time.Duration
}

func DefaultFrameDecoder() *FFmpegDecoder {
	return &FFmpegDecoder{FPS: 1.0, Quality: 2, Timeout: time.Minute}
}

func (d *FFmpegDecoder) Frames(ctx context.Context, data []byte) ([]image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("video data is empty")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("video support unavailable: ffmpeg not found in PATH")
	}

	tempDir, err := os.MkdirTemp("", "promptkit-video-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	videoPath := filepath.Join(tempDir, "input.mp4")
	if err := os.WriteFile(videoPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write video file: %w", err)
	}

	timeout := d.Timeout
	if timeout == 0 {
		timeout = time.Minute
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	framePattern := filepath.Join(tempDir, "frame_%04d.jpg")
	args := []string{
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%.2f", d.FPS),
		"-vsync", "0",
		"-q:v", fmt.Sprintf("%d", d.Quality),
	}
	if d.MaxFrames > 0 {
		args = append(args, "-frames:v", fmt.Sprintf("%d", d.MaxFrames))
	}
	args = append(args, framePattern)

	cmd := exec.CommandContext(runCtx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg extraction failed: %w (stderr: %s)", err, stderr.String())
	}

	frameFiles, err := filepath.Glob(filepath.Join(tempDir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted frame files: %w", err)
	}
	if len(frameFiles) == 0 {
		return nil, fmt.Errorf("no frames extracted from video")
	}

	frames := make([]image.Image, 0, len(frameFiles))
	for _, framePath := range frameFiles {
		frameData, err := os.ReadFile(framePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %s: %w", framePath, err)
		}
		img, _, err := image.Decode(bytes.NewReader(frameData))
		if err != nil {
			return nil, fmt.Errorf("failed to decode frame %s: %w", framePath, err)
		}
		frames = append(frames, img)
	}
	return frames, nil
}
