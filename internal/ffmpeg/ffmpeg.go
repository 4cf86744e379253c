package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ZacxDev/images-to-video/internal/config"
	"github.com/ZacxDev/images-to-video/internal/platform"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration        float64
	Width           int
	Height          int
	Codec           string
	SubtitleStreams int
}

// Processor wraps FFmpeg functionality
type Processor struct {
	verbose bool
	binary  string
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(verbose bool) *Processor {
	return &Processor{
		verbose: verbose,
		binary:  "ffmpeg",
	}
}

// WithBinary sets the ffmpeg executable. An empty path keeps the current one.
func (p *Processor) WithBinary(path string) *Processor {
	if path != "" {
		p.binary = path
	}
	return p
}

// SubtitleTrack is one subtitle input of a merge.
type SubtitleTrack struct {
	Path    string
	Handler string
}

// MuxRequest describes the final merge of the temp video and subtitle tracks.
type MuxRequest struct {
	VideoPath  string
	Tracks     []SubtitleTrack
	OutputPath string
	Platform   platform.Platform
}

// MuxStream builds the merge command: the video stream is copied, every
// subtitle input is mapped, re-encoded with the platform's subtitle codec and
// tagged with its handler name.
func (p *Processor) MuxStream(ctx context.Context, req MuxRequest) *ffmpeg.Stream {
	inputs := []*ffmpeg.Stream{ffmpeg.Input(req.VideoPath).Video()}
	for _, t := range req.Tracks {
		inputs = append(inputs, ffmpeg.Input(t.Path))
	}

	outputKwargs := ffmpeg.KwArgs{
		"c:v":   "copy",
		"c:s":   req.Platform.GetSubtitleCodec(),
		"flags": "global_header",
	}
	for i, t := range req.Tracks {
		outputKwargs[fmt.Sprintf("metadata:s:s:%d", i)] = []string{
			"handler_name=" + t.Handler,
			"handler=" + t.Handler,
		}
	}

	return ffmpeg.OutputContext(ctx, inputs, req.OutputPath, outputKwargs).
		OverWriteOutput().
		SetFfmpegPath(p.binary).
		Silent(true)
}

// Mux runs the merge. A nonzero exit status is returned as an error carrying
// the tail of ffmpeg's stderr.
func (p *Processor) Mux(ctx context.Context, req MuxRequest) error {
	stream := p.MuxStream(ctx, req)
	if p.verbose {
		log.Printf("FFmpeg command: %s %s\n", p.binary, strings.Join(stream.GetArgs(), " "))
	}

	var stderr bytes.Buffer
	if err := stream.WithErrorOutput(&stderr).Run(); err != nil {
		return errors.Wrapf(err, "ffmpeg merge failed: %s", tail(stderr.String(), 5))
	}
	return nil
}

// GetVideoMetadata retrieves metadata about a video file
func (p *Processor) GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, fmt.Errorf("error probing video: %v", err)
	}
	return ParseProbe(probe)
}

// ParseProbe extracts VideoMetadata from ffprobe JSON output.
func ParseProbe(probe string) (*VideoMetadata, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in video")
	}

	var videoStream map[string]interface{}
	subtitles := 0
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		switch s["codec_type"] {
		case "video":
			if videoStream == nil {
				videoStream = s
			}
		case "subtitle":
			subtitles++
		}
	}

	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found")
	}

	var duration float64

	// First try video stream duration
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}

	// If stream duration is not available, try format duration
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
	}

	// At one frame per second the frame count is the duration
	if duration == 0 {
		if nbFrames, ok := videoStream["nb_frames"].(string); ok {
			if frames, err := strconv.ParseFloat(nbFrames, 64); err == nil {
				duration = frames / config.FrameRate
			}
		}
	}

	width, _ := videoStream["width"].(float64)
	height, _ := videoStream["height"].(float64)
	codec, _ := videoStream["codec_name"].(string)

	return &VideoMetadata{
		Duration:        duration,
		Width:           int(width),
		Height:          int(height),
		Codec:           codec,
		SubtitleStreams: subtitles,
	}, nil
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
