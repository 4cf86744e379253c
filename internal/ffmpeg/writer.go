package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os/exec"
	"strings"

	"github.com/ZacxDev/images-to-video/internal/config"
	"github.com/ZacxDev/images-to-video/internal/platform"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FrameWriter streams raw RGB frames into one ffmpeg process that encodes
// them at one frame per second, every frame a keyframe.
type FrameWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	width  int
	height int
	buf    []byte
	frames int
	closed bool
}

// EncodeStream builds the temp video command for width x height rgb24 input on stdin.
func (p *Processor) EncodeStream(ctx context.Context, outputPath string, width, height int, plat platform.Platform) *ffmpeg.Stream {
	inputKwargs := ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgb24",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": config.FrameRate,
	}

	outputKwargs := ffmpeg.KwArgs{
		"f":           plat.GetOutputFormat(),
		"c:v":         plat.GetVideoCodec(),
		"pix_fmt":     plat.GetPixelFormat(),
		"x264-params": config.X264Params,
		"r":           config.FrameRate,
		// yuv420p needs even dimensions
		"vf": "pad=ceil(iw/2)*2:ceil(ih/2)*2",
	}

	input := ffmpeg.Input("pipe:", inputKwargs)
	return ffmpeg.OutputContext(ctx, []*ffmpeg.Stream{input}, outputPath, outputKwargs).
		OverWriteOutput().
		SetFfmpegPath(p.binary).
		Silent(true)
}

// OpenFrameWriter starts the encoder for the temp video.
func (p *Processor) OpenFrameWriter(ctx context.Context, outputPath string, width, height int, plat platform.Platform) (*FrameWriter, error) {
	stream := p.EncodeStream(ctx, outputPath, width, height, plat)
	if p.verbose {
		log.Printf("FFmpeg command: %s %s\n", p.binary, strings.Join(stream.GetArgs(), " "))
	}

	w := &FrameWriter{
		width:  width,
		height: height,
		buf:    make([]byte, width*height*3),
	}
	w.cmd = stream.WithErrorOutput(&w.stderr).Compile()

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	w.stdin = stdin

	if err := w.cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "failed to start ffmpeg")
	}
	return w, nil
}

// WriteFrame appends one frame. The frame must match the writer's size.
func (w *FrameWriter) WriteFrame(img *image.NRGBA) error {
	b := img.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame is %dx%d, video is %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}

	i := 0
	for y := 0; y < w.height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w.width*4]
		for x := 0; x < len(row); x += 4 {
			w.buf[i], w.buf[i+1], w.buf[i+2] = row[x], row[x+1], row[x+2]
			i += 3
		}
	}

	if _, err := w.stdin.Write(w.buf); err != nil {
		return errors.Wrapf(err, "failed to write frame %d: %s", w.frames, tail(w.stderr.String(), 5))
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written.
func (w *FrameWriter) Frames() int {
	return w.frames
}

// Close ends the input and waits for the encoder to finish the file.
func (w *FrameWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.stdin.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := w.cmd.Wait(); err != nil {
		return errors.Wrapf(err, "ffmpeg encode failed: %s", tail(w.stderr.String(), 5))
	}
	return nil
}
