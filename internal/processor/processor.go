package processor

import (
	"context"
	"image"
	"io"
	"os"

	"github.com/ZacxDev/images-to-video/internal/config"
	"github.com/ZacxDev/images-to-video/internal/exifmeta"
	"github.com/ZacxDev/images-to-video/internal/ffmpeg"
	"github.com/ZacxDev/images-to-video/internal/platform"
)

// FrameSink receives normalized frames in playback order.
type FrameSink interface {
	WriteFrame(img *image.NRGBA) error
	Close() error
}

// Encoder is the external encoder: it writes the temp video and merges the
// final container.
type Encoder interface {
	OpenFrameWriter(ctx context.Context, path string, width, height int, plat platform.Platform) (FrameSink, error)
	Mux(ctx context.Context, req ffmpeg.MuxRequest) error
	GetVideoMetadata(path string) (*ffmpeg.VideoMetadata, error)
}

// MetadataReader reads the EXIF record of one image.
type MetadataReader interface {
	Read(path string) (exifmeta.Record, error)
}

// Confirmer asks whether an existing output may be overwritten.
type Confirmer interface {
	ConfirmOverwrite(path string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(path string) (bool, error)

func (f ConfirmFunc) ConfirmOverwrite(path string) (bool, error) {
	return f(path)
}

// declineOverwrite is used when no Confirmer is supplied.
var declineOverwrite = ConfirmFunc(func(string) (bool, error) { return false, nil })

// ffmpegEncoder adapts *ffmpeg.Processor to Encoder.
type ffmpegEncoder struct {
	*ffmpeg.Processor
}

func (e ffmpegEncoder) OpenFrameWriter(ctx context.Context, path string, width, height int, plat platform.Platform) (FrameSink, error) {
	w, err := e.Processor.OpenFrameWriter(ctx, path, width, height, plat)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Converter turns a directory of images into a single video with three
// metadata subtitle tracks.
type Converter struct {
	opts     *config.ConverterOptions
	encoder  Encoder
	metadata MetadataReader
	confirm  Confirmer
	console  io.Writer
}

// NewConverter creates a converter backed by ffmpeg and the EXIF reader
func NewConverter(opts *config.ConverterOptions) *Converter {
	return &Converter{
		opts:     opts,
		encoder:  ffmpegEncoder{ffmpeg.NewProcessor(opts.Verbose).WithBinary(opts.FFmpegPath)},
		metadata: exifmeta.NewReader(opts.Verbose),
		confirm:  declineOverwrite,
		console:  os.Stdout,
	}
}

func (c *Converter) WithEncoder(e Encoder) *Converter {
	c.encoder = e
	return c
}

func (c *Converter) WithMetadataReader(r MetadataReader) *Converter {
	c.metadata = r
	return c
}

func (c *Converter) WithConfirmer(confirm Confirmer) *Converter {
	c.confirm = confirm
	return c
}

// WithConsole sets where status lines are echoed. Defaults to stdout.
func (c *Converter) WithConsole(w io.Writer) *Converter {
	c.console = w
	return c
}

// GetSupportedFormats returns a list of supported output containers
func GetSupportedFormats() []string {
	return platform.GetSupportedPlatforms()
}
