package videoprocessor

import (
	"context"
	"log"

	"github.com/ZacxDev/images-to-video/internal/config"
	"github.com/ZacxDev/images-to-video/internal/processor"
	"github.com/ZacxDev/images-to-video/pkg/types"
)

// ImagesToVideoOptions defines options for converting an image directory to a video
type ImagesToVideoOptions = config.ConverterOptions

// ConfirmFunc is asked before an existing output file is overwritten.
type ConfirmFunc = processor.ConfirmFunc

// ParseOutput splits an output file argument such as "out/trip.mkv" into
// directory, name and container format.
func ParseOutput(arg string) config.OutputTarget {
	return config.ParseOutputTarget(arg)
}

// GetSupportedFormats returns a list of supported output containers
func GetSupportedFormats() []string {
	return processor.GetSupportedFormats()
}

// ConvertImages encodes every matching image of opts.InputPath as one frame
// of a one-frame-per-second video, with DateTime, EXIF and JSON subtitle
// tracks carrying each image's metadata. confirm may be nil, in which case an
// existing output is never overwritten unless opts.AssumeYes is set.
//
// Errors are *types.Error values; a declined overwrite is reported as
// types.OutputExistsDeclined.
func ConvertImages(ctx context.Context, opts *ImagesToVideoOptions, confirm ConfirmFunc) error {
	if opts.Verbose {
		log.Printf("Processing input directory: %s (filter %q)\n", opts.InputPath, opts.FilterPattern)
		log.Printf("Output: %s\n", opts.Output.Path())
	}

	conv := processor.NewConverter(opts)
	if confirm != nil {
		conv.WithConfirmer(confirm)
	}
	return conv.Process(ctx)
}

// IsCancelled reports whether err is a declined overwrite rather than a failure.
func IsCancelled(err error) bool {
	return types.IsKind(err, types.OutputExistsDeclined)
}
