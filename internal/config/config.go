package config

import (
	"path/filepath"
	"strings"

	"github.com/ZacxDev/images-to-video/pkg/types"
	"github.com/spf13/viper"
)

// ConverterOptions defines options for converting an image directory to a video
type ConverterOptions struct {
	InputPath     string
	FilterPattern string
	Output        OutputTarget
	AssumeYes     bool
	Verbose       bool
	FFmpegPath    string
}

// OutputTarget is the final container location split into its parts. All
// intermediate files are named after Dir/Name.
type OutputTarget struct {
	Dir    string
	Name   string
	Format string
}

const (
	DefaultInputPath     = "."
	DefaultFilterPattern = `IMG_\d+_.+.jpg`
	DefaultOutputDir     = "."
	DefaultOutputName    = "output"
	DefaultOutputFormat  = string(types.OutputFormatMP4)
	DefaultFFmpegPath    = "ffmpeg"

	// One image per second of playback
	FrameRate = 1

	// x264 settings that make every frame a keyframe
	X264Params = "keyint=1:scenecut=0"

	TempVideoSuffix        = "_tmp"
	ShortTrackExt          = ".srt"
	FullTrackExt           = ".more.srt"
	StructuredTrackExt     = ".json.srt"
	RunLogExt              = ".log"
	EnvPrefix              = "IMG2VID"
	ShortTrackHandler      = "DateTime"
	FullTrackHandler       = "EXIF"
	StructuredTrackHandler = "JSON"
)

// Viper keys
const (
	KeyFilter  = "filter"
	KeyYes     = "yes"
	KeyVerbose = "verbose"
	KeyFFmpeg  = "ffmpeg"
)

// DefaultOutputTarget returns ./output.mp4
func DefaultOutputTarget() OutputTarget {
	return OutputTarget{Dir: DefaultOutputDir, Name: DefaultOutputName, Format: DefaultOutputFormat}
}

// ParseOutputTarget splits an output file argument into directory, base name
// and format. The format is the extension without its dot, mp4 when absent.
func ParseOutputTarget(arg string) OutputTarget {
	if arg == "" {
		return DefaultOutputTarget()
	}
	arg = NormalizePath(arg)

	dir := filepath.Dir(arg)
	if dir == "" {
		dir = DefaultOutputDir
	}
	base := filepath.Base(arg)
	ext := filepath.Ext(base)
	format := strings.TrimPrefix(ext, ".")
	if format == "" {
		format = DefaultOutputFormat
	}
	return OutputTarget{
		Dir:    dir,
		Name:   strings.TrimSuffix(base, ext),
		Format: format,
	}
}

// NormalizePath converts backslashes and drops a trailing separator.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return filepath.FromSlash(p)
}

func (t OutputTarget) base() string {
	return filepath.Join(t.Dir, t.Name)
}

// Path is the final merged container.
func (t OutputTarget) Path() string {
	return t.base() + "." + t.Format
}

func (t OutputTarget) TempVideoPath() string {
	return t.base() + TempVideoSuffix + "." + t.Format
}

func (t OutputTarget) ShortTrackPath() string {
	return t.base() + ShortTrackExt
}

func (t OutputTarget) FullTrackPath() string {
	return t.base() + FullTrackExt
}

func (t OutputTarget) StructuredTrackPath() string {
	return t.base() + StructuredTrackExt
}

func (t OutputTarget) RunLogPath() string {
	return t.base() + RunLogExt
}

// TempPaths lists the intermediate files removed after a successful merge.
func (t OutputTarget) TempPaths() []string {
	return []string{
		t.TempVideoPath(),
		t.ShortTrackPath(),
		t.FullTrackPath(),
		t.StructuredTrackPath(),
	}
}

// Load resolves options from positional arguments and the values bound in v.
// args are <input_path> [output_file] [filter_regex]; a positional filter wins
// over the flag, env or config file value.
func Load(v *viper.Viper, args []string) *ConverterOptions {
	v.SetDefault(KeyFilter, DefaultFilterPattern)
	v.SetDefault(KeyFFmpeg, DefaultFFmpegPath)

	opts := &ConverterOptions{
		InputPath:     DefaultInputPath,
		FilterPattern: v.GetString(KeyFilter),
		Output:        DefaultOutputTarget(),
		AssumeYes:     v.GetBool(KeyYes),
		Verbose:       v.GetBool(KeyVerbose),
		FFmpegPath:    v.GetString(KeyFFmpeg),
	}
	if len(args) >= 1 {
		opts.InputPath = NormalizePath(args[0])
	}
	if len(args) >= 2 {
		opts.Output = ParseOutputTarget(args[1])
	}
	if len(args) >= 3 {
		opts.FilterPattern = args[2]
	}
	return opts
}
