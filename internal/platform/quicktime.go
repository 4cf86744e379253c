package platform

import "github.com/ZacxDev/images-to-video/pkg/types"

// QuickTime covers .mov and .m4v, which share the mov muxer family and
// its native text subtitle codec.
type QuickTime struct {
	name   types.OutputFormat
	format string
}

func init() {
	Register(&QuickTime{name: types.OutputFormatMOV, format: "mov"})
	Register(&QuickTime{name: types.OutputFormatM4V, format: "ipod"})
}

func (p *QuickTime) GetName() string {
	return string(p.name)
}

func (p *QuickTime) GetVideoCodec() string {
	return "libx264"
}

func (p *QuickTime) GetSubtitleCodec() string {
	return "mov_text"
}

func (p *QuickTime) GetPixelFormat() string {
	return "yuv420p"
}

func (p *QuickTime) GetOutputFormat() string {
	return p.format
}
