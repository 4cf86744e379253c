package platform

import "github.com/ZacxDev/images-to-video/pkg/types"

type Matroska struct{}

func init() {
	Register(&Matroska{})
}

func (p *Matroska) GetName() string {
	return string(types.OutputFormatMKV)
}

func (p *Matroska) GetVideoCodec() string {
	return "libx264"
}

// mov_text is not muxable into Matroska
func (p *Matroska) GetSubtitleCodec() string {
	return "srt"
}

func (p *Matroska) GetPixelFormat() string {
	return "yuv420p"
}

func (p *Matroska) GetOutputFormat() string {
	return "matroska"
}
