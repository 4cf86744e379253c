package platform

import "github.com/ZacxDev/images-to-video/pkg/types"

type MP4 struct{}

func init() {
	Register(&MP4{})
}

func (p *MP4) GetName() string {
	return string(types.OutputFormatMP4)
}

func (p *MP4) GetVideoCodec() string {
	return "libx264"
}

func (p *MP4) GetSubtitleCodec() string {
	return "mov_text"
}

func (p *MP4) GetPixelFormat() string {
	return "yuv420p"
}

func (p *MP4) GetOutputFormat() string {
	return "mp4"
}
