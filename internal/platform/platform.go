package platform

import (
	"fmt"
	"sort"
	"strings"
)

// Platform describes how a container is produced: how the temp video is encoded
// and which subtitle codec the merge step writes into it.
type Platform interface {
	// GetName returns the container name, which is also the file extension
	GetName() string

	// GetVideoCodec returns the encoder used for the temp video
	GetVideoCodec() string

	// GetSubtitleCodec returns the codec subtitle tracks are re-encoded into on merge
	GetSubtitleCodec() string

	// GetPixelFormat returns the pixel format of the encoded video
	GetPixelFormat() string

	// GetOutputFormat returns the ffmpeg muxer name
	GetOutputFormat() string
}

var platforms = make(map[string]Platform)

// Register adds a platform to the registry
func Register(p Platform) {
	platforms[p.GetName()] = p
}

// Get returns a platform by name. Lookup is case-insensitive.
func Get(name string) (Platform, error) {
	p, ok := platforms[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s (supported: %s)",
			name, strings.Join(GetSupportedPlatforms(), ", "))
	}
	return p, nil
}

// GetSupportedPlatforms returns a sorted list of supported container names
func GetSupportedPlatforms() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
