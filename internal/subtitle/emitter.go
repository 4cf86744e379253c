package subtitle

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ZacxDev/images-to-video/internal/exifmeta"
	"github.com/pkg/errors"
)

// Emitter writes one block per frame to each of three tracks, keeping them
// index-aligned:
//
//	Short      the capture timestamp, or an empty body
//	Full       every tag as "name: value"
//	Structured the tags as a JSON array
type Emitter struct {
	Short      *Track
	Full       *Track
	Structured *Track
}

func NewEmitter(short, full, structured *Track) *Emitter {
	return &Emitter{Short: short, Full: full, Structured: structured}
}

// CreateEmitter creates the three track files. Nothing is left open on error.
func CreateEmitter(shortPath, fullPath, structuredPath string) (*Emitter, error) {
	var tracks []*Track
	for _, p := range []string{shortPath, fullPath, structuredPath} {
		t, err := CreateTrack(p)
		if err != nil {
			for _, opened := range tracks {
				opened.Close()
			}
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return NewEmitter(tracks[0], tracks[1], tracks[2]), nil
}

// Emit writes the blocks for frame to all three tracks.
func (e *Emitter) Emit(frame int, rec exifmeta.Record) error {
	structured, err := StructuredBody(rec)
	if err != nil {
		return err
	}

	tc := TimeCode(frame)
	writes := []struct {
		track *Track
		body  []string
	}{
		{e.Short, ShortBody(rec)},
		{e.Full, FullBody(rec)},
		{e.Structured, structured},
	}
	for _, w := range writes {
		if err := w.track.WriteBlock(Block{Index: frame, TimeCode: tc, Body: w.body}); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all three tracks and returns the first error.
func (e *Emitter) Close() error {
	var first error
	for _, t := range []*Track{e.Short, e.Full, e.Structured} {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func ShortBody(rec exifmeta.Record) []string {
	if tag, ok := rec.Get(exifmeta.DateTimeTag); ok {
		return []string{tag.Printable()}
	}
	return nil
}

func FullBody(rec exifmeta.Record) []string {
	lines := make([]string, 0, len(rec.Tags))
	for _, tag := range rec.Tags {
		lines = append(lines, tag.Name+": "+tag.Printable())
	}
	return lines
}

func StructuredBody(rec exifmeta.Record) ([]string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(exifmeta.Structure(rec)); err != nil {
		return nil, errors.Wrap(err, "failed to encode structured metadata")
	}
	return []string{strings.TrimSuffix(buf.String(), "\n")}, nil
}
