package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// TimeCode converts a frame index to hh:mm:ss at one frame per second.
// Hours are not wrapped.
func TimeCode(frame int) string {
	return fmt.Sprintf("%02d:%02d:%02d", frame/3600, (frame%3600)/60, frame%60)
}

// Block is one caption entry. Every block spans the whole second of its frame.
type Block struct {
	Index    int
	TimeCode string
	Body     []string
}

func (b Block) String() string {
	s := fmt.Sprintf("%d\n%s,000 --> %s,999\n", b.Index, b.TimeCode, b.TimeCode)
	for _, line := range b.Body {
		s += line + "\n"
	}
	return s + "\n"
}

// Track is a SubRip-style block writer with a single owner.
type Track struct {
	w      *bufio.Writer
	c      io.Closer
	blocks int
}

// NewTrack wraps w. If w is also an io.Closer it is closed by Close.
func NewTrack(w io.Writer) *Track {
	t := &Track{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		t.c = c
	}
	return t
}

// CreateTrack creates or truncates the file at path.
func CreateTrack(path string) (*Track, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create subtitle track %s", path)
	}
	return NewTrack(f), nil
}

func (t *Track) WriteBlock(b Block) error {
	if _, err := t.w.WriteString(b.String()); err != nil {
		return errors.WithStack(err)
	}
	t.blocks++
	return nil
}

// Blocks returns how many blocks have been written.
func (t *Track) Blocks() int {
	return t.blocks
}

// Close flushes buffered blocks and closes the underlying writer.
func (t *Track) Close() error {
	err := t.w.Flush()
	if t.c != nil {
		if cerr := t.c.Close(); err == nil {
			err = cerr
		}
		t.c = nil
	}
	return errors.WithStack(err)
}
