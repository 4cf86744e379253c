package processor

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ZacxDev/images-to-video/internal/config"
	"github.com/ZacxDev/images-to-video/internal/frame"
	"github.com/ZacxDev/images-to-video/internal/platform"
	"github.com/ZacxDev/images-to-video/internal/subtitle"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session is the state of one conversion run, threaded through every stage.
// Each stream has exactly one writer.
type Session struct {
	ID       string
	Target   config.OutputTarget
	Platform platform.Platform
	Files    []string

	Sizer *frame.Sizer
	// Frame is the index of the frame being processed; Total is len(Files)
	Frame int
	Total int

	// Video is opened on the first frame, once the canvas is known
	Video  FrameSink
	Tracks *subtitle.Emitter
	Status *log.Logger

	runLog *os.File
	closed bool
}

// openSession creates the run log and the three subtitle tracks.
func openSession(target config.OutputTarget, plat platform.Platform, files []string, console io.Writer) (*Session, error) {
	runLog, err := os.Create(target.RunLogPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create run log")
	}

	tracks, err := subtitle.CreateEmitter(target.ShortTrackPath(), target.FullTrackPath(), target.StructuredTrackPath())
	if err != nil {
		runLog.Close()
		return nil, err
	}

	s := &Session{
		ID:       uuid.NewString(),
		Target:   target,
		Platform: plat,
		Files:    files,
		Sizer:    frame.NewSizer(),
		Total:    len(files),
		Tracks:   tracks,
		Status:   log.New(io.MultiWriter(console, runLog), "", 0),
		runLog:   runLog,
	}
	fmt.Fprintf(runLog, "# run %s: %d files -> %s\n", s.ID, len(files), target.Path())
	return s, nil
}

// Close flushes and closes every open stream. It is safe to call more than
// once and returns the first error.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if s.Video != nil {
		keep(s.Video.Close())
	}
	keep(s.Tracks.Close())
	keep(errors.WithStack(s.runLog.Close()))
	return first
}

// appendRunLog adds a line to the run log after the session is closed.
func appendRunLog(target config.OutputTarget, format string, args ...interface{}) {
	f, err := os.OpenFile(target.RunLogPath(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("Warning: failed to reopen run log: %v", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, format+"\n", args...)
}
