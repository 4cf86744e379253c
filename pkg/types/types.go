package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// OutputFormat is a supported container, named by its file extension.
type OutputFormat string

const (
	OutputFormatMP4 OutputFormat = "mp4"
	OutputFormatMOV OutputFormat = "mov"
	OutputFormatM4V OutputFormat = "m4v"
	OutputFormatMKV OutputFormat = "mkv"
)

// ErrorKind identifies which stage of a conversion run failed.
type ErrorKind int

const (
	// NoMatchingInput means the filtered listing was empty. Nothing was written.
	NoMatchingInput ErrorKind = iota + 1
	// UnreadableImage means a listed file could not be decoded.
	UnreadableImage
	// OutputExistsDeclined means the operator refused to overwrite the target.
	OutputExistsDeclined
	// MergeFailed means the multiplexer exited with a nonzero status. Temp files are kept.
	MergeFailed
)

func (k ErrorKind) String() string {
	switch k {
	case NoMatchingInput:
		return "NoMatchingInput"
	case UnreadableImage:
		return "UnreadableImage"
	case OutputExistsDeclined:
		return "OutputExistsDeclined"
	case MergeFailed:
		return "MergeFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the single error type returned by a conversion run.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// IsKind reports whether err, or anything it wraps, is an Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
