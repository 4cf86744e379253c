package frame

import (
	"fmt"
	"image"
)

// Canvas is the pixel size every video frame is normalized to.
type Canvas struct {
	Height int
	Width  int
}

func (c Canvas) String() string {
	return fmt.Sprintf("%dx%d", c.Width, c.Height)
}

// Classification relates an image's natural size to the canvas.
type Classification int

const (
	Identical Classification = iota
	Transposed
	Mismatched
)

// Status is the single character written to the run log for a frame.
func (c Classification) Status() string {
	switch c {
	case Transposed:
		return "R"
	case Mismatched:
		return "C"
	default:
		return " "
	}
}

func (c Classification) String() string {
	switch c {
	case Identical:
		return "Identical"
	case Transposed:
		return "Transposed"
	case Mismatched:
		return "Mismatched"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Sizer establishes the canvas from the first image it sees and classifies
// every later image against it. The canvas never changes once set.
type Sizer struct {
	canvas Canvas
	set    bool
}

func NewSizer() *Sizer {
	return &Sizer{}
}

// Canvas returns the canvas and whether it has been set.
func (s *Sizer) Canvas() (Canvas, bool) {
	return s.canvas, s.set
}

// Classify compares img's natural dimensions to the canvas, setting the
// canvas first when this is the first call.
func (s *Sizer) Classify(img image.Image) Classification {
	b := img.Bounds()
	return s.ClassifySize(b.Dy(), b.Dx())
}

// ClassifySize is Classify for bare dimensions.
func (s *Sizer) ClassifySize(height, width int) Classification {
	if !s.set {
		s.canvas = Canvas{Height: height, Width: width}
		s.set = true
		return Identical
	}
	switch {
	case s.canvas.Height == height && s.canvas.Width == width:
		return Identical
	case s.canvas.Height == width && s.canvas.Width == height:
		return Transposed
	default:
		return Mismatched
	}
}
