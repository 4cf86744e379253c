package frame

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// Background fills the letterbox bars.
var Background = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// Decode reads an image file. EXIF orientation is not applied: the canvas
// is defined by the stored pixel dimensions.
func Decode(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return imaging.Clone(img), nil
}

// Normalize returns a buffer sized exactly to canvas.
func Normalize(img image.Image, cls Classification, canvas Canvas) *image.NRGBA {
	switch cls {
	case Identical:
		return imaging.Clone(img)
	case Transposed:
		// rows become columns, no resampling
		return imaging.Transpose(img)
	default:
		return Letterbox(img, canvas)
	}
}

// Placement is where a resized image lands inside the canvas.
type Placement struct {
	Width  int
	Height int
	Left   int
	Top    int
}

// Fit computes the aspect-preserving size of an image inside canvas and the
// offset of its top-left corner. Odd padding puts the extra pixel before the
// image (top or left).
func Fit(height, width int, canvas Canvas) Placement {
	var p Placement
	if float64(canvas.Height)/float64(canvas.Width) < float64(height)/float64(width) {
		p.Height = canvas.Height
		p.Width = atLeastOne(math.RoundToEven(float64(canvas.Height*width) / float64(height)))
		p.Left = int(math.Ceil(float64(canvas.Width-p.Width) / 2))
	} else {
		p.Width = canvas.Width
		p.Height = atLeastOne(math.RoundToEven(float64(canvas.Width*height) / float64(width)))
		p.Top = int(math.Ceil(float64(canvas.Height-p.Height) / 2))
	}
	return p
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// Letterbox resizes img with nearest-neighbour sampling to fit canvas and
// pads the remainder with Background.
func Letterbox(img image.Image, canvas Canvas) *image.NRGBA {
	b := img.Bounds()
	p := Fit(b.Dy(), b.Dx(), canvas)

	resized := ResizeNearest(img, p.Width, p.Height)
	dst := imaging.New(canvas.Width, canvas.Height, Background)
	return imaging.Paste(dst, resized, image.Pt(p.Left, p.Top))
}

// ResizeNearest scales img to width x height picking, for destination pixel
// x, the source pixel floor(x * srcWidth / width). This is the classic
// nearest-neighbour rule and differs from centre sampling on downscale.
func ResizeNearest(img image.Image, width, height int) *image.NRGBA {
	src := imaging.Clone(img)
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if sw == 0 || sh == 0 {
		return dst
	}

	xs := nearestIndex(width, sw)
	ys := nearestIndex(height, sh)
	for y, sy := range ys {
		srcRow := src.Pix[sy*src.Stride:]
		dstRow := dst.Pix[y*dst.Stride:]
		for x, sx := range xs {
			copy(dstRow[x*4:x*4+4], srcRow[sx*4:sx*4+4])
		}
	}
	return dst
}

func nearestIndex(dstLen, srcLen int) []int {
	scale := float64(srcLen) / float64(dstLen)
	idx := make([]int, dstLen)
	for i := range idx {
		s := int(math.Floor(float64(i) * scale))
		if s > srcLen-1 {
			s = srcLen - 1
		}
		idx[i] = s
	}
	return idx
}
