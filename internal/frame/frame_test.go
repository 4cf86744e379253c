package frame

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 255, A: 255}

func solid(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// checkerboard gives every pixel a distinct colour so any misplacement shows up.
func checkerboard(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: uint8(x * 10), B: uint8(y * 10), A: 255})
		}
	}
	return img
}

func TestSizerClassify(t *testing.T) {
	s := NewSizer()
	_, set := s.Canvas()
	assert.False(t, set)

	assert.Equal(t, Identical, s.ClassifySize(200, 100))
	canvas, set := s.Canvas()
	require.True(t, set)
	assert.Equal(t, Canvas{Height: 200, Width: 100}, canvas)

	tests := []struct {
		name          string
		height, width int
		expected      Classification
	}{
		{name: "same size", height: 200, width: 100, expected: Identical},
		{name: "rotated", height: 100, width: 200, expected: Transposed},
		{name: "square", height: 50, width: 50, expected: Mismatched},
		{name: "same aspect other size", height: 400, width: 200, expected: Mismatched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.ClassifySize(tt.height, tt.width))
			after, _ := s.Canvas()
			assert.Equal(t, canvas, after)
		})
	}
}

func TestSizerSquareCanvas(t *testing.T) {
	s := NewSizer()
	assert.Equal(t, Identical, s.Classify(solid(30, 30, red)))
	assert.Equal(t, Identical, s.Classify(solid(30, 30, red)))
	assert.Equal(t, Mismatched, s.Classify(solid(30, 31, red)))
}

func TestClassificationStatus(t *testing.T) {
	assert.Equal(t, " ", Identical.Status())
	assert.Equal(t, "R", Transposed.Status())
	assert.Equal(t, "C", Mismatched.Status())
}

func TestNormalizeIdentical(t *testing.T) {
	src := checkerboard(4, 3)
	out := Normalize(src, Identical, Canvas{Height: 3, Width: 4})
	assert.Equal(t, src.Pix, out.Pix)
	assert.Equal(t, src.Rect, out.Rect)
}

func TestNormalizeTransposed(t *testing.T) {
	src := checkerboard(5, 3)
	canvas := Canvas{Height: 5, Width: 3}

	out := Normalize(src, Transposed, canvas)
	require.Equal(t, canvas.Width, out.Rect.Dx())
	require.Equal(t, canvas.Height, out.Rect.Dy())
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, src.NRGBAAt(x, y), out.NRGBAAt(y, x), "pixel %d,%d", x, y)
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		height, width int
		canvas        Canvas
		expected      Placement
	}{
		{"square into portrait pads top and bottom", 50, 50, Canvas{Height: 200, Width: 100}, Placement{Width: 100, Height: 100, Top: 50}},
		{"odd vertical padding goes to the top", 7, 10, Canvas{Height: 10, Width: 10}, Placement{Width: 10, Height: 7, Top: 2}},
		{"odd horizontal padding goes to the left", 10, 7, Canvas{Height: 10, Width: 10}, Placement{Width: 7, Height: 10, Left: 2}},
		{"half rounds to even", 3, 4, Canvas{Height: 10, Width: 10}, Placement{Width: 10, Height: 8, Top: 1}},
		{"extreme aspect keeps one pixel", 1, 1000, Canvas{Height: 10, Width: 10}, Placement{Width: 10, Height: 1, Top: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fit(tt.height, tt.width, tt.canvas))
		})
	}
}

func TestNormalizeMismatched(t *testing.T) {
	canvas := Canvas{Height: 10, Width: 10}
	out := Normalize(solid(10, 7, red), Mismatched, canvas)

	require.Equal(t, 10, out.Rect.Dx())
	require.Equal(t, 10, out.Rect.Dy())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := Background
			if y >= 2 && y < 9 {
				want = red
			}
			assert.Equal(t, want, out.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestNormalizeMismatchedAspect(t *testing.T) {
	canvas := Canvas{Height: 200, Width: 100}
	src := solid(60, 40, red)
	out := Normalize(src, Mismatched, canvas)

	require.Equal(t, 100, out.Rect.Dx())
	require.Equal(t, 200, out.Rect.Dy())

	// count the non-black columns and rows
	var cols, rows int
	for x := 0; x < 100; x++ {
		if out.NRGBAAt(x, 100) == red {
			cols++
		}
	}
	for y := 0; y < 200; y++ {
		if out.NRGBAAt(50, y) == red {
			rows++
		}
	}
	assert.Equal(t, 100, cols)
	assert.InDelta(t, 100*40.0/60.0, float64(rows), 1)
	assert.Equal(t, Background, out.NRGBAAt(0, 0))
	assert.Equal(t, Background, out.NRGBAAt(99, 199))
}

func TestResizeNearest(t *testing.T) {
	a := color.NRGBA{R: 1, A: 255}
	b := color.NRGBA{G: 2, A: 255}
	c := color.NRGBA{B: 3, A: 255}
	d := color.NRGBA{R: 4, G: 4, A: 255}

	row := func(cs ...color.NRGBA) *image.NRGBA {
		img := image.NewNRGBA(image.Rect(0, 0, len(cs), 1))
		for i, col := range cs {
			img.SetNRGBA(i, 0, col)
		}
		return img
	}
	pixels := func(img *image.NRGBA) []color.NRGBA {
		out := make([]color.NRGBA, img.Rect.Dx())
		for i := range out {
			out[i] = img.NRGBAAt(i, 0)
		}
		return out
	}

	t.Run("upscale repeats", func(t *testing.T) {
		out := ResizeNearest(row(a, b), 4, 1)
		assert.Equal(t, []color.NRGBA{a, a, b, b}, pixels(out))
	})

	t.Run("downscale takes the leading pixel", func(t *testing.T) {
		out := ResizeNearest(row(a, b, c, d), 2, 1)
		assert.Equal(t, []color.NRGBA{a, c}, pixels(out))
	})

	t.Run("uneven factor", func(t *testing.T) {
		out := ResizeNearest(row(a, b, c), 2, 1)
		assert.Equal(t, []color.NRGBA{a, b}, pixels(out))
	})
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IMG_1_a.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, checkerboard(6, 4)))
	require.NoError(t, f.Close())

	img, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 6, img.Rect.Dx())
	assert.Equal(t, 4, img.Rect.Dy())

	bad := filepath.Join(dir, "IMG_2_b.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = Decode(bad)
	assert.Error(t, err)
}
