package exifmeta

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	exifundefined "github.com/dsoprea/go-exif/v3/undefined"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupName(t *testing.T) {
	assert.Equal(t, "Image", GroupName("IFD"))
	assert.Equal(t, "EXIF", GroupName("IFD/Exif"))
	assert.Equal(t, "GPS", GroupName("IFD/GPSInfo"))
	assert.Equal(t, "Interoperability", GroupName("IFD/Exif/Iop"))
	assert.Equal(t, "Thumbnail", GroupName("IFD1"))
	assert.Equal(t, "IFD/Other", GroupName("IFD/Other"))
}

func TestPrintable(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"string", "2020:01:02 03:04:05", "2020:01:02 03:04:05"},
		{"single short", []uint16{1}, "1"},
		{"short list", []uint16{0, 2, 3, 0}, "[0, 2, 3, 0]"},
		{"whole rational", []exifcommon.Rational{{Numerator: 72, Denominator: 1}}, "72"},
		{"fraction", []exifcommon.Rational{{Numerator: 1, Denominator: 200}}, "1/200"},
		{"signed rationals", []exifcommon.SignedRational{{Numerator: -1, Denominator: 3}, {Numerator: 2, Denominator: 1}}, "[-1/3, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tag{Value: tt.value}.Printable())
		})
	}
}

func TestClassifyValue(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		kind      ValueKind
		converted bool
		encoded   string
	}{
		{"string used verbatim", "Canon", Text, false, `"Canon"`},
		{"string that looks like json stays text", "[1, 2]", Text, false, `"[1, 2]"`},
		{"integer list parses", []uint16{72}, Parsed, false, `[72]`},
		{"byte list parses", []uint8{0, 2, 3, 0}, Parsed, false, `[0,2,3,0]`},
		{"whole rationals parse", []exifcommon.Rational{{Numerator: 72, Denominator: 1}}, Parsed, false, `[72]`},
		{"fraction falls back", []exifcommon.Rational{{Numerator: 1, Denominator: 200}}, Raw, true, `"[1/200]"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ClassifyValue(tt.value)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.converted, v.Converted())
			b, err := json.Marshal(v)
			require.NoError(t, err)
			assert.Equal(t, tt.encoded, string(b))
		})
	}
}

func TestStructure(t *testing.T) {
	rec := Record{Tags: []Tag{
		{Name: "Image Make", ID: 0x010f, Value: "Canon"},
		{Name: "EXIF ExposureTime", ID: 0x829a, Value: []exifcommon.Rational{{Numerator: 1, Denominator: 200}}},
		{Name: "Image XResolution", ID: 0x011a, Value: []exifcommon.Rational{{Numerator: 72, Denominator: 1}}},
	}}

	b, err := json.Marshal(Structure(rec))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name": "Image Make", "tag": 271, "values": "Canon", "converted": false},
		{"name": "EXIF ExposureTime", "tag": 33434, "values": "[1/200]", "converted": true},
		{"name": "Image XResolution", "tag": 282, "values": [72], "converted": false}
	]`, string(b))
}

func TestRecordGet(t *testing.T) {
	rec := Record{Tags: []Tag{
		{Name: "Image Make", Value: "Canon"},
		{Name: DateTimeTag, Value: "2021:05:06 07:08:09"},
	}}

	tag, ok := rec.Get(DateTimeTag)
	require.True(t, ok)
	assert.Equal(t, "2021:05:06 07:08:09", tag.Printable())

	_, ok = rec.Get("Image Model")
	assert.False(t, ok)
}

func TestReadWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_1_plain.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	rec, err := NewReader(false).Read(path)
	require.NoError(t, err)
	assert.Empty(t, rec.Tags)
}

// writeExifJPEG writes a small JPEG whose APP1 segment carries a capture
// time and two UNDEFINED-typed EXIF tags.
func writeExifJPEG(t *testing.T, path string) {
	t.Helper()
	im, err := exifcommon.NewIfdMappingWithStandard()
	require.NoError(t, err)

	ib := exif.NewIfdBuilder(im, exif.NewTagIndex(), exifcommon.IfdStandardIfdIdentity, binary.BigEndian)
	require.NoError(t, ib.AddStandardWithName("DateTime", "2023:01:02 03:04:05"))

	exifIb, err := exif.GetOrCreateIbFromRootIb(ib, "IFD/Exif")
	require.NoError(t, err)
	require.NoError(t, exifIb.AddStandardWithName("ExifVersion", exifundefined.Tag9000ExifVersion{ExifVersion: "0230"}))
	require.NoError(t, exifIb.AddStandardWithName("ComponentsConfiguration", exifundefined.TagExif9101ComponentsConfiguration{
		ConfigurationId:    exifundefined.TagUndefinedType_9101_ComponentsConfiguration_YCBCR,
		ConfigurationBytes: []byte{1, 2, 3, 0},
	}))

	exifData, err := exif.NewIfdByteEncoder().EncodeToExif(ib)
	require.NoError(t, err)

	var img bytes.Buffer
	require.NoError(t, jpeg.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))

	payload := append([]byte("Exif\x00\x00"), exifData...)
	size := len(payload) + 2

	var out bytes.Buffer
	out.Write(img.Bytes()[:2])
	out.Write([]byte{0xFF, 0xE1, byte(size >> 8), byte(size)})
	out.Write(payload)
	out.Write(img.Bytes()[2:])
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o644))
}

func TestReadExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_1_exif.jpg")
	writeExifJPEG(t, path)

	rec, err := NewReader(false).Read(path)
	require.NoError(t, err)

	dt, ok := rec.Get(DateTimeTag)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0132), dt.ID)
	assert.Equal(t, "2023:01:02 03:04:05", dt.Printable())

	version, ok := rec.Get("EXIF ExifVersion")
	require.True(t, ok)
	assert.Equal(t, []byte("0230"), version.Value)
	assert.Equal(t, "0230", version.Printable())

	cc, ok := rec.Get("EXIF ComponentsConfiguration")
	require.True(t, ok)
	assert.Equal(t, uint16(0x9101), cc.ID)
	assert.Equal(t, []byte{1, 2, 3, 0}, cc.Value)
	assert.Equal(t, "Y, Cb, Cr, -", cc.Printable())

	var structured []StructuredTag
	for _, st := range Structure(rec) {
		if st.Name == "EXIF ComponentsConfiguration" || st.Name == "EXIF ExifVersion" {
			structured = append(structured, st)
		}
	}
	b, err := json.Marshal(structured)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name": "EXIF ExifVersion", "tag": 36864, "values": [48, 50, 51, 48], "converted": false},
		{"name": "EXIF ComponentsConfiguration", "tag": 37121, "values": [1, 2, 3, 0], "converted": false}
	]`, string(b))
}

func TestUndefinedDisplay(t *testing.T) {
	tests := []struct {
		name     string
		decoded  interface{}
		raw      []byte
		expected string
	}{
		{"components", exifundefined.TagExif9101ComponentsConfiguration{}, []byte{4, 5, 6, 0}, "R, G, B, -"},
		{"components out of range", exifundefined.TagExif9101ComponentsConfiguration{}, []byte{1, 9}, "Y, 9"},
		{"flashpix version", exifundefined.TagA000FlashpixVersion{FlashpixVersion: "0100"}, []byte("0100"), "0100"},
		{"interop version", exifundefined.Tag0002InteropVersion{InteropVersion: "0100"}, []byte("0100"), "0100"},
		{"file source", exifundefined.TagExifA300FileSource(3), []byte{3}, "Digital Camera"},
		{"unknown file source", exifundefined.TagExifA300FileSource(9), []byte{9}, "9"},
		{"scene type", exifundefined.TagExifA301SceneType(1), []byte{1}, "Directly Photographed"},
		{"user comment", exifundefined.Tag9286UserComment{EncodingBytes: []byte("hello\x00\x00")}, nil, "hello"},
		{"unknown tag prints bytes", exifundefined.UnparseableUnknownTagValuePlaceholder, []byte{7, 8}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, undefinedDisplay(tt.decoded, tt.raw))
		})
	}

	tag := Tag{Name: "EXIF Unknown", Value: []byte{7, 8}}
	assert.Equal(t, "[7, 8]", tag.Printable())
}

func TestStructuredValueKeepsMarkup(t *testing.T) {
	b, err := ClassifyValue("<a & b>").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(b))

	b, err = StructuredValue{Kind: Raw, Text: "[1/3, <x>]"}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"[1/3, <x>]"`, string(b))
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewReader(false).Read(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}
