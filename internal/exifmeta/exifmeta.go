package exifmeta

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	exifundefined "github.com/dsoprea/go-exif/v3/undefined"
	"github.com/pkg/errors"
)

// DateTimeTag is the capture timestamp shown on the short subtitle track.
const DateTimeTag = "Image DateTime"

// IFD paths mapped to the group prefix used in tag names.
var ifdGroups = map[string]string{
	"IFD":          "Image",
	"IFD0":         "Image",
	"IFD/Exif":     "EXIF",
	"IFD/GPSInfo":  "GPS",
	"IFD/Exif/Iop": "Interoperability",
	"IFD1":         "Thumbnail",
}

// Tag is one EXIF entry.
type Tag struct {
	// Name is "<group> <TagName>", e.g. "EXIF ExposureTime"
	Name string
	// ID is the numeric EXIF tag id
	ID uint16
	// Value is the decoded payload: a string for ASCII tags, a slice otherwise.
	// UNDEFINED tags keep their raw bytes.
	Value interface{}
	// Display overrides the printable form when set
	Display string
}

// Printable renders the value the way it appears on the full track.
func (t Tag) Printable() string {
	if t.Display != "" {
		return t.Display
	}
	if s, ok := t.Value.(string); ok {
		return s
	}
	rv := reflect.ValueOf(t.Value)
	if rv.Kind() == reflect.Slice && rv.Len() == 1 {
		return formatScalar(rv.Index(0).Interface())
	}
	return ListForm(t.Value)
}

// Record holds the tags of one image in file order.
type Record struct {
	Tags []Tag
}

// Get returns the first tag called name.
func (r Record) Get(name string) (Tag, bool) {
	for _, t := range r.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// Reader extracts EXIF records from image files.
type Reader struct {
	verbose bool
}

// NewReader creates a new EXIF reader
func NewReader(verbose bool) *Reader {
	return &Reader{verbose: verbose}
}

// Read returns the EXIF tags of the file at path. Files without EXIF, or
// with EXIF that cannot be parsed, yield an empty record.
func (r *Reader) Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, errors.Wrapf(err, "failed to read %s", path)
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if !errors.Is(err, exif.ErrNoExif) && r.verbose {
			log.Printf("Warning: could not locate EXIF in %s: %v", path, err)
		}
		return Record{}, nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		if r.verbose {
			log.Printf("Warning: could not parse EXIF in %s: %v", path, err)
		}
		return Record{}, nil
	}

	rec := Record{Tags: make([]Tag, 0, len(entries))}
	for _, e := range entries {
		if e.TagName == "MakerNote" {
			continue
		}
		tag := Tag{
			Name:  GroupName(e.IfdPath) + " " + e.TagName,
			ID:    e.TagId,
			Value: e.Value,
		}
		if e.TagTypeId == exifcommon.TypeUndefined {
			raw := append([]byte(nil), e.ValueBytes...)
			tag.Value = raw
			tag.Display = undefinedDisplay(e.Value, raw)
		}
		rec.Tags = append(rec.Tags, tag)
	}
	return rec, nil
}

var componentNames = []string{"-", "Y", "Cb", "Cr", "R", "G", "B"}

var fileSources = map[byte]string{
	1: "Film Scanner",
	2: "Reflection Print Scanner",
	3: "Digital Camera",
}

var sceneTypes = map[byte]string{
	1: "Directly Photographed",
}

// undefinedDisplay renders the payload of an UNDEFINED tag from its decoded
// form. Unknown tags return "" and print as their byte list.
func undefinedDisplay(decoded interface{}, raw []byte) string {
	switch v := decoded.(type) {
	case exifundefined.TagExif9101ComponentsConfiguration:
		parts := make([]string, len(raw))
		for i, b := range raw {
			if int(b) < len(componentNames) {
				parts[i] = componentNames[b]
			} else {
				parts[i] = fmt.Sprint(b)
			}
		}
		return strings.Join(parts, ", ")
	case exifundefined.Tag9286UserComment:
		return strings.TrimRight(string(v.EncodingBytes), "\x00 ")
	case exifundefined.TagExifA300FileSource:
		return lookupByte(fileSources, raw)
	case exifundefined.TagExifA301SceneType:
		return lookupByte(sceneTypes, raw)
	case exifundefined.Tag9000ExifVersion,
		exifundefined.TagA000FlashpixVersion,
		exifundefined.Tag0002InteropVersion,
		exifundefined.Tag001BGPSProcessingMethod,
		exifundefined.Tag001CGPSAreaInformation:
		return v.(fmt.Stringer).String()
	}
	return ""
}

func lookupByte(names map[byte]string, raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if name, ok := names[raw[0]]; ok {
		return name
	}
	return fmt.Sprint(raw[0])
}

// GroupName maps an IFD path to its tag-name prefix.
func GroupName(ifdPath string) string {
	if g, ok := ifdGroups[ifdPath]; ok {
		return g
	}
	return ifdPath
}

// ListForm renders a value as "[a, b, c]". Strings are returned unchanged.
func ListForm(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return formatScalar(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = formatScalar(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatScalar(v interface{}) string {
	switch x := v.(type) {
	case exifcommon.Rational:
		if x.Denominator == 1 {
			return fmt.Sprintf("%d", x.Numerator)
		}
		return fmt.Sprintf("%d/%d", x.Numerator, x.Denominator)
	case exifcommon.SignedRational:
		if x.Denominator == 1 {
			return fmt.Sprintf("%d", x.Numerator)
		}
		return fmt.Sprintf("%d/%d", x.Numerator, x.Denominator)
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
