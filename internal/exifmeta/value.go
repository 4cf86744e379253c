package exifmeta

import (
	"bytes"
	"encoding/json"
)

// ValueKind says how a tag value reached the structured track.
type ValueKind int

const (
	// Text is a value that already was a string. Used verbatim.
	Text ValueKind = iota
	// Parsed is a non-string value whose list form is valid JSON.
	Parsed
	// Raw is a non-string value whose list form is not JSON; the list form is kept as a string.
	Raw
)

// StructuredValue is the "values" member of a structured track entry.
type StructuredValue struct {
	Kind ValueKind
	JSON json.RawMessage
	Text string
}

// Converted is true only for Raw. A string value and a JSON-parsable value
// both report false.
func (v StructuredValue) Converted() bool {
	return v.Kind == Raw
}

func (v StructuredValue) MarshalJSON() ([]byte, error) {
	if v.Kind == Parsed {
		return v.JSON, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v.Text); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ClassifyValue decides between Text, Parsed and Raw for a tag payload.
func ClassifyValue(value interface{}) StructuredValue {
	if s, ok := value.(string); ok {
		return StructuredValue{Kind: Text, Text: s}
	}
	form := ListForm(value)
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(form)); err == nil {
		return StructuredValue{Kind: Parsed, JSON: buf.Bytes(), Text: form}
	}
	return StructuredValue{Kind: Raw, Text: form}
}

// StructuredTag is one element of the structured track's JSON array.
type StructuredTag struct {
	Name      string          `json:"name"`
	Tag       uint16          `json:"tag"`
	Values    StructuredValue `json:"values"`
	Converted bool            `json:"converted"`
}

// Structure converts a record into structured track entries, in tag order.
func Structure(rec Record) []StructuredTag {
	out := make([]StructuredTag, 0, len(rec.Tags))
	for _, t := range rec.Tags {
		v := ClassifyValue(t.Value)
		out = append(out, StructuredTag{
			Name:      t.Name,
			Tag:       t.ID,
			Values:    v,
			Converted: v.Converted(),
		})
	}
	return out
}
