// Package geo handles geographic data structures and coordinate parsing.
package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

var (
	// ErrTrailingData is returned when a document has content after its top-level value.
	ErrTrailingData = errors.New("unexpected data after top-level JSON value")
	// ErrInvalidUTF8 is returned for input that is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
	// ErrNullValue is returned when the document, "features", a feature or
	// its "properties" is JSON null.
	ErrNullValue = errors.New("unexpected null value")
)

// GeoJSONFeatureCollection represents a collection of geographic features.
// A missing "features" key yields an empty collection and "type" is not
// checked. Explicit nulls in the document structure are errors.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a single feature. Geometry is kept undecoded,
// point positions come from a textual property instead.
type GeoJSONFeature struct {
	Properties Properties      `json:"properties"`
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

// Properties is the free-form property mapping of a feature.
type Properties map[string]any

// Text returns the value of key when it is a JSON string.
func (p Properties) Text(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// String renders the value of key as it appears in the source document.
// Absent and null values render as an empty string.
func (p Properties) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		// Same spelling as the original Python CSV export
		if v {
			return "True"
		}
		return "False"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// DecodeFeatureCollection parses a GeoJSON document. Numbers are kept as
// json.Number so they render with their original text.
func DecodeFeatureCollection(r io.Reader) (*GeoJSONFeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return parseFeatureCollection(data)
}

// LoadFeatureCollection reads and parses a GeoJSON file.
func LoadFeatureCollection(path string) (*GeoJSONFeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Tolerate a UTF-8 BOM written by some GIS exports
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	return parseFeatureCollection(data)
}

type rawCollection struct {
	Type     string          `json:"type"`
	Features json.RawMessage `json:"features"`
}

type rawFeature struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// parseFeatureCollection decodes the document level by level so that an
// absent key can be told apart from an explicit null.
func parseFeatureCollection(data []byte) (*GeoJSONFeatureCollection, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var doc json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	if isNull(doc) {
		return nil, fmt.Errorf("document: %w", ErrNullValue)
	}

	var root rawCollection
	if err := json.Unmarshal(doc, &root); err != nil {
		return nil, err
	}

	fc := &GeoJSONFeatureCollection{Type: root.Type, Features: []GeoJSONFeature{}}
	if root.Features == nil {
		return fc, nil
	}
	if isNull(root.Features) {
		return nil, fmt.Errorf("features: %w", ErrNullValue)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(root.Features, &items); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	fc.Features = make([]GeoJSONFeature, 0, len(items))
	for i, item := range items {
		feature, err := parseFeature(item)
		if err != nil {
			return nil, fmt.Errorf("features[%d]: %w", i, err)
		}
		fc.Features = append(fc.Features, feature)
	}

	return fc, nil
}

func parseFeature(item json.RawMessage) (GeoJSONFeature, error) {
	if isNull(item) {
		return GeoJSONFeature{}, ErrNullValue
	}

	var raw rawFeature
	if err := json.Unmarshal(item, &raw); err != nil {
		return GeoJSONFeature{}, err
	}

	feature := GeoJSONFeature{Type: raw.Type, Geometry: raw.Geometry, Properties: Properties{}}
	if raw.Properties == nil {
		return feature, nil
	}
	if isNull(raw.Properties) {
		return GeoJSONFeature{}, fmt.Errorf("properties: %w", ErrNullValue)
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Properties))
	dec.UseNumber()
	if err := dec.Decode(&feature.Properties); err != nil {
		return GeoJSONFeature{}, fmt.Errorf("properties: %w", err)
	}

	return feature, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
