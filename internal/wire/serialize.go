// Package wire renders work items into the XML fragment exchanged with the
// tracking server.
package wire

import (
	"encoding"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/Makepad-fr/wordsync/internal/model"
)

// ErrArgumentNil is matched by every *ArgumentNilError.
var ErrArgumentNil = errors.New("argument is nil")

// ArgumentNilError reports a required argument that was nil.
type ArgumentNilError struct {
	Param string
}

func (e *ArgumentNilError) Error() string {
	return fmt.Sprintf("%s: %v", e.Param, ErrArgumentNil)
}

func (e *ArgumentNilError) Is(target error) bool { return target == ErrArgumentNil }

// SerializedWorkItem is the <WorkItem> element.
type SerializedWorkItem struct {
	XMLName xml.Name       `xml:"WorkItem"`
	Fields  []FieldElement `xml:"Fields>Field"`
}

// FieldElement is one <Field name="..."> entry.
type FieldElement struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Field returns the textual value stored under name.
func (s *SerializedWorkItem) Field(name string) (string, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalIndent encodes the element with two-space indentation.
func (s *SerializedWorkItem) MarshalIndent() ([]byte, error) {
	return xml.MarshalIndent(s, "", "  ")
}

// WriteTo writes the indented element followed by a newline.
func (s *SerializedWorkItem) WriteTo(w io.Writer) (int64, error) {
	b, err := s.MarshalIndent()
	if err != nil {
		return 0, fmt.Errorf("xml marshal: %w", err)
	}
	n, err := w.Write(append(b, '\n'))
	return int64(n), err
}

// Serialize emits the identity and type fields of item, then every name in
// fields that item declares, in the order given. Names item does not declare
// are skipped without reading their value.
func Serialize(item model.WorkItem, fields ...string) (*SerializedWorkItem, error) {
	if item == nil {
		return nil, &ArgumentNilError{Param: "item"}
	}

	out := &SerializedWorkItem{Fields: make([]FieldElement, 0, len(fields)+2)}
	out.Fields = append(out.Fields,
		FieldElement{Name: model.FieldID, Value: text(item.Value(model.FieldID))},
		FieldElement{Name: model.FieldType, Value: text(item.Value(model.FieldType))},
	)
	for _, name := range fields {
		if name == model.FieldID || name == model.FieldType {
			continue
		}
		if !item.Contains(name) {
			continue
		}
		out.Fields = append(out.Fields, FieldElement{Name: name, Value: text(item.Value(name))})
	}
	return out, nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}
