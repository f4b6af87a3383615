package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Reference names every work item carries.
const (
	FieldID    = "System.Id"
	FieldType  = "System.WorkItemType"
	FieldTitle = "System.Title"
	FieldState = "System.State"
)

// WorkItem is what the serializer and the outline need from a work item.
// Value must only be called for names Contains reports as present.
type WorkItem interface {
	FieldNames() []string
	Contains(ref string) bool
	Value(ref string) any
}

// Field is one reference-name/value pair of a Record.
type Field struct {
	Ref   string `json:"ref"`
	Value any    `json:"value"`
}

// Record is the stored form of a work item. Fields keep insertion order,
// which is also the order FieldNames reports.
type Record struct {
	Fields []Field `json:"fields"`
}

// NewRecord returns a record with the identity, type and title fields set.
func NewRecord(id int, typ, title string) *Record {
	r := &Record{}
	r.Set(FieldID, id)
	r.Set(FieldType, typ)
	if title != "" {
		r.Set(FieldTitle, title)
	}
	return r
}

func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		names = append(names, f.Ref)
	}
	return names
}

func (r *Record) Contains(ref string) bool {
	return r.index(ref) >= 0
}

func (r *Record) Value(ref string) any {
	if i := r.index(ref); i >= 0 {
		return r.Fields[i].Value
	}
	return nil
}

// Set replaces the value of ref in place, or appends it.
func (r *Record) Set(ref string, v any) {
	if i := r.index(ref); i >= 0 {
		r.Fields[i].Value = v
		return
	}
	r.Fields = append(r.Fields, Field{Ref: ref, Value: v})
}

// ID returns System.Id as an int, or 0 when missing or not numeric.
func (r *Record) ID() int {
	switch v := r.Value(FieldID).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	}
	return 0
}

func (r *Record) Type() string  { return r.text(FieldType) }
func (r *Record) Title() string { return r.text(FieldTitle) }

func (r *Record) text(ref string) string {
	v := r.Value(ref)
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (r *Record) index(ref string) int {
	return slices.IndexFunc(r.Fields, func(f Field) bool { return f.Ref == ref })
}
