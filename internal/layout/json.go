package layout

import (
	"encoding/json"
	"fmt"
)

// ParseError wraps a JSON decoding failure for a persisted document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed layout document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ToJSON serializes a document 1:1 with the persisted schema.
func ToJSON(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding layout document: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a persisted document. Malformed input, a missing
// version, or a missing product yield a ParseError.
func FromJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &ParseError{Err: err}
	}
	if d.Version == "" {
		return nil, &ParseError{Err: fmt.Errorf("missing version")}
	}
	if d.Meta.Product == "" {
		return nil, &ParseError{Err: fmt.Errorf("missing meta.product")}
	}
	return &d, nil
}

// Clone returns a full structural copy of the document. The copy never
// aliases the input, so callers can mutate it freely. Nil slices stay nil so
// the clone serializes byte-for-byte like the original and an unmodified
// clone diffs empty against it.
func Clone(d *Document) *Document {
	out := &Document{
		Version: d.Version,
		Meta:    d.Meta,
		Theme:   d.Theme,
	}
	if d.Meta.CreatedAt != nil {
		at := *d.Meta.CreatedAt
		out.Meta.CreatedAt = &at
	}
	if d.Meta.Tags != nil {
		out.Meta.Tags = append([]string(nil), d.Meta.Tags...)
	}
	if d.Settings != nil {
		out.Settings = cloneAnyMap(d.Settings)
	}
	if d.Tabs != nil {
		out.Tabs = make([]Tab, len(d.Tabs))
		for i, t := range d.Tabs {
			out.Tabs[i] = cloneTab(t)
		}
	}
	return out
}

func cloneTab(t Tab) Tab {
	out := t
	out.Permissions = append([]string(nil), t.Permissions...)
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
		for i, r := range t.Rows {
			out.Rows[i] = cloneRow(r)
		}
	}
	return out
}

func cloneRow(r Row) Row {
	out := r
	if r.Columns != nil {
		out.Columns = make([]Column, len(r.Columns))
		for i, c := range r.Columns {
			out.Columns[i] = cloneColumn(c)
		}
	}
	return out
}

func cloneColumn(c Column) Column {
	out := c
	if c.Widgets != nil {
		out.Widgets = make([]Widget, len(c.Widgets))
		for i, w := range c.Widgets {
			out.Widgets[i] = cloneWidget(w)
		}
	}
	return out
}

func cloneWidget(w Widget) Widget {
	out := w
	out.Actions = append([]WidgetAction(nil), w.Actions...)
	out.Permissions = append([]string(nil), w.Permissions...)
	if w.Config != nil {
		out.Config = cloneAnyMap(w.Config)
	}
	return out
}

// cloneAnyMap deep-copies a JSON-shaped map (maps, slices, scalars).
func cloneAnyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneAnyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneAny(e)
		}
		return out
	default:
		return v
	}
}
