package mp4

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented, human-readable tree of the box to w: one line
// per field except the size/type header fields (already shown on the box's
// own line), with nested boxes recursing one level deeper in field order.
// It is a debugging aid, grounded in the teacher's habit of a cheap
// recursive printer alongside the binary codec, not part of the wire
// format.
func (b *Box) Dump(w io.Writer) error {
	return b.dump(w, 0)
}

func (b *Box) dump(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s[%s] (%d)\n", indent, b.Type, b.byteLength); err != nil {
		return err
	}
	for _, f := range b.fields {
		if child, ok := f.el.(*Box); ok {
			if err := child.dump(w, depth+1); err != nil {
				return err
			}
			continue
		}
		if f.name == "size" || f.name == "type" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s  %s = %v (%d)\n", indent, f.name, elementValue(f.el), f.el.ByteLength()); err != nil {
			return err
		}
	}
	return nil
}

// diagnosticField and diagnosticBox back Box.MarshalJSON's tree, used by
// operators inspecting a segment without a binary box viewer.
type diagnosticField struct {
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

type diagnosticBox struct {
	Type       string            `json:"type"`
	ByteLength int               `json:"byte_length"`
	Fields     []diagnosticField `json:"fields,omitempty"`
	Children   []*diagnosticBox  `json:"children,omitempty"`
}

// MarshalJSON renders the same tree as Dump, as structured JSON.
func (b *Box) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.toDiagnostic())
}

func (b *Box) toDiagnostic() *diagnosticBox {
	d := &diagnosticBox{Type: b.Type, ByteLength: b.byteLength}
	for _, f := range b.fields {
		if child, ok := f.el.(*Box); ok {
			d.Children = append(d.Children, child.toDiagnostic())
			continue
		}
		if f.name == "size" || f.name == "type" {
			continue
		}
		d.Fields = append(d.Fields, diagnosticField{Name: f.name, Value: elementValue(f.el)})
	}
	return d
}
