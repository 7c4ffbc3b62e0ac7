package mp4

import (
	"errors"
	"fmt"

	"github.com/chinasarft/gofmp4/mylog"
)

// field is one named, ordered entry in a Box: its computed byte offset and
// the Element holding its value.
type field struct {
	name   string
	offset int
	el     Element
}

// Box aggregates an ordered, name-keyed sequence of elements with computed
// offsets and a total byte length. Every non-container box in this library
// is represented as a Box; Container specializes it by appending child
// boxes as ordinary fields (a *Box satisfies Element itself, see WriteTo).
type Box struct {
	Type       string
	byteLength int
	fields     []field
	index      map[string]int
}

// NewBox looks up boxType in the schema registry, merges config over the
// registry's default header overrides (caller wins), and instantiates every
// header + body field in declaration order.
func NewBox(boxType string, config map[string]any) (*Box, error) {
	spec, ok := registry[boxType]
	if !ok {
		return nil, newErr(ErrUnknownBoxType, boxType, "", nil)
	}

	merged := mergeConfig(spec.config, config)

	b := &Box{Type: boxType, index: make(map[string]int)}

	for _, fs := range headerFieldSpecs(spec.header, boxType) {
		if err := b.instantiate(fs, merged); err != nil {
			return nil, err
		}
	}
	for _, fs := range spec.body {
		if err := b.instantiate(fs, merged); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *Box) instantiate(fs fieldSpec, merged map[string]any) error {
	value := fs.def
	if v, ok := merged[fs.name]; ok {
		value = v
	}
	el, err := newElement(fs.kind, value)
	if err != nil {
		mylog.BoxConstructionFailed(b.Type, fs.name, err)
		return newErr(ErrValueOutOfRange, b.Type, fs.name, err)
	}
	return b.appendField(fs.name, el)
}

func headerFieldSpecs(kind headerKind, boxType string) []fieldSpec {
	switch kind {
	case headerNone:
		return nil
	case headerBox:
		return []fieldSpec{
			{"size", kU32, uint32(0)},
			{"type", kChar, boxType},
		}
	case headerFullBox:
		return []fieldSpec{
			{"size", kU32, uint32(0)},
			{"type", kChar, boxType},
			{"version", kU8, uint8(0)},
			{"flags", kU24, uint32(0)},
		}
	default:
		return nil
	}
}

func mergeConfig(specConfig, callerConfig map[string]any) map[string]any {
	merged := make(map[string]any, len(specConfig)+len(callerConfig))
	for k, v := range specConfig {
		merged[k] = v
	}
	for k, v := range callerConfig {
		merged[k] = v
	}
	return merged
}

func (b *Box) appendField(name string, el Element) error {
	if _, exists := b.index[name]; exists {
		return newErr(ErrDuplicateField, b.Type, name, nil)
	}
	b.index[name] = len(b.fields)
	b.fields = append(b.fields, field{name: name, offset: b.byteLength, el: el})
	b.byteLength += el.ByteLength()
	return nil
}

// Add appends a new field after all existing fields, at an offset equal to
// the box's current byte length. It is exported on every Box, not just
// containers: stsz/stsc/stco/stss/trun producers call it directly to append
// unnamed per-entry elements after the schema's fixed preamble.
func (b *Box) Add(name string, el Element) error {
	return b.appendField(name, el)
}

// ByteLength returns the box's total encoded length, including its header.
func (b *Box) ByteLength() int { return b.byteLength }

// Offset returns the byte offset of a named field relative to the box's own
// start (i.e. relative to its size field).
func (b *Box) Offset(name string) (int, error) {
	idx, ok := b.index[name]
	if !ok {
		return 0, newErr(ErrUnknownField, b.Type, name, nil)
	}
	return b.fields[idx].offset, nil
}

// Get returns the current value of a named field, unwrapped from its
// Element.
func (b *Box) Get(name string) (any, error) {
	idx, ok := b.index[name]
	if !ok {
		return nil, newErr(ErrUnknownField, b.Type, name, nil)
	}
	return elementValue(b.fields[idx].el), nil
}

// Set replaces the value held by a named field. Integer kinds (UInt8 through
// UInt64BE) accept any value of the matching Go type that fits their width;
// CharArray, array, byte-slice and parameter-set kinds require the
// replacement to have the same byte length as the current value, since Set
// never recomputes the box's
// byte_length or downstream offsets. Fields whose final length is only
// known at construction time (e.g. esds' audio_config_bytes) should be
// supplied through NewBox's config map instead.
func (b *Box) Set(name string, value any) error {
	idx, ok := b.index[name]
	if !ok {
		return newErr(ErrUnknownField, b.Type, name, nil)
	}
	return setElementValue(b.fields[idx].el, value)
}

// Load refreshes every field's value by reading it back from buf, for
// element kinds that support it. It does not mutate byte_length: the
// schema determines lengths for this static body subset. Variable-length
// bodies are written by the producer via Add and are never parsed.
//
// A field whose ReadFrom fails with NotSupported (ByteArray) is left at its
// constructed length rather than aborting the box: its real length is only
// knowable from a sibling field or the box's total size, both of which are
// resolved by the caller after Load returns (see fixupVariableLengthFields).
func (b *Box) Load(buf []byte, offset int) error {
	for _, f := range b.fields {
		r, ok := f.el.(Reader)
		if !ok {
			continue
		}
		if err := r.ReadFrom(buf, offset+f.offset); err != nil {
			if errors.Is(err, sentinels[ErrNotSupported]) {
				continue
			}
			return newErr(errKindOf(err), b.Type, f.name, err)
		}
	}
	return nil
}

// Copy writes the box's own size field (patched to the current byte_length)
// and then every field's bytes into buf at offset.
func (b *Box) Copy(buf []byte, offset int) error {
	if idx, ok := b.index["size"]; ok {
		if b.byteLength > 0xFFFFFFFF {
			return newErr(ErrValueOutOfRange, b.Type, "size", fmt.Errorf("box exceeds 4 GiB"))
		}
		if err := setElementValue(b.fields[idx].el, uint32(b.byteLength)); err != nil {
			return err
		}
	}
	for _, f := range b.fields {
		if err := f.el.WriteTo(buf, offset+f.offset); err != nil {
			return newErr(errKindOf(err), b.Type, f.name, err)
		}
	}
	return nil
}

// WriteTo lets a *Box serve as an Element, so a Container can hold child
// boxes as ordinary named fields and get their offsets computed for free.
func (b *Box) WriteTo(buf []byte, offset int) error {
	return b.Copy(buf, offset)
}

// Buffer allocates a zero-initialized byte buffer sized to ByteLength and
// serializes the box into it.
func (b *Box) Buffer() ([]byte, error) {
	buf := make([]byte, b.byteLength)
	if err := b.Copy(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// overrideType rewrites the box's recorded type without touching its
// fields. Used only by the parser's opaque fallback path, which constructs
// a Box of the sentinel type and then relabels it with the real four bytes
// read off the wire.
func (b *Box) overrideType(t string) {
	b.Type = t
}

func elementValue(el Element) any {
	switch e := el.(type) {
	case *Empty:
		return nil
	case *CharArray:
		return e.Value
	case *UInt8:
		return e.Value
	case *UInt16BE:
		return e.Value
	case *UInt24BE:
		return e.Value
	case *UInt32BE:
		return e.Value
	case *UInt64BE:
		return e.Value
	case *UInt8Array:
		return e.Values
	case *UInt16BEArray:
		return e.Values
	case *UInt32BEArray:
		return e.Values
	case *ByteArray:
		return e.Value
	case *ParameterSetArray:
		return e.Sets
	case *Box:
		return e
	default:
		return nil
	}
}

func setElementValue(el Element, value any) error {
	switch e := el.(type) {
	case *Empty:
		return newErr(ErrNotSupported, "", "", nil)
	case *CharArray:
		s, ok := value.(string)
		if !ok || len(s) != len(e.Value) {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Value = s
	case *UInt8:
		v, ok := value.(uint8)
		if !ok {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Value = v
	case *UInt16BE:
		v, ok := value.(uint16)
		if !ok {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Value = v
	case *UInt24BE:
		v, ok := value.(uint32)
		if !ok || v > 0xFFFFFF {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Value = v
	case *UInt32BE:
		v, ok := value.(uint32)
		if !ok {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Value = v
	case *UInt64BE:
		v, ok := value.(uint64)
		if !ok {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Value = v
	case *UInt8Array:
		v, ok := value.([]uint8)
		if !ok || len(v) != len(e.Values) {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Values = v
	case *UInt16BEArray:
		v, ok := value.([]uint16)
		if !ok || len(v) != len(e.Values) {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Values = v
	case *UInt32BEArray:
		v, ok := value.([]uint32)
		if !ok || len(v) != len(e.Values) {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Values = v
	case *ByteArray:
		v, ok := value.([]byte)
		if !ok || len(v) != len(e.Value) {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Value = v
	case *ParameterSetArray:
		v, ok := value.([][]byte)
		if !ok || (&ParameterSetArray{Sets: v}).ByteLength() != e.ByteLength() {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		e.Sets = v
	default:
		return newErr(ErrNotSupported, "", "", nil)
	}
	return nil
}

// reloadByteArrayField resizes a ByteArray field to newLen and copies its
// bytes from buf (boxOffset is the absolute offset of this box's own
// start). Because ByteArray's ReadFrom fails with NotSupported, Load leaves
// these fields at their constructed length; the parser calls this explicitly for
// the handful of box types whose trailing blob length is only known from a
// sibling field or the box's total size (ftyp's compatible_brands, esds'
// audio_config_bytes).
func (b *Box) reloadByteArrayField(buf []byte, boxOffset int, name string, newLen int) error {
	idx, ok := b.index[name]
	if !ok {
		return newErr(ErrUnknownField, b.Type, name, nil)
	}
	ba, ok := b.fields[idx].el.(*ByteArray)
	if !ok {
		return newErr(ErrNotSupported, b.Type, name, nil)
	}
	start := boxOffset + b.fields[idx].offset
	if newLen < 0 || start < 0 || start+newLen > len(buf) {
		return newErr(ErrInsufficientBytes, b.Type, name, nil)
	}
	delta := newLen - len(ba.Value)
	ba.Value = make([]byte, newLen)
	copy(ba.Value, buf[start:start+newLen])
	for i := idx + 1; i < len(b.fields); i++ {
		b.fields[i].offset += delta
	}
	b.byteLength += delta
	return nil
}

// errKindOf recovers the original ErrorKind from a wrapped low-level codec
// error, so Load/Copy can re-tag it with the enclosing box/field context
// without losing the original classification.
func errKindOf(err error) ErrorKind {
	if be, ok := err.(*BoxError); ok {
		return be.Kind
	}
	return ErrNotSupported
}
