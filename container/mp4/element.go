package mp4

// Element is a value holder that knows its own wire length and how to write
// itself into a buffer at a byte offset. Some element kinds can also refresh
// their value by reading back out of a buffer.
//
// The set of concrete kinds is closed: Empty, CharArray, UInt8, UInt16BE,
// UInt24BE, UInt32BE, UInt64BE, UInt8Array, UInt16BEArray, UInt32BEArray,
// ByteArray, and ParameterSetArray. *Box also satisfies Element, so a
// container holds its child boxes as ordinary fields.
type Element interface {
	ByteLength() int
	WriteTo(buf []byte, off int) error
}

// Reader is implemented by element kinds that can refresh their value from
// a previously-written buffer. ByteArray and ParameterSetArray implement it
// but are encoder-only: ByteArray's ReadFrom always fails with NotSupported,
// and ParameterSetArray's ReadFrom is a no-op.
type Reader interface {
	ReadFrom(buf []byte, off int) error
}

// Empty zero-fills a fixed number of bytes; used for reserved/padding fields.
type Empty struct {
	Length int
}

func (e *Empty) ByteLength() int { return e.Length }

func (e *Empty) WriteTo(buf []byte, off int) error {
	if off < 0 || off+e.Length > len(buf) {
		return newErr(ErrInsufficientBytes, "", "", nil)
	}
	clear(buf[off : off+e.Length])
	return nil
}

// ReadFrom is a no-op: reserved bytes carry no meaningful value.
func (e *Empty) ReadFrom(buf []byte, off int) error { return nil }

// CharArray stores a fixed ASCII string, such as a box's 4-byte type tag.
type CharArray struct {
	Value string
}

func (e *CharArray) ByteLength() int { return len(e.Value) }

func (e *CharArray) WriteTo(buf []byte, off int) error {
	n := len(e.Value)
	if off < 0 || off+n > len(buf) {
		return newErr(ErrInsufficientBytes, "", "", nil)
	}
	copy(buf[off:off+n], e.Value)
	return nil
}

func (e *CharArray) ReadFrom(buf []byte, off int) error {
	n := len(e.Value)
	if off < 0 || off+n > len(buf) {
		return newErr(ErrInsufficientBytes, "", "", nil)
	}
	e.Value = decodeASCII(buf[off : off+n])
	return nil
}

// UInt8 is a single big-endian byte.
type UInt8 struct{ Value uint8 }

func (e *UInt8) ByteLength() int                  { return 1 }
func (e *UInt8) WriteTo(buf []byte, off int) error { return writeU8(buf, off, e.Value) }
func (e *UInt8) ReadFrom(buf []byte, off int) error {
	v, err := readU8(buf, off)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

// UInt16BE is a 2-byte big-endian unsigned integer.
type UInt16BE struct{ Value uint16 }

func (e *UInt16BE) ByteLength() int                  { return 2 }
func (e *UInt16BE) WriteTo(buf []byte, off int) error { return writeU16BE(buf, off, e.Value) }
func (e *UInt16BE) ReadFrom(buf []byte, off int) error {
	v, err := readU16BE(buf, off)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

// UInt24BE is a 3-byte big-endian unsigned integer, used for FullBox flags.
type UInt24BE struct{ Value uint32 }

func (e *UInt24BE) ByteLength() int                  { return 3 }
func (e *UInt24BE) WriteTo(buf []byte, off int) error { return writeU24BE(buf, off, e.Value) }
func (e *UInt24BE) ReadFrom(buf []byte, off int) error {
	v, err := readU24BE(buf, off)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

// UInt32BE is a 4-byte big-endian unsigned integer.
type UInt32BE struct{ Value uint32 }

func (e *UInt32BE) ByteLength() int                  { return 4 }
func (e *UInt32BE) WriteTo(buf []byte, off int) error { return writeU32BE(buf, off, e.Value) }
func (e *UInt32BE) ReadFrom(buf []byte, off int) error {
	v, err := readU32BE(buf, off)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

// UInt64BE is an 8-byte big-endian unsigned integer, written as two u32
// halves (high, low).
type UInt64BE struct{ Value uint64 }

func (e *UInt64BE) ByteLength() int                  { return 8 }
func (e *UInt64BE) WriteTo(buf []byte, off int) error { return writeU64BE(buf, off, e.Value) }
func (e *UInt64BE) ReadFrom(buf []byte, off int) error {
	v, err := readU64BE(buf, off)
	if err != nil {
		return err
	}
	e.Value = v
	return nil
}

// UInt8Array is a sequence of bytes, one element per byte.
type UInt8Array struct{ Values []uint8 }

func (e *UInt8Array) ByteLength() int { return len(e.Values) }

func (e *UInt8Array) WriteTo(buf []byte, off int) error {
	for i, v := range e.Values {
		if err := writeU8(buf, off+i, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *UInt8Array) ReadFrom(buf []byte, off int) error {
	for i := range e.Values {
		v, err := readU8(buf, off+i)
		if err != nil {
			return err
		}
		e.Values[i] = v
	}
	return nil
}

// UInt16BEArray is a sequence of big-endian u16 values.
type UInt16BEArray struct{ Values []uint16 }

func (e *UInt16BEArray) ByteLength() int { return 2 * len(e.Values) }

func (e *UInt16BEArray) WriteTo(buf []byte, off int) error {
	for i, v := range e.Values {
		if err := writeU16BE(buf, off+2*i, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *UInt16BEArray) ReadFrom(buf []byte, off int) error {
	for i := range e.Values {
		v, err := readU16BE(buf, off+2*i)
		if err != nil {
			return err
		}
		e.Values[i] = v
	}
	return nil
}

// UInt32BEArray is a sequence of big-endian u32 values, used for mvhd/tkhd's
// transformation matrix among others.
type UInt32BEArray struct{ Values []uint32 }

func (e *UInt32BEArray) ByteLength() int { return 4 * len(e.Values) }

func (e *UInt32BEArray) WriteTo(buf []byte, off int) error {
	for i, v := range e.Values {
		if err := writeU32BE(buf, off+4*i, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *UInt32BEArray) ReadFrom(buf []byte, off int) error {
	for i := range e.Values {
		v, err := readU32BE(buf, off+4*i)
		if err != nil {
			return err
		}
		e.Values[i] = v
	}
	return nil
}

// ByteArray is an opaque blob, copied verbatim. Its wire length is only
// known from a sibling field (e.g. esds' decoder_specific_info_length) or
// from the enclosing box's total size (e.g. ftyp's compatible_brands), so
// it cannot resize itself generically the way the fixed-width kinds do.
// ReadFrom always fails with NotSupported; Box.Load recognizes that kind
// specifically and leaves the field at its constructed length rather than
// aborting, and the parser resizes it explicitly afterward via
// reloadByteArrayField once the sibling length (or total box size) is known.
type ByteArray struct{ Value []byte }

func (e *ByteArray) ByteLength() int { return len(e.Value) }

func (e *ByteArray) WriteTo(buf []byte, off int) error {
	n := len(e.Value)
	if off < 0 || off+n > len(buf) {
		return newErr(ErrInsufficientBytes, "", "", nil)
	}
	copy(buf[off:off+n], e.Value)
	return nil
}

// ReadFrom always fails with NotSupported; see the type doc comment.
func (e *ByteArray) ReadFrom(buf []byte, off int) error {
	return newErr(ErrNotSupported, "", "", nil)
}

// ParameterSetArray composes avcC's sequenceParameterSets / pictureParameterSets:
// one byte equal to sizeMask|count, then for each set a u16BE length followed
// by the set's bytes. Its load is a no-op: parameter sets are produced by the
// stream, never reconstructed from a parsed avcC in this library.
type ParameterSetArray struct {
	SizeMask uint8
	Sets     [][]byte
}

func (e *ParameterSetArray) ByteLength() int {
	n := 1
	for _, s := range e.Sets {
		n += 2 + len(s)
	}
	return n
}

func (e *ParameterSetArray) WriteTo(buf []byte, off int) error {
	if len(e.Sets) > 0x1F {
		return newErr(ErrValueOutOfRange, "", "", nil)
	}
	if err := writeU8(buf, off, e.SizeMask|uint8(len(e.Sets))); err != nil {
		return err
	}
	pos := off + 1
	for _, s := range e.Sets {
		if len(s) > 0xFFFF {
			return newErr(ErrValueOutOfRange, "", "", nil)
		}
		if err := writeU16BE(buf, pos, uint16(len(s))); err != nil {
			return err
		}
		pos += 2
		if pos+len(s) > len(buf) {
			return newErr(ErrInsufficientBytes, "", "", nil)
		}
		copy(buf[pos:pos+len(s)], s)
		pos += len(s)
	}
	return nil
}

// ReadFrom is a no-op by design; see the type doc comment.
func (e *ParameterSetArray) ReadFrom(buf []byte, off int) error { return nil }
