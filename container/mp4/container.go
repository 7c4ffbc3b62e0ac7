package mp4

import (
	"fmt"

	"github.com/chinasarft/gofmp4/mylog"
)

// Container specializes Box by appending child boxes as ordinary ordered
// fields named box_0, box_1, ... Because *Box itself implements Element,
// the generic offset/byte_length bookkeeping in Box.Add handles children
// for free; Container only owns the naming convention and the recursive
// descent parser.
type Container struct {
	*Box
	childCount int
}

// NewContainer constructs the named box and appends the given children in
// order.
func NewContainer(boxType string, config map[string]any, children ...*Box) (*Container, error) {
	b, err := NewBox(boxType, config)
	if err != nil {
		return nil, err
	}
	c := &Container{Box: b}
	if err := c.Append(children...); err != nil {
		return nil, err
	}
	return c, nil
}

// Append adds children after all existing fields/children, in order.
func (c *Container) Append(children ...*Box) error {
	for _, child := range children {
		name := fmt.Sprintf("box_%d", c.childCount)
		if err := c.Box.Add(name, child); err != nil {
			return err
		}
		c.childCount++
	}
	return nil
}

// ParseStream walks a flat top-level sequence of boxes (e.g. ftyp followed
// by moov for an init segment, or moof followed by mdat for a media
// segment) under the synthetic "file" root, and returns every video/audio
// MediaTrack discovered along the way.
func ParseStream(buf []byte) (*Container, []MediaTrack, error) {
	root, err := NewContainer(fileBoxType, nil)
	if err != nil {
		return nil, nil, err
	}

	var tracks []MediaTrack
	pos := 0
	for pos < len(buf) {
		child, consumed, childTracks, err := parseBoxAt(buf, pos)
		if err != nil {
			return nil, nil, err
		}
		if err := root.Append(child); err != nil {
			return nil, nil, err
		}
		tracks = append(tracks, childTracks...)
		pos += consumed
	}
	return root, tracks, nil
}

// warnOnVersionMismatch logs, but never fails, when a parsed FullBox carries
// a version other than the one this schema was written against. Most
// version 1 extensions (64-bit tfdt/mvhd durations, say) are backward
// compatible enough for this library's fixed-width fields to still line up;
// an operator watching logs is better served than an aborted parse.
func warnOnVersionMismatch(boxType string, expected uint8, b *Box) {
	actual, err := b.Get("version")
	if err != nil {
		return
	}
	if actual.(uint8) != expected {
		mylog.VersionMismatch(boxType, expected, actual.(uint8))
	}
}

// fixupVariableLengthFields resizes the two leaf box types whose trailing
// ByteArray body isn't fixed-length on the wire, using information only
// available once the box's other fields (or its total size) are known.
func fixupVariableLengthFields(b *Box, buf []byte, offset, consumed int) error {
	switch b.Type {
	case "ftyp":
		base := b.ByteLength() - len("mp41")
		brandsLen := consumed - base
		if brandsLen < 0 {
			return newErr(ErrMalformedSize, "ftyp", "compatible_brands", nil)
		}
		return b.reloadByteArrayField(buf, offset, "compatible_brands", brandsLen)
	case "esds":
		raw, err := b.Get("decoder_specific_info_length")
		if err != nil {
			return err
		}
		return b.reloadByteArrayField(buf, offset, "audio_config_bytes", int(raw.(uint8)))
	default:
		return nil
	}
}

// parseBoxAt reads one box (header, and recursively its children if it is
// a container) starting at offset, and reports how many bytes it occupies
// on the wire so the caller can advance past it. Boxes of a type absent
// from the registry are not an error: they are captured opaquely as a
// "...." sentinel box relabeled with the real type and skipped whole, so an
// unrecognized vendor box never aborts a parse.
func parseBoxAt(buf []byte, offset int) (*Box, int, []MediaTrack, error) {
	size, err := readU32BE(buf, offset)
	if err != nil {
		return nil, 0, nil, newErr(ErrInsufficientBytes, "", "", err)
	}
	if size == 1 {
		return nil, 0, nil, newErr(ErrMalformedSize, "", "", fmt.Errorf("64-bit largesize boxes are not supported"))
	}
	if offset+8 > len(buf) {
		return nil, 0, nil, newErr(ErrInsufficientBytes, "", "", nil)
	}
	boxType := decodeASCII(buf[offset+4 : offset+8])

	consumed := int(size)
	if size == 0 {
		consumed = len(buf) - offset
	}
	if consumed < 8 || offset+consumed > len(buf) {
		return nil, 0, nil, newErr(ErrMalformedSize, boxType, "", nil)
	}

	spec, known := registry[boxType]
	if !known {
		b, err := NewBox(sentinelBoxType, nil)
		if err != nil {
			return nil, 0, nil, err
		}
		b.overrideType(boxType)
		if err := b.Set("size", uint32(consumed)); err != nil {
			return nil, 0, nil, err
		}
		return b, consumed, nil, nil
	}

	b, err := NewBox(boxType, nil)
	if err != nil {
		return nil, 0, nil, err
	}
	var expectedVersion uint8
	if spec.header == headerFullBox {
		v, _ := b.Get("version")
		expectedVersion = v.(uint8)
	}
	if err := b.Load(buf, offset); err != nil {
		return nil, 0, nil, err
	}
	if spec.header == headerFullBox {
		warnOnVersionMismatch(boxType, expectedVersion, b)
	}
	if err := fixupVariableLengthFields(b, buf, offset, consumed); err != nil {
		return nil, 0, nil, err
	}

	if !spec.isContainer {
		return b, consumed, nil, nil
	}

	c := &Container{Box: b}
	var tracks []MediaTrack
	childPos := offset + b.ByteLength()
	childEnd := offset + consumed
	for childPos < childEnd {
		child, childConsumed, childTracks, err := parseBoxAt(buf, childPos)
		if err != nil {
			return nil, 0, nil, err
		}
		if err := c.Append(child); err != nil {
			return nil, 0, nil, err
		}
		tracks = append(tracks, childTracks...)

		switch child.Type {
		case "avcC":
			track, err := videoTrackFromAvcC(child)
			if err != nil {
				return nil, 0, nil, err
			}
			tracks = append(tracks, track)
		case "esds":
			track, err := audioTrackFromEsds(child)
			if err != nil {
				return nil, 0, nil, err
			}
			tracks = append(tracks, track)
		}

		childPos += childConsumed
	}

	return c.Box, consumed, tracks, nil
}
