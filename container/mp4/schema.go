package mp4

// headerKind selects which generic header fields a box carries ahead of its
// declared body: none (the synthetic "file" root), a plain Box header
// (size+type), or a FullBox header (size+type+version+flags).
type headerKind uint8

const (
	headerNone headerKind = iota
	headerBox
	headerFullBox
)

// elementKind tags which Element constructor a fieldSpec's default value
// should be instantiated with.
type elementKind uint8

const (
	kEmpty elementKind = iota
	kChar
	kU8
	kU16
	kU24
	kU32
	kU64
	kU8Arr
	kU16Arr
	kU32Arr
	kBytes
	kParamSet
)

// fieldSpec declares one field of a box body: its name, element kind, and
// default value. Default values are represented as plain Go literals
// (int, string, []byte, ...) per kind, merged against caller overrides at
// construction time.
type fieldSpec struct {
	name string
	kind elementKind
	def  any
}

// boxSpec is the static, read-only description of one box type: its header
// shape, whether it is a container, its body field list, and any default
// header overrides (version/flags) that differ from the generic zero
// default.
type boxSpec struct {
	header      headerKind
	isContainer bool
	body        []fieldSpec
	config      map[string]any
}

// sentinel box type reserved for opaque parse fallback.
const sentinelBoxType = "...."

// fileBoxType is the synthetic root used only to drive the top-level parse
// loop over a flat sequence of boxes (e.g. ftyp+moov, or moof+mdat). It is
// never written to the wire.
const fileBoxType = "file"

var registry = map[string]boxSpec{
	fileBoxType: {header: headerNone, isContainer: true},

	"ftyp": {
		header: headerBox,
		body: []fieldSpec{
			{"major_brand", kChar, "isom"},
			{"minor_version", kU32, uint32(0)},
			{"compatible_brands", kBytes, []byte("mp41")},
		},
	},

	"moov": {header: headerBox, isContainer: true},

	"mvhd": {
		header: headerFullBox,
		body: []fieldSpec{
			{"creation_time", kU32, uint32(0)},
			{"modification_time", kU32, uint32(0)},
			{"timescale", kU32, uint32(1000)},
			{"duration", kU32, uint32(0xFFFFFFFF)},
			{"rate", kU32, uint32(0x00010000)},
			{"volume", kU16, uint16(0x0100)},
			{"reserved1", kEmpty, 10},
			{"matrix", kU32Arr, unityMatrix()},
			{"pre_defined", kEmpty, 24},
			{"next_track_id", kU32, uint32(0)},
		},
	},

	"trak": {header: headerBox, isContainer: true},

	"tkhd": {
		header: headerFullBox,
		config: map[string]any{"flags": uint32(0x000003)},
		body: []fieldSpec{
			{"creation_time", kU32, uint32(0)},
			{"modification_time", kU32, uint32(0)},
			{"track_id", kU32, uint32(1)},
			{"reserved1", kEmpty, 4},
			{"duration", kU32, uint32(0)},
			{"reserved2", kEmpty, 8},
			{"layer", kU16, uint16(0)},
			{"alternate_group", kU16, uint16(0)},
			{"volume", kU16, uint16(0x0100)},
			{"reserved3", kEmpty, 2},
			{"matrix", kU32Arr, unityMatrix()},
			{"width", kU32, uint32(0)},
			{"height", kU32, uint32(0)},
		},
	},

	"mdia": {header: headerBox, isContainer: true},

	"mdhd": {
		header: headerFullBox,
		body: []fieldSpec{
			{"creation_time", kU32, uint32(0)},
			{"modification_time", kU32, uint32(0)},
			{"timescale", kU32, uint32(1000)},
			{"duration", kU32, uint32(0)},
			{"language", kU16, uint16(0x55C4)}, // "und"
			{"pre_defined", kU16, uint16(0)},
		},
	},

	"hdlr": {
		header: headerFullBox,
		body: []fieldSpec{
			{"pre_defined", kU32, uint32(0)},
			{"handler_type", kChar, "vide"},
			{"reserved", kEmpty, 12},
			{"name", kChar, "VideoHandler\x00"},
		},
	},

	"minf": {header: headerBox, isContainer: true},

	"vmhd": {
		header: headerFullBox,
		config: map[string]any{"flags": uint32(0x000001)},
		body: []fieldSpec{
			{"graphicsmode", kU16, uint16(0)},
			{"opcolor", kU16Arr, []uint16{0, 0, 0}},
		},
	},

	"smhd": {
		header: headerFullBox,
		body: []fieldSpec{
			{"balance", kU16, uint16(0)},
			{"reserved", kEmpty, 2},
		},
	},

	"dinf": {header: headerBox, isContainer: true},

	"dref": {
		header:      headerFullBox,
		isContainer: true,
		body: []fieldSpec{
			{"entry_count", kU32, uint32(1)},
		},
	},

	"url ": {
		header: headerFullBox,
		config: map[string]any{"flags": uint32(0x000001)},
	},

	"stbl": {header: headerBox, isContainer: true},

	"stsd": {
		header:      headerFullBox,
		isContainer: true,
		body: []fieldSpec{
			{"entry_count", kU32, uint32(1)},
		},
	},

	"avc1": {
		header:      headerBox,
		isContainer: true,
		body: []fieldSpec{
			{"reserved1", kEmpty, 6},
			{"data_reference_index", kU16, uint16(1)},
			{"pre_defined1", kU16, uint16(0)},
			{"reserved2", kEmpty, 2},
			{"pre_defined2", kU32Arr, []uint32{0, 0, 0}},
			{"width", kU16, uint16(0)},
			{"height", kU16, uint16(0)},
			{"horizresolution", kU32, uint32(0x00480000)},
			{"vertresolution", kU32, uint32(0x00480000)},
			{"reserved3", kEmpty, 4},
			{"frame_count", kU16, uint16(1)},
			{"compressorname", kEmpty, 32},
			{"depth", kU16, uint16(0x0018)},
			{"pre_defined3", kU16, uint16(0xFFFF)},
		},
	},

	"avcC": {
		header: headerBox,
		body: []fieldSpec{
			{"configuration_version", kU8, uint8(1)},
			{"avc_profile_indication", kU8, uint8(0)},
			{"profile_compatibility", kU8, uint8(0)},
			{"avc_level_indication", kU8, uint8(0)},
			{"length_size_minus_one", kU8, uint8(0xFF)},
			{"sequence_parameter_sets", kParamSet, uint8(0xE0)},
			{"picture_parameter_sets", kParamSet, uint8(0x00)},
		},
	},

	"mp4a": {
		header:      headerBox,
		isContainer: true,
		body: []fieldSpec{
			{"reserved1", kEmpty, 6},
			{"data_reference_index", kU16, uint16(1)},
			{"reserved2", kEmpty, 8},
			{"channelcount", kU16, uint16(2)},
			{"samplesize", kU16, uint16(16)},
			{"pre_defined", kU16, uint16(0)},
			{"reserved3", kEmpty, 2},
			{"samplerate", kU32, uint32(0)},
		},
	},

	// esds' body is not generic-container framing: it is the flat
	// ES_Descriptor/DecoderConfigDescriptor/DecoderSpecificInfo/
	// SLConfigDescriptor layout pinned in SPEC_FULL.md §4.7.
	"esds": {
		header: headerFullBox,
		body: []fieldSpec{
			{"es_descriptor_tag", kU8, uint8(0x03)},
			{"es_descriptor_length", kU8, uint8(25)},
			{"es_id", kU16, uint16(0)},
			{"stream_dependence_flags", kU8, uint8(0)},
			{"decoder_config_descriptor_tag", kU8, uint8(0x04)},
			{"decoder_config_descriptor_length", kU8, uint8(15)},
			{"object_type_indication", kU8, uint8(0x40)},
			{"stream_type", kU8, uint8(0x15)},
			{"buffer_size_db", kU24, uint32(0)},
			{"max_bitrate", kU32, uint32(0)},
			{"avg_bitrate", kU32, uint32(0)},
			{"decoder_specific_info_tag", kU8, uint8(0x05)},
			{"decoder_specific_info_length", kU8, uint8(0)},
			{"audio_config_bytes", kBytes, []byte{}},
			{"sl_config_descriptor_tag", kU8, uint8(0x06)},
			{"sl_config_descriptor_length", kU8, uint8(1)},
			{"sl_predefined", kU8, uint8(0x02)},
		},
	},

	"mvex": {header: headerBox, isContainer: true},

	"mehd": {
		header: headerFullBox,
		body: []fieldSpec{
			{"fragment_duration", kU32, uint32(0)},
		},
	},

	"trex": {
		header: headerFullBox,
		body: []fieldSpec{
			{"track_id", kU32, uint32(0)},
			{"default_sample_description_index", kU32, uint32(1)},
			{"default_sample_duration", kU32, uint32(0)},
			{"default_sample_size", kU32, uint32(0)},
			{"default_sample_flags", kU32, uint32(0)},
		},
	},

	"moof": {header: headerBox, isContainer: true},

	"mfhd": {
		header: headerFullBox,
		body: []fieldSpec{
			{"sequence_number", kU32, uint32(0)},
		},
	},

	"traf": {header: headerBox, isContainer: true},

	"tfhd": {
		header: headerFullBox,
		config: map[string]any{"flags": uint32(0x000020)},
		body: []fieldSpec{
			{"track_id", kU32, uint32(1)},
			{"default_sample_flags", kU32, uint32(0)},
		},
	},

	"tfdt": {
		header: headerFullBox,
		config: map[string]any{"version": uint8(1)},
		body: []fieldSpec{
			{"base_media_decode_time", kU64, uint64(0)},
		},
	},

	"trun": {
		header: headerFullBox,
		config: map[string]any{"flags": uint32(0x000305)},
		body: []fieldSpec{
			{"sample_count", kU32, uint32(1)},
			{"data_offset", kU32, uint32(0)},
			{"first_sample_flags", kU32, uint32(0)},
			{"sample_duration", kU32, uint32(0)},
			{"sample_size", kU32, uint32(0)},
		},
	},

	"mdat": {header: headerBox},

	"edts": {header: headerBox, isContainer: true},

	"elst": {
		header: headerFullBox,
		body: []fieldSpec{
			{"entry_count", kU32, uint32(1)},
			{"segment_duration", kU32, uint32(0)},
			{"media_time", kU32, uint32(0xFFFFFFFF)},
			{"media_rate_integer", kU16, uint16(1)},
			{"media_rate_fraction", kU16, uint16(0)},
		},
	},

	sentinelBoxType: {header: headerBox},
}

func unityMatrix() []uint32 {
	return []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}
}

// newElement instantiates the Element for a field, given its kind and a
// resolved value (schema default or caller override).
func newElement(kind elementKind, value any) (Element, error) {
	switch kind {
	case kEmpty:
		return &Empty{Length: value.(int)}, nil
	case kChar:
		return &CharArray{Value: value.(string)}, nil
	case kU8:
		return &UInt8{Value: value.(uint8)}, nil
	case kU16:
		return &UInt16BE{Value: value.(uint16)}, nil
	case kU24:
		return &UInt24BE{Value: value.(uint32)}, nil
	case kU32:
		return &UInt32BE{Value: value.(uint32)}, nil
	case kU64:
		return &UInt64BE{Value: value.(uint64)}, nil
	case kU8Arr:
		return &UInt8Array{Values: value.([]uint8)}, nil
	case kU16Arr:
		return &UInt16BEArray{Values: value.([]uint16)}, nil
	case kU32Arr:
		return &UInt32BEArray{Values: value.([]uint32)}, nil
	case kBytes:
		return &ByteArray{Value: value.([]byte)}, nil
	case kParamSet:
		return &ParameterSetArray{SizeMask: value.(uint8)}, nil
	default:
		return nil, newErr(ErrNotSupported, "", "", nil)
	}
}
