package mp4

import "fmt"

// TrackKind distinguishes the two media tracks a parse can discover.
type TrackKind uint8

const (
	TrackVideo TrackKind = iota
	TrackAudio
)

func (k TrackKind) String() string {
	if k == TrackAudio {
		return "audio"
	}
	return "video"
}

// MediaTrack is a side effect of ParseStream: encountering an avcC or
// esds box while descending a stsd entry yields one of these, carrying
// enough of the decoder configuration to build a codecs= string for a
// consumer (e.g. an HLS/MSE manifest) without re-parsing the boxes itself.
type MediaTrack struct {
	Kind  TrackKind
	Codec string
}

// videoTrackFromAvcC builds an avc1.PPCCLL codec string from a parsed avcC
// box's profile/compatibility/level fields, per ISO/IEC 14496-15's codec
// parameter convention.
func videoTrackFromAvcC(avcC *Box) (MediaTrack, error) {
	profile, err := avcC.Get("avc_profile_indication")
	if err != nil {
		return MediaTrack{}, err
	}
	compat, err := avcC.Get("profile_compatibility")
	if err != nil {
		return MediaTrack{}, err
	}
	level, err := avcC.Get("avc_level_indication")
	if err != nil {
		return MediaTrack{}, err
	}
	codec := fmt.Sprintf("avc1.%02x%02x%02x", profile.(uint8), compat.(uint8), level.(uint8))
	return MediaTrack{Kind: TrackVideo, Codec: codec}, nil
}

// audioTrackFromEsds builds an mp4a.40.N codec string, where N is the
// AudioObjectType carried in the top 5 bits of the first byte of the
// AudioSpecificConfig embedded in esds' audio_config_bytes.
func audioTrackFromEsds(esds *Box) (MediaTrack, error) {
	raw, err := esds.Get("audio_config_bytes")
	if err != nil {
		return MediaTrack{}, err
	}
	cfg, _ := raw.([]byte)
	if len(cfg) < 1 {
		return MediaTrack{}, newErr(ErrInsufficientBytes, "esds", "audio_config_bytes", nil)
	}
	objectType := cfg[0] >> 3
	codec := fmt.Sprintf("mp4a.40.%d", objectType)
	return MediaTrack{Kind: TrackAudio, Codec: codec}, nil
}
