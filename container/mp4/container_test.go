package mp4

import (
	"testing"
)

func TestParseStreamDiscoversVideoTrack(t *testing.T) {
	m := NewMovie("isom", []byte("isomiso2avc1mp41"))
	trackID, err := m.AddVideoTrack(VideoTrackConfig{
		Timescale:             1000,
		Width:                 1280,
		Height:                720,
		ProfileIndication:     0x64,
		ProfileCompatibility:  0x00,
		LevelIndication:       0x1f,
		SequenceParameterSets: [][]byte{{0x67, 0x64, 0x00, 0x1f}},
		PictureParameterSets:  [][]byte{{0x68, 0xee, 0x3c, 0x80}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if trackID != 1 {
		t.Fatal("expect first track id to be 1, but:", trackID)
	}

	buf, err := m.BuildInitSegment()
	if err != nil {
		t.Fatal(err)
	}

	_, tracks, err := ParseStream(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expect 1 discovered track, got %d: %+v", len(tracks), tracks)
	}
	if tracks[0].Kind != TrackVideo {
		t.Fatal("expect a video track, but got kind:", tracks[0].Kind)
	}
	if tracks[0].Codec != "avc1.64001f" {
		t.Fatal("expect codec avc1.64001f, but:", tracks[0].Codec)
	}
}

func TestParseStreamDiscoversAudioTrack(t *testing.T) {
	m := NewMovie("isom", []byte("isomiso2mp41"))
	// AudioSpecificConfig for AAC-LC (object type 2), 44.1kHz stereo.
	audioConfig := []byte{0x12, 0x10}
	_, err := m.AddAudioTrack(AudioTrackConfig{
		Timescale:    1000,
		ChannelCount: 2,
		SampleSize:   16,
		SampleRate:   44100,
		AudioConfig:  audioConfig,
	})
	if err != nil {
		t.Fatal(err)
	}

	buf, err := m.BuildInitSegment()
	if err != nil {
		t.Fatal(err)
	}

	_, tracks, err := ParseStream(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expect 1 discovered track, got %d: %+v", len(tracks), tracks)
	}
	if tracks[0].Kind != TrackAudio {
		t.Fatal("expect an audio track, but got kind:", tracks[0].Kind)
	}
	if tracks[0].Codec != "mp4a.40.2" {
		t.Fatal("expect codec mp4a.40.2, but:", tracks[0].Codec)
	}
}

func TestParseStreamFtypRoundTrip(t *testing.T) {
	ftyp, err := NewBox("ftyp", map[string]any{
		"major_brand":       "isom",
		"compatible_brands": []byte("isomiso2avc1mp41"),
	})
	if err != nil {
		t.Fatal(err)
	}
	buf, err := ftyp.Buffer()
	if err != nil {
		t.Fatal(err)
	}

	root, _, err := ParseStream(buf)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := root.Get("box_0")
	if err != nil {
		t.Fatal(err)
	}
	parsedBox := parsed.(*Box)
	brands, err := parsedBox.Get("compatible_brands")
	if err != nil {
		t.Fatal(err)
	}
	if string(brands.([]byte)) != "isomiso2avc1mp41" {
		t.Fatal("expect reloaded compatible_brands to round-trip, but:", string(brands.([]byte)))
	}
}

func TestParseStreamUnknownBoxTypeFallsBackToSentinel(t *testing.T) {
	// A "free" box isn't in the registry: it must be skipped opaquely
	// rather than aborting the parse.
	free := []byte{
		0x00, 0x00, 0x00, 0x0c, 'f', 'r', 'e', 'e',
		0xde, 0xad, 0xbe, 0xef,
	}
	ftyp, err := NewBox("ftyp", nil)
	if err != nil {
		t.Fatal(err)
	}
	ftypBuf, err := ftyp.Buffer()
	if err != nil {
		t.Fatal(err)
	}

	buf := append(append([]byte{}, free...), ftypBuf...)

	root, _, err := ParseStream(buf)
	if err != nil {
		t.Fatal(err)
	}
	first, err := root.Get("box_0")
	if err != nil {
		t.Fatal(err)
	}
	if first.(*Box).Type != "free" {
		t.Fatal("expect opaque box to be relabeled with its real type, but:", first.(*Box).Type)
	}
	second, err := root.Get("box_1")
	if err != nil {
		t.Fatal(err)
	}
	if second.(*Box).Type != "ftyp" {
		t.Fatal("expect the following box to still parse correctly, but:", second.(*Box).Type)
	}
}

func TestBuildMediaSegmentTrunDataOffset(t *testing.T) {
	buf, err := BuildMediaSegment(Fragment{
		TrackID:        1,
		SequenceNumber: 1,
		BaseDecodeTime: 0,
		SampleDuration: 33,
		Payload:        []byte{1, 2, 3, 4, 5},
	})
	if err != nil {
		t.Fatal(err)
	}

	root, _, err := ParseStream(buf)
	if err != nil {
		t.Fatal(err)
	}
	moofAny, err := root.Get("box_0")
	if err != nil {
		t.Fatal(err)
	}
	moof := moofAny.(*Box)
	trafAny, err := moof.Get("box_1")
	if err != nil {
		t.Fatal(err)
	}
	traf := trafAny.(*Box)
	trunAny, err := traf.Get("box_2")
	if err != nil {
		t.Fatal(err)
	}
	trun := trunAny.(*Box)

	dataOffset, err := trun.Get("data_offset")
	if err != nil {
		t.Fatal(err)
	}
	if dataOffset.(uint32) != uint32(moof.ByteLength()+8) {
		t.Fatal("expect trun.data_offset to equal moof.byte_length+8, but:", dataOffset)
	}
}
