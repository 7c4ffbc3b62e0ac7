package mp4

// VideoTrackConfig describes the AVC track to embed in an init segment.
type VideoTrackConfig struct {
	Timescale             uint32
	Width, Height         uint16
	ProfileIndication     uint8
	ProfileCompatibility  uint8
	LevelIndication       uint8
	SequenceParameterSets [][]byte
	PictureParameterSets  [][]byte
}

// AudioTrackConfig describes the AAC track to embed in an init segment.
type AudioTrackConfig struct {
	Timescale    uint32
	ChannelCount uint16
	SampleSize   uint16
	SampleRate   uint32
	// AudioConfig is the full AudioSpecificConfig blob; its first byte's top
	// 5 bits carry the AudioObjectType that ParseStream later surfaces
	// in a MediaTrack's codec string.
	AudioConfig []byte
	MaxBitrate  uint32
	AvgBitrate  uint32
}

// Movie accumulates tracks and assigns them sequential track IDs, mirroring
// how a producer builds up a moov one AddXTrack call at a time before
// asking for the finished init segment.
type Movie struct {
	majorBrand       string
	compatibleBrands []byte
	nextTrackID      uint32
	traks            []*Container
	trexes           []*Box
}

// NewMovie starts a movie with the given ftyp major brand and compatible
// brand list (each 4 bytes, concatenated).
func NewMovie(majorBrand string, compatibleBrands []byte) *Movie {
	return &Movie{
		majorBrand:       majorBrand,
		compatibleBrands: compatibleBrands,
		nextTrackID:      1,
	}
}

// AddVideoTrack appends an AVC video track and returns its assigned track ID.
func (m *Movie) AddVideoTrack(cfg VideoTrackConfig) (uint32, error) {
	trackID := m.nextTrackID
	m.nextTrackID++

	avcC, err := NewBox("avcC", map[string]any{
		"avc_profile_indication": cfg.ProfileIndication,
		"profile_compatibility":  cfg.ProfileCompatibility,
		"avc_level_indication":   cfg.LevelIndication,
	})
	if err != nil {
		return 0, err
	}
	avcC.fields[avcC.index["sequence_parameter_sets"]].el.(*ParameterSetArray).Sets = cfg.SequenceParameterSets
	avcC.fields[avcC.index["picture_parameter_sets"]].el.(*ParameterSetArray).Sets = cfg.PictureParameterSets
	avcC.byteLength = recomputeByteLength(avcC)

	avc1, err := NewContainer("avc1", map[string]any{"width": cfg.Width, "height": cfg.Height})
	if err != nil {
		return 0, err
	}
	if err := avc1.Append(avcC); err != nil {
		return 0, err
	}

	trak, err := m.buildTrak(trackID, cfg.Timescale, "vide", "VideoHandler\x00", avc1.Box, vmhdConfig)
	if err != nil {
		return 0, err
	}
	m.traks = append(m.traks, trak)

	trex, err := NewBox("trex", map[string]any{"track_id": trackID})
	if err != nil {
		return 0, err
	}
	m.trexes = append(m.trexes, trex)

	return trackID, nil
}

// AddAudioTrack appends an AAC audio track and returns its assigned track ID.
func (m *Movie) AddAudioTrack(cfg AudioTrackConfig) (uint32, error) {
	trackID := m.nextTrackID
	m.nextTrackID++

	esds, err := NewBox("esds", map[string]any{
		"max_bitrate":                  cfg.MaxBitrate,
		"avg_bitrate":                  cfg.AvgBitrate,
		"decoder_specific_info_length": uint8(len(cfg.AudioConfig)),
		"audio_config_bytes":           cfg.AudioConfig,
	})
	if err != nil {
		return 0, err
	}

	mp4a, err := NewContainer("mp4a", map[string]any{
		"channelcount": cfg.ChannelCount,
		"samplesize":   cfg.SampleSize,
		"samplerate":   cfg.SampleRate << 16,
	})
	if err != nil {
		return 0, err
	}
	if err := mp4a.Append(esds); err != nil {
		return 0, err
	}

	trak, err := m.buildTrak(trackID, cfg.Timescale, "soun", "SoundHandler\x00", mp4a.Box, smhdConfig)
	if err != nil {
		return 0, err
	}
	m.traks = append(m.traks, trak)

	trex, err := NewBox("trex", map[string]any{"track_id": trackID})
	if err != nil {
		return 0, err
	}
	m.trexes = append(m.trexes, trex)

	return trackID, nil
}

func vmhdConfig() (string, map[string]any) { return "vmhd", nil }
func smhdConfig() (string, map[string]any) { return "smhd", nil }

func (m *Movie) buildTrak(trackID, timescale uint32, handlerType, handlerName string, sampleEntry *Box, mediaHeader func() (string, map[string]any)) (*Container, error) {
	tkhd, err := NewBox("tkhd", map[string]any{"track_id": trackID})
	if err != nil {
		return nil, err
	}
	mdhd, err := NewBox("mdhd", map[string]any{"timescale": timescale})
	if err != nil {
		return nil, err
	}
	hdlr, err := NewBox("hdlr", map[string]any{"handler_type": handlerType, "name": handlerName})
	if err != nil {
		return nil, err
	}

	mhdType, mhdConfig := mediaHeader()
	mhd, err := NewBox(mhdType, mhdConfig)
	if err != nil {
		return nil, err
	}

	urlBox, err := NewBox("url ", nil)
	if err != nil {
		return nil, err
	}
	dref, err := NewContainer("dref", nil, urlBox)
	if err != nil {
		return nil, err
	}
	dinf, err := NewContainer("dinf", nil, dref.Box)
	if err != nil {
		return nil, err
	}

	stsd, err := NewContainer("stsd", nil, sampleEntry)
	if err != nil {
		return nil, err
	}
	stbl, err := NewContainer("stbl", nil, stsd.Box)
	if err != nil {
		return nil, err
	}

	minf, err := NewContainer("minf", nil, mhd, dinf.Box, stbl.Box)
	if err != nil {
		return nil, err
	}
	mdia, err := NewContainer("mdia", nil, mdhd, hdlr, minf.Box)
	if err != nil {
		return nil, err
	}
	trak, err := NewContainer("trak", nil, tkhd, mdia.Box)
	if err != nil {
		return nil, err
	}
	return trak, nil
}

// BuildInitSegment assembles the ftyp+moov pair a player loads once before
// any media segment.
func (m *Movie) BuildInitSegment() ([]byte, error) {
	ftyp, err := NewBox("ftyp", map[string]any{
		"major_brand":       m.majorBrand,
		"compatible_brands": m.compatibleBrands,
	})
	if err != nil {
		return nil, err
	}

	mvhd, err := NewBox("mvhd", map[string]any{"next_track_id": m.nextTrackID})
	if err != nil {
		return nil, err
	}

	children := []*Box{mvhd}
	for _, trak := range m.traks {
		children = append(children, trak.Box)
	}

	mvex, err := NewContainer("mvex", nil, m.trexes...)
	if err != nil {
		return nil, err
	}
	children = append(children, mvex.Box)

	moov, err := NewContainer("moov", nil, children...)
	if err != nil {
		return nil, err
	}

	root, err := NewContainer(fileBoxType, nil, ftyp, moov.Box)
	if err != nil {
		return nil, err
	}
	return root.Buffer()
}

// Fragment is one moof+mdat pair: a single track's samples for one fMP4
// media segment, addressed by the sequence number the player expects to
// see increment monotonically.
type Fragment struct {
	TrackID        uint32
	SequenceNumber uint32
	BaseDecodeTime uint64
	SampleFlags    uint32
	SampleDuration uint32
	Payload        []byte
}

// BuildMediaSegment assembles the moof+mdat pair for one fragment. trun's
// data_offset is computed relative to the moof's own start, per the
// convention noted in the teacher's fmp4 package: it equals moof.size + 8
// (mdat's own header) so a player can seek straight to the sample bytes.
func BuildMediaSegment(f Fragment) ([]byte, error) {
	mfhd, err := NewBox("mfhd", map[string]any{"sequence_number": f.SequenceNumber})
	if err != nil {
		return nil, err
	}
	tfhd, err := NewBox("tfhd", map[string]any{"track_id": f.TrackID, "default_sample_flags": f.SampleFlags})
	if err != nil {
		return nil, err
	}
	tfdt, err := NewBox("tfdt", map[string]any{"base_media_decode_time": f.BaseDecodeTime})
	if err != nil {
		return nil, err
	}
	trun, err := NewBox("trun", map[string]any{
		"sample_size":     uint32(len(f.Payload)),
		"sample_duration": f.SampleDuration,
	})
	if err != nil {
		return nil, err
	}

	traf, err := NewContainer("traf", nil, tfhd, tfdt, trun)
	if err != nil {
		return nil, err
	}
	moof, err := NewContainer("moof", nil, mfhd, traf.Box)
	if err != nil {
		return nil, err
	}

	dataOffset := moof.ByteLength() + 8
	if err := trun.Set("data_offset", uint32(dataOffset)); err != nil {
		return nil, err
	}

	mdat, err := NewBox("mdat", nil)
	if err != nil {
		return nil, err
	}
	if err := mdat.Add("payload", &ByteArray{Value: f.Payload}); err != nil {
		return nil, err
	}

	root, err := NewContainer(fileBoxType, nil, moof.Box, mdat)
	if err != nil {
		return nil, err
	}
	return root.Buffer()
}

func recomputeByteLength(b *Box) int {
	total := 0
	for i := range b.fields {
		b.fields[i].offset = total
		total += b.fields[i].el.ByteLength()
	}
	return total
}
