// Command fmp4ws is a minimal demo binary: it accepts a websocket
// connection and streams a fragmented MP4 (init segment, then a moof+mdat
// pair every mp4.fragment_duration_ms, one second by default) to whatever's
// on the other end — a browser's
// MediaSource, ffplay, or a test harness. It owns no capture pipeline:
// production samples would come from an RTSP/RTMP collaborator upstream of
// this package, which is out of this library's scope.
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chinasarft/gofmp4/config"
	"github.com/chinasarft/gofmp4/container/mp4"
	"github.com/chinasarft/gofmp4/mylog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func streamHandler(conf *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			mylog.Error().Err(err).Msg("fmp4ws: upgrade websocket failed")
			return
		}
		defer conn.Close()

		session, err := mp4.NewSession()
		if err != nil {
			mylog.Error().Err(err).Msg("fmp4ws: could not start session")
			return
		}
		session.Debugf("client connected from %s", r.RemoteAddr)

		movie := mp4.NewMovie(conf.Mp4.MajorBrand, conf.Mp4.CompatibleBrandBytes())
		videoTrackID, err := movie.AddVideoTrack(mp4.VideoTrackConfig{
			Timescale:         conf.Mp4.Timescale,
			Width:             1280,
			Height:            720,
			ProfileIndication: 0x64,
			LevelIndication:   0x1f,
		})
		if err != nil {
			session.Warnf("could not add video track: %v", err)
			return
		}

		initSegment, err := movie.BuildInitSegment()
		if err != nil {
			session.Warnf("could not build init segment: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, initSegment); err != nil {
			session.Warnf("could not send init segment: %v", err)
			return
		}

		ticker := time.NewTicker(time.Duration(conf.Mp4.FragmentDurationMs) * time.Millisecond)
		defer ticker.Stop()

		var sequenceNumber uint32
		var decodeTime uint64
		for range ticker.C {
			sequenceNumber++
			segment, err := mp4.BuildMediaSegment(mp4.Fragment{
				TrackID:        videoTrackID,
				SequenceNumber: sequenceNumber,
				BaseDecodeTime: decodeTime,
				SampleDuration: conf.Mp4.Timescale / 30,
				Payload:        []byte{},
			})
			if err != nil {
				session.Warnf("could not build media segment: %v", err)
				return
			}
			decodeTime += uint64(conf.Mp4.Timescale / 30)

			if err := conn.WriteMessage(websocket.BinaryMessage, segment); err != nil {
				session.Debugf("client disconnected: %v", err)
				return
			}
		}
	}
}

func main() {
	confPath := flag.String("conf", "fmp4ws.json", "path to the JSON config file")
	flag.Parse()

	conf, err := config.LoadConfig(*confPath)
	if err != nil {
		mylog.Error().Err(err).Msg("fmp4ws: could not load config")
		return
	}
	if err := mylog.UpdateConfig(&conf.Log); err != nil {
		mylog.Error().Err(err).Msg("fmp4ws: could not apply log config")
		return
	}

	http.HandleFunc("/stream", streamHandler(conf))
	mylog.Info().Str("addr", conf.Api.Addr).Msg("fmp4ws: listening")
	if err := http.ListenAndServe(conf.Api.Addr, nil); err != nil {
		mylog.Error().Err(err).Msg("fmp4ws: server exited")
	}
}
