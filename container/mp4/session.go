package mp4

import (
	"github.com/satori/go.uuid"

	"github.com/chinasarft/gofmp4/mylog"
)

// Session tags one producer's worth of log lines (an RTSP/RTMP ingest, a
// single fMP4 writer instance) with a correlation ID, the way the teacher's
// websocket signaling layer tags each connection's logs with a UUID.
type Session struct {
	ID string
}

// NewSession mints a session with a fresh correlation ID and logs its
// start, mirroring the teacher's per-connection session bookkeeping.
func NewSession() (*Session, error) {
	u := uuid.NewV4()
	s := &Session{ID: u.String()}
	mylog.Debug().Str("session", s.ID).Msg("mp4: session started")
	return s, nil
}

// Debugf emits a debug-level log line tagged with this session's ID.
func (s *Session) Debugf(format string, args ...any) {
	mylog.Debug().Str("session", s.ID).Msgf(format, args...)
}

// Warnf emits a warn-level log line tagged with this session's ID.
func (s *Session) Warnf(format string, args ...any) {
	mylog.Warn().Str("session", s.ID).Msgf(format, args...)
}
