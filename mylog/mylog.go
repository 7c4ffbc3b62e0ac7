package mylog

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/chinasarft/gofmp4/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type FileTarget struct {
	file     *os.File
	filePath string
	c        chan struct{}
	w        *bufio.Writer
	l        zerolog.Logger
}

var fileTarget FileTarget

func init() {
	fileTarget.c = make(chan struct{}, 2)
	fileTarget.setOutput(os.Stdout, false)
}

func UpdateConfig(conf *config.LogConfig) error {
	switch conf.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		break
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		break
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
		break
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		break
	}

	if conf.Target.Type == "stdout" {
		fileTarget.setOutput(os.Stdout, conf.Position)
	} else if conf.Target.Type == "file" {
		f, err := os.OpenFile(conf.Target.Name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0660)
		if err != nil {
			return err
		}

		fileTarget.close()

		w := bufio.NewWriter(f)
		fileTarget.setOutput(w, conf.Position)

		fileTarget.start(w)
	}

	return nil
}

func (f *FileTarget) close() {

	if f.file != nil {
		f.c <- struct{}{}
		return
	}
}

func (f *FileTarget) start(w *bufio.Writer) {

	ticker := time.NewTicker(10 * time.Second)
	f.c <- struct{}{}
	go func(w *bufio.Writer) {
		flag := false
		for {
			select {
			case <-ticker.C:
				f.w.Flush()
			case <-f.c:
				if flag == false {
					f.w = w
				} else {
					f.w.Flush()
					f.file.Close()
					f.file = nil
					return
				}
			}
		}
	}(w)

	return
}

func (f *FileTarget) setOutput(w io.Writer, pos bool) {
	fileTarget.l = log.Output(w)
	if pos {
		fileTarget.l = fileTarget.l.With().Caller().Logger()
	}

}

func Debug() *zerolog.Event {
	return fileTarget.l.Debug()
}

func Info() *zerolog.Event {
	return fileTarget.l.Info()
}

func Warn() *zerolog.Event {
	return fileTarget.l.Warn()
}

func Error() *zerolog.Event {
	return fileTarget.l.Error()
}

// VersionMismatch logs the one warning the box parser emits when a parsed
// FullBox's version byte differs from the schema it was built against. It
// is non-fatal: most version 1 extensions don't actually break a
// fixed-width field read, so this is a log line an operator can watch for
// rather than a reason to abort the parse.
func VersionMismatch(boxType string, expectedVersion, actualVersion uint8) {
	fileTarget.l.Warn().
		Str("box", boxType).
		Uint8("expected_version", expectedVersion).
		Uint8("actual_version", actualVersion).
		Msg("mp4: box version mismatch")
}

// BoxConstructionFailed logs a box that could not be built or parsed,
// tagging which field triggered it so an operator can spot a malformed
// stream without decoding the returned error by hand.
func BoxConstructionFailed(boxType, field string, err error) {
	fileTarget.l.Error().
		Str("box", boxType).
		Str("field", field).
		Err(err).
		Msg("mp4: box construction failed")
}
