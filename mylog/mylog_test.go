package mylog

import (
	"errors"
	"os"
	"testing"

	"github.com/chinasarft/gofmp4/config"
)

func TestLogStdoutVersionMismatch(t *testing.T) {
	conf := &config.LogConfig{}
	conf.Level = "warn"
	conf.Target.Type = "stdout"
	if err := UpdateConfig(conf); err != nil {
		t.Fatal(err)
	}

	VersionMismatch("tfdt", 1, 0)
}

func TestLogFileBoxConstructionFailed(t *testing.T) {
	conf := &config.LogConfig{}
	conf.Level = "error"
	conf.Target.Type = "file"
	conf.Target.Name = "logtest.txt"
	conf.Position = true
	defer os.Remove(conf.Target.Name)

	if err := UpdateConfig(conf); err != nil {
		t.Fatal(err)
	}

	BoxConstructionFailed("avcC", "sequence_parameter_sets", errors.New("too many parameter sets"))

	if _, err := os.Stat(conf.Target.Name); err != nil {
		t.Fatal(err)
	}
}
