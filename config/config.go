package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
)

/*
{
        "prof": {
                "enable": false
        },
        "log": {
                "level":"debug",
                "position": true,
				"target": {
					"type": "stdout", // stdout, file
					"name": "filename" // only if type is file
				}
        },
        "api": {
                "addr": ":65267"
        },
        "mp4": {
                "major_brand": "isom",
                "compatible_brands": ["isom", "iso2", "avc1", "mp41"],
                "timescale": 1000,
                "fragment_duration_ms": 1000
        }
}
*/

type ProfConfig struct {
	Enable bool `json:"enable"`
}

type LogTarget struct {
	Type string `json:"type"`
	Name string `json:"name"`
}
type LogConfig struct {
	Level    string    `json:"level"`
	Target   LogTarget `json:"target"`
	Position bool      `json:"position"`
}

type ApiConfig struct {
	Addr string `json:"addr"`
}

// Mp4Config holds the defaults a Movie is built with when a caller doesn't
// override them per track: the ftyp brand list and the timescale/fragment
// duration every added track inherits unless it names its own.
type Mp4Config struct {
	MajorBrand         string   `json:"major_brand"`
	CompatibleBrands   []string `json:"compatible_brands"`
	Timescale          uint32   `json:"timescale"`
	FragmentDurationMs uint32   `json:"fragment_duration_ms"`
}

type Config struct {
	Prof ProfConfig `json:"prof"`
	Log  LogConfig  `json:"log"`
	Api  ApiConfig  `json:"api"`
	Mp4  Mp4Config  `json:"mp4"`
}

func checkConfig(conf *Config) error {
	switch conf.Log.Level {
	case "debug":
		break
	case "info":
		break
	case "warn":
		break
	case "error":
		break
	default:
		conf.Log.Level = "info"
	}

	if conf.Mp4.MajorBrand == "" {
		conf.Mp4.MajorBrand = "isom"
	}
	if len(conf.Mp4.MajorBrand) != 4 {
		return fmt.Errorf("mp4.major_brand must be 4 characters, got %q", conf.Mp4.MajorBrand)
	}
	for _, brand := range conf.Mp4.CompatibleBrands {
		if len(brand) != 4 {
			return fmt.Errorf("mp4.compatible_brands entry %q must be 4 characters", brand)
		}
	}
	if conf.Mp4.Timescale == 0 {
		conf.Mp4.Timescale = 1000
	}
	if conf.Mp4.FragmentDurationMs == 0 {
		conf.Mp4.FragmentDurationMs = 1000
	}

	return nil
}

// CompatibleBrandBytes concatenates the configured compatible brands into
// the single opaque blob ftyp's schema expects.
func (c Mp4Config) CompatibleBrandBytes() []byte {
	buf := make([]byte, 0, 4*len(c.CompatibleBrands))
	for _, brand := range c.CompatibleBrands {
		buf = append(buf, brand...)
	}
	return buf
}

func LoadConfig(filename string) (*Config, error) {

	f, err := os.Open(filename)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, err
	}

	content, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	conf := &Config{}
	if err = json.Unmarshal(content, conf); err != nil {
		return nil, err
	}

	if err = checkConfig(conf); err != nil {
		return nil, err
	}

	return conf, nil
}
