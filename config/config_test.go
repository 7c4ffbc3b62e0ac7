package config

import (
	"encoding/json"
	"testing"
)

var confStr = `
{
	"prof": {
		"enable": false
	},
	"log": {
		"level": "debug",
		"position": true,
		"target": {
			"type": "stdout",
			"name": "filename"
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
`

func TestLoadConfig(t *testing.T) {
	conf := &Config{}

	if err := json.Unmarshal([]byte(confStr), conf); err != nil {
		t.Fatal(err)
	}

	if conf.Prof.Enable != false {
		t.Fatal("prof expect false")
	}

	if conf.Log.Level != "debug" {
		t.Fatal("log.Level expect debug, but:", conf.Log.Level)
	}
	if conf.Log.Position != true {
		t.Fatal("Log.Position expect true")
	}
	if conf.Log.Target.Type != "stdout" {
		t.Fatal("log.Target.Type expect stdout, but:", conf.Log.Target.Type)
	}
	if conf.Log.Target.Name != "filename" {
		t.Fatal("log.Target.Name expect filename, but:", conf.Log.Target.Name)
	}

	if conf.Api.Addr != ":65267" {
		t.Fatal("conf.Api.Addr expect :65267, but:", conf.Api.Addr)
	}

	if conf.Mp4.MajorBrand != "isom" {
		t.Fatal("conf.Mp4.MajorBrand expect isom, but:", conf.Mp4.MajorBrand)
	}
	if len(conf.Mp4.CompatibleBrands) != 4 {
		t.Fatal("expect len(conf.Mp4.CompatibleBrands)==4, but:", len(conf.Mp4.CompatibleBrands))
	}
	if conf.Mp4.Timescale != 1000 {
		t.Fatal("conf.Mp4.Timescale expect 1000, but:", conf.Mp4.Timescale)
	}
	if conf.Mp4.FragmentDurationMs != 1000 {
		t.Fatal("conf.Mp4.FragmentDurationMs expect 1000, but:", conf.Mp4.FragmentDurationMs)
	}
}

func TestCheckConfigFillsDefaults(t *testing.T) {
	conf := &Config{}
	conf.Log.Level = "trace" // not a recognized level

	if err := checkConfig(conf); err != nil {
		t.Fatal(err)
	}

	if conf.Log.Level != "info" {
		t.Fatal("unrecognized log level should fall back to info, but:", conf.Log.Level)
	}
	if conf.Mp4.MajorBrand != "isom" {
		t.Fatal("empty major_brand should default to isom, but:", conf.Mp4.MajorBrand)
	}
	if conf.Mp4.Timescale != 1000 {
		t.Fatal("zero timescale should default to 1000, but:", conf.Mp4.Timescale)
	}
}

func TestCheckConfigRejectsShortBrand(t *testing.T) {
	conf := &Config{}
	conf.Mp4.MajorBrand = "iso"

	if err := checkConfig(conf); err == nil {
		t.Fatal("expected an error for a 3-character major_brand")
	}
}

func TestCompatibleBrandBytes(t *testing.T) {
	c := Mp4Config{CompatibleBrands: []string{"isom", "mp41"}}
	got := string(c.CompatibleBrandBytes())
	if got != "isommp41" {
		t.Fatal("expect isommp41, but:", got)
	}
}
