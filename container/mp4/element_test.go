package mp4

import (
	"bytes"
	"errors"
	"testing"
)

func TestUInt64BEHighLowSplit(t *testing.T) {
	e := &UInt64BE{Value: 0x0102030405060708}
	buf := make([]byte, 8)
	if err := e.WriteTo(buf, 0); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %x want %x", buf, want)
	}

	reload := &UInt64BE{}
	if err := reload.ReadFrom(buf, 0); err != nil {
		t.Fatal(err)
	}
	if reload.Value != e.Value {
		t.Fatalf("round trip mismatch: got %x want %x", reload.Value, e.Value)
	}
}

func TestParameterSetArrayEncoding(t *testing.T) {
	e := &ParameterSetArray{
		SizeMask: 0xE0,
		Sets:     [][]byte{{0xAA, 0xBB}, {0xCC}},
	}
	if e.ByteLength() != 1+2+2+2+1 {
		t.Fatal("unexpected byte_length:", e.ByteLength())
	}
	buf := make([]byte, e.ByteLength())
	if err := e.WriteTo(buf, 0); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0xE2,             // mask(0xE0) | count(2)
		0x00, 0x02, 0xAA, 0xBB, // set 1
		0x00, 0x01, 0xCC, // set 2
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %x want %x", buf, want)
	}
}

func TestParameterSetArrayTooManySets(t *testing.T) {
	sets := make([][]byte, 0x20)
	for i := range sets {
		sets[i] = []byte{0x00}
	}
	e := &ParameterSetArray{Sets: sets}
	buf := make([]byte, e.ByteLength())
	if err := e.WriteTo(buf, 0); err == nil {
		t.Fatal("expect an error for more than 31 parameter sets")
	}
}

func TestEmptyElementZeroFills(t *testing.T) {
	buf := bytes.Repeat([]byte{0xFF}, 4)
	e := &Empty{Length: 4}
	if err := e.WriteTo(buf, 0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0}) {
		t.Fatalf("expect zero-filled, got %x", buf)
	}
}

func TestCharArrayRoundTrip(t *testing.T) {
	e := &CharArray{Value: "ftyp"}
	buf := make([]byte, 4)
	if err := e.WriteTo(buf, 0); err != nil {
		t.Fatal(err)
	}
	reload := &CharArray{Value: "____"}
	if err := reload.ReadFrom(buf, 0); err != nil {
		t.Fatal(err)
	}
	if reload.Value != "ftyp" {
		t.Fatal("expect ftyp, but:", reload.Value)
	}
}

func TestUInt24BERejectsOutOfRange(t *testing.T) {
	buf := make([]byte, 3)
	err := writeU24BE(buf, 0, 0x01000000)
	if err == nil {
		t.Fatal("expect an error for a value that doesn't fit in 24 bits")
	}
}

func TestByteArrayReadFromNotSupported(t *testing.T) {
	e := &ByteArray{Value: []byte{0x01, 0x02}}
	buf := []byte{0xAA, 0xBB}
	err := e.ReadFrom(buf, 0)
	if !errors.Is(err, sentinels[ErrNotSupported]) {
		t.Fatal("expect ErrNotSupported, but:", err)
	}
}
