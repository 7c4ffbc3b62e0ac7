package mp4

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

func TestDumpMatchesTextGrammar(t *testing.T) {
	b, err := NewBox("mfhd", map[string]any{"sequence_number": uint32(7)})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := b.Dump(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "[mfhd] (16)" {
		t.Fatalf("expect box line \"[mfhd] (16)\", got %q", lines[0])
	}

	var sawSequenceNumber bool
	for _, line := range lines[1:] {
		if strings.Contains(line, "sequence_number") {
			sawSequenceNumber = true
			if line != "  sequence_number = 7 (4)" {
				t.Fatalf("expect field line \"  sequence_number = 7 (4)\", got %q", line)
			}
		}
	}
	if !sawSequenceNumber {
		t.Fatal("expect a sequence_number field line in dump output")
	}
}

func TestDumpRecursesIntoChildren(t *testing.T) {
	moov, err := NewContainer("moov", nil)
	if err != nil {
		t.Fatal(err)
	}
	mvhd, err := NewBox("mvhd", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := moov.Append(mvhd); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := moov.Dump(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "[moov] ("+strconv.Itoa(moov.ByteLength())+")" {
		t.Fatalf("expect moov's own box line, got %q", lines[0])
	}
	if lines[1] != "  [mvhd] (108)" {
		t.Fatalf("expect nested mvhd box line indented one level, got %q", lines[1])
	}
}
