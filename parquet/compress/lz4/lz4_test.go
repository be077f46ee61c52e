package lz4

import (
	"bytes"
	"strings"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	c := &Codec{Level: Level5}
	src := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 50))

	encoded, err := c.Encode(nil, src)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := c.Decode(nil, encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, src) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(decoded), len(src))
	}
}

func TestLevelPierrecMapping(t *testing.T) {
	if Fastest.pierrec() != Fast.pierrec() {
		t.Fatal("Fastest and Fast should both map to the library's Fast level")
	}
}

func TestCodecString(t *testing.T) {
	c := &Codec{}
	if c.String() != "LZ4" {
		t.Fatalf("String() = %q, want LZ4", c.String())
	}
}
