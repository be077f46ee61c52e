package memory

import (
	"bytes"
	"io"
	"testing"
)

const testChunkSize = 8 // small enough to force multi-chunk behavior in tests

func newTestByteBuffer() *ByteBuffer {
	var pool Pool[[]byte]
	return NewByteBuffer(testChunkSize, &pool)
}

func TestByteBufferWriteRead(t *testing.T) {
	buf := newTestByteBuffer()

	data := []byte("hello, parquet") // 14 bytes, spans multiple 8-byte chunks
	n, err := buf.Write(data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(data) {
		t.Fatalf("Write returned %d, want %d", n, len(data))
	}

	if _, err := buf.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	got := make([]byte, len(data))
	if _, err := io.ReadFull(buf, got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("read %q, want %q", got, data)
	}
}

func TestByteBufferWriteToAfterWrite(t *testing.T) {
	buf := newTestByteBuffer()
	data := []byte("a column chunk's worth of page bytes")
	buf.Write(data)

	if _, err := buf.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	var out bytes.Buffer
	n, err := buf.WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(data)) {
		t.Fatalf("WriteTo wrote %d bytes, want %d", n, len(data))
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("WriteTo produced %q, want %q", out.Bytes(), data)
	}
}

func TestByteBufferSeekWhences(t *testing.T) {
	buf := newTestByteBuffer()
	buf.Write([]byte("0123456789"))

	tests := []struct {
		name   string
		offset int64
		whence int
		want   int64
	}{
		{"start", 3, io.SeekStart, 3},
		{"current", 2, io.SeekCurrent, 5},
		{"end", -2, io.SeekEnd, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buf.Seek(tt.offset, tt.whence)
			if err != nil {
				t.Fatalf("Seek: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Seek(%d, %d) = %d, want %d", tt.offset, tt.whence, got, tt.want)
			}
		})
	}
}

func TestByteBufferSeekNegativeErrors(t *testing.T) {
	buf := newTestByteBuffer()
	buf.Write([]byte("hello"))
	if _, err := buf.Seek(-1, io.SeekStart); err == nil {
		t.Fatal("expected an error seeking to a negative offset")
	}
}

func TestByteBufferSeekPastEndClamps(t *testing.T) {
	buf := newTestByteBuffer()
	buf.Write([]byte("hello"))
	got, err := buf.Seek(1000, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if got != 5 {
		t.Fatalf("Seek past end = %d, want clamped to 5", got)
	}
}

func TestByteBufferResetReturnsChunksToPool(t *testing.T) {
	var pool Pool[[]byte]
	buf := NewByteBuffer(testChunkSize, &pool)
	buf.Write(bytes.Repeat([]byte{1}, testChunkSize*3))

	buf.Reset()

	if _, err := buf.Read(make([]byte, 1)); err != io.EOF {
		t.Fatalf("Read after Reset = %v, want io.EOF", err)
	}
}

func TestByteBufferWriteSpanningChunkBoundary(t *testing.T) {
	buf := newTestByteBuffer()
	// Write in pieces that don't align to testChunkSize, to exercise the
	// mid-chunk write path chunkMemoryBufferPool relies on when a column
	// writer flushes a page in several small WriteBatch calls.
	want := []byte("0123456789abcdef0123")
	for i := 0; i < len(want); i += 3 {
		end := min(i+3, len(want))
		if _, err := buf.Write(want[i:end]); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	buf.Seek(0, io.SeekStart)
	got := make([]byte, len(want))
	if _, err := io.ReadFull(buf, got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("read %q, want %q", got, want)
	}
}
