// Package lz4 implements the LZ4 compress.Codec on top of
// github.com/pierrec/lz4/v4.
package lz4

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Level selects an LZ4 compression level/speed tradeoff.
type Level int

const (
	Fastest Level = iota
	Fast
	Level1
	Level5
	Level9
)

func (l Level) pierrec() lz4.CompressionLevel {
	switch l {
	case Level1:
		return lz4.Level1
	case Level5:
		return lz4.Level5
	case Level9:
		return lz4.Level9
	default: // Fastest, Fast
		return lz4.Fast
	}
}

// Codec compresses with LZ4 at Level (zero value is Fastest).
type Codec struct {
	Level Level
}

func (c *Codec) String() string { return "LZ4" }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w := lz4.NewWriter(buf)
	if err := w.Apply(lz4.CompressionLevelOption(c.Level.pierrec())); err != nil {
		return dst, err
	}
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst)
	if _, err := io.Copy(buf, r); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
