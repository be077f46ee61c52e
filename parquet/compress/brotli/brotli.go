// Package brotli implements the Brotli compress.Codec on top of
// github.com/andybalholm/brotli.
package brotli

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
)

// DefaultQuality mirrors the quality level Parquet writers commonly default
// to for Brotli: a middle ground between ratio and throughput.
const DefaultQuality = 5

// Codec compresses with Brotli at Quality (0-11; 0 means DefaultQuality).
type Codec struct {
	Quality int
}

func (c *Codec) String() string { return "BROTLI" }

func (c *Codec) quality() int {
	if c.Quality <= 0 {
		return DefaultQuality
	}
	return c.Quality
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w := brotli.NewWriterLevel(buf, c.quality())
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(src))
	buf := bytes.NewBuffer(dst)
	if _, err := io.Copy(buf, r); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}
