// Package zstd implements the Zstandard compress.Codec on top of
// github.com/klauspost/compress/zstd.
package zstd

import "github.com/klauspost/compress/zstd"

// Codec compresses with Zstandard, reusing a single encoder/decoder pair
// since both types are safe for concurrent use by klauspost/compress and
// expensive to construct per call.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (c *Codec) String() string { return "ZSTD" }

func (c *Codec) init() error {
	if c.encoder == nil {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		c.encoder = enc
	}
	if c.decoder == nil {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return err
		}
		c.decoder = dec
	}
	return nil
}

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return dst, err
	}
	return c.encoder.EncodeAll(src, dst), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return dst, err
	}
	return c.decoder.DecodeAll(src, dst)
}
