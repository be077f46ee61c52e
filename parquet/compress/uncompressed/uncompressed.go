// Package uncompressed implements the no-op compress.Codec.
package uncompressed

// Codec is the identity codec: Encode and Decode both copy src onto dst.
type Codec struct{}

func (Codec) String() string { return "UNCOMPRESSED" }

func (Codec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (Codec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}
