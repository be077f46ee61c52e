// Package compress defines the codec abstraction the Parquet page encoder
// (external to this module) compresses column-chunk pages with. pqarrow
// does not call Codec itself — the byte-level page encoder is out of
// scope — but WriterProperties carries a Codec per column so that the
// concrete backend wiring in this module has somewhere to plug each
// compression library in.
package compress

// Codec compresses and decompresses one page's worth of bytes.
type Codec interface {
	// Encode appends the compressed form of src to dst and returns the
	// extended slice.
	Encode(dst, src []byte) ([]byte, error)

	// Decode appends the decompressed form of src to dst and returns the
	// extended slice.
	Decode(dst, src []byte) ([]byte, error)

	// String returns the codec's name, as it appears in Parquet file
	// metadata.
	String() string
}
