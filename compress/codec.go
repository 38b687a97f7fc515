package compress

import (
	"fmt"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/format"
)

// Compressor compresses a record payload. The returned slice is owned by the
// caller unless documented otherwise by the implementation.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor. It
// returns an error for corrupted input or input from a different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for a compression type.
//
// Returns:
//   - Codec: shared codec instance
//   - error: wrapped ErrUnsupportedCompression for unknown types
func GetCodec(c format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[c]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compression %s (0x%02x): %w", c, uint8(c), errs.ErrUnsupportedCompression)
}

// Ratio returns compressed/original for a payload, or 0 for an empty one.
func Ratio(original, compressed []byte) float64 {
	if len(original) == 0 {
		return 0
	}

	return float64(len(compressed)) / float64(len(original))
}
