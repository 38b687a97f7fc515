package compress

// zstdLevel is the compression level used by both zstd builds. It matches
// the default speed of the pure Go encoder.
const zstdLevel = 3

// ZstdCompressor compresses payloads into standard zstd frames. Series
// payloads repeat their time points across spins and compress best with it.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor returns the zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
