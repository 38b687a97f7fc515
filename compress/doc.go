// Package compress provides the codecs applied to archive record payloads.
//
// A record payload is the float64 encoding of one relaxation series and its
// fitted parameters. Every codec turns such a payload into an opaque byte
// slice and back:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//	...
//	payload, err = codec.Decompress(packed)
//
// Supported codecs are None, Zstd, S2 and LZ4. Zstd uses the pure Go
// klauspost/compress implementation by default; building with the gozstd tag
// switches to the cgo binding of the reference library. Both produce standard
// zstd frames, so records are readable by either build.
//
// All codecs are stateless values and safe for concurrent use. Encoders and
// decoders that benefit from reuse are pooled internally.
package compress
