package compress

import (
	"testing"

	"github.com/arloliu/relaxfit/format"
)

func BenchmarkCompress(b *testing.B) {
	payload := seriesPayload(256)

	for _, c := range allCompressions() {
		codec, _ := GetCodec(c)
		b.Run(c.String(), func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			for b.Loop() {
				_, _ = codec.Compress(payload)
			}
		})
	}
}

func BenchmarkDecompress(b *testing.B) {
	payload := seriesPayload(256)

	for _, c := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, _ := GetCodec(c)
		packed, _ := codec.Compress(payload)
		b.Run(c.String(), func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			for b.Loop() {
				_, _ = codec.Decompress(packed)
			}
		})
	}
}
