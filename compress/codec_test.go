package compress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/relaxfit/endian"
	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/format"
)

// seriesPayload builds a payload shaped like an archived decay series.
func seriesPayload(n int) []byte {
	times := make([]float64, n)
	values := make([]float64, n)
	errors := make([]float64, n)
	for i := range n {
		times[i] = 0.05 * float64(i)
		values[i] = 1000 * math.Exp(-2*times[i])
		errors[i] = 10
	}

	engine := endian.GetLittleEndianEngine()
	buf := endian.AppendFloat64s(engine, nil, times)
	buf = endian.AppendFloat64s(engine, buf, values)

	return endian.AppendFloat64s(engine, buf, errors)
}

func allCompressions() []format.CompressionType {
	return []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
}

func TestCodecRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"single byte":   {0x7f},
		"short series":  seriesPayload(3),
		"long series":   seriesPayload(512),
		"constant data": make([]byte, 4096),
	}

	for _, c := range allCompressions() {
		codec, err := GetCodec(c)
		require.NoError(t, err)

		for name, payload := range payloads {
			t.Run(c.String()+"/"+name, func(t *testing.T) {
				packed, err := codec.Compress(payload)
				require.NoError(t, err)

				out, err := codec.Decompress(packed)
				require.NoError(t, err)
				require.Equal(t, payload, out)
			})
		}
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for _, c := range allCompressions() {
		t.Run(c.String(), func(t *testing.T) {
			codec, err := GetCodec(c)
			require.NoError(t, err)

			out, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Empty(t, out)
		})
	}
}

func TestCodecCompressesConstantData(t *testing.T) {
	payload := make([]byte, 8192)

	for _, c := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(c)
		require.NoError(t, err)

		packed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.Less(t, Ratio(payload, packed), 0.1, c.String())
	}
}

func TestCodecRejectsGarbage(t *testing.T) {
	garbage := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03}

	for _, c := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		codec, err := GetCodec(c)
		require.NoError(t, err)

		_, err = codec.Decompress(garbage)
		require.Error(t, err, c.String())
	}
}

func TestLZ4IncompressibleInput(t *testing.T) {
	// distinct bytes leave LZ4 no matches to exploit
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte(i*37 + 11)
	}

	codec := NewLZ4Compressor()
	packed, err := codec.Compress(payload)
	require.NoError(t, err)

	out, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, payload, out)
}

func TestLZ4LiteralBlock(t *testing.T) {
	for _, n := range []int{1, 14, 15, 16, 269, 270, 600} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}

		out, err := NewLZ4Compressor().Decompress(lz4LiteralBlock(data))
		require.NoError(t, err, "n=%d", n)
		require.Equal(t, data, out, "n=%d", n)
	}
}

func TestGetCodecUnsupported(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0x7f))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestRatio(t *testing.T) {
	require.Zero(t, Ratio(nil, []byte{1}))
	require.InDelta(t, 0.25, Ratio(make([]byte, 8), make([]byte, 2)), 1e-12)
}
