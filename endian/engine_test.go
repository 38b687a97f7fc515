package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	require.Equal(t, binary.BigEndian, Select(true))
	require.Equal(t, binary.LittleEndian, Select(false))
	require.Equal(t, GetLittleEndianEngine(), Select(false))
	require.Equal(t, GetBigEndianEngine(), Select(true))
}

func TestFloat64sRoundTrip(t *testing.T) {
	values := []float64{0, -0.5, 1000, 367.879441171, math.Inf(1), math.SmallestNonzeroFloat64}

	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		t.Run(engine.String(), func(t *testing.T) {
			buf := AppendFloat64s(engine, []byte{0xAA}, values)
			require.Len(t, buf, 1+8*len(values))
			require.Equal(t, byte(0xAA), buf[0])

			got := make([]float64, len(values))
			rest := Float64s(engine, got, append(buf[1:], 0x01))
			require.Equal(t, values, got)
			require.Equal(t, []byte{0x01}, rest)
		})
	}
}

func TestByteOrderDiffers(t *testing.T) {
	le := AppendFloat64s(GetLittleEndianEngine(), nil, []float64{1})
	be := AppendFloat64s(GetBigEndianEngine(), nil, []float64{1})
	require.Equal(t, byte(0x3F), be[0])
	require.Equal(t, byte(0x3F), le[7])
}
