// Package endian provides the byte order engines used to write archive
// records.
//
// An EndianEngine is both a binary.ByteOrder and a binary.AppendByteOrder, so
// record encoders can append directly to their output buffer.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines the read/write and append byte order interfaces of
// encoding/binary. binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the archive default.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Select returns the big-endian engine when big is true and the little-endian
// engine otherwise.
func Select(big bool) EndianEngine {
	if big {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// AppendFloat64s appends the IEEE 754 bits of every value in vs to dst.
func AppendFloat64s(engine EndianEngine, dst []byte, vs []float64) []byte {
	for _, v := range vs {
		dst = engine.AppendUint64(dst, math.Float64bits(v))
	}

	return dst
}

// Float64s decodes len(dst) values from src into dst and returns the unread
// remainder of src. src must hold at least 8*len(dst) bytes.
func Float64s(engine EndianEngine, dst []float64, src []byte) []byte {
	for i := range dst {
		dst[i] = math.Float64frombits(engine.Uint64(src[i*8:]))
	}

	return src[len(dst)*8:]
}
