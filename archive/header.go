package archive

import (
	"fmt"

	"github.com/arloliu/relaxfit/endian"
	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/format"
)

const (
	// HeaderSize is the fixed size of a record header in bytes.
	HeaderSize = 32

	// MagicRecordV1 identifies version 1 of the record format. It occupies
	// bits 4-15 of the options field.
	MagicRecordV1 uint16 = 0xEF10

	magicMask  uint16 = 0xFFF0
	endianMask uint16 = 0x0002
)

// Header is the fixed-size section at the start of every record.
type Header struct {
	// Options packs the magic number (bits 4-15) and the endianness flag
	// (bit 1, set for big-endian). It is always stored little-endian.
	Options uint16 // byte offset 0-1
	// Model is the relaxation model type of the record.
	Model uint8 // byte offset 2
	// Compression is the codec applied to the payload.
	Compression format.CompressionType // byte offset 3
	// Points is the number of time points in the series.
	Points uint32 // byte offset 4-7
	// Params is the number of stored model parameters, 0 when unfitted.
	Params uint32 // byte offset 8-11
	// SpinHash is the xxHash64 of the spin ID.
	SpinHash uint64 // byte offset 12-19
	// Checksum is the CRC32 (IEEE) of the uncompressed payload.
	Checksum uint32 // byte offset 20-23
	// PayloadSize is the stored (possibly compressed) payload length.
	PayloadSize uint32 // byte offset 24-27
	// RawSize is the uncompressed payload length.
	RawSize uint32 // byte offset 28-31
}

// NewHeader returns a header carrying the version 1 magic number and the
// requested byte order.
func NewHeader(bigEndian bool) Header {
	h := Header{Options: MagicRecordV1, Compression: format.CompressionNone}
	if bigEndian {
		h.Options |= endianMask
	}

	return h
}

// IsBigEndian reports whether the record body uses big-endian byte order.
func (h Header) IsBigEndian() bool {
	return h.Options&endianMask != 0
}

// ModelType returns the model type stored in the header.
func (h Header) ModelType() exponential.ModelType {
	return exponential.ModelType(h.Model)
}

func (h Header) engine() endian.EndianEngine {
	return endian.Select(h.IsBigEndian())
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber,
//     ErrUnsupportedCompression or ErrUnknownModel
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// the options field decides the byte order of everything after it
	h.Options = uint16(data[0]) | uint16(data[1])<<8
	h.Model = data[2]
	h.Compression = format.CompressionType(data[3])

	engine := h.engine()
	h.Points = engine.Uint32(data[4:8])
	h.Params = engine.Uint32(data[8:12])
	h.SpinHash = engine.Uint64(data[12:20])
	h.Checksum = engine.Uint32(data[20:24])
	h.PayloadSize = engine.Uint32(data[24:28])
	h.RawSize = engine.Uint32(data[28:32])

	return h.Validate()
}

// Validate checks the magic number and the enum fields.
func (h Header) Validate() error {
	if h.Options&magicMask != MagicRecordV1 {
		return fmt.Errorf("options 0x%04x: %w", h.Options, errs.ErrInvalidMagicNumber)
	}
	if !h.Compression.Valid() {
		return fmt.Errorf("compression 0x%02x: %w", uint8(h.Compression), errs.ErrUnsupportedCompression)
	}
	if h.ModelType().NumParams() == 0 {
		return fmt.Errorf("model 0x%02x: %w", h.Model, errs.ErrUnknownModel)
	}

	return nil
}

// Bytes serializes the header into a new 32-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = h.Model
	b[3] = byte(h.Compression)

	engine := h.engine()
	engine.PutUint32(b[4:8], h.Points)
	engine.PutUint32(b[8:12], h.Params)
	engine.PutUint64(b[12:20], h.SpinHash)
	engine.PutUint32(b[20:24], h.Checksum)
	engine.PutUint32(b[24:28], h.PayloadSize)
	engine.PutUint32(b[28:32], h.RawSize)

	return b
}

// ParseHeader parses the header at the start of a record.
//
// Parameters:
//   - data: Byte slice starting with a header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header
//   - error: ErrInvalidHeaderSize or header validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	var h Header
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
