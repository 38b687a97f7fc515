package archive

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/arloliu/relaxfit/buffer"
	"github.com/arloliu/relaxfit/compress"
	"github.com/arloliu/relaxfit/endian"
	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/format"
	"github.com/arloliu/relaxfit/internal/hash"
	"github.com/arloliu/relaxfit/internal/options"
	"github.com/arloliu/relaxfit/internal/pool"
	"github.com/arloliu/relaxfit/target"
)

// maxSpinIDLen bounds the stored spin identifier.
const maxSpinIDLen = 1024

// Record is one archived relaxation series with its model and, once fitted,
// its parameter values in model order.
type Record struct {
	SpinID string
	Model  exponential.ModelType
	Data   target.Dataset
	Params []float64
}

func (r Record) validate() error {
	if strings.TrimSpace(r.SpinID) == "" || len(r.SpinID) > maxSpinIDLen {
		return fmt.Errorf("spin ID length %d: %w", len(r.SpinID), errs.ErrInvalidRecordSize)
	}
	np := r.Model.NumParams()
	if np == 0 {
		return fmt.Errorf("model %d: %w", int(r.Model), errs.ErrUnknownModel)
	}
	if len(r.Params) != 0 && len(r.Params) != np {
		return fmt.Errorf("%s takes %d params, got %d: %w", r.Model, np, len(r.Params), errs.ErrParamCount)
	}

	return r.Data.Validate()
}

func payloadSize(points, params int) int {
	return 8 * (3*points + params)
}

// Encode serializes a record.
//
// Parameters:
//   - rec: The record; its data must pass Dataset.Validate
//   - opts: WithCompression and WithBigEndian
//
// Returns:
//   - []byte: The encoded record
//   - error: validation, option or compression errors
func Encode(rec Record, opts ...EncoderOption) ([]byte, error) {
	cfg := &encoderConfig{compression: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	if err := rec.validate(); err != nil {
		return nil, fmt.Errorf("archive: spin %q: %w", rec.SpinID, err)
	}

	h := NewHeader(cfg.bigEndian)
	engine := h.engine()
	n := rec.Data.Len()

	bb := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(bb)
	bb.Grow(payloadSize(n, len(rec.Params)))

	raw := endian.AppendFloat64s(engine, bb.B, rec.Data.Times)
	raw = endian.AppendFloat64s(engine, raw, rec.Data.Values)
	raw = endian.AppendFloat64s(engine, raw, rec.Data.Errors)
	raw = endian.AppendFloat64s(engine, raw, rec.Params)
	bb.B = raw

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	packed, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("archive: compress %s: %w", cfg.compression, err)
	}

	h.Model = uint8(rec.Model)
	h.Compression = cfg.compression
	h.Points = uint32(n)
	h.Params = uint32(len(rec.Params))
	h.SpinHash = hash.SpinID(rec.SpinID)
	h.Checksum = crc32.ChecksumIEEE(raw)
	h.PayloadSize = uint32(len(packed))
	h.RawSize = uint32(len(raw))

	out := make([]byte, 0, HeaderSize+binary.MaxVarintLen64+len(rec.SpinID)+len(packed))
	out = append(out, h.Bytes()...)
	out = binary.AppendUvarint(out, uint64(len(rec.SpinID)))
	out = append(out, rec.SpinID...)

	// packed may alias the pooled buffer; out holds its own copy
	return append(out, packed...), nil
}

// PeekHeader parses only the header of an encoded record.
func PeekHeader(b []byte) (Header, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return Header{}, fmt.Errorf("archive: %w", err)
	}

	return h, nil
}

// Decode parses and verifies an encoded record.
//
// Returns:
//   - Record: the decoded record; its slices do not alias b
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber,
//     ErrUnsupportedCompression, ErrUnknownModel, ErrInvalidRecordSize,
//     ErrTooManyTimePoints or ErrChecksumMismatch
func Decode(b []byte) (Record, error) {
	h, err := PeekHeader(b)
	if err != nil {
		return Record{}, err
	}
	if h.Points > buffer.MaxData {
		return Record{}, fmt.Errorf("archive: %d points: %w", h.Points, errs.ErrTooManyTimePoints)
	}
	if h.Params != 0 && int(h.Params) != h.ModelType().NumParams() {
		return Record{}, fmt.Errorf("archive: %s with %d params: %w", h.ModelType(), h.Params, errs.ErrParamCount)
	}

	rest := b[HeaderSize:]
	idLen, k := binary.Uvarint(rest)
	if k <= 0 || idLen == 0 || idLen > maxSpinIDLen || idLen > uint64(len(rest)-k) {
		return Record{}, fmt.Errorf("archive: spin ID: %w", errs.ErrInvalidRecordSize)
	}
	spinID := string(rest[k : k+int(idLen)])
	rest = rest[k+int(idLen):]

	if len(rest) != int(h.PayloadSize) {
		return Record{}, fmt.Errorf("archive: payload %d bytes, header says %d: %w", len(rest), h.PayloadSize, errs.ErrInvalidRecordSize)
	}
	if hash.SpinID(spinID) != h.SpinHash {
		return Record{}, fmt.Errorf("archive: spin ID hash: %w", errs.ErrChecksumMismatch)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return Record{}, fmt.Errorf("archive: %w", err)
	}
	raw, err := codec.Decompress(rest)
	if err != nil {
		return Record{}, fmt.Errorf("archive: decompress %s: %w", h.Compression, err)
	}

	n, np := int(h.Points), int(h.Params)
	if len(raw) != int(h.RawSize) || len(raw) != payloadSize(n, np) {
		return Record{}, fmt.Errorf("archive: raw payload %d bytes, want %d: %w", len(raw), payloadSize(n, np), errs.ErrInvalidRecordSize)
	}
	if crc32.ChecksumIEEE(raw) != h.Checksum {
		return Record{}, fmt.Errorf("archive: spin %q: %w", spinID, errs.ErrChecksumMismatch)
	}

	engine := h.engine()
	rec := Record{
		SpinID: spinID,
		Model:  h.ModelType(),
		Data: target.Dataset{
			Times:  make([]float64, n),
			Values: make([]float64, n),
			Errors: make([]float64, n),
		},
	}
	raw = endian.Float64s(engine, rec.Data.Times, raw)
	raw = endian.Float64s(engine, rec.Data.Values, raw)
	raw = endian.Float64s(engine, rec.Data.Errors, raw)
	if np > 0 {
		rec.Params = make([]float64, np)
		endian.Float64s(engine, rec.Params, raw)
	}

	return rec, nil
}
