// Package errs defines the sentinel errors shared by all relaxfit packages.
//
// Functions return these values either directly or wrapped with operation
// context using fmt.Errorf("...: %w", err). Callers should match them with
// errors.Is.
package errs

import "errors"

// Buffer and slot contract violations.
var (
	// ErrTooManyTimePoints is returned when a time series is longer than the
	// destination buffer or exceeds buffer.MaxData.
	ErrTooManyTimePoints = errors.New("relaxfit: too many time points")
	// ErrSlotOutOfRange is returned when a parameter slot is negative or not
	// smaller than the number of parameters of the destination buffer.
	ErrSlotOutOfRange = errors.New("relaxfit: parameter slot out of range")
	// ErrInvalidBufferShape is returned when a buffer is created with a
	// non-positive dimension or one that exceeds its capacity constant.
	ErrInvalidBufferShape = errors.New("relaxfit: invalid buffer shape")
	// ErrBufferTooSmall is returned when a back-calculated curve buffer is
	// shorter than the time series.
	ErrBufferTooSmall = errors.New("relaxfit: curve buffer too small")
	// ErrNilBuffer is returned when a nil gradient or Hessian buffer is passed.
	ErrNilBuffer = errors.New("relaxfit: nil buffer")
)

// Model errors.
var (
	// ErrUnknownModel is returned for unrecognised model types or names.
	ErrUnknownModel = errors.New("relaxfit: unknown model type")
	// ErrUnknownParam is returned when a parameter does not belong to a model.
	ErrUnknownParam = errors.New("relaxfit: parameter not part of model")
	// ErrParamCount is returned when the number of parameter values or slots
	// does not match the model.
	ErrParamCount = errors.New("relaxfit: wrong number of parameters")
)

// Data and fitting errors.
var (
	ErrNoData           = errors.New("relaxfit: no data points")
	ErrLengthMismatch   = errors.New("relaxfit: times, values and errors differ in length")
	ErrNonPositiveError = errors.New("relaxfit: intensity errors must be finite and positive")
	ErrDuplicateSlot    = errors.New("relaxfit: duplicate parameter slot within a term")
	ErrNonFinite        = errors.New("relaxfit: non-finite value")
	ErrUnknownMethod    = errors.New("relaxfit: unknown fitting method")
	ErrFitFailed        = errors.New("relaxfit: fit failed")
)

// Peak list errors.
var (
	ErrInvalidPeakList = errors.New("relaxfit: invalid peak list")
	ErrUnknownFormat   = errors.New("relaxfit: unknown peak list format")
)

// Archive record errors.
var (
	ErrInvalidHeaderSize      = errors.New("relaxfit: invalid record header size")
	ErrInvalidMagicNumber     = errors.New("relaxfit: invalid record magic number")
	ErrInvalidRecordSize      = errors.New("relaxfit: record payload size does not match header")
	ErrChecksumMismatch       = errors.New("relaxfit: record checksum mismatch")
	ErrUnsupportedCompression = errors.New("relaxfit: unsupported compression type")
)

// Store errors.
var (
	ErrNotFound = errors.New("relaxfit: not found")
)
