package archive

import (
	"fmt"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/format"
	"github.com/arloliu/relaxfit/internal/options"
)

type encoderConfig struct {
	compression format.CompressionType
	bigEndian   bool
}

// EncoderOption configures Encode.
type EncoderOption = options.Option[*encoderConfig]

// WithCompression selects the payload codec. The default is
// format.CompressionZstd.
func WithCompression(c format.CompressionType) EncoderOption {
	return options.New(func(cfg *encoderConfig) error {
		if !c.Valid() {
			return fmt.Errorf("compression 0x%02x: %w", uint8(c), errs.ErrUnsupportedCompression)
		}
		cfg.compression = c

		return nil
	})
}

// WithBigEndian writes the record body in big-endian byte order.
func WithBigEndian() EncoderOption {
	return options.NoError(func(cfg *encoderConfig) {
		cfg.bigEndian = true
	})
}
