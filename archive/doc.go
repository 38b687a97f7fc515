// Package archive encodes relaxation series and their fitted parameters into
// self-describing binary records.
//
// A record is laid out as:
//
//	+--------------------+----------------------+---------------------------+
//	| header (32 bytes)  | spin ID (uvarint len | payload (optionally       |
//	|                    | + UTF-8 bytes)       | compressed)               |
//	+--------------------+----------------------+---------------------------+
//
// The uncompressed payload holds the times, values and errors of the series
// followed by the model parameters, each as IEEE 754 float64 in the byte
// order recorded in the header. The header carries the xxHash64 of the spin
// ID and the CRC32 of the uncompressed payload, both verified by Decode.
//
// Basic usage:
//
//	b, err := archive.Encode(rec, archive.WithCompression(format.CompressionZstd))
//	...
//	rec, err = archive.Decode(b)
package archive
