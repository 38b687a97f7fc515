// Package peaklist reads peak intensity lists and groups them into per-spin
// relaxation series.
//
// Two layouts are understood. Sparky lists start with an "Assignment" header
// and hold one spectrum per file, so the relaxation delay is supplied by the
// caller. Generic lists are whitespace-separated columns
//
//	spin  time  intensity  [error]
//
// holding every delay in one file. Lines starting with '#' and blank lines
// are ignored in both.
package peaklist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/relaxfit/errs"
)

// Format is a peak list layout.
type Format int

const (
	// FormatGeneric is the spin/time/intensity column layout.
	FormatGeneric Format = iota
	// FormatSparky is the Sparky "Assignment w1 w2 Height" layout.
	FormatSparky
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatGeneric:
		return "generic"
	case FormatSparky:
		return "sparky"
	default:
		return "unknown"
	}
}

// ParseFormat returns the Format for a name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "generic", "":
		return FormatGeneric, nil
	case "sparky":
		return FormatSparky, nil
	default:
		return 0, fmt.Errorf("format %q: %w", name, errs.ErrUnknownFormat)
	}
}

// DefaultSparkyColumn is the zero-based intensity column of a Sparky list
// with the "Assignment w1 w2 Height" layout.
const DefaultSparkyColumn = 3

// Peak is the intensity of one assigned peak in one spectrum.
type Peak struct {
	SpinID    string
	Intensity float64
}

// Record is one line of a generic list. Error is 0 when the line has none.
type Record struct {
	SpinID    string
	Time      float64
	Intensity float64
	Error     float64
}

// Detect inspects the first non-empty, non-comment line of a list.
func Detect(r io.Reader) (Format, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if fields[0] == "Assignment" {
			return FormatSparky, nil
		}

		return FormatGeneric, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}

	return 0, fmt.Errorf("empty list: %w", errs.ErrInvalidPeakList)
}

// ReadSparky reads a Sparky peak list. intCol is the zero-based column of the
// intensity; DefaultSparkyColumn is used when it is negative. Unassigned peaks
// ("?-?") are skipped.
//
// Returns:
//   - []Peak: peaks in file order
//   - error: ErrInvalidPeakList for a missing header, short rows or bad numbers
func ReadSparky(r io.Reader, intCol int) ([]Peak, error) {
	if intCol < 0 {
		intCol = DefaultSparkyColumn
	}
	if intCol == 0 {
		return nil, fmt.Errorf("intensity column 0 holds the assignment: %w", errs.ErrInvalidPeakList)
	}

	var (
		peaks  []Peak
		header bool
		lineNo int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if !header {
			if fields[0] != "Assignment" {
				return nil, fmt.Errorf("line %d: expected Assignment header: %w", lineNo, errs.ErrInvalidPeakList)
			}
			header = true

			continue
		}
		if strings.Trim(fields[0], "-") == "" {
			continue
		}
		if strings.HasPrefix(fields[0], "?") {
			continue
		}
		if len(fields) <= intCol {
			return nil, fmt.Errorf("line %d: %d columns, intensity column %d: %w", lineNo, len(fields), intCol, errs.ErrInvalidPeakList)
		}
		v, err := parseFloat(fields[intCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		peaks = append(peaks, Peak{SpinID: fields[0], Intensity: v})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !header {
		return nil, fmt.Errorf("missing Assignment header: %w", errs.ErrInvalidPeakList)
	}

	return peaks, nil
}

// ReadGeneric reads a generic column list.
func ReadGeneric(r io.Reader) ([]Record, error) {
	var (
		recs   []Record
		lineNo int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 || len(fields) > 4 {
			return nil, fmt.Errorf("line %d: %d columns, want 3 or 4: %w", lineNo, len(fields), errs.ErrInvalidPeakList)
		}

		rec := Record{SpinID: fields[0]}
		vals := []*float64{&rec.Time, &rec.Intensity, &rec.Error}
		for i, f := range fields[1:] {
			v, err := parseFloat(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			*vals[i] = v
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", s, errs.ErrInvalidPeakList)
	}

	return v, nil
}
