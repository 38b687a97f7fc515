package peaklist

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/target"
)

type point struct {
	time, value, err float64
}

// Collection accumulates intensities per spin across spectra.
type Collection struct {
	series map[string][]point
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{series: make(map[string][]point)}
}

// AddSpectrum adds the peaks of one spectrum recorded at time, all with the
// intensity error errorValue.
func (c *Collection) AddSpectrum(time, errorValue float64, peaks []Peak) error {
	if err := checkError(errorValue); err != nil {
		return err
	}
	for _, p := range peaks {
		c.add(p.SpinID, point{time: time, value: p.Intensity, err: errorValue})
	}

	return nil
}

// AddRecords adds generic records. Records without an error use
// defaultError, which must then be positive.
func (c *Collection) AddRecords(recs []Record, defaultError float64) error {
	for i, r := range recs {
		e := r.Error
		if e == 0 {
			e = defaultError
		}
		if err := checkError(e); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, r.SpinID, err)
		}
		c.add(r.SpinID, point{time: r.Time, value: r.Intensity, err: e})
	}

	return nil
}

func (c *Collection) add(spin string, p point) {
	pts := c.series[spin]
	// keep points ordered by time, later additions after equal times
	i, _ := slices.BinarySearchFunc(pts, p.time, func(q point, t float64) int {
		if q.time <= t {
			return -1
		}
		return 1
	})
	c.series[spin] = slices.Insert(pts, i, p)
}

func checkError(e float64) error {
	if !(e > 0) || math.IsInf(e, 0) {
		return fmt.Errorf("error %g: %w", e, errs.ErrNonPositiveError)
	}

	return nil
}

// Len returns the number of spins.
func (c *Collection) Len() int {
	return len(c.series)
}

// SpinIDs returns the spin identifiers in sorted order.
func (c *Collection) SpinIDs() []string {
	return slices.Sorted(maps.Keys(c.series))
}

// Series returns the relaxation series of one spin, ordered by time.
func (c *Collection) Series(spinID string) (target.Dataset, bool) {
	pts, ok := c.series[spinID]
	if !ok {
		return target.Dataset{}, false
	}

	d := target.Dataset{
		Times:  make([]float64, len(pts)),
		Values: make([]float64, len(pts)),
		Errors: make([]float64, len(pts)),
	}
	for k, p := range pts {
		d.Times[k], d.Values[k], d.Errors[k] = p.time, p.value, p.err
	}

	return d, true
}

// Times returns the distinct relaxation delays over all spins, ascending.
func (c *Collection) Times() []float64 {
	var times []float64
	for _, pts := range c.series {
		for _, p := range pts {
			times = append(times, p.time)
		}
	}
	slices.SortFunc(times, cmp.Compare[float64])

	return slices.Compact(times)
}
