// Package buffer provides the capacity-bounded derivative buffers shared by
// all models taking part in one fit.
//
// A fit combining several model instances addresses its global parameter
// vector through Slot values. Every model writes its first derivatives into
// one row of a Gradient and its second derivatives into one plane of a
// Hessian, selected by the slots the caller hands it. Rows and planes that a
// call does not address are left untouched.
//
// Storage is row-major in a single flat slice. Every indexed write goes
// through Row or Plane, which validate the slot and the number of time
// points before returning the writable window, so an invalid call never
// performs a partial write.
package buffer

import (
	"fmt"
	"strconv"

	"github.com/arloliu/relaxfit/errs"
)

const (
	// MaxData is the maximum number of time points in one relaxation series.
	MaxData = 1024
	// MaxParams is the maximum number of free parameters in one global fit.
	MaxParams = 32
)

// Slot identifies the position of one parameter within the global parameter
// vector of a fit. It selects the gradient row and Hessian plane a model
// writes to.
type Slot int

// String returns the slot in "slot(N)" form.
func (s Slot) String() string {
	return "slot(" + strconv.Itoa(int(s)) + ")"
}

// CheckTimes verifies that n time points fit in a buffer with the given
// number of points per row.
//
// Returns:
//   - error: wrapped ErrTooManyTimePoints when n exceeds points or MaxData
func CheckTimes(n, points int) error {
	if n > MaxData || n > points {
		return fmt.Errorf("%d time points, capacity %d: %w", n, min(points, MaxData), errs.ErrTooManyTimePoints)
	}

	return nil
}

// CheckCurve verifies that a back-calculated curve buffer can hold n points.
func CheckCurve(backCalc []float64, n int) error {
	if n > MaxData {
		return fmt.Errorf("%d time points, capacity %d: %w", n, MaxData, errs.ErrTooManyTimePoints)
	}
	if len(backCalc) < n {
		return fmt.Errorf("curve length %d, need %d: %w", len(backCalc), n, errs.ErrBufferTooSmall)
	}

	return nil
}

func checkShape(params, points int) error {
	if params <= 0 || params > MaxParams || points <= 0 || points > MaxData {
		return fmt.Errorf("%dx%d: %w", params, points, errs.ErrInvalidBufferShape)
	}

	return nil
}

func checkSlot(s Slot, params int) error {
	if s < 0 || int(s) >= params {
		return fmt.Errorf("%s of %d: %w", s, params, errs.ErrSlotOutOfRange)
	}

	return nil
}

// Gradient holds the per-time-point first partial derivatives of the
// back-calculated curves, one row per parameter slot.
type Gradient struct {
	params int
	points int
	data   []float64
}

// NewGradient allocates a zeroed gradient buffer with params rows of points
// columns.
//
// Parameters:
//   - params: number of parameter slots, 1..MaxParams
//   - points: number of time points per row, 1..MaxData
//
// Returns:
//   - *Gradient: the buffer
//   - error: wrapped ErrInvalidBufferShape for out-of-range dimensions
func NewGradient(params, points int) (*Gradient, error) {
	if err := checkShape(params, points); err != nil {
		return nil, fmt.Errorf("NewGradient: %w", err)
	}

	return &Gradient{params: params, points: points, data: make([]float64, params*points)}, nil
}

// Params returns the number of parameter rows.
func (g *Gradient) Params() int { return g.params }

// Points returns the number of time points per row.
func (g *Gradient) Points() int { return g.points }

// Row returns the writable window of the first n entries of row s.
//
// The slot and n are validated before the window is returned; the returned
// slice aliases the buffer storage.
func (g *Gradient) Row(s Slot, n int) ([]float64, error) {
	if g == nil {
		return nil, errs.ErrNilBuffer
	}
	if err := checkSlot(s, g.params); err != nil {
		return nil, fmt.Errorf("Gradient.Row: %w", err)
	}
	if err := CheckTimes(n, g.points); err != nil {
		return nil, fmt.Errorf("Gradient.Row: %w", err)
	}
	off := int(s) * g.points

	return g.data[off : off+n : off+n], nil
}

// At returns the derivative stored for slot s at time point k.
func (g *Gradient) At(s Slot, k int) (float64, error) {
	if err := checkSlot(s, g.params); err != nil {
		return 0, fmt.Errorf("Gradient.At: %w", err)
	}
	if k < 0 || k >= g.points {
		return 0, fmt.Errorf("Gradient.At: point %d of %d: %w", k, g.points, errs.ErrTooManyTimePoints)
	}

	return g.data[int(s)*g.points+k], nil
}

// Reset zeroes every row.
func (g *Gradient) Reset() {
	clear(g.data)
}

// Clone returns a deep copy of the buffer.
func (g *Gradient) Clone() *Gradient {
	c := &Gradient{params: g.params, points: g.points, data: make([]float64, len(g.data))}
	copy(c.data, g.data)

	return c
}

// Hessian holds the per-time-point second partial derivatives of the
// back-calculated curves, one plane per ordered pair of parameter slots.
//
// Models write only the plane they are asked for; the buffer does not mirror
// [i][j] into [j][i]. Readers must use the same ordering as the writer.
type Hessian struct {
	params int
	points int
	data   []float64
}

// NewHessian allocates a zeroed Hessian buffer of params x params planes with
// points entries each.
func NewHessian(params, points int) (*Hessian, error) {
	if err := checkShape(params, points); err != nil {
		return nil, fmt.Errorf("NewHessian: %w", err)
	}

	return &Hessian{params: params, points: points, data: make([]float64, params*params*points)}, nil
}

// Params returns the number of parameter slots along each axis.
func (h *Hessian) Params() int { return h.params }

// Points returns the number of time points per plane.
func (h *Hessian) Points() int { return h.points }

// Plane returns the writable window of the first n entries of plane [i][j].
func (h *Hessian) Plane(i, j Slot, n int) ([]float64, error) {
	if h == nil {
		return nil, errs.ErrNilBuffer
	}
	if err := checkSlot(i, h.params); err != nil {
		return nil, fmt.Errorf("Hessian.Plane: row %w", err)
	}
	if err := checkSlot(j, h.params); err != nil {
		return nil, fmt.Errorf("Hessian.Plane: column %w", err)
	}
	if err := CheckTimes(n, h.points); err != nil {
		return nil, fmt.Errorf("Hessian.Plane: %w", err)
	}
	off := (int(i)*h.params + int(j)) * h.points

	return h.data[off : off+n : off+n], nil
}

// At returns the second derivative stored in plane [i][j] at time point k.
func (h *Hessian) At(i, j Slot, k int) (float64, error) {
	if err := checkSlot(i, h.params); err != nil {
		return 0, fmt.Errorf("Hessian.At: row %w", err)
	}
	if err := checkSlot(j, h.params); err != nil {
		return 0, fmt.Errorf("Hessian.At: column %w", err)
	}
	if k < 0 || k >= h.points {
		return 0, fmt.Errorf("Hessian.At: point %d of %d: %w", k, h.points, errs.ErrTooManyTimePoints)
	}

	return h.data[(int(i)*h.params+int(j))*h.points+k], nil
}

// Reset zeroes every plane.
func (h *Hessian) Reset() {
	clear(h.data)
}

// Clone returns a deep copy of the buffer.
func (h *Hessian) Clone() *Hessian {
	c := &Hessian{params: h.params, points: h.points, data: make([]float64, len(h.data))}
	copy(c.data, h.data)

	return c
}
