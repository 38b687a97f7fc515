// Package plotting renders a relaxation series together with its fitted
// curve.
package plotting

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/internal/pool"
	"github.com/arloliu/relaxfit/target"
)

const (
	// CurvePoints is the number of samples drawn along the fitted curve.
	CurvePoints = 200

	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

var (
	dataColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	curveColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

var supportedExt = map[string]struct{}{
	".png": {}, ".svg": {}, ".pdf": {}, ".eps": {}, ".jpg": {}, ".jpeg": {}, ".tif": {}, ".tiff": {},
}

type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Render draws d as points with error bars and m as a smooth curve, and
// writes the figure to path. The image format follows the file extension.
//
// Parameters:
//   - path: output file, one of .png, .svg, .pdf, .eps, .jpg or .tif
//   - d: the measured series
//   - m: the fitted model, or nil to draw the data only
//   - title: plot title
//
// Returns:
//   - error: dataset validation, unsupported extension or write errors
func Render(path string, d target.Dataset, m exponential.Model, title string) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExt[ext]; !ok {
		return fmt.Errorf("plotting: unsupported image format %q", ext)
	}

	p, err := newPlot(d, m, title)
	if err != nil {
		return fmt.Errorf("plotting: %w", err)
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("plotting: save %s: %w", path, err)
	}

	return nil
}

func newPlot(d target.Dataset, m exponential.Model, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Relaxation delay"
	p.Y.Label.Text = "Intensity"
	p.Add(plotter.NewGrid())

	pts := errorPoints{
		XYs:     make(plotter.XYs, d.Len()),
		YErrors: make(plotter.YErrors, d.Len()),
	}
	for k := range d.Len() {
		pts.XYs[k].X = d.Times[k]
		pts.XYs[k].Y = d.Values[k]
		pts.YErrors[k].Low = d.Errors[k]
		pts.YErrors[k].High = d.Errors[k]
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = dataColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.Shape = draw.CircleGlyph{}

	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, err
	}
	bars.LineStyle.Color = dataColor

	p.Add(bars, scatter)
	p.Legend.Add("data", scatter)

	if m == nil {
		return p, nil
	}

	curve, err := curveLine(d.Times, m)
	if err != nil {
		return nil, err
	}
	p.Add(curve)
	p.Legend.Add(m.Type().String()+" fit", curve)
	p.Legend.Top = true

	return p, nil
}

// curveLine samples m at CurvePoints evenly spaced delays spanning zero and
// the measured range.
func curveLine(times []float64, m exponential.Model) (*plotter.Line, error) {
	lo, hi := 0.0, 0.0
	for _, t := range times {
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
	}
	if hi == lo {
		hi = lo + 1
	}

	ts, releaseTimes := pool.GetFloat64Slice(CurvePoints)
	defer releaseTimes()
	step := (hi - lo) / float64(CurvePoints-1)
	for i := range ts {
		ts[i] = lo + float64(i)*step
	}
	ys, releaseValues := pool.GetFloat64Slice(CurvePoints)
	defer releaseValues()
	if err := m.Evaluate(ts, ys); err != nil {
		return nil, err
	}

	xys := make(plotter.XYs, CurvePoints)
	for i := range xys {
		xys[i].X = ts[i]
		xys[i].Y = ys[i]
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = curveColor
	line.Width = vg.Points(1.5)

	return line, nil
}
