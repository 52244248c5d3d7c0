package spectro

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Window is a closed wavelength interval used as a regression sample
type Window struct {
	Name string
	From float64
	To   float64
}

// Contains reports whether wavelength lies in the window, bounds inclusive.
func (w Window) Contains(wavelength float64) bool {
	return wavelength >= w.From && wavelength <= w.To
}

func (w Window) String() string {
	return fmt.Sprintf("%s[%g,%g]", w.Name, w.From, w.To)
}

var (
	// LowWindow is the short-wavelength baseline sample
	LowWindow = Window{Name: "low", From: 370, To: 400}
	// HighWindow is the long-wavelength baseline sample
	HighWindow = Window{Name: "high", From: 430, To: 530}
)

// highLineFrom is where the high line takes over. The 415 nm reading sits between the two
// windows and is measured against the high line extended backwards; (400, 415) stays undefined.
const highLineFrom = NOAWavelength

// Line is y = Slope*x + Intercept
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// BaselineFit holds the two fitted baseline segments
type BaselineFit struct {
	Low  Line `json:"low"`
	High Line `json:"high"`
}

// Fit fits an ordinary least-squares line to each baseline window of s.
func Fit(s Spectrum) (BaselineFit, error) {
	low, err := fitWindow(s.baselineSample(LowWindow), LowWindow)
	if err != nil {
		return BaselineFit{}, err
	}
	high, err := fitWindow(s.baselineSample(HighWindow), HighWindow)
	if err != nil {
		return BaselineFit{}, err
	}
	return BaselineFit{Low: low, High: high}, nil
}

// Query returns the baseline at wavelength. The second result is false inside the
// undefined region between the low window and 415 nm.
func (f BaselineFit) Query(wavelength float64) (float64, bool) {
	switch {
	case wavelength <= LowWindow.To:
		return f.Low.At(wavelength), true
	case wavelength >= highLineFrom:
		return f.High.At(wavelength), true
	default:
		return 0, false
	}
}

func fitWindow(points []Point, w Window) (Line, error) {
	xs := make(stats.Float64Data, len(points))
	ys := make(stats.Float64Data, len(points))
	for i, p := range points {
		xs[i] = p.Wavelength
		ys[i] = p.Absorbance
	}

	insufficient := &Error{Kind: KindInsufficientBaselineData, Window: w.String()}
	if len(points) < 2 {
		insufficient.Msg = fmt.Sprintf("need at least 2 points, have %d", len(points))
		return Line{}, insufficient
	}

	varX, err := stats.SampleVariance(xs)
	if err != nil {
		return Line{}, fmt.Errorf("variance of %s: %w", w, err)
	}
	if varX == 0 {
		insufficient.Msg = "all points share one wavelength"
		return Line{}, insufficient
	}

	// Ordinary least squares, unweighted
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return Line{Slope: slope, Intercept: intercept}, nil
}

// BaselinePoint is one entry of the plot sequence. Baseline and Diff are nil where the
// baseline is undefined.
type BaselinePoint struct {
	Wavelength float64  `json:"wavelength" doc:"Wavelength in nm"`
	Absorbance float64  `json:"absorbance" doc:"Measured absorbance in AU"`
	Baseline   *float64 `json:"baseline" doc:"Baseline absorbance, null where undefined"`
	Diff       *float64 `json:"diff" doc:"Absorbance minus baseline, null where undefined"`
}

// BaselineProfile evaluates f at every reading of s.
func BaselineProfile(s Spectrum, f BaselineFit) []BaselinePoint {
	out := make([]BaselinePoint, 0, s.Len())
	for _, p := range s.points {
		bp := BaselinePoint{Wavelength: p.Wavelength, Absorbance: p.Absorbance}
		if b, ok := f.Query(p.Wavelength); ok {
			diff := p.Absorbance - b
			bp.Baseline = &b
			bp.Diff = &diff
		}
		out = append(out, bp)
	}
	return out
}
