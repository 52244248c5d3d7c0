// Package spectro computes net bilirubin and net oxyhemoglobin absorbance from a
// cerebrospinal fluid absorbance spectrum and classifies the result.
//
// The flow is Fit → Measure → Correct → Classify. Every value produced along the way is
// immutable, so a Spectrum or BaselineFit may be shared between goroutines freely.
package spectro

import (
	"fmt"
	"math"
	"sort"
)

const (
	// NOAWavelength is where net oxyhemoglobin absorbance is measured
	NOAWavelength = 415.0
	// NBAWavelength is where net bilirubin absorbance is measured
	NBAWavelength = 476.0
)

// standardWavelengths is the fixed 10 nm grid from 370 to 600 plus the two diagnostic points
var standardWavelengths = [...]float64{
	370, 380, 390, 400, 410, 415, 420, 430, 440, 450, 460, 470, 476,
	480, 490, 500, 510, 520, 530, 540, 550, 560, 570, 580, 590, 600,
}

// StandardWavelengths returns a copy of the wavelength set every spectrum must cover.
func StandardWavelengths() []float64 {
	out := make([]float64, len(standardWavelengths))
	copy(out, standardWavelengths[:])
	return out
}

// Point is a single absorbance reading
type Point struct {
	Wavelength float64 `json:"wavelength" doc:"Wavelength in nm"`
	Absorbance float64 `json:"absorbance" doc:"Absorbance in AU"`
}

// Spectrum is a validated reading at every standard wavelength, ordered by wavelength
type Spectrum struct {
	points []Point
}

// NewSpectrum validates readings against the standard wavelength set. Input order does not
// matter; the returned Spectrum is sorted and owns its own copy of the data.
func NewSpectrum(points []Point) (Spectrum, error) {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Wavelength < sorted[j].Wavelength })

	seen := make(map[float64]bool, len(sorted))
	for _, p := range sorted {
		if math.IsNaN(p.Wavelength) || math.IsInf(p.Wavelength, 0) {
			return Spectrum{}, invalidInput("non-finite wavelength")
		}
		if seen[p.Wavelength] {
			return Spectrum{}, &Error{Kind: KindInvalidInput, Wavelength: p.Wavelength, Msg: "duplicate wavelength"}
		}
		seen[p.Wavelength] = true
		if !isStandard(p.Wavelength) {
			return Spectrum{}, &Error{Kind: KindInvalidInput, Wavelength: p.Wavelength, Msg: "unexpected wavelength"}
		}
		if math.IsNaN(p.Absorbance) || math.IsInf(p.Absorbance, 0) {
			return Spectrum{}, &Error{Kind: KindInvalidInput, Wavelength: p.Wavelength, Msg: "absorbance is not a finite number"}
		}
	}

	for _, wl := range []float64{NOAWavelength, NBAWavelength} {
		if !seen[wl] {
			return Spectrum{}, &Error{Kind: KindMissingDiagnosticWavelength, Wavelength: wl, Msg: "diagnostic wavelength absent"}
		}
	}
	for _, wl := range standardWavelengths {
		if !seen[wl] {
			return Spectrum{}, &Error{Kind: KindInvalidInput, Wavelength: wl, Msg: "missing wavelength"}
		}
	}

	return Spectrum{points: sorted}, nil
}

// MustSpectrum is NewSpectrum for fixed, known-good data. It panics on invalid input.
func MustSpectrum(points []Point) Spectrum {
	s, err := NewSpectrum(points)
	if err != nil {
		panic(fmt.Sprintf("spectro: %v", err))
	}
	return s
}

// ZeroSpectrum returns the blank template: every standard wavelength at 0.000 AU.
func ZeroSpectrum() Spectrum {
	points := make([]Point, len(standardWavelengths))
	for i, wl := range standardWavelengths {
		points[i] = Point{Wavelength: wl}
	}
	return Spectrum{points: points}
}

// Points returns a copy of the readings in wavelength order.
func (s Spectrum) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Len returns the number of readings.
func (s Spectrum) Len() int {
	return len(s.points)
}

// Absorbance returns the reading at wavelength, if present.
func (s Spectrum) Absorbance(wavelength float64) (float64, bool) {
	for _, p := range s.points {
		if p.Wavelength == wavelength {
			return p.Absorbance, true
		}
	}
	return 0, false
}

// baselineSample returns the readings inside w, bounds inclusive. The diagnostic
// wavelengths are peak readings and never part of a baseline sample.
func (s Spectrum) baselineSample(w Window) []Point {
	var out []Point
	for _, p := range s.points {
		if w.Contains(p.Wavelength) && !isDiagnostic(p.Wavelength) {
			out = append(out, p)
		}
	}
	return out
}

func isDiagnostic(wl float64) bool {
	return wl == NOAWavelength || wl == NBAWavelength
}

func isStandard(wl float64) bool {
	for _, s := range standardWavelengths {
		if s == wl {
			return true
		}
	}
	return false
}
