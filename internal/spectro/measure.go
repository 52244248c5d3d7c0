package spectro

import (
	"math"

	"github.com/montanaflynn/stats"
)

// serumLeakageFactor converts the CSF/serum protein ratio times serum bilirubin
// (µmol/L) into expected absorbance at 476 nm.
const serumLeakageFactor = 0.042

// Decimal places of every reported absorbance value
const precision = 5

// Measurement holds the baseline-subtracted peaks
type Measurement struct {
	NBA float64 `json:"nba" doc:"Net bilirubin absorbance at 476 nm"`
	NOA float64 `json:"noa" doc:"Net oxyhemoglobin absorbance at 415 nm"`
}

// Measure subtracts the baseline from the readings at 476 and 415 nm.
func Measure(s Spectrum, f BaselineFit) (Measurement, error) {
	nba, err := netAbsorbance(s, f, NBAWavelength)
	if err != nil {
		return Measurement{}, err
	}
	noa, err := netAbsorbance(s, f, NOAWavelength)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{NBA: nba, NOA: noa}, nil
}

func netAbsorbance(s Spectrum, f BaselineFit, wl float64) (float64, error) {
	a, ok := s.Absorbance(wl)
	if !ok {
		return 0, &Error{Kind: KindMissingDiagnosticWavelength, Wavelength: wl, Msg: "no reading"}
	}
	b, ok := f.Query(wl)
	if !ok {
		return 0, &Error{Kind: KindMissingDiagnosticWavelength, Wavelength: wl, Msg: "baseline undefined"}
	}
	v, err := round5(a - b)
	if err != nil {
		return 0, &Error{Kind: KindInvalidMeasurement, Wavelength: wl, Msg: "net absorbance is not a number"}
	}
	return v, nil
}

// Parameters are the biochemical inputs of a computation
type Parameters struct {
	CSFProtein     float64 `json:"csf_protein" minimum:"0" maximum:"5" doc:"CSF protein in g/L"`
	SerumProtein   float64 `json:"serum_protein" minimum:"50" maximum:"100" doc:"Serum protein in g/L"`
	SerumBilirubin float64 `json:"serum_bilirubin" minimum:"0" maximum:"500" doc:"Serum bilirubin in µmol/L"`
}

// DefaultParameters matches the form defaults of the bedside workflow.
func DefaultParameters() Parameters {
	return Parameters{CSFProtein: 0.5, SerumProtein: 70, SerumBilirubin: 15}
}

// Validate checks every parameter against its documented range.
func (p Parameters) Validate() error {
	checks := []struct {
		name     string
		v        float64
		min, max float64
	}{
		{"csf_protein", p.CSFProtein, 0, 5},
		{"serum_protein", p.SerumProtein, 50, 100},
		{"serum_bilirubin", p.SerumBilirubin, 0, 500},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return invalidInput("%s is not a finite number", c.name)
		}
		if c.v < c.min || c.v > c.max {
			return invalidInput("%s %g outside [%g, %g]", c.name, c.v, c.min, c.max)
		}
	}
	return nil
}

// Correction is the serum bilirubin correction of NBA
type Correction struct {
	PA          float64 `json:"pa" doc:"Predicted absorbance from serum bilirubin"`
	AdjustedNBA float64 `json:"adjusted_nba" doc:"NBA minus PA"`
}

// Correct subtracts the expected serum bilirubin contribution from nba.
// The returned values are not rounded.
func Correct(nba, csfProtein, serumProtein, serumBilirubin float64) (Correction, error) {
	if serumProtein <= 0 {
		return Correction{}, invalidInput("serum_protein must be positive")
	}
	pa := csfProtein / serumProtein * serumBilirubin * serumLeakageFactor
	if math.IsNaN(pa) || math.IsInf(pa, 0) {
		return Correction{}, invalidInput("predicted absorbance is not a finite number")
	}
	return Correction{PA: pa, AdjustedNBA: nba - pa}, nil
}

// round5 rounds to the reporting precision after scaling by 1e5. Ties go away
// from zero, not to even, so a value sitting exactly on a 5th-decimal tie may
// differ by one unit from a banker's-rounding result. NaN is an error.
func round5(v float64) (float64, error) {
	return stats.Round(v, precision)
}
