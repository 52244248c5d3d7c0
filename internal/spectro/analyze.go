package spectro

// Result is the outcome of one computation request
type Result struct {
	NBA            float64        `json:"nba" doc:"Net bilirubin absorbance at 476 nm (AU)"`
	NOA            float64        `json:"noa" doc:"Net oxyhemoglobin absorbance at 415 nm (AU)"`
	PA             float64        `json:"pa" doc:"Predicted absorbance from serum bilirubin (AU)"`
	AdjustedNBA    float64        `json:"adjusted_nba" doc:"NBA corrected for serum bilirubin (AU)"`
	Interpretation Interpretation `json:"interpretation" doc:"Classification label"`
}

// Segment is the vertical distance between baseline and reading at a diagnostic wavelength
type Segment struct {
	Label      string  `json:"label" doc:"NOA or NBA"`
	Wavelength float64 `json:"wavelength" doc:"Wavelength in nm"`
	Baseline   float64 `json:"baseline" doc:"Baseline absorbance in AU"`
	Absorbance float64 `json:"absorbance" doc:"Measured absorbance in AU"`
}

// Analysis bundles a Result with everything a plot needs
type Analysis struct {
	Result   Result          `json:"result"`
	Fit      BaselineFit     `json:"fit"`
	Profile  []BaselinePoint `json:"profile"`
	Segments []Segment       `json:"segments"`
}

// Analyze runs the full computation for s and p. On error nothing is returned.
func Analyze(s Spectrum, p Parameters) (Analysis, error) {
	if err := p.Validate(); err != nil {
		return Analysis{}, err
	}
	fit, err := Fit(s)
	if err != nil {
		return Analysis{}, err
	}
	m, err := Measure(s, fit)
	if err != nil {
		return Analysis{}, err
	}
	c, err := Correct(m.NBA, p.CSFProtein, p.SerumProtein, p.SerumBilirubin)
	if err != nil {
		return Analysis{}, err
	}
	interp, err := Classify(ClassificationInput{
		NBA:            m.NBA,
		NOA:            m.NOA,
		AdjustedNBA:    c.AdjustedNBA,
		SerumBilirubin: p.SerumBilirubin,
		CSFProtein:     p.CSFProtein,
	})
	if err != nil {
		return Analysis{}, err
	}

	pa, err := round5(c.PA)
	if err != nil {
		return Analysis{}, &Error{Kind: KindInvalidMeasurement, Msg: "predicted absorbance is not a number"}
	}
	adjusted, err := round5(c.AdjustedNBA)
	if err != nil {
		return Analysis{}, &Error{Kind: KindInvalidMeasurement, Msg: "adjusted NBA is not a number"}
	}

	return Analysis{
		Result: Result{
			NBA:            m.NBA,
			NOA:            m.NOA,
			PA:             pa,
			AdjustedNBA:    adjusted,
			Interpretation: interp,
		},
		Fit:      fit,
		Profile:  BaselineProfile(s, fit),
		Segments: segments(s, fit),
	}, nil
}

func segments(s Spectrum, f BaselineFit) []Segment {
	out := make([]Segment, 0, 2)
	for _, d := range []struct {
		label string
		wl    float64
	}{{"NOA", NOAWavelength}, {"NBA", NBAWavelength}} {
		a, _ := s.Absorbance(d.wl)
		b, _ := f.Query(d.wl) // defined once Measure has succeeded
		out = append(out, Segment{Label: d.label, Wavelength: d.wl, Baseline: b, Absorbance: a})
	}
	return out
}
