package spectro

import "math"

// Interpretation is the qualitative outcome of a computation
type Interpretation string

const (
	Negative                        Interpretation = "negative"
	OxyhemoglobinPresentNoBilirubin Interpretation = "oxyhemoglobin_present_no_bilirubin"
	AmbiguousHighOxyhemoglobin      Interpretation = "ambiguous_high_oxyhemoglobin"
	ConsistentAfterCorrection       Interpretation = "consistent_after_correction"
	LikelySerumBilirubinArtifact    Interpretation = "likely_serum_bilirubin_artifact"
	PossibleCautious                Interpretation = "possible_cautious"
	ConsistentWithCondition         Interpretation = "consistent_with_condition"
)

// Clinical cutoffs
const (
	nbaCutoff           = 0.007 // AU
	noaLowCutoff        = 0.02  // AU
	noaHighCutoff       = 0.1   // AU
	serumBilirubinLimit = 20.0  // µmol/L
	csfProteinLimit     = 1.0   // g/L
)

type description struct {
	en, cs   string
	supports bool
}

var descriptions = map[Interpretation]description{
	Negative: {
		"Negative finding. Does not support SAH.",
		"Negativní nález. SAH nepodporuje.",
		false,
	},
	OxyhemoglobinPresentNoBilirubin: {
		"Oxyhemoglobin present, bilirubin not raised. Does not support SAH.",
		"Oxyhemoglobin přítomen, ale bilirubin nezvýšen. SAH nepodporuje.",
		false,
	},
	AmbiguousHighOxyhemoglobin: {
		"High oxyhemoglobin may mask bilirubin. Result is equivocal.",
		"Vysoký oxyhemoglobin může maskovat bilirubin. Výsledek nejednoznačný.",
		false,
	},
	ConsistentAfterCorrection: {
		"Bilirubin raised after correction. Consistent with SAH.",
		"Zvýšený bilirubin po korekci. Výsledek konzistentní se SAH.",
		true,
	},
	LikelySerumBilirubinArtifact: {
		"Bilirubin most likely due to raised serum bilirubin. Does not support SAH.",
		"Bilirubin pravděpodobně způsoben zvýšeným sérovým bilirubinem. SAH nepodporuje.",
		false,
	},
	PossibleCautious: {
		"Bilirubin raised. Possible SAH, interpret with caution.",
		"Zvýšený bilirubin. Možný SAH, ale výsledek interpretovat opatrně.",
		true,
	},
	ConsistentWithCondition: {
		"Bilirubin raised. Consistent with SAH.",
		"Zvýšený bilirubin. Výsledek konzistentní se SAH.",
		true,
	},
}

// Description returns the report wording in English, or Czech for lang "cs".
func (i Interpretation) Description(lang string) string {
	d, ok := descriptions[i]
	if !ok {
		return ""
	}
	if lang == "cs" {
		return d.cs
	}
	return d.en
}

// SupportsFinding reports whether the outcome supports subarachnoid hemorrhage.
func (i Interpretation) SupportsFinding() bool {
	return descriptions[i].supports
}

// Interpretations lists every outcome in rule order.
func Interpretations() []Interpretation {
	out := make([]Interpretation, len(rules))
	for i, r := range rules {
		out[i] = r.result
	}
	return out
}

// ClassificationInput is what the decision rules look at
type ClassificationInput struct {
	NBA            float64
	NOA            float64
	AdjustedNBA    float64
	SerumBilirubin float64
	CSFProtein     float64
}

type rule struct {
	name   string
	match  func(in ClassificationInput) bool
	result Interpretation
}

// rules are evaluated top to bottom. Each predicate is fully qualified, so for finite
// input exactly one of them holds.
var rules = []rule{
	{
		name:   "negative",
		match:  func(in ClassificationInput) bool { return in.NBA <= nbaCutoff && in.NOA <= noaLowCutoff },
		result: Negative,
	},
	{
		name: "oxyhemoglobin without bilirubin",
		match: func(in ClassificationInput) bool {
			return in.NBA <= nbaCutoff && in.NOA > noaLowCutoff && in.NOA < noaHighCutoff
		},
		result: OxyhemoglobinPresentNoBilirubin,
	},
	{
		name:   "high oxyhemoglobin",
		match:  func(in ClassificationInput) bool { return in.NBA <= nbaCutoff && in.NOA >= noaHighCutoff },
		result: AmbiguousHighOxyhemoglobin,
	},
	{
		name: "raised after serum correction",
		match: func(in ClassificationInput) bool {
			return in.NBA > nbaCutoff && serumCorrectionApplies(in) && in.AdjustedNBA > nbaCutoff
		},
		result: ConsistentAfterCorrection,
	},
	{
		name: "explained by serum bilirubin",
		match: func(in ClassificationInput) bool {
			return in.NBA > nbaCutoff && serumCorrectionApplies(in) && in.AdjustedNBA <= nbaCutoff
		},
		result: LikelySerumBilirubinArtifact,
	},
	{
		name:   "raised protein",
		match:  func(in ClassificationInput) bool { return in.NBA > nbaCutoff && in.CSFProtein > csfProteinLimit },
		result: PossibleCautious,
	},
	{
		name: "raised bilirubin",
		match: func(in ClassificationInput) bool {
			return in.NBA > nbaCutoff && in.SerumBilirubin <= serumBilirubinLimit && in.CSFProtein <= csfProteinLimit
		},
		result: ConsistentWithCondition,
	},
}

func serumCorrectionApplies(in ClassificationInput) bool {
	return in.SerumBilirubin > serumBilirubinLimit && in.CSFProtein <= csfProteinLimit
}

// Classify maps the computed quantities to an interpretation.
func Classify(in ClassificationInput) (Interpretation, error) {
	for _, v := range []float64{in.NBA, in.NOA, in.AdjustedNBA, in.SerumBilirubin, in.CSFProtein} {
		if math.IsNaN(v) {
			return "", &Error{Kind: KindInvalidMeasurement, Msg: "classification input is not a number"}
		}
	}
	for _, r := range rules {
		if r.match(in) {
			return r.result, nil
		}
	}
	return "", &Error{Kind: KindInvalidMeasurement, Msg: "no classification rule matched"}
}

// matchingRules returns the names of every rule that holds for in.
func matchingRules(in ClassificationInput) []string {
	var names []string
	for _, r := range rules {
		if r.match(in) {
			names = append(names, r.name)
		}
	}
	return names
}
