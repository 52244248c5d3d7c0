// Package report renders a computation as a printable Markdown/HTML document.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/RMahshie/xantho/internal/spectro"
)

type labels struct {
	title          string
	readings       string
	parameters     string
	results        string
	interpretation string
	wavelength     string
	absorbance     string
	baseline       string
	caption        string
	csfProtein     string
	serumProtein   string
	serumBilirubin string
}

var translations = map[string]labels{
	"en": {
		title:          "CSF spectrophotometry: NBA and NOA",
		readings:       "Absorbance readings",
		parameters:     "Biochemical parameters",
		results:        "Results",
		interpretation: "Interpretation",
		wavelength:     "Wavelength (nm)",
		absorbance:     "Absorbance (AU)",
		baseline:       "Baseline (AU)",
		caption:        "Baseline fitted by linear regression over 370–400 nm and 430–530 nm.",
		csfProtein:     "CSF protein (g/L)",
		serumProtein:   "Serum protein (g/L)",
		serumBilirubin: "Serum bilirubin (µmol/L)",
	},
	"cs": {
		title:          "Spektrofotometrie likvoru: NBA a NOA",
		readings:       "Hodnoty absorbance",
		parameters:     "Biochemické parametry",
		results:        "Výsledky výpočtu",
		interpretation: "Interpretace",
		wavelength:     "Vlnová délka (nm)",
		absorbance:     "Absorbance (AU)",
		baseline:       "Baseline (AU)",
		caption:        "Baseline určená lineární regresí mezi 370–400 a 430–530 nm.",
		csfProtein:     "Protein v likvoru (g/L)",
		serumProtein:   "Protein v séru (g/L)",
		serumBilirubin: "Bilirubin v séru (µmol/L)",
	},
}

func labelsFor(lang string) labels {
	if l, ok := translations[lang]; ok {
		return l
	}
	return translations["en"]
}

// Markdown renders a in the given language ("en" or "cs"; anything else falls back to "en").
func Markdown(a spectro.Analysis, p spectro.Parameters, lang string) string {
	l := labelsFor(lang)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", l.title)

	fmt.Fprintf(&b, "## %s\n\n", l.parameters)
	fmt.Fprintf(&b, "- %s: %.2f\n", l.csfProtein, p.CSFProtein)
	fmt.Fprintf(&b, "- %s: %.1f\n", l.serumProtein, p.SerumProtein)
	fmt.Fprintf(&b, "- %s: %.0f\n\n", l.serumBilirubin, p.SerumBilirubin)

	r := a.Result
	fmt.Fprintf(&b, "## %s\n\n", l.results)
	fmt.Fprintf(&b, "- **NBA (476 nm):** %.5f AU\n", r.NBA)
	fmt.Fprintf(&b, "- **NOA (415 nm):** %.5f AU\n", r.NOA)
	fmt.Fprintf(&b, "- **PA:** %.5f AU\n", r.PA)
	fmt.Fprintf(&b, "- **Adjusted NBA:** %.5f AU\n\n", r.AdjustedNBA)

	fmt.Fprintf(&b, "## %s\n\n", l.interpretation)
	fmt.Fprintf(&b, "%s\n\n", r.Interpretation.Description(lang))

	fmt.Fprintf(&b, "## %s\n\n", l.readings)
	fmt.Fprintf(&b, "| %s | %s | %s |\n", l.wavelength, l.absorbance, l.baseline)
	b.WriteString("|---:|---:|---:|\n")
	for _, bp := range a.Profile {
		baseline := "–"
		if bp.Baseline != nil {
			baseline = fmt.Sprintf("%.5f", *bp.Baseline)
		}
		fmt.Fprintf(&b, "| %g | %.3f | %s |\n", bp.Wavelength, bp.Absorbance, baseline)
	}
	fmt.Fprintf(&b, "\n_%s_\n", l.caption)

	return b.String()
}

// HTML renders the Markdown report as a complete HTML page.
func HTML(a spectro.Analysis, p spectro.Parameters, lang string) []byte {
	md := Markdown(a, p, lang)

	doc := parser.NewWithExtensions(parser.CommonExtensions).Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: labelsFor(lang).title,
	})
	return markdown.Render(doc, renderer)
}
