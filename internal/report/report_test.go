package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/xantho/internal/spectro"
)

func analysis(t *testing.T) (spectro.Analysis, spectro.Parameters) {
	t.Helper()

	var points []spectro.Point
	for _, wl := range spectro.StandardWavelengths() {
		p := spectro.Point{Wavelength: wl}
		if wl == 476 {
			p.Absorbance = 0.05
		}
		points = append(points, p)
	}
	s, err := spectro.NewSpectrum(points)
	require.NoError(t, err)

	params := spectro.DefaultParameters()
	a, err := spectro.Analyze(s, params)
	require.NoError(t, err)
	return a, params
}

func TestMarkdown(t *testing.T) {
	a, p := analysis(t)

	md := Markdown(a, p, "en")
	assert.Contains(t, md, "**NBA (476 nm):** 0.05000 AU")
	assert.Contains(t, md, "**PA:** 0.00450 AU")
	assert.Contains(t, md, "Bilirubin raised. Consistent with SAH.")
	assert.Contains(t, md, "| 410 | 0.000 | – |")
	assert.Contains(t, md, "| 476 | 0.050 | 0.00000 |")
}

func TestMarkdown_Czech(t *testing.T) {
	a, p := analysis(t)

	md := Markdown(a, p, "cs")
	assert.Contains(t, md, "# Spektrofotometrie likvoru: NBA a NOA")
	assert.Contains(t, md, "Zvýšený bilirubin. Výsledek konzistentní se SAH.")
}

func TestMarkdown_UnknownLanguage(t *testing.T) {
	a, p := analysis(t)
	assert.Equal(t, Markdown(a, p, "en"), Markdown(a, p, "de"))
}

func TestHTML(t *testing.T) {
	a, p := analysis(t)

	page := string(HTML(a, p, "en"))
	assert.Contains(t, page, "<html")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<strong>NOA (415 nm):</strong> 0.00000 AU")
}

func TestHTML_TitleFollowsLanguage(t *testing.T) {
	a, p := analysis(t)

	assert.Contains(t, string(HTML(a, p, "cs")), "<title>Spektrofotometrie likvoru: NBA a NOA</title>")
	assert.Contains(t, string(HTML(a, p, "de")), "<title>"+translations["en"].title+"</title>")
}
