package models

import (
	"time"

	"github.com/RMahshie/xantho/internal/spectro"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// SavedSpectrum is a session's stored set of readings (for internal use)
type SavedSpectrum struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Label     string          `json:"label"`
	Points    []spectro.Point `json:"points"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SpectrumResponseBody is the API view of a saved spectrum
type SpectrumResponseBody struct {
	ID        string          `json:"id" doc:"Spectrum unique identifier"`
	SessionID string          `json:"session_id" doc:"Client session identifier"`
	Label     string          `json:"label" doc:"Free-text label, e.g. sample number"`
	Points    []spectro.Point `json:"points" doc:"Absorbance readings ordered by wavelength"`
	CreatedAt time.Time       `json:"created_at" doc:"When the spectrum was first saved"`
	UpdatedAt time.Time       `json:"updated_at" doc:"When the readings last changed"`
}

// NewSpectrumResponseBody converts a stored spectrum for the API
func NewSpectrumResponseBody(s *SavedSpectrum) SpectrumResponseBody {
	return SpectrumResponseBody{
		ID:        s.ID,
		SessionID: s.SessionID,
		Label:     s.Label,
		Points:    s.Points,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SpectrumResponse wraps a single saved spectrum
type SpectrumResponse struct {
	Body SpectrumResponseBody
}

// CreateSpectrumRequest saves a new spectrum. Without points the blank template is stored.
type CreateSpectrumRequest struct {
	Body struct {
		SessionID string          `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		Label     string          `json:"label,omitempty" maxLength:"100" doc:"Free-text label"`
		Points    []spectro.Point `json:"points,omitempty" doc:"Readings; all 26 standard wavelengths when present"`
	}
}

// GetSpectrumRequest identifies a saved spectrum
type GetSpectrumRequest struct {
	ID string `path:"id" doc:"Spectrum ID"`
}

// UpdateSpectrumRequest replaces the readings of a saved spectrum
type UpdateSpectrumRequest struct {
	ID   string `path:"id" doc:"Spectrum ID"`
	Body struct {
		Label  string          `json:"label,omitempty" maxLength:"100" doc:"Free-text label"`
		Points []spectro.Point `json:"points" minItems:"1" required:"true" doc:"Readings for all 26 standard wavelengths"`
	}
}

// ListSpectraRequest lists the spectra of a session
type ListSpectraRequest struct {
	SessionID string `path:"sessionId" doc:"Client session identifier"`
}

// ListSpectraResponse holds a session's spectra, newest first
type ListSpectraResponse struct {
	Body struct {
		Spectra []SpectrumResponseBody `json:"spectra" doc:"Saved spectra"`
	}
}

// TemplateResponse returns the blank reading template
type TemplateResponse struct {
	Body struct {
		Points []spectro.Point `json:"points" doc:"All standard wavelengths at 0.000 AU"`
	}
}

// ClassifyRequest computes a result for ad-hoc readings
type ClassifyRequest struct {
	Body struct {
		Points     []spectro.Point    `json:"points" minItems:"1" required:"true" doc:"Readings for all 26 standard wavelengths"`
		Parameters spectro.Parameters `json:"parameters" required:"true" doc:"Biochemical parameters"`
	}
}

// ClassifySpectrumRequest computes a result for a saved spectrum
type ClassifySpectrumRequest struct {
	ID   string `path:"id" doc:"Spectrum ID"`
	Body spectro.Parameters
}

// ClassificationBody is the computed result plus plot data
type ClassificationBody struct {
	Result          spectro.Result          `json:"result" doc:"Computed values and interpretation"`
	Description     string                  `json:"description" doc:"Interpretation wording (English)"`
	DescriptionCS   string                  `json:"description_cs" doc:"Interpretation wording (Czech)"`
	SupportsFinding bool                    `json:"supports_finding" doc:"Whether the result supports SAH"`
	Fit             spectro.BaselineFit     `json:"fit" doc:"Fitted baseline lines"`
	Profile         []spectro.BaselinePoint `json:"profile" doc:"Per-wavelength baseline, null inside the undefined region"`
	Segments        []spectro.Segment       `json:"segments" doc:"Baseline-to-reading segments at 415 and 476 nm"`
}

// NewClassificationBody converts an engine analysis for the API
func NewClassificationBody(a spectro.Analysis) ClassificationBody {
	return ClassificationBody{
		Result:          a.Result,
		Description:     a.Result.Interpretation.Description("en"),
		DescriptionCS:   a.Result.Interpretation.Description("cs"),
		SupportsFinding: a.Result.Interpretation.SupportsFinding(),
		Fit:             a.Fit,
		Profile:         a.Profile,
		Segments:        a.Segments,
	}
}

// ClassifyResponse carries a classification
type ClassifyResponse struct {
	Body ClassificationBody
}

// ImportSpectrumRequest parses an uploaded CSV or XLSX table
type ImportSpectrumRequest struct {
	Format  string `query:"format" enum:"csv,xlsx" default:"csv" doc:"Table format"`
	RawBody []byte `contentType:"application/octet-stream"`
}

// ImportSpectrumResponse returns the validated readings
type ImportSpectrumResponse struct {
	Body struct {
		Points []spectro.Point `json:"points" doc:"Readings ordered by wavelength"`
	}
}

// DownloadSpectrumRequest asks for a saved spectrum as a file
type DownloadSpectrumRequest struct {
	ID     string `path:"id" doc:"Spectrum ID"`
	Format string `query:"format" enum:"csv,xlsx" default:"csv" doc:"Table format"`
}

// FileResponse is a raw file download
type FileResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// ExportSpectrumResponse points at an exported file in object storage
type ExportSpectrumResponse struct {
	Body struct {
		Key         string `json:"key" doc:"Object storage key"`
		DownloadURL string `json:"download_url" doc:"Pre-signed download URL"`
		ExpiresIn   int    `json:"expires_in" doc:"URL expiration time in seconds"`
	}
}

// ExportResult describes an uploaded export (for internal use)
type ExportResult struct {
	Key         string
	DownloadURL string
	ExpiresIn   time.Duration
}

// ReportRequest renders a printable report for ad-hoc readings
type ReportRequest struct {
	Lang string `query:"lang" enum:"en,cs" default:"en" doc:"Report language"`
	Body struct {
		Points     []spectro.Point    `json:"points" minItems:"1" required:"true" doc:"Readings for all 26 standard wavelengths"`
		Parameters spectro.Parameters `json:"parameters" required:"true" doc:"Biochemical parameters"`
	}
}

// ReportResponse is an HTML page
type ReportResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
