package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/xantho/internal/api/handlers"
	"github.com/RMahshie/xantho/internal/processing"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, svc processing.SpectrumService) {
	spectrumHandler := handlers.NewSpectrumHandler(svc)

	// Computation
	huma.Register(api, huma.Operation{
		OperationID: "classify",
		Method:      http.MethodPost,
		Path:        "/api/classifications",
		Summary:     "Classify readings",
		Description: "Fits the baselines and returns NBA, NOA, PA, adjusted NBA and the interpretation",
		Tags:        []string{"Classification"},
	}, spectrumHandler.Classify)

	huma.Register(api, huma.Operation{
		OperationID: "createReport",
		Method:      http.MethodPost,
		Path:        "/api/reports",
		Summary:     "Render a report",
		Description: "Returns a printable HTML report in English or Czech",
		Tags:        []string{"Classification"},
	}, spectrumHandler.Report)

	// Spectra
	huma.Register(api, huma.Operation{
		OperationID: "getTemplate",
		Method:      http.MethodGet,
		Path:        "/api/spectra/template",
		Summary:     "Get the reading template",
		Description: "Returns every standard wavelength at 0.000 AU",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.Template)

	huma.Register(api, huma.Operation{
		OperationID:   "createSpectrum",
		Method:        http.MethodPost,
		Path:          "/api/spectra",
		Summary:       "Save a spectrum",
		Description:   "Stores readings for a session; without points the blank template is stored",
		Tags:          []string{"Spectra"},
		DefaultStatus: http.StatusCreated,
	}, spectrumHandler.CreateSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "importSpectrum",
		Method:      http.MethodPost,
		Path:        "/api/spectra/import",
		Summary:     "Import a table",
		Description: "Parses an uploaded CSV or XLSX file and returns the validated readings",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.ImportSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "getSpectrum",
		Method:      http.MethodGet,
		Path:        "/api/spectra/{id}",
		Summary:     "Get a spectrum",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.GetSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "updateSpectrum",
		Method:      http.MethodPut,
		Path:        "/api/spectra/{id}",
		Summary:     "Replace readings",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.UpdateSpectrum)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteSpectrum",
		Method:        http.MethodDelete,
		Path:          "/api/spectra/{id}",
		Summary:       "Delete a spectrum",
		Tags:          []string{"Spectra"},
		DefaultStatus: http.StatusNoContent,
	}, spectrumHandler.DeleteSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "resetSpectrum",
		Method:      http.MethodPost,
		Path:        "/api/spectra/{id}/reset",
		Summary:     "Reset readings",
		Description: "Sets every reading back to 0.000 AU",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.ResetSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "classifySpectrum",
		Method:      http.MethodPost,
		Path:        "/api/spectra/{id}/classify",
		Summary:     "Classify a saved spectrum",
		Tags:        []string{"Spectra", "Classification"},
	}, spectrumHandler.ClassifySpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "downloadSpectrum",
		Method:      http.MethodGet,
		Path:        "/api/spectra/{id}/file",
		Summary:     "Download a spectrum",
		Description: "Returns the readings as a CSV or XLSX file",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.DownloadSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "exportSpectrum",
		Method:      http.MethodPost,
		Path:        "/api/spectra/{id}/export",
		Summary:     "Export a spectrum",
		Description: "Uploads the readings to object storage and returns a pre-signed download URL",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.ExportSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "listSpectra",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{sessionId}/spectra",
		Summary:     "List a session's spectra",
		Description: "Returns the session's saved spectra, newest first",
		Tags:        []string{"Spectra"},
	}, spectrumHandler.ListSpectra)
}
