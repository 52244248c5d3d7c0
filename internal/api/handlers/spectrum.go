package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/xantho/internal/processing"
	"github.com/RMahshie/xantho/internal/repository"
	"github.com/RMahshie/xantho/internal/spectro"
	"github.com/RMahshie/xantho/internal/spectrumio"
	"github.com/RMahshie/xantho/pkg/models"
)

// SpectrumHandler handles spectrum and classification HTTP requests
type SpectrumHandler struct {
	svc processing.SpectrumService
}

// NewSpectrumHandler creates a new spectrum handler
func NewSpectrumHandler(svc processing.SpectrumService) *SpectrumHandler {
	return &SpectrumHandler{svc: svc}
}

// Template returns the blank reading template
func (h *SpectrumHandler) Template(ctx context.Context, _ *struct{}) (*models.TemplateResponse, error) {
	resp := &models.TemplateResponse{}
	resp.Body.Points = spectro.ZeroSpectrum().Points()
	return resp, nil
}

// Classify computes NBA, NOA, PA and the interpretation for ad-hoc readings
func (h *SpectrumHandler) Classify(ctx context.Context, req *models.ClassifyRequest) (*models.ClassifyResponse, error) {
	analysis, err := h.svc.Classify(ctx, req.Body.Points, req.Body.Parameters)
	if err != nil {
		return nil, toHTTPError("Classification failed", err)
	}
	return &models.ClassifyResponse{Body: models.NewClassificationBody(analysis)}, nil
}

// Report renders a printable HTML report
func (h *SpectrumHandler) Report(ctx context.Context, req *models.ReportRequest) (*models.ReportResponse, error) {
	page, err := h.svc.Report(ctx, req.Body.Points, req.Body.Parameters, req.Lang)
	if err != nil {
		return nil, toHTTPError("Report failed", err)
	}
	return &models.ReportResponse{ContentType: "text/html; charset=utf-8", Body: page}, nil
}

// CreateSpectrum saves a spectrum for a session
func (h *SpectrumHandler) CreateSpectrum(ctx context.Context, req *models.CreateSpectrumRequest) (*models.SpectrumResponse, error) {
	log.Info().Str("sessionID", req.Body.SessionID).Int("points", len(req.Body.Points)).Msg("Creating spectrum")

	saved, err := h.svc.CreateSpectrum(ctx, req.Body.SessionID, req.Body.Label, req.Body.Points)
	if err != nil {
		return nil, toHTTPError("Failed to create spectrum", err)
	}
	return &models.SpectrumResponse{Body: models.NewSpectrumResponseBody(saved)}, nil
}

// GetSpectrum returns a saved spectrum
func (h *SpectrumHandler) GetSpectrum(ctx context.Context, req *models.GetSpectrumRequest) (*models.SpectrumResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	saved, err := h.svc.GetSpectrum(ctx, id)
	if err != nil {
		return nil, toHTTPError("Failed to get spectrum", err)
	}
	return &models.SpectrumResponse{Body: models.NewSpectrumResponseBody(saved)}, nil
}

// ListSpectra returns a session's spectra, newest first
func (h *SpectrumHandler) ListSpectra(ctx context.Context, req *models.ListSpectraRequest) (*models.ListSpectraResponse, error) {
	spectra, err := h.svc.ListSpectra(ctx, req.SessionID)
	if err != nil {
		return nil, toHTTPError("Failed to list spectra", err)
	}

	resp := &models.ListSpectraResponse{}
	resp.Body.Spectra = make([]models.SpectrumResponseBody, 0, len(spectra))
	for _, s := range spectra {
		resp.Body.Spectra = append(resp.Body.Spectra, models.NewSpectrumResponseBody(s))
	}
	return resp, nil
}

// UpdateSpectrum replaces the readings of a saved spectrum
func (h *SpectrumHandler) UpdateSpectrum(ctx context.Context, req *models.UpdateSpectrumRequest) (*models.SpectrumResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	saved, err := h.svc.UpdateSpectrum(ctx, id, req.Body.Label, req.Body.Points)
	if err != nil {
		return nil, toHTTPError("Failed to update spectrum", err)
	}
	return &models.SpectrumResponse{Body: models.NewSpectrumResponseBody(saved)}, nil
}

// ResetSpectrum sets every reading of a saved spectrum back to 0 AU
func (h *SpectrumHandler) ResetSpectrum(ctx context.Context, req *models.GetSpectrumRequest) (*models.SpectrumResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	saved, err := h.svc.ResetSpectrum(ctx, id)
	if err != nil {
		return nil, toHTTPError("Failed to reset spectrum", err)
	}
	return &models.SpectrumResponse{Body: models.NewSpectrumResponseBody(saved)}, nil
}

// DeleteSpectrum removes a saved spectrum
func (h *SpectrumHandler) DeleteSpectrum(ctx context.Context, req *models.GetSpectrumRequest) (*struct{}, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteSpectrum(ctx, id); err != nil {
		return nil, toHTTPError("Failed to delete spectrum", err)
	}
	return nil, nil
}

// ClassifySpectrum classifies a saved spectrum
func (h *SpectrumHandler) ClassifySpectrum(ctx context.Context, req *models.ClassifySpectrumRequest) (*models.ClassifyResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	analysis, err := h.svc.ClassifySpectrum(ctx, id, req.Body)
	if err != nil {
		return nil, toHTTPError("Classification failed", err)
	}
	return &models.ClassifyResponse{Body: models.NewClassificationBody(analysis)}, nil
}

// ImportSpectrum parses an uploaded CSV or XLSX table into readings
func (h *SpectrumHandler) ImportSpectrum(ctx context.Context, req *models.ImportSpectrumRequest) (*models.ImportSpectrumResponse, error) {
	format, err := spectrumio.ParseFormat(req.Format)
	if err != nil {
		return nil, huma.Error400BadRequest("Unsupported format", err)
	}

	spectrum, err := h.svc.Import(ctx, format, req.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Could not read the uploaded table", err)
	}

	resp := &models.ImportSpectrumResponse{}
	resp.Body.Points = spectrum.Points()
	return resp, nil
}

// DownloadSpectrum streams a saved spectrum as CSV or XLSX
func (h *SpectrumHandler) DownloadSpectrum(ctx context.Context, req *models.DownloadSpectrumRequest) (*models.FileResponse, error) {
	id, format, err := parseDownload(req)
	if err != nil {
		return nil, err
	}

	data, err := h.svc.Encode(ctx, id, format)
	if err != nil {
		return nil, toHTTPError("Failed to encode spectrum", err)
	}
	return &models.FileResponse{
		ContentType:        format.ContentType(),
		ContentDisposition: fmt.Sprintf(`attachment; filename="spectrum-%s.%s"`, id, format),
		Body:               data,
	}, nil
}

// ExportSpectrum uploads a saved spectrum to object storage and returns a download URL
func (h *SpectrumHandler) ExportSpectrum(ctx context.Context, req *models.DownloadSpectrumRequest) (*models.ExportSpectrumResponse, error) {
	id, format, err := parseDownload(req)
	if err != nil {
		return nil, err
	}

	result, err := h.svc.Export(ctx, id, format)
	if err != nil {
		if errors.Is(err, processing.ErrStorageDisabled) {
			return nil, huma.Error503ServiceUnavailable("Export storage is not configured", err)
		}
		return nil, toHTTPError("Failed to export spectrum", err)
	}

	resp := &models.ExportSpectrumResponse{}
	resp.Body.Key = result.Key
	resp.Body.DownloadURL = result.DownloadURL
	resp.Body.ExpiresIn = int(result.ExpiresIn.Seconds())
	return resp, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest("Invalid spectrum ID", err)
	}
	return id, nil
}

func parseDownload(req *models.DownloadSpectrumRequest) (uuid.UUID, spectrumio.Format, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return uuid.Nil, "", err
	}
	format, err := spectrumio.ParseFormat(req.Format)
	if err != nil {
		return uuid.Nil, "", huma.Error400BadRequest("Unsupported format", err)
	}
	return id, format, nil
}

// toHTTPError maps service errors onto API status codes
func toHTTPError(msg string, err error) error {
	var specErr *spectro.Error
	switch {
	case errors.As(err, &specErr):
		return huma.Error422UnprocessableEntity(specErr.Error(), err)
	case errors.Is(err, repository.ErrNotFound):
		return huma.Error404NotFound("Spectrum not found", err)
	default:
		log.Error().Err(err).Msg(msg)
		return huma.Error500InternalServerError(msg, err)
	}
}
