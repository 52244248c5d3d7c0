package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/RMahshie/xantho/internal/report"
	"github.com/RMahshie/xantho/internal/repository"
	"github.com/RMahshie/xantho/internal/spectro"
	"github.com/RMahshie/xantho/internal/spectrumio"
	"github.com/RMahshie/xantho/internal/storage"
	"github.com/RMahshie/xantho/pkg/models"
)

// ErrStorageDisabled is returned by Export when no object storage is configured
var ErrStorageDisabled = errors.New("export storage is not configured")

// SpectrumService runs computations and manages saved spectra
type SpectrumService interface {
	Classify(ctx context.Context, points []spectro.Point, params spectro.Parameters) (spectro.Analysis, error)
	Report(ctx context.Context, points []spectro.Point, params spectro.Parameters, lang string) ([]byte, error)

	CreateSpectrum(ctx context.Context, sessionID, label string, points []spectro.Point) (*models.SavedSpectrum, error)
	GetSpectrum(ctx context.Context, id uuid.UUID) (*models.SavedSpectrum, error)
	ListSpectra(ctx context.Context, sessionID string) ([]*models.SavedSpectrum, error)
	UpdateSpectrum(ctx context.Context, id uuid.UUID, label string, points []spectro.Point) (*models.SavedSpectrum, error)
	ResetSpectrum(ctx context.Context, id uuid.UUID) (*models.SavedSpectrum, error)
	DeleteSpectrum(ctx context.Context, id uuid.UUID) error
	ClassifySpectrum(ctx context.Context, id uuid.UUID, params spectro.Parameters) (spectro.Analysis, error)

	Import(ctx context.Context, format spectrumio.Format, data []byte) (spectro.Spectrum, error)
	Encode(ctx context.Context, id uuid.UUID, format spectrumio.Format) ([]byte, error)
	Export(ctx context.Context, id uuid.UUID, format spectrumio.Format) (*models.ExportResult, error)
}

type spectrumService struct {
	repository repository.SpectrumRepository
	s3         storage.S3Service   // nil disables Export
	uploads    *semaphore.Weighted // bounds concurrent Export uploads
	now        func() time.Time
}

// NewSpectrumService wires the service. s3Service may be nil. maxUploads below 1 means 1.
func NewSpectrumService(repo repository.SpectrumRepository, s3Service storage.S3Service, maxUploads int) SpectrumService {
	if maxUploads < 1 {
		maxUploads = 1
	}
	return &spectrumService{
		repository: repo,
		s3:         s3Service,
		uploads:    semaphore.NewWeighted(int64(maxUploads)),
		now:        time.Now,
	}
}

func (s *spectrumService) Classify(ctx context.Context, points []spectro.Point, params spectro.Parameters) (spectro.Analysis, error) {
	spectrum, err := spectro.NewSpectrum(points)
	if err != nil {
		return spectro.Analysis{}, err
	}

	analysis, err := spectro.Analyze(spectrum, params)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(spectro.KindOf(err))).Msg("Computation rejected")
		return spectro.Analysis{}, err
	}

	log.Info().
		Float64("nba", analysis.Result.NBA).
		Float64("noa", analysis.Result.NOA).
		Float64("pa", analysis.Result.PA).
		Str("interpretation", string(analysis.Result.Interpretation)).
		Msg("Spectrum classified")
	return analysis, nil
}

func (s *spectrumService) Report(ctx context.Context, points []spectro.Point, params spectro.Parameters, lang string) ([]byte, error) {
	analysis, err := s.Classify(ctx, points, params)
	if err != nil {
		return nil, err
	}
	return report.HTML(analysis, params, lang), nil
}

func (s *spectrumService) CreateSpectrum(ctx context.Context, sessionID, label string, points []spectro.Point) (*models.SavedSpectrum, error) {
	spectrum := spectro.ZeroSpectrum()
	if len(points) > 0 {
		var err error
		if spectrum, err = spectro.NewSpectrum(points); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	saved := &models.SavedSpectrum{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Label:     label,
		Points:    spectrum.Points(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.Create(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to save spectrum: %w", err)
	}

	log.Info().Str("spectrumID", saved.ID).Str("sessionID", sessionID).Msg("Spectrum saved")
	return saved, nil
}

func (s *spectrumService) GetSpectrum(ctx context.Context, id uuid.UUID) (*models.SavedSpectrum, error) {
	saved, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load spectrum %s: %w", id, err)
	}
	return saved, nil
}

func (s *spectrumService) ListSpectra(ctx context.Context, sessionID string) ([]*models.SavedSpectrum, error) {
	spectra, err := s.repository.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spectra: %w", err)
	}
	return spectra, nil
}

func (s *spectrumService) UpdateSpectrum(ctx context.Context, id uuid.UUID, label string, points []spectro.Point) (*models.SavedSpectrum, error) {
	spectrum, err := spectro.NewSpectrum(points)
	if err != nil {
		return nil, err
	}
	return s.replaceReadings(ctx, id, &label, spectrum)
}

func (s *spectrumService) ResetSpectrum(ctx context.Context, id uuid.UUID) (*models.SavedSpectrum, error) {
	return s.replaceReadings(ctx, id, nil, spectro.ZeroSpectrum())
}

func (s *spectrumService) DeleteSpectrum(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete spectrum %s: %w", id, err)
	}

	log.Info().Str("spectrumID", id.String()).Msg("Spectrum deleted")
	return nil
}

// replaceReadings stores new readings; a nil label keeps the current one
func (s *spectrumService) replaceReadings(ctx context.Context, id uuid.UUID, label *string, spectrum spectro.Spectrum) (*models.SavedSpectrum, error) {
	saved, err := s.GetSpectrum(ctx, id)
	if err != nil {
		return nil, err
	}

	if label != nil {
		saved.Label = *label
	}
	saved.Points = spectrum.Points()
	saved.UpdatedAt = s.now().UTC()

	if err := s.repository.Update(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to update spectrum %s: %w", id, err)
	}

	log.Info().Str("spectrumID", saved.ID).Msg("Spectrum readings replaced")
	return saved, nil
}

func (s *spectrumService) ClassifySpectrum(ctx context.Context, id uuid.UUID, params spectro.Parameters) (spectro.Analysis, error) {
	saved, err := s.GetSpectrum(ctx, id)
	if err != nil {
		return spectro.Analysis{}, err
	}
	return s.Classify(ctx, saved.Points, params)
}

func (s *spectrumService) Import(ctx context.Context, format spectrumio.Format, data []byte) (spectro.Spectrum, error) {
	spectrum, err := spectrumio.Read(format, bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Str("format", string(format)).Msg("Import rejected")
		return spectro.Spectrum{}, err
	}
	return spectrum, nil
}

func (s *spectrumService) Encode(ctx context.Context, id uuid.UUID, format spectrumio.Format) ([]byte, error) {
	saved, err := s.GetSpectrum(ctx, id)
	if err != nil {
		return nil, err
	}
	spectrum, err := spectro.NewSpectrum(saved.Points)
	if err != nil {
		return nil, fmt.Errorf("stored spectrum %s is invalid: %w", id, err)
	}

	var buf bytes.Buffer
	if err := spectrumio.Write(format, &buf, spectrum); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *spectrumService) Export(ctx context.Context, id uuid.UUID, format spectrumio.Format) (*models.ExportResult, error) {
	if s.s3 == nil {
		return nil, ErrStorageDisabled
	}

	data, err := s.Encode(ctx, id, format)
	if err != nil {
		return nil, err
	}

	if err := s.uploads.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for upload slot: %w", err)
	}
	defer s.uploads.Release(1)

	key := fmt.Sprintf("exports/%s/%s.%s", id, uuid.New(), format)
	if err := s.s3.UploadFile(ctx, key, format.ContentType(), data); err != nil {
		return nil, err
	}
	url, err := s.s3.GenerateDownloadURL(ctx, key)
	if err != nil {
		return nil, err
	}

	log.Info().Str("spectrumID", id.String()).Str("key", key).Msg("Spectrum exported")
	return &models.ExportResult{Key: key, DownloadURL: url, ExpiresIn: s.s3.URLExpiry()}, nil
}
