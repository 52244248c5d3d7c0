package processing

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"

	"github.com/RMahshie/xantho/internal/repository"
	"github.com/RMahshie/xantho/internal/spectro"
	"github.com/RMahshie/xantho/internal/spectrumio"
	"github.com/RMahshie/xantho/pkg/models"
)

// MockSpectrumRepository implements repository.SpectrumRepository for testing
type MockSpectrumRepository struct {
	mock.Mock
}

func (m *MockSpectrumRepository) Create(ctx context.Context, spectrum *models.SavedSpectrum) error {
	args := m.Called(ctx, spectrum)
	return args.Error(0)
}

func (m *MockSpectrumRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SavedSpectrum, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.SavedSpectrum), args.Error(1)
}

func (m *MockSpectrumRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.SavedSpectrum, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*models.SavedSpectrum), args.Error(1)
}

func (m *MockSpectrumRepository) Update(ctx context.Context, spectrum *models.SavedSpectrum) error {
	args := m.Called(ctx, spectrum)
	return args.Error(0)
}

func (m *MockSpectrumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) URLExpiry() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func withReading(wl, absorbance float64) []spectro.Point {
	points := spectro.ZeroSpectrum().Points()
	for i := range points {
		if points[i].Wavelength == wl {
			points[i].Absorbance = absorbance
		}
	}
	return points
}

func newTestService(repo *MockSpectrumRepository, s3 *MockS3Service) *spectrumService {
	svc := &spectrumService{
		repository: repo,
		uploads:    semaphore.NewWeighted(2),
		now:        func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
	if s3 != nil {
		svc.s3 = s3
	}
	return svc
}

func TestClassify(t *testing.T) {
	svc := newTestService(new(MockSpectrumRepository), nil)

	a, err := svc.Classify(context.Background(), withReading(476, 0.05), spectro.DefaultParameters())
	require.NoError(t, err)
	assert.Equal(t, spectro.ConsistentWithCondition, a.Result.Interpretation)
	assert.InDelta(t, 0.05, a.Result.NBA, 1e-12)
	assert.InDelta(t, 0.0045, a.Result.PA, 1e-12)
}

func TestClassify_Errors(t *testing.T) {
	svc := newTestService(new(MockSpectrumRepository), nil)

	tests := []struct {
		name   string
		points []spectro.Point
		params spectro.Parameters
		want   error
	}{
		{
			name:   "missing NBA wavelength",
			points: spectro.ZeroSpectrum().Points()[:10],
			params: spectro.DefaultParameters(),
			want:   spectro.ErrMissingDiagnosticWavelength,
		},
		{
			name:   "serum protein out of range",
			points: spectro.ZeroSpectrum().Points(),
			params: spectro.Parameters{CSFProtein: 0.5, SerumProtein: 0, SerumBilirubin: 15},
			want:   spectro.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Classify(context.Background(), tt.points, tt.params)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReport(t *testing.T) {
	svc := newTestService(new(MockSpectrumRepository), nil)

	html, err := svc.Report(context.Background(), withReading(476, 0.05), spectro.DefaultParameters(), "cs")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")
	assert.Contains(t, string(html), "0.05000")
}

func TestCreateSpectrum(t *testing.T) {
	t.Run("without points stores the template", func(t *testing.T) {
		repo := new(MockSpectrumRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(s *models.SavedSpectrum) bool {
			return s.SessionID == "session-12345" && len(s.Points) == len(spectro.StandardWavelengths())
		})).Return(nil)

		saved, err := newTestService(repo, nil).CreateSpectrum(context.Background(), "session-12345", "tube 3", nil)
		require.NoError(t, err)

		_, err = uuid.Parse(saved.ID)
		assert.NoError(t, err)
		assert.Equal(t, "tube 3", saved.Label)
		assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
		for _, p := range saved.Points {
			assert.Zero(t, p.Absorbance)
		}
		repo.AssertExpectations(t)
	})

	t.Run("invalid points are not saved", func(t *testing.T) {
		repo := new(MockSpectrumRepository)

		_, err := newTestService(repo, nil).CreateSpectrum(context.Background(), "session-12345", "", []spectro.Point{{Wavelength: 476}})
		assert.True(t, errors.Is(err, spectro.ErrMissingDiagnosticWavelength))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockSpectrumRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		_, err := newTestService(repo, nil).CreateSpectrum(context.Background(), "session-12345", "", nil)
		assert.ErrorContains(t, err, "failed to save spectrum")
	})
}

func TestGetSpectrum_NotFound(t *testing.T) {
	id := uuid.New()
	repo := new(MockSpectrumRepository)
	repo.On("GetByID", mock.Anything, id).Return((*models.SavedSpectrum)(nil), repository.ErrNotFound)

	_, err := newTestService(repo, nil).GetSpectrum(context.Background(), id)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestDeleteSpectrum(t *testing.T) {
	t.Run("deletes stored spectrum", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockSpectrumRepository)
		repo.On("Delete", mock.Anything, id).Return(nil)

		err := newTestService(repo, nil).DeleteSpectrum(context.Background(), id)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockSpectrumRepository)
		repo.On("Delete", mock.Anything, id).Return(repository.ErrNotFound)

		err := newTestService(repo, nil).DeleteSpectrum(context.Background(), id)
		assert.True(t, errors.Is(err, repository.ErrNotFound))
		assert.Contains(t, err.Error(), id.String())
	})
}

func TestUpdateAndResetSpectrum(t *testing.T) {
	id := uuid.New()
	stored := func() *models.SavedSpectrum {
		return &models.SavedSpectrum{
			ID:        id.String(),
			SessionID: "session-12345",
			Label:     "before",
			Points:    withReading(476, 0.2),
			CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("update replaces readings and label", func(t *testing.T) {
		repo := new(MockSpectrumRepository)
		repo.On("GetByID", mock.Anything, id).Return(stored(), nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*models.SavedSpectrum")).Return(nil)

		saved, err := newTestService(repo, nil).UpdateSpectrum(context.Background(), id, "after", withReading(415, 0.03))
		require.NoError(t, err)
		assert.Equal(t, "after", saved.Label)
		assert.True(t, saved.UpdatedAt.After(saved.CreatedAt))

		s, err := spectro.NewSpectrum(saved.Points)
		require.NoError(t, err)
		a415, _ := s.Absorbance(415)
		a476, _ := s.Absorbance(476)
		assert.Equal(t, 0.03, a415)
		assert.Equal(t, 0.0, a476)
		repo.AssertExpectations(t)
	})

	t.Run("reset zeroes readings and keeps label", func(t *testing.T) {
		repo := new(MockSpectrumRepository)
		repo.On("GetByID", mock.Anything, id).Return(stored(), nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*models.SavedSpectrum")).Return(nil)

		saved, err := newTestService(repo, nil).ResetSpectrum(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "before", saved.Label)
		assert.Equal(t, spectro.ZeroSpectrum().Points(), saved.Points)
	})

	t.Run("invalid update never loads the row", func(t *testing.T) {
		repo := new(MockSpectrumRepository)

		_, err := newTestService(repo, nil).UpdateSpectrum(context.Background(), id, "", withReading(476, 0)[1:])
		assert.True(t, errors.Is(err, spectro.ErrInvalidInput))
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestClassifySpectrum(t *testing.T) {
	id := uuid.New()
	repo := new(MockSpectrumRepository)
	repo.On("GetByID", mock.Anything, id).Return(&models.SavedSpectrum{ID: id.String(), Points: spectro.ZeroSpectrum().Points()}, nil)

	a, err := newTestService(repo, nil).ClassifySpectrum(context.Background(), id, spectro.DefaultParameters())
	require.NoError(t, err)
	assert.Equal(t, spectro.Negative, a.Result.Interpretation)
}

func TestImport(t *testing.T) {
	var b strings.Builder
	b.WriteString("Vlnová délka (nm),Absorbance (AU)\n")
	for _, p := range withReading(476, 0.05) {
		b.WriteString(strconv.FormatFloat(p.Wavelength, 'f', -1, 64) + "," + strconv.FormatFloat(p.Absorbance, 'f', -1, 64) + "\n")
	}

	svc := newTestService(new(MockSpectrumRepository), nil)
	s, err := svc.Import(context.Background(), spectrumio.FormatCSV, []byte(b.String()))
	require.NoError(t, err)
	a, ok := s.Absorbance(476)
	require.True(t, ok)
	assert.Equal(t, 0.05, a)

	_, err = svc.Import(context.Background(), spectrumio.FormatCSV, []byte("foo,bar\n1,2\n"))
	assert.True(t, errors.Is(err, spectrumio.ErrMissingColumns))
}

func TestExport(t *testing.T) {
	id := uuid.New()
	saved := &models.SavedSpectrum{ID: id.String(), Points: withReading(476, 0.05)}

	t.Run("uploads and presigns", func(t *testing.T) {
		repo := new(MockSpectrumRepository)
		repo.On("GetByID", mock.Anything, id).Return(saved, nil)

		s3 := new(MockS3Service)
		s3.On("UploadFile", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "exports/"+id.String()+"/") && strings.HasSuffix(key, ".xlsx")
		}), spectrumio.FormatXLSX.ContentType(), mock.AnythingOfType("[]uint8")).Return(nil)
		s3.On("GenerateDownloadURL", mock.Anything, mock.Anything).Return("https://example.com/download", nil)
		s3.On("URLExpiry").Return(15 * time.Minute)

		res, err := newTestService(repo, s3).Export(context.Background(), id, spectrumio.FormatXLSX)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/download", res.DownloadURL)
		assert.Equal(t, 15*time.Minute, res.ExpiresIn)
		s3.AssertExpectations(t)
	})

	t.Run("storage disabled", func(t *testing.T) {
		_, err := newTestService(new(MockSpectrumRepository), nil).Export(context.Background(), id, spectrumio.FormatCSV)
		assert.ErrorIs(t, err, ErrStorageDisabled)
	})

	t.Run("upload failure", func(t *testing.T) {
		repo := new(MockSpectrumRepository)
		repo.On("GetByID", mock.Anything, id).Return(saved, nil)

		s3 := new(MockS3Service)
		s3.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket missing"))

		_, err := newTestService(repo, s3).Export(context.Background(), id, spectrumio.FormatCSV)
		assert.ErrorContains(t, err, "bucket missing")
		s3.AssertNotCalled(t, "GenerateDownloadURL", mock.Anything, mock.Anything)
	})

	t.Run("cancelled while waiting for an upload slot", func(t *testing.T) {
		repo := new(MockSpectrumRepository)
		repo.On("GetByID", mock.Anything, id).Return(saved, nil)

		svc := newTestService(repo, new(MockS3Service))
		require.True(t, svc.uploads.TryAcquire(2))
		defer svc.uploads.Release(2)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Export(ctx, id, spectrumio.FormatCSV)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
