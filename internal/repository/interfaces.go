package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/xantho/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no row matches the requested ID
var ErrNotFound = errors.New("not found")

// SpectrumRepository defines the interface for saved spectrum operations
type SpectrumRepository interface {
	Create(ctx context.Context, spectrum *models.SavedSpectrum) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SavedSpectrum, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.SavedSpectrum, error)
	Update(ctx context.Context, spectrum *models.SavedSpectrum) error
	Delete(ctx context.Context, id uuid.UUID) error
}
