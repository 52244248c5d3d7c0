package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/RMahshie/xantho/internal/repository"
	"github.com/RMahshie/xantho/internal/spectro"
	"github.com/RMahshie/xantho/pkg/models"
)

// PostgresSpectrumRepository implements SpectrumRepository for PostgreSQL
type PostgresSpectrumRepository struct {
	db *sqlx.DB
}

// NewPostgresSpectrumRepository creates a new PostgreSQL spectrum repository
func NewPostgresSpectrumRepository(db *sqlx.DB) repository.SpectrumRepository {
	return &PostgresSpectrumRepository{db: db}
}

type spectrumRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Label     string    `db:"label"`
	Readings  []byte    `db:"readings"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r spectrumRow) toModel() (*models.SavedSpectrum, error) {
	var points []spectro.Point
	if err := json.Unmarshal(r.Readings, &points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal readings: %w", err)
	}
	return &models.SavedSpectrum{
		ID:        r.ID,
		SessionID: r.SessionID,
		Label:     r.Label,
		Points:    points,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// Create inserts a new spectrum
func (r *PostgresSpectrumRepository) Create(ctx context.Context, spectrum *models.SavedSpectrum) error {
	readings, err := json.Marshal(spectrum.Points)
	if err != nil {
		return fmt.Errorf("failed to marshal readings: %w", err)
	}

	query := `
		INSERT INTO spectra (id, session_id, label, readings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		spectrum.ID,
		spectrum.SessionID,
		spectrum.Label,
		string(readings),
		spectrum.CreatedAt,
		spectrum.UpdatedAt)

	return err
}

// GetByID retrieves a spectrum by ID
func (r *PostgresSpectrumRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SavedSpectrum, error) {
	query := `
		SELECT id, session_id, label, readings, created_at, updated_at
		FROM spectra
		WHERE id = $1`

	var row spectrumRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return row.toModel()
}

// GetBySessionID retrieves the spectra of a session, newest first
func (r *PostgresSpectrumRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.SavedSpectrum, error) {
	query := `
		SELECT id, session_id, label, readings, created_at, updated_at
		FROM spectra
		WHERE session_id = $1
		ORDER BY created_at DESC`

	var rows []spectrumRow
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, err
	}

	spectra := make([]*models.SavedSpectrum, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel()
		if err != nil {
			return nil, err
		}
		spectra = append(spectra, s)
	}

	return spectra, nil
}

// Update replaces the label and readings of a spectrum
func (r *PostgresSpectrumRepository) Update(ctx context.Context, spectrum *models.SavedSpectrum) error {
	readings, err := json.Marshal(spectrum.Points)
	if err != nil {
		return fmt.Errorf("failed to marshal readings: %w", err)
	}

	query := `
		UPDATE spectra
		SET label = $1, readings = $2, updated_at = $3
		WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, spectrum.Label, string(readings), spectrum.UpdatedAt, spectrum.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete removes a spectrum
func (r *PostgresSpectrumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM spectra WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
