package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/domain"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	"github.com/klarbok/klarbok/internal/models"
	"github.com/klarbok/klarbok/internal/utils/mapping"
)

type PgxFiscalYearRepository struct {
	BaseRepository
}

// newPgxFiscalYearRepository creates a new repository for fiscal year data.
func newPgxFiscalYearRepository(pool *pgxpool.Pool) portsrepo.FiscalYearRepositoryFacade {
	return &PgxFiscalYearRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalYearRepositoryFacade = (*PgxFiscalYearRepository)(nil)

const fiscalYearColumns = `
	fiscal_year_id, organization_id, start_date, end_date, is_closed, closed_at,
	next_verification_number,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFiscalYear(row pgx.Row) (*models.FiscalYear, error) {
	var m models.FiscalYear
	err := row.Scan(
		&m.FiscalYearID,
		&m.OrganizationID,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.ClosedAt,
		&m.NextVerificationNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `SELECT` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE fiscal_year_id = $1;`

	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal year by ID "+fiscalYearID, err)
	}

	fy := mapping.ToDomainFiscalYear(*m)
	return &fy, nil
}

func (r *PgxFiscalYearRepository) FindFiscalYearForDate(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalYear, error) {
	query := `SELECT` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE organization_id = $1 AND start_date <= $2 AND end_date >= $2;`

	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, organizationID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fiscal year for date", err)
	}

	fy := mapping.ToDomainFiscalYear(*m)
	return &fy, nil
}

func (r *PgxFiscalYearRepository) ListFiscalYearsByOrganization(ctx context.Context, organizationID string) ([]domain.FiscalYear, error) {
	query := `SELECT` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE organization_id = $1
		ORDER BY start_date;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list fiscal years for organization "+organizationID, err)
	}
	defer rows.Close()

	var years []models.FiscalYear
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fiscal year row", err)
		}
		years = append(years, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate fiscal year rows", err)
	}

	return mapping.ToDomainFiscalYearSlice(years), nil
}

func (r *PgxFiscalYearRepository) SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error {
	m := mapping.ToModelFiscalYear(fy)
	query := `
		INSERT INTO fiscal_years (
			fiscal_year_id, organization_id, start_date, end_date, is_closed, closed_at,
			next_verification_number,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.FiscalYearID,
		m.OrganizationID,
		m.StartDate,
		m.EndDate,
		m.IsClosed,
		m.ClosedAt,
		m.NextVerificationNumber,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert fiscal year "+m.FiscalYearID, err)
	}
	return nil
}

func (r *PgxFiscalYearRepository) CloseFiscalYear(ctx context.Context, fiscalYearID, userID string, closedAt time.Time) error {
	query := `
		UPDATE fiscal_years
		SET is_closed = TRUE, closed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE fiscal_year_id = $1 AND is_closed = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, fiscalYearID, closedAt, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close fiscal year "+fiscalYearID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindFiscalYearByID(ctx, fiscalYearID); err != nil {
			return err
		}
		// Row exists, so it must already be closed.
		return apperrors.ErrConflict
	}
	return nil
}
