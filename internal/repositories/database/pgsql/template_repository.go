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

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for journal entry templates.
func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

const templateColumns = `
	template_id, organization_id, name, description, default_description,
	use_count, last_used_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTemplate(row pgx.Row) (*models.JournalEntryTemplate, error) {
	var m models.JournalEntryTemplate
	err := row.Scan(
		&m.TemplateID,
		&m.OrganizationID,
		&m.Name,
		&m.Description,
		&m.DefaultDescription,
		&m.UseCount,
		&m.LastUsedAt,
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

func (r *PgxTemplateRepository) findTemplateLines(ctx context.Context, templateID string) ([]domain.TemplateLine, error) {
	query := `
		SELECT template_id, account_id, debit_amount, credit_amount, line_order
		FROM template_lines
		WHERE template_id = $1
		ORDER BY line_order;
	`
	rows, err := r.Pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find lines for template "+templateID, err)
	}
	defer rows.Close()

	var lines []domain.TemplateLine
	for rows.Next() {
		var m models.TemplateLine
		if err := rows.Scan(&m.TemplateID, &m.AccountID, &m.DebitAmount, &m.CreditAmount, &m.LineOrder); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template line row", err)
		}
		lines = append(lines, mapping.ToDomainTemplateLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate template line rows", err)
	}
	return lines, nil
}

func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, organizationID, templateID string) (*domain.JournalEntryTemplate, error) {
	query := `SELECT` + templateColumns + `
		FROM journal_entry_templates
		WHERE organization_id = $1 AND template_id = $2;`

	m, err := scanTemplate(r.Pool.QueryRow(ctx, query, organizationID, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find template by ID "+templateID, err)
	}

	template := mapping.ToDomainTemplate(*m)
	lines, err := r.findTemplateLines(ctx, templateID)
	if err != nil {
		return nil, err
	}
	template.Lines = lines
	return &template, nil
}

func (r *PgxTemplateRepository) ListTemplatesByOrganization(ctx context.Context, organizationID string) ([]domain.JournalEntryTemplate, error) {
	query := `SELECT` + templateColumns + `
		FROM journal_entry_templates
		WHERE organization_id = $1
		ORDER BY use_count DESC, name;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list templates for organization "+organizationID, err)
	}
	defer rows.Close()

	var templates []domain.JournalEntryTemplate
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template row", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate template rows", err)
	}

	for i := range templates {
		lines, err := r.findTemplateLines(ctx, templates[i].TemplateID)
		if err != nil {
			return nil, err
		}
		templates[i].Lines = lines
	}
	return templates, nil
}

func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.JournalEntryTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTemplate(template)
	_, err = tx.Exec(ctx, `
		INSERT INTO journal_entry_templates (
			template_id, organization_id, name, description, default_description,
			use_count, last_used_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`,
		m.TemplateID,
		m.OrganizationID,
		m.Name,
		m.Description,
		m.DefaultDescription,
		m.UseCount,
		m.LastUsedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert template "+m.TemplateID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range template.Lines {
		batch.Queue(`
			INSERT INTO template_lines (template_id, account_id, debit_amount, credit_amount, line_order)
			VALUES ($1, $2, $3, $4, $5);
		`, m.TemplateID, line.AccountID, line.DebitAmount, line.CreditAmount, line.LineOrder)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for template "+m.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTemplateRepository) DeleteTemplate(ctx context.Context, organizationID, templateID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM template_lines WHERE template_id = $1;`, templateID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for template "+templateID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entry_templates WHERE organization_id = $1 AND template_id = $2;`, organizationID, templateID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete template "+templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTemplateRepository) RecordTemplateUse(ctx context.Context, templateID string, usedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE journal_entry_templates
		SET use_count = use_count + 1, last_used_at = $2, last_updated_at = $2
		WHERE template_id = $1;
	`, templateID, usedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record use of template "+templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
