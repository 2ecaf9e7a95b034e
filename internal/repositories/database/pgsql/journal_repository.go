package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klarbok/klarbok/internal/apperrors"
	"github.com/klarbok/klarbok/internal/core/domain"
	portsrepo "github.com/klarbok/klarbok/internal/core/ports/repositories"
	"github.com/klarbok/klarbok/internal/models"
	"github.com/klarbok/klarbok/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry, line
// and ledger data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// insertLines queues all line inserts on one batch within the given transaction.
func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, debit_amount, credit_amount, line_order)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, line := range lines {
		m := mapping.ToModelJournalEntryLine(line)
		batch.Queue(lineQuery,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.DebitAmount,
			m.CreditAmount,
			m.LineOrder,
		)
	}
	br := tx.SendBatch(ctx, batch)
	return br.Close()
}

func (r *PgxJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, organization_id, fiscal_year_id, verification_number,
			entry_date, description, status, source_type, posted_at,
			original_entry_id, reversing_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, NULL, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.OrganizationID,
		m.FiscalYearID,
		m.EntryDate,
		m.Description,
		m.Status,
		m.SourceType,
		m.PostedAt,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entry "+m.EntryID, err)
	}

	if err := insertLines(ctx, tx, lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)
	// The status guard makes the update a no-op if a concurrent post won.
	entryQuery := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry "+m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for entry "+m.EntryID, err)
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for entry "+m.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return r.Commit(ctx, tx)
}

// isSerializationFailure reports whether err is a PostgreSQL serialization
// failure or deadlock, both of which are safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}

// allocateVerificationNumber reserves the fiscal year's next number inside tx.
// The UPDATE takes a row lock on the fiscal year, serializing concurrent
// posts; numbers therefore come out gap-free.
func allocateVerificationNumber(ctx context.Context, tx pgx.Tx, fiscalYearID string) (int64, error) {
	var allocated int64
	err := tx.QueryRow(ctx, `
		UPDATE fiscal_years
		SET next_verification_number = next_verification_number + 1
		WHERE fiscal_year_id = $1 AND is_closed = FALSE
		RETURNING next_verification_number - 1;
	`, fiscalYearID).Scan(&allocated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Missing or closed; the service has already checked both, so a
			// close must have raced in.
			return 0, apperrors.ErrConflict
		}
		if isSerializationFailure(err) {
			return 0, apperrors.ErrConcurrency
		}
		return 0, apperrors.NewAppError(500, "failed to allocate verification number for fiscal year "+fiscalYearID, err)
	}
	return allocated, nil
}

func (r *PgxJournalRepository) PostEntry(ctx context.Context, entryID, fiscalYearID, postedBy string, postedAt time.Time) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	verificationNumber, err := allocateVerificationNumber(ctx, tx, fiscalYearID)
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'POSTED', verification_number = $2, posted_at = $3,
		    last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'DRAFT';
	`, entryID, verificationNumber, postedAt, postedBy)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to post entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		// Rolling back releases the allocated number; the counter only moves
		// when the post commits.
		return 0, apperrors.ErrConflict
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isSerializationFailure(err) {
			return 0, apperrors.ErrConcurrency
		}
		return 0, err
	}
	return verificationNumber, nil
}

func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.JournalEntry, lines []domain.JournalEntryLine, originalEntryID string) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	verificationNumber, err := allocateVerificationNumber(ctx, tx, reversing.FiscalYearID)
	if err != nil {
		return 0, err
	}

	m := mapping.ToModelJournalEntry(reversing)
	_, err = tx.Exec(ctx, `
		INSERT INTO journal_entries (
			entry_id, organization_id, fiscal_year_id, verification_number,
			entry_date, description, status, source_type, posted_at,
			original_entry_id, reversing_entry_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL, $11, $12, $13, $14);
	`,
		m.EntryID,
		m.OrganizationID,
		m.FiscalYearID,
		verificationNumber,
		m.EntryDate,
		m.Description,
		m.Status,
		m.SourceType,
		m.PostedAt,
		m.OriginalEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to insert reversing entry "+m.EntryID, err)
	}

	if err := insertLines(ctx, tx, lines); err != nil {
		return 0, apperrors.NewAppError(500, "failed to insert lines for reversing entry "+m.EntryID, err)
	}

	// The link is guarded so an original can only ever be reversed once.
	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED' AND reversing_entry_id IS NULL;
	`, originalEntryID, m.EntryID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to link reversal to entry "+originalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, apperrors.ErrConflict
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isSerializationFailure(err) {
			return 0, apperrors.ErrConcurrency
		}
		return 0, err
	}
	return verificationNumber, nil
}

const entryColumns = `
	entry_id, organization_id, fiscal_year_id, verification_number,
	entry_date, description, status, source_type, posted_at,
	original_entry_id, reversing_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	var verificationNumber sql.NullInt64
	var originalID, reversingID sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.OrganizationID,
		&m.FiscalYearID,
		&verificationNumber,
		&m.EntryDate,
		&m.Description,
		&m.Status,
		&m.SourceType,
		&m.PostedAt,
		&originalID,
		&reversingID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if verificationNumber.Valid {
		m.VerificationNumber = verificationNumber.Int64
	}
	if originalID.Valid {
		m.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingEntryID = &reversingID.String
	}
	return &m, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT` + entryColumns + `
		FROM journal_entries
		WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(*m)
	return &entry, nil
}

func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit_amount, credit_amount, line_order
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_order;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find lines for entry "+entryID, err)
	}
	defer rows.Close()

	var lines []models.JournalEntryLine
	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(&m.LineID, &m.EntryID, &m.AccountID, &m.DebitAmount, &m.CreditAmount, &m.LineOrder); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate line rows", err)
	}

	return mapping.ToDomainJournalEntryLineSlice(lines), nil
}

func (r *PgxJournalRepository) ListEntriesByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.JournalEntry, error) {
	query := `SELECT` + entryColumns + `
		FROM journal_entries
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;`

	rows, err := r.Pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list entries for organization "+organizationID, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate entry rows", err)
	}

	return entries, nil
}

func (r *PgxJournalRepository) SumPostedAmountsBefore(ctx context.Context, organizationID, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.organization_id = $1
		  AND l.account_id = $2
		  AND e.status = 'POSTED'
		  AND e.entry_date < $3;
	`
	var debit, credit decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, organizationID, accountID, before).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum posted amounts for account "+accountID, err)
	}
	return debit, credit, nil
}

func (r *PgxJournalRepository) FindPostedLinesByAccountAndRange(ctx context.Context, organizationID, accountID string, from, to time.Time) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit_amount, l.credit_amount, l.line_order,
		       e.entry_date, e.verification_number, e.description
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.organization_id = $1
		  AND l.account_id = $2
		  AND e.status = 'POSTED'
		  AND e.entry_date >= $3 AND e.entry_date <= $4
		ORDER BY e.entry_date, e.verification_number, l.line_order;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, accountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find posted lines for account "+accountID, err)
	}
	defer rows.Close()

	var lines []models.JournalEntryLine
	for rows.Next() {
		var m models.JournalEntryLine
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.LineOrder,
			&m.EntryDate,
			&m.VerificationNumber,
			&m.EntryDescription,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate ledger line rows", err)
	}

	return mapping.ToDomainJournalEntryLineSlice(lines), nil
}
