package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository"
)

const leadColumns = `id, user_id, company_name, industry, company_size, website, status, notes, qualification_score, ai_insights, created_at, updated_at`

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) repository.LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO leads (`+leadColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID,
		lead.UserID,
		lead.CompanyName,
		nullString(lead.Industry),
		nullString(lead.CompanySize),
		nullString(lead.Website),
		string(lead.Status),
		nullString(lead.Notes),
		nullInt(lead.QualificationScore),
		nullString(lead.AIInsights),
		formatTime(lead.CreatedAt),
		formatTime(lead.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) Get(ctx context.Context, ownerID, id string) (*domain.Lead, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+leadColumns+`
FROM leads
WHERE id=? AND user_id=?`,
		id,
		ownerID,
	)
	return scanLead(row)
}

func (r *LeadRepository) List(ctx context.Context, ownerID string, filter domain.LeadFilter, limit int) ([]domain.Lead, error) {
	query := `
SELECT ` + leadColumns + `
FROM leads
WHERE user_id=?`
	args := []any{ownerID}
	if filter.Status != nil {
		query += ` AND status=?`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY updated_at DESC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}

	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, ownerID, id string, patch domain.LeadPatch, updatedAt time.Time) (*domain.Lead, error) {
	set := &setClause{}
	if patch.CompanyName != nil {
		set.add("company_name", *patch.CompanyName)
	}
	if patch.Industry != nil {
		set.add("industry", *patch.Industry)
	}
	if patch.CompanySize != nil {
		set.add("company_size", *patch.CompanySize)
	}
	if patch.Website != nil {
		set.add("website", *patch.Website)
	}
	if patch.Status != nil {
		set.add("status", string(*patch.Status))
	}
	if patch.Notes != nil {
		set.add("notes", *patch.Notes)
	}
	if patch.QualificationScore != nil {
		set.add("qualification_score", int64(*patch.QualificationScore))
	}
	if patch.AIInsights != nil {
		set.add("ai_insights", *patch.AIInsights)
	}
	set.add("updated_at", formatTime(updatedAt))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	res, err := tx.ExecContext(ctx, `UPDATE leads SET `+set.sql()+` WHERE id=? AND user_id=?`,
		append(set.args, id, ownerID)...,
	)
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("lead update rows affected: %w", err)
	}
	if aff == 0 {
		return nil, domain.ErrNotFound("lead not found")
	}

	lead, err := scanLead(tx.QueryRowContext(ctx, `
SELECT `+leadColumns+`
FROM leads
WHERE id=? AND user_id=?`, id, ownerID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit lead update: %w", err)
	}
	return lead, nil
}

// Delete removes the lead and, in the same transaction, every contact whose
// lead_id references it.
func (r *LeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE id=? AND user_id=?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("lead delete rows affected: %w", err)
	}
	if aff == 0 {
		return domain.ErrNotFound("lead not found")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE lead_id=?`, id); err != nil {
		return fmt.Errorf("delete lead contacts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lead delete: %w", err)
	}
	return nil
}

func (r *LeadRepository) CountByStatus(ctx context.Context, ownerID string) (map[domain.LeadStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM leads
WHERE user_id=?
GROUP BY status`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.LeadStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan lead count: %w", err)
		}
		counts[domain.LeadStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *LeadRepository) ExistsByCompany(ctx context.Context, ownerID, companyName string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS(SELECT 1 FROM leads WHERE user_id=? AND company_name=?)`,
		ownerID,
		companyName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check lead company: %w", err)
	}
	return exists, nil
}

func scanLead(scanner rowScanner) (*domain.Lead, error) {
	var (
		lead        domain.Lead
		status      string
		industry    sql.NullString
		companySize sql.NullString
		website     sql.NullString
		notes       sql.NullString
		score       sql.NullInt64
		insights    sql.NullString
		createdAt   string
		updatedAt   string
	)

	if err := scanner.Scan(
		&lead.ID,
		&lead.UserID,
		&lead.CompanyName,
		&industry,
		&companySize,
		&website,
		&status,
		&notes,
		&score,
		&insights,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound("lead not found")
		}
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	var err error
	if lead.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if lead.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	lead.Status = domain.LeadStatus(status)
	lead.Industry = stringPtr(industry)
	lead.CompanySize = stringPtr(companySize)
	lead.Website = stringPtr(website)
	lead.Notes = stringPtr(notes)
	lead.QualificationScore = intPtr(score)
	lead.AIInsights = stringPtr(insights)

	return &lead, nil
}
