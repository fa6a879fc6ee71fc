package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository"
)

const templateColumns = `id, user_id, name, subject, body, category, created_at`

type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) repository.TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *domain.Template) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO templates (`+templateColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tpl.ID,
		tpl.UserID,
		tpl.Name,
		tpl.Subject,
		tpl.Body,
		tpl.Category,
		formatTime(tpl.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) Get(ctx context.Context, ownerID, id string) (*domain.Template, error) {
	return scanTemplate(r.db.QueryRowContext(ctx, `
SELECT `+templateColumns+`
FROM templates
WHERE id=? AND user_id=?`, id, ownerID))
}

func (r *TemplateRepository) List(ctx context.Context, ownerID string, filter domain.TemplateFilter, limit int) ([]domain.Template, error) {
	query := `
SELECT ` + templateColumns + `
FROM templates
WHERE user_id=?`
	args := []any{ownerID}
	if filter.Category != nil {
		query += ` AND category=?`
		args = append(args, *filter.Category)
	}
	query += ` ORDER BY created_at ASC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.Template{}
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tpl)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Update(ctx context.Context, ownerID, id string, patch domain.TemplatePatch) (*domain.Template, error) {
	set := &setClause{}
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Subject != nil {
		set.add("subject", *patch.Subject)
	}
	if patch.Body != nil {
		set.add("body", *patch.Body)
	}
	if patch.Category != nil {
		set.add("category", *patch.Category)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if !patch.Empty() {
		res, err := tx.ExecContext(ctx, `UPDATE templates SET `+set.sql()+` WHERE id=? AND user_id=?`,
			append(set.args, id, ownerID)...,
		)
		if err != nil {
			return nil, fmt.Errorf("update template: %w", err)
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("template update rows affected: %w", err)
		}
		if aff == 0 {
			return nil, domain.ErrNotFound("template not found")
		}
	}

	tpl, err := scanTemplate(tx.QueryRowContext(ctx, `
SELECT `+templateColumns+`
FROM templates
WHERE id=? AND user_id=?`, id, ownerID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit template update: %w", err)
	}
	return tpl, nil
}

func (r *TemplateRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id=? AND user_id=?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("template delete rows affected: %w", err)
	}
	if aff == 0 {
		return domain.ErrNotFound("template not found")
	}
	return nil
}

func scanTemplate(scanner rowScanner) (*domain.Template, error) {
	var (
		tpl       domain.Template
		createdAt string
	)
	if err := scanner.Scan(
		&tpl.ID,
		&tpl.UserID,
		&tpl.Name,
		&tpl.Subject,
		&tpl.Body,
		&tpl.Category,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound("template not found")
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	tpl.CreatedAt = t
	return &tpl, nil
}
