package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository"
)

const contactColumns = `id, user_id, lead_id, name, title, email, phone, linkedin, notes, created_at`

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO contacts (`+contactColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.ID,
		contact.UserID,
		contact.LeadID,
		contact.Name,
		nullString(contact.Title),
		nullString(contact.Email),
		nullString(contact.Phone),
		nullString(contact.LinkedIn),
		nullString(contact.Notes),
		formatTime(contact.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) Get(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	return scanContact(r.db.QueryRowContext(ctx, `
SELECT `+contactColumns+`
FROM contacts
WHERE id=? AND user_id=?`, id, ownerID))
}

func (r *ContactRepository) List(ctx context.Context, ownerID string, filter domain.ContactFilter, limit int) ([]domain.Contact, error) {
	query := `
SELECT ` + contactColumns + `
FROM contacts
WHERE user_id=?`
	args := []any{ownerID}
	if filter.LeadID != nil {
		query += ` AND lead_id=?`
		args = append(args, *filter.LeadID)
	}
	query += ` ORDER BY created_at ASC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) Update(ctx context.Context, ownerID, id string, patch domain.ContactPatch) (*domain.Contact, error) {
	set := &setClause{}
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Email != nil {
		set.add("email", *patch.Email)
	}
	if patch.Phone != nil {
		set.add("phone", *patch.Phone)
	}
	if patch.LinkedIn != nil {
		set.add("linkedin", *patch.LinkedIn)
	}
	if patch.Notes != nil {
		set.add("notes", *patch.Notes)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if !patch.Empty() {
		res, err := tx.ExecContext(ctx, `UPDATE contacts SET `+set.sql()+` WHERE id=? AND user_id=?`,
			append(set.args, id, ownerID)...,
		)
		if err != nil {
			return nil, fmt.Errorf("update contact: %w", err)
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("contact update rows affected: %w", err)
		}
		if aff == 0 {
			return nil, domain.ErrNotFound("contact not found")
		}
	}

	contact, err := scanContact(tx.QueryRowContext(ctx, `
SELECT `+contactColumns+`
FROM contacts
WHERE id=? AND user_id=?`, id, ownerID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit contact update: %w", err)
	}
	return contact, nil
}

func (r *ContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id=? AND user_id=?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("contact delete rows affected: %w", err)
	}
	if aff == 0 {
		return domain.ErrNotFound("contact not found")
	}
	return nil
}

func scanContact(scanner rowScanner) (*domain.Contact, error) {
	var (
		contact   domain.Contact
		title     sql.NullString
		email     sql.NullString
		phone     sql.NullString
		linkedin  sql.NullString
		notes     sql.NullString
		createdAt string
	)
	if err := scanner.Scan(
		&contact.ID,
		&contact.UserID,
		&contact.LeadID,
		&contact.Name,
		&title,
		&email,
		&phone,
		&linkedin,
		&notes,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound("contact not found")
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	contact.CreatedAt = t
	contact.Title = stringPtr(title)
	contact.Email = stringPtr(email)
	contact.Phone = stringPtr(phone)
	contact.LinkedIn = stringPtr(linkedin)
	contact.Notes = stringPtr(notes)
	return &contact, nil
}
