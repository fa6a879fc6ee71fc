package repository

import (
	"context"
	"time"

	"leadgen-api/internal/domain"
)

// LeadRepository exposes owner-scoped persistence for leads. Every method
// filters by ownerID; a lead owned by someone else behaves as if it did not exist.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	Get(ctx context.Context, ownerID, id string) (*domain.Lead, error)
	List(ctx context.Context, ownerID string, filter domain.LeadFilter, limit int) ([]domain.Lead, error)
	Update(ctx context.Context, ownerID, id string, patch domain.LeadPatch, updatedAt time.Time) (*domain.Lead, error)
	// Delete removes the lead and every contact referencing it.
	Delete(ctx context.Context, ownerID, id string) error
	CountByStatus(ctx context.Context, ownerID string) (map[domain.LeadStatus]int, error)
	ExistsByCompany(ctx context.Context, ownerID, companyName string) (bool, error)
}

// ContactRepository exposes owner-scoped persistence for contacts.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Get(ctx context.Context, ownerID, id string) (*domain.Contact, error)
	List(ctx context.Context, ownerID string, filter domain.ContactFilter, limit int) ([]domain.Contact, error)
	Update(ctx context.Context, ownerID, id string, patch domain.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// TemplateRepository exposes owner-scoped persistence for templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.Template) error
	Get(ctx context.Context, ownerID, id string) (*domain.Template, error)
	List(ctx context.Context, ownerID string, filter domain.TemplateFilter, limit int) ([]domain.Template, error)
	Update(ctx context.Context, ownerID, id string, patch domain.TemplatePatch) (*domain.Template, error)
	Delete(ctx context.Context, ownerID, id string) error
}
