package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository"
)

type NewContact struct {
	LeadID   string
	Name     string
	Title    *string
	Email    *string
	Phone    *string
	LinkedIn *string
	Notes    *string
}

// ContactService manages people attached to the caller's leads.
type ContactService interface {
	Create(ctx context.Context, id domain.Identity, input NewContact) (*domain.Contact, error)
	List(ctx context.Context, id domain.Identity, filter domain.ContactFilter) ([]domain.Contact, error)
	Get(ctx context.Context, id domain.Identity, contactID string) (*domain.Contact, error)
	Update(ctx context.Context, id domain.Identity, contactID string, patch domain.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, id domain.Identity, contactID string) error
}

type contactService struct {
	contacts repository.ContactRepository
	leads    repository.LeadRepository
	now      func() time.Time
}

func NewContactService(contacts repository.ContactRepository, leads repository.LeadRepository) ContactService {
	return &contactService{
		contacts: contacts,
		leads:    leads,
		now:      storedNow,
	}
}

func (s *contactService) Create(ctx context.Context, id domain.Identity, input NewContact) (*domain.Contact, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrValidation("name is required")
	}
	leadID := strings.TrimSpace(input.LeadID)
	if leadID == "" {
		return nil, domain.ErrValidation("lead_id is required")
	}

	// The parent lead must belong to the caller.
	if _, err := s.leads.Get(ctx, id.UserID, leadID); err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		LeadID:    leadID,
		Name:      name,
		Title:     input.Title,
		Email:     input.Email,
		Phone:     input.Phone,
		LinkedIn:  input.LinkedIn,
		Notes:     input.Notes,
		CreatedAt: s.now(),
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, id domain.Identity, filter domain.ContactFilter) ([]domain.Contact, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.contacts.List(ctx, id.UserID, filter, contactListLimit)
}

func (s *contactService) Get(ctx context.Context, id domain.Identity, contactID string) (*domain.Contact, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.contacts.Get(ctx, id.UserID, contactID)
}

func (s *contactService) Update(ctx context.Context, id domain.Identity, contactID string, patch domain.ContactPatch) (*domain.Contact, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.ErrValidation("name must not be empty")
		}
		patch.Name = &name
	}
	return s.contacts.Update(ctx, id.UserID, contactID, patch)
}

func (s *contactService) Delete(ctx context.Context, id domain.Identity, contactID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, id.UserID, contactID)
}
