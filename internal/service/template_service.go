package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository"
)

type NewTemplate struct {
	Name     string
	Subject  string
	Body     string
	Category string
}

// TemplateService manages the caller's outreach templates.
type TemplateService interface {
	Create(ctx context.Context, id domain.Identity, input NewTemplate) (*domain.Template, error)
	List(ctx context.Context, id domain.Identity, filter domain.TemplateFilter) ([]domain.Template, error)
	Get(ctx context.Context, id domain.Identity, templateID string) (*domain.Template, error)
	Update(ctx context.Context, id domain.Identity, templateID string, patch domain.TemplatePatch) (*domain.Template, error)
	Delete(ctx context.Context, id domain.Identity, templateID string) error
}

type templateService struct {
	templates repository.TemplateRepository
	now       func() time.Time
}

func NewTemplateService(templates repository.TemplateRepository) TemplateService {
	return &templateService{
		templates: templates,
		now:       storedNow,
	}
}

func (s *templateService) Create(ctx context.Context, id domain.Identity, input NewTemplate) (*domain.Template, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	tpl := &domain.Template{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		Name:      strings.TrimSpace(input.Name),
		Subject:   input.Subject,
		Body:      input.Body,
		Category:  strings.TrimSpace(input.Category),
		CreatedAt: s.now(),
	}
	if tpl.Name == "" {
		return nil, domain.ErrValidation("name is required")
	}
	if strings.TrimSpace(tpl.Subject) == "" {
		return nil, domain.ErrValidation("subject is required")
	}
	if strings.TrimSpace(tpl.Body) == "" {
		return nil, domain.ErrValidation("body is required")
	}
	if tpl.Category == "" {
		tpl.Category = domain.DefaultTemplateCategory
	}

	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) List(ctx context.Context, id domain.Identity, filter domain.TemplateFilter) ([]domain.Template, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.templates.List(ctx, id.UserID, filter, templateListLimit)
}

func (s *templateService) Get(ctx context.Context, id domain.Identity, templateID string) (*domain.Template, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.templates.Get(ctx, id.UserID, templateID)
}

func (s *templateService) Update(ctx context.Context, id domain.Identity, templateID string, patch domain.TemplatePatch) (*domain.Template, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.ErrValidation("name must not be empty")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return nil, domain.ErrValidation("category must not be empty")
	}
	return s.templates.Update(ctx, id.UserID, templateID, patch)
}

func (s *templateService) Delete(ctx context.Context, id domain.Identity, templateID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	return s.templates.Delete(ctx, id.UserID, templateID)
}
