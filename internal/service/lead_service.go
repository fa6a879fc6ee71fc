package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/repository"
)

const (
	leadListLimit     = 1000
	contactListLimit  = 1000
	templateListLimit = 100
)

// NewLead carries the fields accepted when creating a lead.
type NewLead struct {
	CompanyName        string
	Industry           *string
	CompanySize        *string
	Website            *string
	Status             domain.LeadStatus
	Notes              *string
	QualificationScore *int
	AIInsights         *string
}

// SeedResult reports how many example leads a seed run inserted.
type SeedResult struct {
	Created       int
	TotalExamples int
}

// LeadService manages the caller's leads.
type LeadService interface {
	Create(ctx context.Context, id domain.Identity, input NewLead) (*domain.Lead, error)
	List(ctx context.Context, id domain.Identity, filter domain.LeadFilter) ([]domain.Lead, error)
	Get(ctx context.Context, id domain.Identity, leadID string) (*domain.Lead, error)
	Update(ctx context.Context, id domain.Identity, leadID string, patch domain.LeadPatch) (*domain.Lead, error)
	Delete(ctx context.Context, id domain.Identity, leadID string) error
	Stats(ctx context.Context, id domain.Identity) (*domain.LeadStats, error)
	Seed(ctx context.Context, id domain.Identity) (*SeedResult, error)
}

type leadService struct {
	leads repository.LeadRepository
	now   func() time.Time
}

// storedNow is the current time at the precision the database keeps.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func NewLeadService(leads repository.LeadRepository) LeadService {
	return &leadService{
		leads: leads,
		now:   storedNow,
	}
}

func (s *leadService) Create(ctx context.Context, id domain.Identity, input NewLead) (*domain.Lead, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, domain.ErrValidation("company_name is required")
	}
	status := input.Status
	if status == "" {
		status = domain.LeadStatusNew
	}
	if !status.Valid() {
		return nil, invalidStatus(status)
	}

	now := s.now()
	lead := &domain.Lead{
		ID:                 uuid.NewString(),
		UserID:             id.UserID,
		CompanyName:        name,
		Industry:           input.Industry,
		CompanySize:        input.CompanySize,
		Website:            input.Website,
		Status:             status,
		Notes:              input.Notes,
		QualificationScore: input.QualificationScore,
		AIInsights:         input.AIInsights,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) List(ctx context.Context, id domain.Identity, filter domain.LeadFilter) ([]domain.Lead, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, invalidStatus(*filter.Status)
	}
	return s.leads.List(ctx, id.UserID, filter, leadListLimit)
}

func (s *leadService) Get(ctx context.Context, id domain.Identity, leadID string) (*domain.Lead, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.leads.Get(ctx, id.UserID, leadID)
}

func (s *leadService) Update(ctx context.Context, id domain.Identity, leadID string, patch domain.LeadPatch) (*domain.Lead, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if patch.CompanyName != nil {
		name := strings.TrimSpace(*patch.CompanyName)
		if name == "" {
			return nil, domain.ErrValidation("company_name must not be empty")
		}
		patch.CompanyName = &name
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalidStatus(*patch.Status)
	}
	return s.leads.Update(ctx, id.UserID, leadID, patch, s.now())
}

func (s *leadService) Delete(ctx context.Context, id domain.Identity, leadID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	return s.leads.Delete(ctx, id.UserID, leadID)
}

func (s *leadService) Stats(ctx context.Context, id domain.Identity) (*domain.LeadStats, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	counts, err := s.leads.CountByStatus(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	stats := &domain.LeadStats{ByStatus: make(map[domain.LeadStatus]int, len(domain.LeadStatuses))}
	for _, status := range domain.LeadStatuses {
		stats.ByStatus[status] = counts[status]
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *leadService) Seed(ctx context.Context, id domain.Identity) (*SeedResult, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	result := &SeedResult{TotalExamples: len(exampleLeads)}
	now := s.now()
	for _, example := range exampleLeads {
		exists, err := s.leads.ExistsByCompany(ctx, id.UserID, example.company)
		if err != nil {
			return result, err
		}
		if exists {
			continue
		}

		lead := &domain.Lead{
			ID:          uuid.NewString(),
			UserID:      id.UserID,
			CompanyName: example.company,
			Industry:    strPtr(example.industry),
			CompanySize: strPtr(example.size),
			Website:     strPtr(example.website),
			Status:      domain.LeadStatusNew,
			Notes:       strPtr(example.notes),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.leads.Create(ctx, lead); err != nil {
			return result, fmt.Errorf("seed %s: %w", example.company, err)
		}
		result.Created++
	}
	return result, nil
}

func invalidStatus(status domain.LeadStatus) error {
	return domain.ErrValidation(fmt.Sprintf("unknown lead status %q", status))
}

func strPtr(s string) *string {
	return &s
}
