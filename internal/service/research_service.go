package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/llm"
	"leadgen-api/internal/metrics"
	"leadgen-api/internal/repository"
	"leadgen-api/internal/storage"
)

const archiveURLExpiry = 15 * time.Minute

// Archive kinds, also used as the middle segment of archive keys.
const (
	ArchiveKindResearch = "research"
	ArchiveKindContacts = "contacts"
	ArchiveKindEmail    = "email"
)

type ResearchRequest struct {
	CompanyName       string
	Industry          *string
	AdditionalContext *string
}

type DiscoveryRequest struct {
	CompanyName string
	LeadID      *string
}

type CompanyResearch struct {
	CompanyName string
	Research    string
}

type ContactDiscovery struct {
	CompanyName      string
	ContactsResearch string
}

type GeneratedEmail struct {
	LeadID string
	Email  string
}

// ArchivedDocument is one stored generation result with a short-lived download link.
type ArchivedDocument struct {
	Key          string
	Kind         string
	Size         int64
	LastModified *time.Time
	URL          string
}

// ResearchService produces sales research with a text generator and keeps
// an optional per-user archive of the results.
type ResearchService interface {
	Research(ctx context.Context, id domain.Identity, req ResearchRequest) (*CompanyResearch, error)
	DiscoverContacts(ctx context.Context, id domain.Identity, req DiscoveryRequest) (*ContactDiscovery, error)
	GenerateEmail(ctx context.Context, id domain.Identity, leadID, templateID string) (*GeneratedEmail, error)
	ListArchive(ctx context.Context, id domain.Identity) ([]ArchivedDocument, error)
	PurgeArchive(ctx context.Context, id domain.Identity) error
}

// Archive points at the object store used for generated documents. A nil
// Store or empty Bucket disables archiving.
type Archive struct {
	Store  storage.Service
	Bucket string
	Prefix string
}

func (a Archive) enabled() bool {
	return a.Store != nil && a.Bucket != ""
}

type ResearchDeps struct {
	Generator llm.Generator
	Leads     repository.LeadRepository
	Templates repository.TemplateRepository
	Archive   Archive
	Metrics   *metrics.Metrics
	Logger    logrus.FieldLogger
}

type researchService struct {
	generator llm.Generator
	leads     repository.LeadRepository
	templates repository.TemplateRepository
	archive   Archive
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewResearchService(deps ResearchDeps) ResearchService {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &researchService{
		generator: deps.Generator,
		leads:     deps.Leads,
		templates: deps.Templates,
		archive:   deps.Archive,
		metrics:   deps.Metrics,
		log:       log.WithField("component", "research"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

const researchSystem = `You are a B2B sales researcher for an HR services provider.
Analyze companies and give actionable insights: size indicators, HR pain points,
growth signals and likely HR service needs. Be concise and practical.`

const discoverySystem = `You identify the decision-makers an HR services provider should reach.
Suggest contact roles and how to find them. Focus on HR Directors, People
Operations, CHROs, and CEOs for smaller companies.`

const emailSystem = `You are a B2B sales copywriter for HR services.
Write personalized, professional outreach emails that are concise and compelling,
built around a clear value proposition and specific pain points.`

func (s *researchService) Research(ctx context.Context, id domain.Identity, req ResearchRequest) (*CompanyResearch, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return nil, domain.ErrValidation("company_name is required")
	}

	prompt := fmt.Sprintf(`Research this company for HR service opportunities:

Company: %s
Industry: %s
Additional Context: %s

Provide:
1. Company Overview (2-3 sentences)
2. Estimated Company Size
3. HR Service Needs Score (1-10)
4. Key HR Pain Points (3-5 bullet points)
5. Best Approach for Outreach (2-3 sentences)
6. Recommended Services`, company, orDefault(req.Industry, "Unknown"), orDefault(req.AdditionalContext, "None"))

	text, err := s.generate(ctx, ArchiveKindResearch, researchSystem, prompt)
	if err != nil {
		return nil, failure("AI research failed", err)
	}

	s.store(ctx, id, ArchiveKindResearch, company, text)
	return &CompanyResearch{CompanyName: company, Research: text}, nil
}

func (s *researchService) DiscoverContacts(ctx context.Context, id domain.Identity, req DiscoveryRequest) (*ContactDiscovery, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return nil, domain.ErrValidation("company_name is required")
	}
	if req.LeadID != nil && *req.LeadID != "" {
		if _, err := s.leads.Get(ctx, id.UserID, *req.LeadID); err != nil {
			return nil, err
		}
	}

	prompt := fmt.Sprintf(`For the company %q, suggest the best contacts to reach for HR services:

1. List 3-5 key decision-maker roles to target
2. For each role give typical title variations, why they matter for HR service decisions, and how to find them
3. Suggested outreach priority order
4. Best initial contact approach for each role`, company)

	text, err := s.generate(ctx, ArchiveKindContacts, discoverySystem, prompt)
	if err != nil {
		return nil, failure("AI contact discovery failed", err)
	}

	s.store(ctx, id, ArchiveKindContacts, company, text)
	return &ContactDiscovery{CompanyName: company, ContactsResearch: text}, nil
}

func (s *researchService) GenerateEmail(ctx context.Context, id domain.Identity, leadID, templateID string) (*GeneratedEmail, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(leadID) == "" {
		return nil, domain.ErrValidation("lead_id is required")
	}

	lead, err := s.leads.Get(ctx, id.UserID, leadID)
	if err != nil {
		return nil, err
	}

	var templateContext string
	if templateID != "" {
		tpl, err := s.templates.Get(ctx, id.UserID, templateID)
		switch {
		case err == nil:
			templateContext = fmt.Sprintf("\nUse this template style:\nSubject: %s\nBody: %s", tpl.Subject, tpl.Body)
		case domain.KindOf(err) != domain.KindNotFound:
			return nil, err
		}
	}

	prompt := fmt.Sprintf(`Generate a personalized outreach email for:

Company: %s
Industry: %s
Company Size: %s
AI Insights: %s
%s
Create:
1. Subject line (compelling, under 50 chars)
2. Email body (under 150 words)
3. Clear call-to-action`,
		lead.CompanyName,
		orDefault(lead.Industry, "Unknown"),
		orDefault(lead.CompanySize, "Unknown"),
		orDefault(lead.AIInsights, "None available"),
		templateContext,
	)

	text, err := s.generate(ctx, ArchiveKindEmail, emailSystem, prompt)
	if err != nil {
		return nil, failure("AI email generation failed", err)
	}

	s.store(ctx, id, ArchiveKindEmail, lead.CompanyName, text)
	return &GeneratedEmail{LeadID: lead.ID, Email: text}, nil
}

func (s *researchService) ListArchive(ctx context.Context, id domain.Identity) ([]ArchivedDocument, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if !s.archive.enabled() {
		return nil, domain.ErrUpstream("archive storage is not configured", nil)
	}

	prefix := s.ownerPrefix(id)
	objects, err := s.archive.Store.ListObjects(ctx, s.archive.Bucket, prefix)
	if err != nil {
		return nil, domain.ErrUpstream("failed to list archive", err)
	}

	docs := make([]ArchivedDocument, 0, len(objects))
	for _, obj := range objects {
		// Guard against stores that match prefixes loosely.
		if !strings.HasPrefix(obj.Key, prefix) {
			continue
		}
		url, err := s.archive.Store.GetObjectURL(ctx, s.archive.Bucket, obj.Key, archiveURLExpiry)
		if err != nil {
			return nil, domain.ErrUpstream("failed to sign archive url", err)
		}
		kind, _, _ := strings.Cut(strings.TrimPrefix(obj.Key, prefix), "/")
		docs = append(docs, ArchivedDocument{
			Key:          obj.Key,
			Kind:         kind,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			URL:          url,
		})
	}
	return docs, nil
}

func (s *researchService) PurgeArchive(ctx context.Context, id domain.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !s.archive.enabled() {
		return domain.ErrUpstream("archive storage is not configured", nil)
	}
	if err := s.archive.Store.DeletePrefix(ctx, s.archive.Bucket, s.ownerPrefix(id)); err != nil {
		return domain.ErrUpstream("failed to purge archive", err)
	}
	return nil
}

func (s *researchService) generate(ctx context.Context, operation, system, prompt string) (string, error) {
	if s.generator == nil {
		return "", errGenerationDisabled
	}
	started := time.Now()
	text, err := s.generator.Generate(ctx, system, prompt)
	return text, s.metrics.ObserveGeneration(operation, started, err)
}

var errGenerationDisabled = domain.ErrUpstream("text generation is not configured", nil)

func failure(message string, err error) error {
	if err == errGenerationDisabled {
		return err
	}
	return domain.ErrUpstreamDetail(message, err)
}

// store uploads a generated document. Failures are logged only.
func (s *researchService) store(ctx context.Context, id domain.Identity, kind, company, text string) {
	if !s.archive.enabled() {
		return
	}

	now := s.now()
	key := path.Join(s.ownerPrefix(id), kind, fmt.Sprintf("%s-%s.md", now.Format("20060102T150405Z"), uuid.NewString()))
	body := fmt.Sprintf("# %s: %s\n\n_generated %s_\n\n%s\n", kind, company, now.Format(time.RFC3339), text)

	loc, err := s.archive.Store.PutObject(ctx, s.archive.Bucket, key, strings.NewReader(body), "text/markdown; charset=utf-8")
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": id.UserID,
			"kind":    kind,
		}).Warn("archive upload failed")
		return
	}
	s.log.WithFields(logrus.Fields{"user_id": id.UserID, "location": loc}).Debug("archived generated document")
}

func (s *researchService) ownerPrefix(id domain.Identity) string {
	return path.Join(s.archive.Prefix, id.UserID) + "/"
}

func orDefault(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}
