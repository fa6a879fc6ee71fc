package http

import (
	"time"

	"leadgen-api/internal/domain"
	"leadgen-api/internal/service"
)

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type LeadResponse struct {
	ID                 string  `json:"id"`
	CompanyName        string  `json:"company_name"`
	Industry           *string `json:"industry"`
	CompanySize        *string `json:"company_size"`
	Website            *string `json:"website"`
	Status             string  `json:"status"`
	Notes              *string `json:"notes"`
	QualificationScore *int    `json:"qualification_score"`
	AIInsights         *string `json:"ai_insights"`
	UserID             string  `json:"user_id"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type ContactResponse struct {
	ID        string  `json:"id"`
	LeadID    string  `json:"lead_id"`
	Name      string  `json:"name"`
	Title     *string `json:"title"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	LinkedIn  *string `json:"linkedin"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

type TemplateResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Category  string `json:"category"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

type ArchiveObjectResponse struct {
	Key          string  `json:"key"`
	Kind         string  `json:"kind"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
	URL          string  `json:"url"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func sessionToResponse(s *service.Session) SessionResponse {
	return SessionResponse{Token: s.Token, User: userToResponse(s.User)}
}

func leadToResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:                 l.ID,
		CompanyName:        l.CompanyName,
		Industry:           l.Industry,
		CompanySize:        l.CompanySize,
		Website:            l.Website,
		Status:             string(l.Status),
		Notes:              l.Notes,
		QualificationScore: l.QualificationScore,
		AIInsights:         l.AIInsights,
		UserID:             l.UserID,
		CreatedAt:          formatTime(l.CreatedAt),
		UpdatedAt:          formatTime(l.UpdatedAt),
	}
}

// contactToResponse omits the owner id; contacts are always read through their lead.
func contactToResponse(c domain.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		LeadID:    c.LeadID,
		Name:      c.Name,
		Title:     c.Title,
		Email:     c.Email,
		Phone:     c.Phone,
		LinkedIn:  c.LinkedIn,
		Notes:     c.Notes,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func templateToResponse(t domain.Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		Category:  t.Category,
		UserID:    t.UserID,
		CreatedAt: formatTime(t.CreatedAt),
	}
}

func archiveToResponse(doc service.ArchivedDocument) ArchiveObjectResponse {
	resp := ArchiveObjectResponse{
		Key:  doc.Key,
		Kind: doc.Kind,
		Size: doc.Size,
		URL:  doc.URL,
	}
	if doc.LastModified != nil && !doc.LastModified.IsZero() {
		v := doc.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
