package domain

import "time"

// DefaultTemplateCategory is applied when a template is created without one.
const DefaultTemplateCategory = "outreach"

// Template is a reusable outreach email.
type Template struct {
	ID        string
	UserID    string
	Name      string
	Subject   string
	Body      string
	Category  string
	CreatedAt time.Time
}

type TemplatePatch struct {
	Name     *string
	Subject  *string
	Body     *string
	Category *string
}

func (p TemplatePatch) Empty() bool {
	return p.Name == nil && p.Subject == nil && p.Body == nil && p.Category == nil
}

type TemplateFilter struct {
	Category *string
}
