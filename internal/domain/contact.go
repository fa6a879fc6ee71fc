package domain

import "time"

// Contact is a person at a lead's company.
type Contact struct {
	ID        string
	UserID    string
	LeadID    string
	Name      string
	Title     *string
	Email     *string
	Phone     *string
	LinkedIn  *string
	Notes     *string
	CreatedAt time.Time
}

// ContactPatch carries a merge-patch; the parent lead cannot be changed.
type ContactPatch struct {
	Name     *string
	Title    *string
	Email    *string
	Phone    *string
	LinkedIn *string
	Notes    *string
}

func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Title == nil && p.Email == nil &&
		p.Phone == nil && p.LinkedIn == nil && p.Notes == nil
}

type ContactFilter struct {
	LeadID *string
}
