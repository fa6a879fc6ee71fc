package domain

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusProposal  LeadStatus = "proposal"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadStatuses lists every known status in pipeline order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusProposal,
	LeadStatusWon,
	LeadStatusLost,
}

// Valid reports whether s is one of the known pipeline statuses.
func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Lead is a prospective client company tracked by a user.
type Lead struct {
	ID                 string
	UserID             string
	CompanyName        string
	Industry           *string
	CompanySize        *string
	Website            *string
	Status             LeadStatus
	Notes              *string
	QualificationScore *int
	AIInsights         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LeadPatch carries a merge-patch; nil fields are left untouched.
type LeadPatch struct {
	CompanyName        *string
	Industry           *string
	CompanySize        *string
	Website            *string
	Status             *LeadStatus
	Notes              *string
	QualificationScore *int
	AIInsights         *string
}

// LeadFilter narrows a lead listing.
type LeadFilter struct {
	Status *LeadStatus
}

// LeadStats counts an owner's leads per status.
type LeadStats struct {
	Total    int
	ByStatus map[LeadStatus]int
}
