package model

import (
	"strings"
	"time"
)

// PausedToken is the literal lifecycle sentinel used by the upstream feed.
// Matching is exact and case-sensitive.
const PausedToken = "paused"

// LifecycleState is the typed lifecycle derived from the two free-text state
// fields the feed delivers. Parsing happens once at the store-adapter boundary
// so the aggregator never does string comparison.
type LifecycleState int

const (
	LifecycleUnknown LifecycleState = iota
	LifecycleActive
	LifecyclePaused
)

// String returns a human readable name for the lifecycle state.
func (s LifecycleState) String() string {
	switch s {
	case LifecycleActive:
		return "active"
	case LifecyclePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ParseLifecycle maps a raw state token to a LifecycleState. Only the exact
// token "paused" parses as paused; an empty field is unknown; anything else
// counts as active.
func ParseLifecycle(raw string) LifecycleState {
	switch raw {
	case PausedToken:
		return LifecyclePaused
	case "":
		return LifecycleUnknown
	default:
		return LifecycleActive
	}
}

// Lead represents a single contact record within a campaign. Each lead is
// owned by exactly one campaign. Leads are updated in place on subsequent
// syncs and deactivated, never deleted, when the feed stops reporting them.
type Lead struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text" validate:"required"`
	CampaignID  string    `json:"campaign_id" gorm:"column:campaign_id;index;type:text;not null" validate:"required"`
	Email       string    `json:"email,omitempty" gorm:"type:text"`
	FirstName   string    `json:"first_name,omitempty" gorm:"type:text"`
	LastName    string    `json:"last_name,omitempty" gorm:"type:text"`
	CompanyName string    `json:"company_name,omitempty" gorm:"column:company_name;type:text"`
	JobTitle    string    `json:"job_title,omitempty" gorm:"type:text"`
	LinkedinURL string    `json:"linkedin_url,omitempty" gorm:"column:linkedin_url;type:text"`
	State       string    `json:"state,omitempty" gorm:"type:text"`
	StateSystem string    `json:"state_system,omitempty" gorm:"column:state_system;type:text"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active"`
	CreatedAt   time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
	LastUpdated time.Time `json:"last_updated,omitempty" gorm:"column:last_updated;autoUpdateTime"`
}

// TableName specifies the table name for the Lead model.
func (Lead) TableName() string {
	return "leads"
}

// LeadUpdateColumns lists the columns refreshed when an existing lead is
// upserted during a reconciliation cycle.
func LeadUpdateColumns() []string {
	return []string{
		"email",
		"first_name",
		"last_name",
		"company_name",
		"job_title",
		"linkedin_url",
		"state",
		"state_system",
		"is_active",
		"last_updated",
	}
}

// Lifecycle derives the typed lifecycle state of the lead. A paused token in
// either state field pauses the whole lead.
func (l Lead) Lifecycle() LifecycleState {
	if ParseLifecycle(l.State) == LifecyclePaused || ParseLifecycle(l.StateSystem) == LifecyclePaused {
		return LifecyclePaused
	}
	if ParseLifecycle(l.State) == LifecycleUnknown && ParseLifecycle(l.StateSystem) == LifecycleUnknown {
		return LifecycleUnknown
	}
	return LifecycleActive
}

// EligibleCompany returns the trimmed company name and whether the lead
// contributes to the eligible-company set of its campaign. A lead is excluded
// when it is inactive, paused, or carries no company name after trimming.
func (l Lead) EligibleCompany() (string, bool) {
	if !l.IsActive {
		return "", false
	}
	if l.Lifecycle() == LifecyclePaused {
		return "", false
	}
	company := strings.TrimSpace(l.CompanyName)
	if company == "" {
		return "", false
	}
	return company, true
}

// FullName joins first and last name for change-log details.
func (l Lead) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(l.FirstName) + " " + strings.TrimSpace(l.LastName))
}
