package model

import (
	"time"
)

// Campaign represents an outreach campaign sourced from the upstream
// email-sequencing feed. The ID is assigned upstream and stable across syncs.
// Campaigns are never hard-deleted, only flagged inactive when the feed stops
// reporting them.
type Campaign struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text" validate:"required"`
	Name        string    `json:"name" gorm:"type:text;not null" validate:"required"`
	Status      string    `json:"status" gorm:"type:text;not null"` // upstream free text, e.g. "running", "paused"
	IsActive    bool      `json:"is_active" gorm:"column:is_active"`
	CreatedAt   time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
	LastUpdated time.Time `json:"last_updated,omitempty" gorm:"column:last_updated;autoUpdateTime"`
}

// TableName specifies the table name for the Campaign model.
func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignUpdateColumns lists the columns refreshed when an existing campaign
// is upserted during a reconciliation cycle.
func CampaignUpdateColumns() []string {
	return []string{
		"name",
		"status",
		"is_active",
		"last_updated",
	}
}
