package model

import (
	"time"

	"gorm.io/datatypes"
)

// SyncRun records one reconciliation cycle in the sync_history table: how
// much was processed, what the diff produced, and how long it took.
type SyncRun struct {
	ID                  int64          `json:"-" gorm:"primaryKey;autoIncrement"`
	RunID               string         `json:"run_id" gorm:"column:run_id;index;type:text" validate:"required"`
	CampaignsProcessed  int            `json:"campaigns_processed" gorm:"column:campaigns_processed"`
	CampaignsAdded      int            `json:"campaigns_added" gorm:"column:campaigns_added"`
	CampaignsRemoved    int            `json:"campaigns_removed" gorm:"column:campaigns_removed"`
	CampaignsUpdated    int            `json:"campaigns_updated" gorm:"column:campaigns_updated"`
	LeadsAdded          int            `json:"leads_added" gorm:"column:leads_added"`
	LeadsRemoved        int            `json:"leads_removed" gorm:"column:leads_removed"`
	CompanyCountChanges datatypes.JSON `json:"company_count_changes,omitempty" gorm:"type:jsonb;column:company_count_changes"`
	StartedAt           time.Time      `json:"started_at" gorm:"column:started_at"`
	DurationSeconds     float64        `json:"duration_seconds" gorm:"column:duration_seconds"`
	CreatedAt           time.Time      `json:"created_at,omitempty" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the SyncRun model.
func (SyncRun) TableName() string {
	return "sync_history"
}
