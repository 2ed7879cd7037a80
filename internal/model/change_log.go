package model

import (
	"time"

	"gorm.io/datatypes"
)

// ChangeType enumerates the closed set of change-log entry kinds. The column
// stores the string value, but all writers go through these constants so the
// set stays closed at compile time.
type ChangeType string

const (
	ChangeCampaignAdded       ChangeType = "campaign_added"
	ChangeCampaignRemoved     ChangeType = "campaign_removed"
	ChangeCampaignUpdated     ChangeType = "campaign_updated"
	ChangeLeadAdded           ChangeType = "lead_added"
	ChangeLeadRemoved         ChangeType = "lead_removed"
	ChangeLeadUpdated         ChangeType = "lead_updated"
	ChangeCompanyCountChanged ChangeType = "company_count_changed"
	ChangePushAll             ChangeType = "push_all"
	ChangePushNew             ChangeType = "push_new"
)

// Valid reports whether the change type is one of the known kinds.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeCampaignAdded, ChangeCampaignRemoved, ChangeCampaignUpdated,
		ChangeLeadAdded, ChangeLeadRemoved, ChangeLeadUpdated,
		ChangeCompanyCountChanged, ChangePushAll, ChangePushNew:
		return true
	}
	return false
}

// ChangeLogEntry is one row of the append-only change ledger. Entries
// reference campaigns and leads by denormalized copies of their identifying
// fields so they survive campaign/lead removal. No entry is ever mutated
// after insert.
type ChangeLogEntry struct {
	ID              int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	ChangeType      ChangeType     `json:"change_type" gorm:"column:change_type;type:text;not null" validate:"required"`
	CampaignID      string         `json:"campaign_id,omitempty" gorm:"column:campaign_id;type:text"`
	CampaignName    string         `json:"campaign_name,omitempty" gorm:"column:campaign_name;type:text"`
	LeadID          string         `json:"lead_id,omitempty" gorm:"column:lead_id;type:text"`
	LeadEmail       string         `json:"lead_email,omitempty" gorm:"column:lead_email;type:text"`
	LeadCompany     string         `json:"lead_company,omitempty" gorm:"column:lead_company;type:text"`
	OldValue        datatypes.JSON `json:"old_value,omitempty" gorm:"type:jsonb;column:old_value"`
	NewValue        datatypes.JSON `json:"new_value,omitempty" gorm:"type:jsonb;column:new_value"`
	Details         string         `json:"details,omitempty" gorm:"type:text"`
	ChangeTimestamp time.Time      `json:"change_timestamp" gorm:"column:change_timestamp;index;autoCreateTime"`
}

// TableName specifies the table name for the ChangeLogEntry model.
func (ChangeLogEntry) TableName() string {
	return "change_log"
}
