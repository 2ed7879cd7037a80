package model

import (
	"time"
)

// PushRecord marks a (campaign, company) pair as pushed to the downstream
// CRM activity log. The composite unique index is the idempotency mechanism:
// inserting a duplicate pair is a no-op, not an error. Records are never
// updated or deleted.
type PushRecord struct {
	ID          int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	CampaignID  string    `json:"campaign_id" gorm:"column:campaign_id;type:text;not null;uniqueIndex:idx_push_records_campaign_company" validate:"required"`
	CompanyName string    `json:"company_name" gorm:"column:company_name;type:text;not null;uniqueIndex:idx_push_records_campaign_company" validate:"required"`
	PushedAt    time.Time `json:"pushed_at" gorm:"column:pushed_at;autoCreateTime"`
}

// TableName specifies the table name for the PushRecord model.
func (PushRecord) TableName() string {
	return "push_records"
}
