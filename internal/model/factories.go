package model

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// init ensures gofakeit is seeded.
func init() {
	gofakeit.Seed(time.Now().UnixNano())
}

// NewCampaign creates a Campaign with default fake data for tests.
func NewCampaign(overrideDefaults ...*Campaign) *Campaign {
	base := &Campaign{
		ID:          gofakeit.UUID(),
		Name:        gofakeit.Company() + " Outreach",
		Status:      "running",
		IsActive:    true,
		CreatedAt:   utils.Now().Add(-time.Duration(gofakeit.Number(1, 100)) * time.Hour),
		LastUpdated: utils.Now(),
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != "" {
			base.ID = ovr.ID
		}
		if ovr.Name != "" {
			base.Name = ovr.Name
		}
		if ovr.Status != "" {
			base.Status = ovr.Status
		}
		base.IsActive = ovr.IsActive
	}

	return base
}

// NewLead creates a Lead with default fake data for tests. Overrides replace
// the generated identifying fields when non-empty.
func NewLead(overrideDefaults ...*Lead) *Lead {
	base := &Lead{
		ID:          gofakeit.UUID(),
		CampaignID:  gofakeit.UUID(),
		Email:       gofakeit.Email(),
		FirstName:   gofakeit.FirstName(),
		LastName:    gofakeit.LastName(),
		CompanyName: gofakeit.Company(),
		JobTitle:    gofakeit.JobTitle(),
		State:       "contacted",
		StateSystem: "",
		IsActive:    true,
		CreatedAt:   utils.Now().Add(-time.Duration(gofakeit.Number(1, 100)) * time.Hour),
		LastUpdated: utils.Now(),
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ID != "" {
			base.ID = ovr.ID
		}
		if ovr.CampaignID != "" {
			base.CampaignID = ovr.CampaignID
		}
		if ovr.Email != "" {
			base.Email = ovr.Email
		}
		// CompanyName and the state fields may legitimately be overridden
		// with empty strings, so they are always copied.
		base.CompanyName = ovr.CompanyName
		base.State = ovr.State
		base.StateSystem = ovr.StateSystem
		base.IsActive = ovr.IsActive
	}

	return base
}

// NewChangeLogEntry creates a ChangeLogEntry with default fake data for tests.
func NewChangeLogEntry(overrideDefaults ...*ChangeLogEntry) *ChangeLogEntry {
	base := &ChangeLogEntry{
		ChangeType:      ChangeLeadAdded,
		CampaignID:      gofakeit.UUID(),
		CampaignName:    gofakeit.Company() + " Outreach",
		LeadEmail:       gofakeit.Email(),
		LeadCompany:     gofakeit.Company(),
		Details:         gofakeit.Sentence(6),
		ChangeTimestamp: utils.Now(),
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.ChangeType != "" {
			base.ChangeType = ovr.ChangeType
		}
		if ovr.CampaignID != "" {
			base.CampaignID = ovr.CampaignID
		}
		if ovr.CampaignName != "" {
			base.CampaignName = ovr.CampaignName
		}
		if ovr.Details != "" {
			base.Details = ovr.Details
		}
		if !ovr.ChangeTimestamp.IsZero() {
			base.ChangeTimestamp = ovr.ChangeTimestamp
		}
	}

	return base
}
