package model

// CampaignPayload is the campaign shape delivered by the upstream
// email-sequencing feed.
type CampaignPayload struct {
	ID     string `json:"_id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Status string `json:"status"`
}

// LeadPayload is the lead shape delivered by the upstream feed's lead export.
type LeadPayload struct {
	ID          string `json:"_id" validate:"required"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName"`
	JobTitle    string `json:"jobTitle"`
	LinkedinURL string `json:"linkedinUrl"`
	State       string `json:"state"`
	StateSystem string `json:"stateSystem"`
}

// CampaignSnapshot bundles a campaign with the leads observed for it in a
// single fetch phase. A snapshot is complete or it does not exist: partial
// fetch failures discard the whole snapshot.
type CampaignSnapshot struct {
	Campaign CampaignPayload
	Leads    []LeadPayload
}

// ToCampaign converts the feed payload to the persisted campaign model.
// Campaigns observed in the feed are active by definition.
func (p CampaignPayload) ToCampaign() Campaign {
	return Campaign{
		ID:       p.ID,
		Name:     p.Name,
		Status:   p.Status,
		IsActive: true,
	}
}

// ToLead converts the feed payload to the persisted lead model, attaching the
// owning campaign.
func (p LeadPayload) ToLead(campaignID string) Lead {
	return Lead{
		ID:          p.ID,
		CampaignID:  campaignID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		CompanyName: p.CompanyName,
		JobTitle:    p.JobTitle,
		LinkedinURL: p.LinkedinURL,
		State:       p.State,
		StateSystem: p.StateSystem,
		IsActive:    true,
	}
}
