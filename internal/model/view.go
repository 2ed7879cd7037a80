package model

import "time"

// CampaignView is one row of the campaign listing consumed by the dashboard.
// Only campaigns with more than one unique eligible company appear in it.
type CampaignView struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Status             string `json:"status"`
	UniqueCompanyCount int    `json:"unique_company_count"`
}

// CampaignStats summarizes the eligible leads of a single campaign.
type CampaignStats struct {
	TotalEligibleLeads int `json:"total_eligible_leads"`
	UniqueCompanyCount int `json:"unique_company_count"`
	// Ratio is eligible leads per unique company, rounded half-up.
	Ratio int `json:"ratio"`
}

// PushStatus describes where a campaign stands relative to the downstream
// CRM activity log.
type PushStatus struct {
	HasEverBeenPushed bool `json:"has_ever_been_pushed"`
	TotalCompanies    int  `json:"total_companies"`
	NewCompanies      int  `json:"new_companies"`
	ShowPushNew       bool `json:"show_push_new"`
}

// PushResult reports the outcome of a push action: which companies were
// durably marked and which failed to be marked after the downstream publish
// succeeded. Errors carries bookkeeping failures (a dropped ledger row) that
// did not stop the push itself.
type PushResult struct {
	Action             ChangeType `json:"action"`
	PushedCompanyCount int        `json:"pushed_company_count"`
	Companies          []string   `json:"companies"`
	Failed             []string   `json:"failed,omitempty"`
	Errors             []string   `json:"errors,omitempty"`
}

// LeadSample is a compact lead description carried in sync summaries.
type LeadSample struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// SyncSummary is the structured result of one reconciliation cycle. Errors
// holds per-write failures from the WRITING phase; a non-empty list means a
// degraded-but-reported cycle, not a hard failure.
type SyncSummary struct {
	RunID               string         `json:"run_id"`
	CampaignsProcessed  int            `json:"campaigns_processed"`
	CampaignsAdded      int            `json:"campaigns_added"`
	CampaignsRemoved    int            `json:"campaigns_removed"`
	CampaignsUpdated    int            `json:"campaigns_updated"`
	LeadsAdded          int            `json:"leads_added"`
	LeadsRemoved        int            `json:"leads_removed"`
	CompanyCountChanges map[string]int `json:"company_count_changes,omitempty"`
	AddedLeadSamples    []LeadSample   `json:"added_lead_samples,omitempty"`
	RemovedLeadSamples  []LeadSample   `json:"removed_lead_samples,omitempty"`
	Errors              []string       `json:"errors,omitempty"`
	StartedAt           time.Time      `json:"started_at"`
	DurationSeconds     float64        `json:"duration_seconds"`
}

// SyncStats aggregates the latest run with current store totals.
type SyncStats struct {
	TotalCampaigns int      `json:"total_campaigns"`
	TotalLeads     int      `json:"total_leads"`
	TotalSyncRuns  int      `json:"total_sync_runs"`
	LatestRun      *SyncRun `json:"latest_run,omitempty"`
}
