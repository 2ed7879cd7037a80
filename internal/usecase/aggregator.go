package usecase

import (
	"sort"

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

// UniqueEligibleCompanies collects the distinct company names of leads that
// are eligible for a push (interested or not-interested, company set).
// The result is sorted so downstream consumers see a stable order.
func UniqueEligibleCompanies(leads []model.Lead) []string {
	seen := make(map[string]struct{}, len(leads))
	companies := make([]string, 0, len(leads))
	for _, lead := range leads {
		company, ok := lead.EligibleCompany()
		if !ok {
			continue
		}
		if _, dup := seen[company]; dup {
			continue
		}
		seen[company] = struct{}{}
		companies = append(companies, company)
	}
	sort.Strings(companies)
	return companies
}

// ComputeCampaignStats derives the per-campaign aggregates shown on the
// dashboard. The leads-per-company ratio is rounded half up.
func ComputeCampaignStats(leads []model.Lead) model.CampaignStats {
	eligible := 0
	seen := make(map[string]struct{})
	for _, lead := range leads {
		company, ok := lead.EligibleCompany()
		if !ok {
			continue
		}
		eligible++
		seen[company] = struct{}{}
	}

	stats := model.CampaignStats{
		TotalEligibleLeads: eligible,
		UniqueCompanyCount: len(seen),
	}
	if stats.UniqueCompanyCount > 0 {
		stats.Ratio = roundHalfUpRatio(stats.TotalEligibleLeads, stats.UniqueCompanyCount)
	}
	return stats
}

// roundHalfUpRatio computes round(num/den) with ties rounding up, in
// integer arithmetic so 5/2 yields 3 and 3/2 yields 2.
func roundHalfUpRatio(num, den int) int {
	return (2*num + den) / (2 * den)
}
