package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
	"gitlab.com/peopleclay/api/push-activity-service/internal/observer"
	"gitlab.com/peopleclay/api/push-activity-service/internal/reqctx"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"gitlab.com/peopleclay/api/push-activity-service/pkg/utils"
)

// Sync runs one reconciliation cycle against the upstream feed. Cycles are
// serialized: a trigger while another cycle runs is rejected with
// ErrSyncInProgress. The fetch phase is all-or-nothing; write failures are
// collected into the summary's error list instead of aborting the cycle.
func (s *PushActivityService) Sync(ctx context.Context) (*model.SyncSummary, error) {
	if !s.syncMu.TryLock() {
		observer.IncSyncRejected()
		return nil, apperrors.ErrSyncInProgress
	}
	defer s.syncMu.Unlock()

	runID := uuid.NewString()
	ctx = reqctx.WithSyncRunID(ctx, runID)
	log := logger.FromContext(ctx).With(zap.String("run_id", runID))
	ctx = logger.WithLogger(ctx, log)
	startedAt := utils.Now()

	log.Info("Starting sync cycle")

	snapshots, err := s.fetchSnapshots(ctx)
	if err != nil {
		observer.IncSyncRun("failed")
		log.Error("Sync fetch phase failed", zap.Error(err))
		return nil, err
	}

	stored, err := s.loadStoredState(ctx)
	if err != nil {
		observer.IncSyncRun("failed")
		log.Error("Sync state load failed", zap.Error(err))
		return nil, err
	}

	summary := &model.SyncSummary{
		RunID:              runID,
		CampaignsProcessed: len(snapshots),
		StartedAt:          startedAt,
	}
	entries := s.diffState(snapshots, stored, summary)
	s.writeState(ctx, snapshots, stored, entries, summary)

	elapsed := utils.Now().Sub(startedAt)
	summary.DurationSeconds = elapsed.Seconds()
	s.recordRun(ctx, summary)

	status := "success"
	if len(summary.Errors) > 0 {
		status = "degraded"
	}
	observer.IncSyncRun(status)
	observer.ObserveSyncDuration(elapsed)

	log.Info("Sync cycle finished",
		zap.String("status", status),
		zap.Int("campaigns_processed", summary.CampaignsProcessed),
		zap.Int("campaigns_added", summary.CampaignsAdded),
		zap.Int("campaigns_removed", summary.CampaignsRemoved),
		zap.Int("leads_added", summary.LeadsAdded),
		zap.Int("leads_removed", summary.LeadsRemoved),
		zap.Int("write_errors", len(summary.Errors)),
		zap.Float64("duration_seconds", summary.DurationSeconds))
	return summary, nil
}

// fetchSnapshots pulls the running campaigns and fans lead exports out over a
// bounded worker pool. Any fetch failure cancels the remaining workers and
// fails the whole phase: a partial snapshot must never be reconciled.
func (s *PushActivityService) fetchSnapshots(ctx context.Context) ([]model.CampaignSnapshot, error) {
	campaigns, err := s.feed.FetchRunningCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := ants.NewPool(s.syncCfg.FetchWorkers)
	if err != nil {
		return nil, fmt.Errorf("creating fetch pool: %w", err)
	}
	defer pool.Release()

	snapshots := make([]model.CampaignSnapshot, len(campaigns))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		fetchErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			fetchErr = err
			cancel()
		})
	}

	for i, campaign := range campaigns {
		i, campaign := i, campaign
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if fetchCtx.Err() != nil {
				return
			}
			leads, err := s.feed.FetchCampaignLeads(fetchCtx, campaign.ID)
			if err != nil {
				fail(fmt.Errorf("fetching leads for campaign %s: %w", campaign.ID, err))
				return
			}
			snapshots[i] = model.CampaignSnapshot{Campaign: campaign, Leads: leads}
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("submitting lead fetch for campaign %s: %w", campaign.ID, submitErr))
		}
	}
	wg.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	return snapshots, nil
}

// storedState is the active slice of the store loaded before diffing.
type storedState struct {
	campaigns []model.Campaign
	leads     map[string][]model.Lead // campaign ID -> active leads
}

func (s *PushActivityService) loadStoredState(ctx context.Context) (*storedState, error) {
	campaigns, err := s.campaignRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	state := &storedState{
		campaigns: campaigns,
		leads:     make(map[string][]model.Lead, len(campaigns)),
	}
	for _, campaign := range campaigns {
		leads, err := s.leadRepo.FindActiveByCampaignID(ctx, campaign.ID)
		if err != nil {
			return nil, err
		}
		state.leads[campaign.ID] = leads
	}
	return state, nil
}

// diffState compares the fresh snapshots against the stored active state and
// produces the change log entries for the cycle, filling the summary's
// counters and lead samples along the way.
func (s *PushActivityService) diffState(snapshots []model.CampaignSnapshot, stored *storedState, summary *model.SyncSummary) []model.ChangeLogEntry {
	var entries []model.ChangeLogEntry

	storedByID := make(map[string]model.Campaign, len(stored.campaigns))
	for _, campaign := range stored.campaigns {
		storedByID[campaign.ID] = campaign
	}
	feedIDs := make(map[string]struct{}, len(snapshots))

	for _, snapshot := range snapshots {
		feed := snapshot.Campaign
		feedIDs[feed.ID] = struct{}{}

		prev, known := storedByID[feed.ID]
		if !known {
			summary.CampaignsAdded++
			entries = append(entries, model.ChangeLogEntry{
				ChangeType:   model.ChangeCampaignAdded,
				CampaignID:   feed.ID,
				CampaignName: feed.Name,
				Details:      fmt.Sprintf("Campaign %q appeared with %d leads", feed.Name, len(snapshot.Leads)),
			})
		} else if prev.Name != feed.Name || prev.Status != feed.Status {
			summary.CampaignsUpdated++
			entries = append(entries, model.ChangeLogEntry{
				ChangeType:   model.ChangeCampaignUpdated,
				CampaignID:   feed.ID,
				CampaignName: feed.Name,
				OldValue:     campaignJSON(prev.Name, prev.Status),
				NewValue:     campaignJSON(feed.Name, feed.Status),
				Details:      fmt.Sprintf("Campaign %q changed", feed.Name),
			})
		}

		entries = append(entries, s.diffCampaignLeads(snapshot, stored.leads[feed.ID], summary)...)
	}

	for _, campaign := range stored.campaigns {
		if _, stillRunning := feedIDs[campaign.ID]; stillRunning {
			continue
		}
		summary.CampaignsRemoved++
		entries = append(entries, model.ChangeLogEntry{
			ChangeType:   model.ChangeCampaignRemoved,
			CampaignID:   campaign.ID,
			CampaignName: campaign.Name,
			Details:      fmt.Sprintf("Campaign %q no longer running upstream", campaign.Name),
		})
	}

	for _, entry := range entries {
		observer.AddSyncChanges(string(entry.ChangeType), 1)
	}
	return entries
}

func (s *PushActivityService) diffCampaignLeads(snapshot model.CampaignSnapshot, storedLeads []model.Lead, summary *model.SyncSummary) []model.ChangeLogEntry {
	var entries []model.ChangeLogEntry
	campaign := snapshot.Campaign

	prevByID := make(map[string]model.Lead, len(storedLeads))
	for _, lead := range storedLeads {
		prevByID[lead.ID] = lead
	}

	feedLeads := make([]model.Lead, 0, len(snapshot.Leads))
	feedIDs := make(map[string]struct{}, len(snapshot.Leads))
	for _, payload := range snapshot.Leads {
		feedLeads = append(feedLeads, payload.ToLead(campaign.ID))
		feedIDs[payload.ID] = struct{}{}
	}

	for _, lead := range feedLeads {
		prev, known := prevByID[lead.ID]
		if !known {
			summary.LeadsAdded++
			if len(summary.AddedLeadSamples) < s.syncCfg.LeadSampleSize {
				summary.AddedLeadSamples = append(summary.AddedLeadSamples, leadSample(lead))
			}
			entries = append(entries, model.ChangeLogEntry{
				ChangeType:   model.ChangeLeadAdded,
				CampaignID:   campaign.ID,
				CampaignName: campaign.Name,
				LeadID:       lead.ID,
				LeadEmail:    lead.Email,
				LeadCompany:  lead.CompanyName,
				Details:      fmt.Sprintf("Lead %s joined campaign %q", lead.Email, campaign.Name),
			})
			continue
		}
		if leadChanged(prev, lead) {
			entries = append(entries, model.ChangeLogEntry{
				ChangeType:   model.ChangeLeadUpdated,
				CampaignID:   campaign.ID,
				CampaignName: campaign.Name,
				LeadID:       lead.ID,
				LeadEmail:    lead.Email,
				LeadCompany:  lead.CompanyName,
				OldValue:     leadJSON(prev),
				NewValue:     leadJSON(lead),
				Details:      fmt.Sprintf("Lead %s changed in campaign %q", lead.Email, campaign.Name),
			})
		}
	}

	for _, lead := range storedLeads {
		if _, stillPresent := feedIDs[lead.ID]; stillPresent {
			continue
		}
		summary.LeadsRemoved++
		if len(summary.RemovedLeadSamples) < s.syncCfg.LeadSampleSize {
			summary.RemovedLeadSamples = append(summary.RemovedLeadSamples, leadSample(lead))
		}
		entries = append(entries, model.ChangeLogEntry{
			ChangeType:   model.ChangeLeadRemoved,
			CampaignID:   campaign.ID,
			CampaignName: campaign.Name,
			LeadID:       lead.ID,
			LeadEmail:    lead.Email,
			LeadCompany:  lead.CompanyName,
			Details:      fmt.Sprintf("Lead %s left campaign %q", lead.Email, campaign.Name),
		})
	}

	oldCount := len(UniqueEligibleCompanies(storedLeads))
	newCount := len(UniqueEligibleCompanies(feedLeads))
	if oldCount != newCount {
		if summary.CompanyCountChanges == nil {
			summary.CompanyCountChanges = make(map[string]int)
		}
		summary.CompanyCountChanges[campaign.Name] = newCount - oldCount
		entries = append(entries, model.ChangeLogEntry{
			ChangeType:   model.ChangeCompanyCountChanged,
			CampaignID:   campaign.ID,
			CampaignName: campaign.Name,
			OldValue:     datatypes.JSON(utils.MustMarshalJSON(oldCount)),
			NewValue:     datatypes.JSON(utils.MustMarshalJSON(newCount)),
			Details:      fmt.Sprintf("Unique companies: %d -> %d", oldCount, newCount),
		})
	}
	return entries
}

// writeState applies the reconciled snapshot to the store. Each write failure
// is recorded and the remaining writes still run: a half-applied cycle with a
// complete error report beats an aborted one.
func (s *PushActivityService) writeState(ctx context.Context, snapshots []model.CampaignSnapshot, stored *storedState, entries []model.ChangeLogEntry, summary *model.SyncSummary) {
	// Store-unavailable failures are worth retrying with another cycle;
	// everything else needs operator attention.
	recordErr := func(op string, err error) {
		if apperrors.IsStoreUnavailableError(err) {
			err = apperrors.NewRetryable(err, op)
		} else {
			err = apperrors.NewFatal(err, op)
		}
		summary.Errors = append(summary.Errors, err.Error())
	}

	campaigns := make([]model.Campaign, 0, len(snapshots))
	feedIDs := make(map[string]struct{}, len(snapshots))
	var leads []model.Lead
	feedLeadIDs := make(map[string]struct{})
	for _, snapshot := range snapshots {
		campaigns = append(campaigns, snapshot.Campaign.ToCampaign())
		feedIDs[snapshot.Campaign.ID] = struct{}{}
		for _, payload := range snapshot.Leads {
			leads = append(leads, payload.ToLead(snapshot.Campaign.ID))
			feedLeadIDs[payload.ID] = struct{}{}
		}
	}

	if err := s.campaignRepo.BulkUpsert(ctx, campaigns); err != nil {
		recordErr("upsert campaigns", err)
	}
	if err := s.leadRepo.BulkUpsert(ctx, leads); err != nil {
		recordErr("upsert leads", err)
	}

	var removedCampaignIDs []string
	for _, campaign := range stored.campaigns {
		if _, present := feedIDs[campaign.ID]; !present {
			removedCampaignIDs = append(removedCampaignIDs, campaign.ID)
		}
	}
	if len(removedCampaignIDs) > 0 {
		if err := s.campaignRepo.DeactivateByIDs(ctx, removedCampaignIDs); err != nil {
			recordErr("deactivate campaigns", err)
		}
		if err := s.leadRepo.DeactivateByCampaignIDs(ctx, removedCampaignIDs); err != nil {
			recordErr("deactivate campaign leads", err)
		}
	}

	var removedLeadIDs []string
	for campaignID, storedLeads := range stored.leads {
		if _, present := feedIDs[campaignID]; !present {
			continue // handled by the per-campaign deactivation above
		}
		for _, lead := range storedLeads {
			if _, present := feedLeadIDs[lead.ID]; !present {
				removedLeadIDs = append(removedLeadIDs, lead.ID)
			}
		}
	}
	if len(removedLeadIDs) > 0 {
		if err := s.leadRepo.DeactivateByIDs(ctx, removedLeadIDs); err != nil {
			recordErr("deactivate leads", err)
		}
	}

	if len(entries) > 0 {
		if err := s.changeLogRepo.AppendBatch(ctx, entries); err != nil {
			recordErr("append change log", err)
		}
	}
}

// recordRun persists the cycle to sync_history. A failed history write is
// reported in the summary, never fails the cycle.
func (s *PushActivityService) recordRun(ctx context.Context, summary *model.SyncSummary) {
	run := model.SyncRun{
		RunID:              summary.RunID,
		CampaignsProcessed: summary.CampaignsProcessed,
		CampaignsAdded:     summary.CampaignsAdded,
		CampaignsRemoved:   summary.CampaignsRemoved,
		CampaignsUpdated:   summary.CampaignsUpdated,
		LeadsAdded:         summary.LeadsAdded,
		LeadsRemoved:       summary.LeadsRemoved,
		StartedAt:          summary.StartedAt,
		DurationSeconds:    summary.DurationSeconds,
	}
	if len(summary.CompanyCountChanges) > 0 {
		run.CompanyCountChanges = datatypes.JSON(utils.MustMarshalJSON(summary.CompanyCountChanges))
	}
	if err := s.syncRunRepo.Save(ctx, run); err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("save sync run: %v", err))
	}
}

func leadChanged(prev, next model.Lead) bool {
	return prev.Email != next.Email ||
		prev.FirstName != next.FirstName ||
		prev.LastName != next.LastName ||
		prev.CompanyName != next.CompanyName ||
		prev.JobTitle != next.JobTitle ||
		prev.LinkedinURL != next.LinkedinURL ||
		prev.State != next.State ||
		prev.StateSystem != next.StateSystem
}

func leadSample(lead model.Lead) model.LeadSample {
	return model.LeadSample{
		Name:    lead.FullName(),
		Email:   lead.Email,
		Company: lead.CompanyName,
	}
}

func campaignJSON(name, status string) datatypes.JSON {
	return datatypes.JSON(utils.MustMarshalJSON(map[string]string{
		"name":   name,
		"status": status,
	}))
}

func leadJSON(lead model.Lead) datatypes.JSON {
	return datatypes.JSON(utils.MustMarshalJSON(map[string]string{
		"email":        lead.Email,
		"first_name":   lead.FirstName,
		"last_name":    lead.LastName,
		"company_name": lead.CompanyName,
		"job_title":    lead.JobTitle,
		"linkedin_url": lead.LinkedinURL,
		"state":        lead.State,
		"state_system": lead.StateSystem,
	}))
}
