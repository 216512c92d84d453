package application

import (
	"context"
	"fmt"
	"log"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/http"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/redis"
)

type Processor interface {
	Process(ctx context.Context, job *domain.ReconciliationJob) error
}

type processor struct {
	service       *ReconciliationService
	statusStore   redis.StatusStore
	matchDefaults domain.MatchConfig
}

func NewProcessor(service *ReconciliationService, statusStore redis.StatusStore, matchDefaults domain.MatchConfig) Processor {
	return &processor{
		service:       service,
		statusStore:   statusStore,
		matchDefaults: matchDefaults,
	}
}

func (p *processor) Process(ctx context.Context, job *domain.ReconciliationJob) error {
	reconciliation, err := domain.NewReconciliation(job)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic during reconciliation %s: %v", reconciliation.ID, r)
			reconciliation.Fail(fmt.Sprintf("internal error: %v", r))
			p.updateStatus(ctx, reconciliation, nil)
		}
	}()

	if job.SessionID != "" {
		ctx = http.WithSessionID(ctx, job.SessionID)
	}

	switch job.Operation {
	case domain.OperationEnrich:
		return p.processEnrich(ctx, job, reconciliation)
	default:
		return p.processMatch(ctx, job, reconciliation)
	}
}

func (p *processor) processMatch(ctx context.Context, job *domain.ReconciliationJob, reconciliation *domain.Reconciliation) error {
	reconciliation.Start(len(job.Tracks))
	p.updateStatus(ctx, reconciliation, nil)

	results, err := p.service.BatchMatchTracks(ctx, job.Tracks, job.TargetPlatform, p.matchDefaults)
	if err != nil {
		return p.handleError(ctx, reconciliation, "failed to match tracks", err)
	}

	reports := make([]*domain.MatchReport, 0, len(results))
	matched, failed := 0, 0
	for i, result := range results {
		// A nil result is a failed item; a result without a best match is a
		// clean no-match and is reported as unmatched, not failed.
		if result == nil {
			failed++
			var source *domain.PlatformTrack
			if i < len(job.Tracks) {
				source = job.Tracks[i]
			}
			reports = append(reports, domain.NewFailedReport(job.JobID, source, "match attempt failed"))
			continue
		}
		if result.BestMatch != nil {
			matched++
		}
		reports = append(reports, domain.NewMatchReport(job.JobID, result))
	}

	reconciliation.UpdateProgress(len(results), matched, failed)
	reconciliation.Complete()
	p.updateStatus(ctx, reconciliation, reports)

	log.Printf("reconciliation %s completed: %d/%d tracks matched", reconciliation.ID, matched, len(results))
	return nil
}

func (p *processor) processEnrich(ctx context.Context, job *domain.ReconciliationJob, reconciliation *domain.Reconciliation) error {
	reconciliation.Start(len(job.Targets))
	p.updateStatus(ctx, reconciliation, nil)

	strategy, _ := ParseStrategy(job.Strategy)
	enriched, err := p.service.BatchEnrichMetadata(ctx, job.Targets, EnrichOptions{
		ForceRefresh: job.ForceRefresh,
		Strategy:     strategy,
	})
	if err != nil {
		return p.handleError(ctx, reconciliation, "failed to enrich metadata", err)
	}

	failed := len(job.Targets) - len(enriched)
	reconciliation.UpdateProgress(len(job.Targets), len(enriched), failed)
	reconciliation.Complete()
	p.updateStatus(ctx, reconciliation, nil)

	log.Printf("reconciliation %s completed: %d/%d targets enriched", reconciliation.ID, len(enriched), len(job.Targets))
	return nil
}

func (p *processor) handleError(ctx context.Context, reconciliation *domain.Reconciliation, message string, err error) error {
	fullMessage := fmt.Sprintf("%s: %v", message, err)

	reconciliation.Fail(fullMessage)
	p.updateStatus(ctx, reconciliation, nil)

	log.Printf("reconciliation %s failed: %s", reconciliation.ID, fullMessage)
	return fmt.Errorf("%s", fullMessage)
}

func (p *processor) updateStatus(ctx context.Context, reconciliation *domain.Reconciliation, reports []*domain.MatchReport) {
	status := redis.NewStatusFromReconciliation(reconciliation)
	status.Reports = reports
	if err := p.statusStore.Set(ctx, status); err != nil {
		log.Printf("failed to update status in redis: %v", err)
	}
}
