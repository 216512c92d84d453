package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Operation string

const (
	OperationMatch  Operation = "MATCH"
	OperationEnrich Operation = "ENRICH"
)

func (o Operation) IsValid() bool {
	return o == OperationMatch || o == OperationEnrich
}

type ReconciliationStatus string

const (
	ReconciliationStatusPending   ReconciliationStatus = "PENDING"
	ReconciliationStatusMatching  ReconciliationStatus = "MATCHING"
	ReconciliationStatusEnriching ReconciliationStatus = "ENRICHING"
	ReconciliationStatusCompleted ReconciliationStatus = "COMPLETED"
	ReconciliationStatusFailed    ReconciliationStatus = "FAILED"
)

func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconciliationStatusPending, ReconciliationStatusMatching,
		ReconciliationStatusEnriching, ReconciliationStatusCompleted,
		ReconciliationStatusFailed:
		return true
	default:
		return false
	}
}

func (s ReconciliationStatus) IsTerminal() bool {
	return s == ReconciliationStatusCompleted || s == ReconciliationStatusFailed
}

// EnrichTarget names a track on each platform for metadata enrichment.
// Either ID may be empty, but not both.
type EnrichTarget struct {
	SpotifyID    string `json:"spotifyId,omitempty"`
	AppleMusicID string `json:"appleMusicId,omitempty"`
}

func (t EnrichTarget) IsZero() bool {
	return t.SpotifyID == "" && t.AppleMusicID == ""
}

// ReconciliationJob is the queue payload describing one batch run.
type ReconciliationJob struct {
	JobID          string           `json:"jobId"`
	Operation      Operation        `json:"operation"`
	SessionID      string           `json:"sessionId"`
	SourcePlatform Platform         `json:"sourcePlatform"`
	TargetPlatform Platform         `json:"targetPlatform"`
	Tracks         []*PlatformTrack `json:"tracks,omitempty"`
	Targets        []EnrichTarget   `json:"targets,omitempty"`
	ForceRefresh   bool             `json:"forceRefresh,omitempty"`
	Strategy       string           `json:"strategy,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

func NewMatchJob(sessionID string, sourcePlatform, targetPlatform Platform, tracks []*PlatformTrack) *ReconciliationJob {
	return &ReconciliationJob{
		JobID:          uuid.New().String(),
		Operation:      OperationMatch,
		SessionID:      sessionID,
		SourcePlatform: sourcePlatform,
		TargetPlatform: targetPlatform,
		Tracks:         tracks,
		CreatedAt:      time.Now(),
	}
}

func NewEnrichJob(sessionID string, targets []EnrichTarget, forceRefresh bool) *ReconciliationJob {
	return &ReconciliationJob{
		JobID:        uuid.New().String(),
		Operation:    OperationEnrich,
		SessionID:    sessionID,
		Targets:      targets,
		ForceRefresh: forceRefresh,
		CreatedAt:    time.Now(),
	}
}

// Reconciliation tracks the state of one job as it runs.
type Reconciliation struct {
	ID             string               `json:"id"`
	Operation      Operation            `json:"operation"`
	SourcePlatform Platform             `json:"sourcePlatform,omitempty"`
	TargetPlatform Platform             `json:"targetPlatform,omitempty"`
	Status         ReconciliationStatus `json:"status"`
	TotalItems     int                  `json:"totalItems"`
	ProcessedItems int                  `json:"processedItems"`
	MatchedItems   int                  `json:"matchedItems"`
	FailedItems    int                  `json:"failedItems"`
	ErrorMessage   string               `json:"errorMessage,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	CompletedAt    *time.Time           `json:"completedAt,omitempty"`
}

func NewReconciliation(job *ReconciliationJob) (*Reconciliation, error) {
	if job == nil {
		return nil, errors.New("job cannot be nil")
	}
	if job.JobID == "" {
		return nil, errors.New("job ID cannot be empty")
	}
	if !job.Operation.IsValid() {
		return nil, errors.New("invalid operation")
	}
	if job.Operation == OperationMatch {
		if !job.SourcePlatform.IsValid() {
			return nil, errors.New("invalid source platform")
		}
		if !job.TargetPlatform.IsValid() {
			return nil, errors.New("invalid target platform")
		}
		if len(job.Tracks) == 0 {
			return nil, errors.New("match job requires at least one track")
		}
		for _, track := range job.Tracks {
			if track == nil {
				return nil, errors.New("match job tracks cannot contain null entries")
			}
		}
	}
	if job.Operation == OperationEnrich && len(job.Targets) == 0 {
		return nil, errors.New("enrich job requires at least one target")
	}

	now := time.Now()
	return &Reconciliation{
		ID:             job.JobID,
		Operation:      job.Operation,
		SourcePlatform: job.SourcePlatform,
		TargetPlatform: job.TargetPlatform,
		Status:         ReconciliationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (r *Reconciliation) Start(totalItems int) {
	if r.Operation == OperationEnrich {
		r.Status = ReconciliationStatusEnriching
	} else {
		r.Status = ReconciliationStatusMatching
	}
	r.TotalItems = totalItems
	r.UpdatedAt = time.Now()
}

func (r *Reconciliation) UpdateProgress(processed, matched, failed int) {
	r.ProcessedItems = processed
	r.MatchedItems = matched
	r.FailedItems = failed
	r.UpdatedAt = time.Now()
}

func (r *Reconciliation) Complete() {
	now := time.Now()
	r.Status = ReconciliationStatusCompleted
	r.UpdatedAt = now
	r.CompletedAt = &now
}

func (r *Reconciliation) Fail(errorMessage string) {
	now := time.Now()
	r.Status = ReconciliationStatusFailed
	r.ErrorMessage = errorMessage
	r.UpdatedAt = now
	r.CompletedAt = &now
}

func (r *Reconciliation) Progress() int {
	if r.TotalItems == 0 {
		return 0
	}
	return (r.ProcessedItems * 100) / r.TotalItems
}
