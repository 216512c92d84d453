package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	statusKeyPrefix = "reconciliation:"
	statusKeySuffix = ":status"
	statusTTL       = 24 * time.Hour

	// Status payloads carry at most this many per-item reports to keep the
	// redis value bounded for large batch jobs.
	maxReports = 200
)

type ReconciliationStatusData struct {
	JobID          string                      `json:"jobId"`
	Operation      domain.Operation            `json:"operation"`
	Status         domain.ReconciliationStatus `json:"status"`
	Progress       int                         `json:"progress"`
	TotalItems     int                         `json:"totalItems"`
	ProcessedItems int                         `json:"processedItems"`
	MatchedItems   int                         `json:"matchedItems"`
	FailedItems    int                         `json:"failedItems"`
	Reports        []*domain.MatchReport       `json:"reports,omitempty"`
	Error          string                      `json:"error,omitempty"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

type StatusStore interface {
	Set(ctx context.Context, status *ReconciliationStatusData) error
	Get(ctx context.Context, jobID string) (*ReconciliationStatusData, error)
	Delete(ctx context.Context, jobID string) error
}

type statusStore struct {
	rdb *redis.Client
}

func NewStatusStore(client Client) StatusStore {
	return &statusStore{rdb: client.GetRDB()}
}

func statusKey(jobID string) string {
	return statusKeyPrefix + jobID + statusKeySuffix
}

func (s *statusStore) Set(ctx context.Context, status *ReconciliationStatusData) error {
	status.UpdatedAt = time.Now()

	if len(status.Reports) > maxReports {
		status.Reports = status.Reports[:maxReports]
	}

	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	key := statusKey(status.JobID)
	if err := s.rdb.Set(ctx, key, data, statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}

	return nil
}

func (s *statusStore) Get(ctx context.Context, jobID string) (*ReconciliationStatusData, error) {
	key := statusKey(jobID)

	data, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	var status ReconciliationStatusData
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}

	return &status, nil
}

func (s *statusStore) Delete(ctx context.Context, jobID string) error {
	key := statusKey(jobID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete status: %w", err)
	}
	return nil
}

func NewStatusFromReconciliation(r *domain.Reconciliation) *ReconciliationStatusData {
	status := &ReconciliationStatusData{
		JobID:          r.ID,
		Operation:      r.Operation,
		Status:         r.Status,
		Progress:       r.Progress(),
		TotalItems:     r.TotalItems,
		ProcessedItems: r.ProcessedItems,
		MatchedItems:   r.MatchedItems,
		FailedItems:    r.FailedItems,
		UpdatedAt:      r.UpdatedAt,
	}

	if r.ErrorMessage != "" {
		status.Error = r.ErrorMessage
	}

	return status
}
