package domain

import "testing"

func validMatchJob() *ReconciliationJob {
	track, _ := NewPlatformTrack(PlatformSpotify, "sp1", "Test Song", "Test Artist")
	return NewMatchJob("session-1", PlatformSpotify, PlatformAppleMusic, []*PlatformTrack{track})
}

func TestNewReconciliation(t *testing.T) {
	job := validMatchJob()

	reconciliation, err := NewReconciliation(job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reconciliation.ID != job.JobID {
		t.Errorf("expected ID %s, got %s", job.JobID, reconciliation.ID)
	}
	if reconciliation.Status != ReconciliationStatusPending {
		t.Errorf("expected PENDING, got %v", reconciliation.Status)
	}
	if reconciliation.Operation != OperationMatch {
		t.Errorf("expected MATCH, got %v", reconciliation.Operation)
	}
}

func TestNewReconciliation_Validation(t *testing.T) {
	if _, err := NewReconciliation(nil); err == nil {
		t.Error("expected error for nil job")
	}

	job := validMatchJob()
	job.JobID = ""
	if _, err := NewReconciliation(job); err == nil {
		t.Error("expected error for empty job ID")
	}

	job = validMatchJob()
	job.Operation = Operation("SYNC")
	if _, err := NewReconciliation(job); err == nil {
		t.Error("expected error for invalid operation")
	}

	job = validMatchJob()
	job.Tracks = nil
	if _, err := NewReconciliation(job); err == nil {
		t.Error("expected error for match job without tracks")
	}

	// A null element in the decoded tracks array must be rejected up front,
	// not discovered as a nil pointer mid-batch.
	job = validMatchJob()
	job.Tracks = append(job.Tracks, nil)
	if _, err := NewReconciliation(job); err == nil {
		t.Error("expected error for match job with a null track entry")
	}

	enrich := NewEnrichJob("session-1", nil, false)
	if _, err := NewReconciliation(enrich); err == nil {
		t.Error("expected error for enrich job without targets")
	}
}

func TestReconciliationLifecycle(t *testing.T) {
	reconciliation, _ := NewReconciliation(validMatchJob())

	reconciliation.Start(10)
	if reconciliation.Status != ReconciliationStatusMatching {
		t.Errorf("expected MATCHING, got %v", reconciliation.Status)
	}
	if reconciliation.TotalItems != 10 {
		t.Errorf("expected 10 total items, got %d", reconciliation.TotalItems)
	}

	reconciliation.UpdateProgress(5, 4, 1)
	if reconciliation.Progress() != 50 {
		t.Errorf("expected progress 50, got %d", reconciliation.Progress())
	}

	reconciliation.Complete()
	if !reconciliation.Status.IsTerminal() {
		t.Error("expected terminal status after Complete")
	}
	if reconciliation.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
}

func TestReconciliationFail(t *testing.T) {
	reconciliation, _ := NewReconciliation(validMatchJob())
	reconciliation.Fail("provider unavailable")

	if reconciliation.Status != ReconciliationStatusFailed {
		t.Errorf("expected FAILED, got %v", reconciliation.Status)
	}
	if reconciliation.ErrorMessage != "provider unavailable" {
		t.Errorf("unexpected error message: %s", reconciliation.ErrorMessage)
	}
}

func TestEnrichJobStatus(t *testing.T) {
	enrich := NewEnrichJob("session-1", []EnrichTarget{{SpotifyID: "sp1"}}, true)

	reconciliation, err := NewReconciliation(enrich)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reconciliation.Start(1)
	if reconciliation.Status != ReconciliationStatusEnriching {
		t.Errorf("expected ENRICHING, got %v", reconciliation.Status)
	}
}
