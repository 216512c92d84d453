package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusMatched   ReportStatus = "MATCHED"
	ReportStatusUnmatched ReportStatus = "UNMATCHED"
	ReportStatusFailed    ReportStatus = "FAILED"
)

// MatchReport is the per-item audit entry attached to a reconciliation run's
// status payload.
type MatchReport struct {
	ID                string       `json:"id"`
	JobID             string       `json:"jobId"`
	Status            ReportStatus `json:"status"`
	SourceTrackID     string       `json:"sourceTrackId,omitempty"`
	SourceTrackName   string       `json:"sourceTrackName,omitempty"`
	SourceTrackArtist string       `json:"sourceTrackArtist,omitempty"`
	MatchedTrackID    string       `json:"matchedTrackId,omitempty"`
	MatchedTrackName  string       `json:"matchedTrackName,omitempty"`
	Confidence        float64      `json:"confidence,omitempty"`
	ErrorMessage      string       `json:"errorMessage,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
}

func newMatchReport(jobID string, status ReportStatus) *MatchReport {
	return &MatchReport{
		ID:        uuid.New().String(),
		JobID:     jobID,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

// NewMatchReport summarizes one MatchResult for the status store.
func NewMatchReport(jobID string, result *MatchResult) *MatchReport {
	status := ReportStatusUnmatched
	if result != nil && result.BestMatch != nil {
		status = ReportStatusMatched
	}

	report := newMatchReport(jobID, status)

	if result != nil && result.SourceTrack != nil {
		report.SourceTrackID = result.SourceTrack.ID
		report.SourceTrackName = result.SourceTrack.Name
		report.SourceTrackArtist = result.SourceTrack.ArtistName
	}

	if result != nil && result.BestMatch != nil {
		report.MatchedTrackID = result.BestMatch.ID
		report.MatchedTrackName = result.BestMatch.Name
		if len(result.Candidates) > 0 {
			report.Confidence = result.Candidates[0].Confidence
		}
	}

	return report
}

func NewFailedReport(jobID string, source *PlatformTrack, errorMessage string) *MatchReport {
	report := newMatchReport(jobID, ReportStatusFailed)
	if source != nil {
		report.SourceTrackID = source.ID
		report.SourceTrackName = source.Name
		report.SourceTrackArtist = source.ArtistName
	}
	report.ErrorMessage = errorMessage
	return report
}
