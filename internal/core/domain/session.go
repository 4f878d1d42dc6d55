package domain

import (
	"time"

	"github.com/google/uuid"
)

// TerminationReason records why a session stopped
type TerminationReason string

const (
	// TerminationExhausted means every requested step completed.
	TerminationExhausted TerminationReason = "exhausted_requested_steps"
	// TerminationNoNextSubject means the backend explicitly had no continuation.
	TerminationNoNextSubject TerminationReason = "no_next_subject"
	// TerminationNextInquiryFailed means the continuation lookup failed;
	// completed steps are preserved.
	TerminationNextInquiryFailed TerminationReason = "next_inquiry_failed"
	// TerminationAborted means a research call failed and the session stopped hard.
	TerminationAborted TerminationReason = "aborted"
)

// Step is one completed research step. NextSubject is empty when the
// backend proposed no continuation (or was never asked, on the last step).
type Step struct {
	Sequence    int      `json:"sequence"`
	Subject     string   `json:"subject"`
	Artifact    Artifact `json:"artifact"`
	NextSubject string   `json:"next_subject,omitempty"`
}

// Session is the append-only record of one research run. Steps are ordered
// by Sequence (1-based) matching invocation order; the session is not
// modified after Termination is set.
type Session struct {
	ID             string            `json:"id"`
	InitialSubject string            `json:"initial_subject"`
	RequestedSteps int               `json:"requested_steps"`
	Steps          []Step            `json:"steps"`
	Termination    TerminationReason `json:"termination"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
}

// NewSession creates an empty session for the given subject and step count.
func NewSession(subject string, requestedSteps int) *Session {
	return &Session{
		ID:             uuid.NewString(),
		InitialSubject: subject,
		RequestedSteps: requestedSteps,
		StartedAt:      time.Now().UTC(),
	}
}
