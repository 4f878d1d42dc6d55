// Package export writes finished research sessions to disk, as a readable
// markdown report and as JSON for downstream tooling.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vietddude/inquest/internal/core/domain"
)

// Writer exports sessions into a directory, one pair of files per session
// named by session ID.
type Writer struct {
	dir string
}

// NewWriter creates a Writer, creating dir if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write exports the session and returns the markdown report path.
func (w *Writer) Write(session *domain.Session) (string, error) {
	jsonPath := filepath.Join(w.dir, session.ID+".json")
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", jsonPath, err)
	}

	mdPath := filepath.Join(w.dir, session.ID+".md")
	if err := os.WriteFile(mdPath, []byte(Markdown(session)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", mdPath, err)
	}
	return mdPath, nil
}

// Markdown renders a session as a report.
func Markdown(session *domain.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research: %s\n\n", session.InitialSubject)
	fmt.Fprintf(&b, "- Session: %s\n", session.ID)
	fmt.Fprintf(&b, "- Steps: %d of %d requested\n", len(session.Steps), session.RequestedSteps)
	fmt.Fprintf(&b, "- Outcome: %s\n", describeTermination(session.Termination))
	fmt.Fprintf(&b, "- Started: %s\n\n", session.StartedAt.Format("2006-01-02 15:04:05 MST"))

	for _, step := range session.Steps {
		fmt.Fprintf(&b, "## Step %d: %s\n\n", step.Sequence, step.Subject)
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(step.Artifact.Summary))

		if len(step.Artifact.Sources) > 0 {
			b.WriteString("Sources:\n\n")
			for _, src := range step.Artifact.Sources {
				title := src.Title
				if title == "" {
					title = src.URI
				}
				fmt.Fprintf(&b, "- [%s](%s)\n", title, src.URI)
			}
			b.WriteString("\n")
		}

		if step.NextSubject != "" {
			fmt.Fprintf(&b, "Next subject: %s\n\n", step.NextSubject)
		}
	}

	return b.String()
}

func describeTermination(reason domain.TerminationReason) string {
	switch reason {
	case domain.TerminationExhausted:
		return "completed all requested steps"
	case domain.TerminationNoNextSubject:
		return "stopped early: backend proposed no follow-up subject"
	case domain.TerminationNextInquiryFailed:
		return "stopped early: follow-up subject lookup failed"
	case domain.TerminationAborted:
		return "aborted: research request failed"
	default:
		return string(reason)
	}
}
