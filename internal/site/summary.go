package site

import (
	"time"

	"git.home.luguber.info/inful/remotedocs/internal/content"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

// Summary describes one resolution pass.
type Summary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Resolved   []string  `json:"resolved"`
	Failed     []Failure `json:"failed"`
	Plugins    int       `json:"plugins"`
}

// Failure records a repository omitted from the pass.
type Failure struct {
	Repository string `json:"repository"`
	Branch     string `json:"branch"`
	Category   string `json:"category"`
	Error      string `json:"error"`
}

// OK reports whether every repository was resolved.
func (s *Summary) OK() bool { return len(s.Failed) == 0 }

func summarize(runID string, start, end time.Time, resolutions []content.Resolution, plugins int) *Summary {
	s := &Summary{
		RunID:      runID,
		StartedAt:  start,
		DurationMS: end.Sub(start).Milliseconds(),
		Resolved:   []string{},
		Failed:     []Failure{},
		Plugins:    plugins,
	}
	for _, r := range resolutions {
		if r.OK() {
			s.Resolved = append(s.Resolved, r.Descriptor.String())
			continue
		}
		s.Failed = append(s.Failed, Failure{
			Repository: r.Descriptor.FullName(),
			Branch:     r.Descriptor.Branch,
			Category:   string(rderrors.GetCategory(r.Err)),
			Error:      r.Err.Error(),
		})
	}
	return s
}
