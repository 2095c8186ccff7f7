// Package resolver provides the finishing.Resolver implementations the CLI
// uses: a fixed policy taken from configuration and an interactive prompt.
package resolver

import (
	"slices"

	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// Policy names accepted by conflict.resolution and --on-conflict.
const (
	PolicyPrompt   = "prompt"
	PolicySkip     = "skip"
	PolicyDissolve = "dissolve"
	PolicyAbort    = "abort"
)

// ValidPolicies returns every accepted policy name.
func ValidPolicies() []string {
	return []string{PolicyPrompt, PolicySkip, PolicyDissolve, PolicyAbort}
}

// IsValidPolicy reports whether name is an accepted policy.
func IsValidPolicy(name string) bool {
	return slices.Contains(ValidPolicies(), name)
}

// Fixed answers every conflict set with the same resolution.
type Fixed struct {
	resolution finishing.Resolution
	logger     *logging.Logger
}

// NewFixed returns a resolver that always answers r. A nil logger discards output.
func NewFixed(r finishing.Resolution, logger *logging.Logger) *Fixed {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Fixed{resolution: r, logger: logger}
}

func (f *Fixed) Resolve(conflicts []finishing.Conflict) (finishing.Resolution, error) {
	f.logger.Info("answering conflicts from policy",
		"conflicts", len(conflicts),
		"groups", len(distinctGroups(conflicts)),
		"resolution", f.resolution.String(),
	)
	return f.resolution, nil
}

func distinctGroups(conflicts []finishing.Conflict) map[model.ID]bool {
	groups := make(map[model.ID]bool)
	for _, c := range conflicts {
		groups[c.GroupID] = true
	}
	return groups
}
