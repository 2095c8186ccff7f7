package finishing

import (
	"fmt"
	"strings"
)

// Resolution is the user's answer to a set of membership conflicts.
type Resolution int

const (
	// ResolutionSkip groups only the walls that are not already grouped.
	ResolutionSkip Resolution = iota
	// ResolutionDissolve ungroups every conflicting group, then groups all candidates.
	ResolutionDissolve
	// ResolutionAbort cancels the run.
	ResolutionAbort
)

func (r Resolution) String() string {
	switch r {
	case ResolutionSkip:
		return "skip"
	case ResolutionDissolve:
		return "dissolve"
	case ResolutionAbort:
		return "abort"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// Resolutions lists every Resolution in prompt order.
func Resolutions() []Resolution {
	return []Resolution{ResolutionSkip, ResolutionDissolve, ResolutionAbort}
}

// ParseResolution accepts the names produced by String, case-insensitively.
func ParseResolution(s string) (Resolution, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Resolutions() {
		if r.String() == want {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown conflict resolution %q (want skip, dissolve or abort)", s)
}

// Resolver decides what to do when candidate walls already belong to groups.
// It receives the conflicts sorted by label and may block until a human answers.
// An error from Resolve aborts the run; it is not treated as ResolutionAbort.
type Resolver interface {
	Resolve(conflicts []Conflict) (Resolution, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(conflicts []Conflict) (Resolution, error)

func (f ResolverFunc) Resolve(conflicts []Conflict) (Resolution, error) {
	return f(conflicts)
}
