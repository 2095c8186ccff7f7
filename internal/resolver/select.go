package resolver

import (
	"io"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"golang.org/x/term"
)

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether r is a file attached to a terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Select returns the resolver for policy. The prompt policy uses the
// interactive prompt when in is a terminal. Without one nobody can answer,
// so conflicts cancel the run.
func Select(policy string, in io.Reader, out io.Writer, logger *logging.Logger) (finishing.Resolver, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if policy != PolicyPrompt {
		res, err := finishing.ParseResolution(policy)
		if err != nil {
			return nil, errors.NewValidationError("unknown conflict policy").
				WithField("conflict.resolution").
				WithValue(policy).
				WithCause(err)
		}
		return NewFixed(res, logger), nil
	}
	if IsTerminal(in) {
		return NewPrompt(in, out), nil
	}
	logger.Warn("stdin is not a terminal; conflicts will cancel the run", "policy", policy)
	return NewFixed(finishing.ResolutionAbort, logger), nil
}
