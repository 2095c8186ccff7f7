package finishing

import (
	"fmt"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// TransactionName is the name under which a run's mutations are committed.
const TransactionName = "Copy finishing"

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	// OutcomePartial means some target levels failed and the run was
	// committed anyway because partial replication is allowed.
	OutcomePartial
	// OutcomeCancelled means the user aborted at the conflict prompt.
	// Nothing was changed.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomePartial:
		return "partial"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Options tune a Workflow.
type Options struct {
	// AllowPartial commits a run in which some, but not all, target levels
	// received a copy. Otherwise any placement failure rolls the run back.
	AllowPartial bool
	// RevalidateSource checks a reused group type against the current model
	// before copying it.
	RevalidateSource bool
}

// Report describes a finished run.
type Report struct {
	Mode          Mode
	Outcome       Outcome
	GroupTypeID   model.ID
	GroupTypeName string
	// NewGroup is set when the run built the group type it copied.
	NewGroup   bool
	Conflicts  []Conflict
	Resolution *Resolution
	Placed     []ReplicaResult
	Failures   []*errors.PlacementError
}

// Workflow runs a SelectionRequest inside one transaction.
type Workflow struct {
	tx       model.Transactor
	resolver Resolver
	logger   *logging.Logger
	opts     Options
}

// NewWorkflow returns a Workflow. A nil logger discards output.
func NewWorkflow(tx model.Transactor, resolver Resolver, logger *logging.Logger, opts Options) *Workflow {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Workflow{tx: tx, resolver: resolver, logger: logger, opts: opts}
}

// Run validates req, establishes the source group type (reusing or building
// it) and copies it onto the target levels. All mutations share one
// transaction that is committed only when the run succeeds.
//
// A cancelled run returns a report with OutcomeCancelled and a nil error.
// Every other failure returns the error and leaves the model unchanged.
func (w *Workflow) Run(req SelectionRequest) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := w.logger.With("mode", req.Mode().String())
	log.Info("run started", "targets", len(req.TargetLevels()))

	report := &Report{Mode: req.Mode()}
	err := w.tx.Transact(TransactionName, func(acc model.Accessor) error {
		*report = Report{Mode: req.Mode()}
		return w.run(acc, req, report, log)
	})

	switch {
	case err == nil:
		log.Info("run finished", "outcome", report.Outcome.String(), "placed", len(report.Placed))
		return report, nil
	case errors.IsCancelled(err):
		report.Outcome = OutcomeCancelled
		report.Placed = nil
		report.Failures = nil
		log.Info("run cancelled", "reason", err.Error())
		return report, nil
	default:
		if errors.GetSeverity(err) == errors.SeverityWarning {
			log.Warn("run failed", "error", err.Error())
		} else {
			log.Error("run failed", "error", err.Error())
		}
		return nil, err
	}
}

func (w *Workflow) run(acc model.Accessor, req SelectionRequest, report *Report, log *logging.Logger) error {
	var source model.GroupType
	var err error

	switch req.Mode() {
	case ModeReuseGroup:
		source, err = w.reuse(acc, req.SourceGroupType(), log.WithPhase("classify"))
	case ModeFromLevel:
		source, err = w.build(acc, req, report, log.WithPhase("build"))
		report.NewGroup = err == nil
	}
	if err != nil {
		return err
	}
	report.GroupTypeID = source.ID
	report.GroupTypeName = source.Name

	results, err := NewReplicator(acc, log.WithPhase("replicate")).Run(source.ID, req.TargetLevels())
	report.Placed = results
	if err == nil {
		report.Outcome = OutcomeCompleted
		return nil
	}

	var repErr *errors.ReplicationError
	if !errors.As(err, &repErr) {
		return err
	}
	report.Failures = repErr.Failures
	if w.opts.AllowPartial && repErr.Placed > 0 {
		report.Outcome = OutcomePartial
		log.Warn("committing partial replication", "placed", repErr.Placed, "failed", len(repErr.Failures))
		return nil
	}
	return err
}

func (w *Workflow) reuse(acc model.Accessor, typeID model.ID, log *logging.Logger) (model.GroupType, error) {
	if w.opts.RevalidateSource {
		if err := verifySource(acc, typeID); err != nil {
			return model.GroupType{}, err
		}
		log.Debug("source revalidated", "group_type", int64(typeID))
	}
	return acc.GroupType(typeID)
}

func (w *Workflow) build(acc model.Accessor, req SelectionRequest, report *Report, log *logging.Logger) (model.GroupType, error) {
	if err := CheckGroupName(acc, req.GroupName()); err != nil {
		return model.GroupType{}, err
	}
	inv, err := WallTypesOnLevel(acc, req.SourceLevel())
	if err != nil {
		return model.GroupType{}, err
	}
	walls := inv.WallsOfTypes(req.WallTypes())
	if len(walls) == 0 {
		return model.GroupType{}, errors.NewSelectionError("select walls by type")
	}
	log.Debug("walls selected", "source_level", inv.Level.Name, "walls", len(walls))

	rec := &recordingResolver{inner: w.resolver, report: report}
	return NewBuilder(acc, rec, log).Build(walls, req.GroupName())
}

// verifySource checks that a reused type is still a finishing group and that
// every member of its first instance still points back at that instance.
func verifySource(acc model.Accessor, typeID model.ID) error {
	ok, err := NewClassifier(acc).IsFinishingGroup(typeID)
	if err != nil {
		return err
	}
	gt, err := acc.GroupType(typeID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewValidationError("group is no longer a finishing group").
			WithField("sourceGroup").
			WithValue(gt.Name)
	}
	first, err := acc.Group(gt.Instances[0])
	if err != nil {
		return err
	}
	for _, id := range first.Members {
		e, err := acc.GetElement(id)
		if err != nil {
			return err
		}
		if e.GroupID != first.ID {
			return errors.NewValidationError(fmt.Sprintf("wall %d is not a member of the group it is listed in", id)).
				WithField("sourceGroup").
				WithValue(gt.Name)
		}
	}
	return nil
}

// recordingResolver copies what was asked and answered into the report.
type recordingResolver struct {
	inner  Resolver
	report *Report
}

func (r *recordingResolver) Resolve(conflicts []Conflict) (Resolution, error) {
	r.report.Conflicts = conflicts
	res, err := r.inner.Resolve(conflicts)
	if err == nil {
		r.report.Resolution = &res
	}
	return res, err
}
