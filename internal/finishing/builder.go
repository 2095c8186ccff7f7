package finishing

import (
	"fmt"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// Builder turns a set of candidate walls into a new named group type,
// consulting a Resolver when some candidates are already grouped.
type Builder struct {
	acc      model.Accessor
	resolver Resolver
	logger   *logging.Logger
}

// NewBuilder returns a Builder. A nil logger discards output.
func NewBuilder(acc model.Accessor, resolver Resolver, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Builder{acc: acc, resolver: resolver, logger: logger}
}

// BuildGroupFromWalls groups walls under a new group type named desiredName.
func BuildGroupFromWalls(acc model.Accessor, resolver Resolver, walls []model.Wall, desiredName string) (model.GroupType, error) {
	return NewBuilder(acc, resolver, nil).Build(walls, desiredName)
}

// Build groups the candidate walls and names the new type.
//
// Without conflicts every candidate is grouped. Otherwise the resolver is
// shown the conflicts sorted by label and its answer decides:
//   - Skip groups only the ungrouped candidates, failing with an empty
//     selection error if there are none.
//   - Dissolve ungroups every conflicting group once, lets the model settle,
//     and then groups every candidate.
//   - Abort returns a cancellation error.
//
// The name is checked before anything is changed.
func (b *Builder) Build(walls []model.Wall, desiredName string) (model.GroupType, error) {
	if len(walls) == 0 {
		return model.GroupType{}, errors.NewSelectionError("build group")
	}
	if err := CheckGroupName(b.acc, desiredName); err != nil {
		return model.GroupType{}, err
	}

	ungrouped, conflicting := Partition(walls)
	b.logger.Debug("partitioned candidates", "ungrouped", len(ungrouped), "conflicting", len(conflicting))
	if len(conflicting) == 0 {
		return b.group(ids(walls), desiredName)
	}

	conflicts, err := DescribeConflicts(b.acc, conflicting)
	if err != nil {
		return model.GroupType{}, err
	}
	res, err := b.resolver.Resolve(conflicts)
	if err != nil {
		return model.GroupType{}, fmt.Errorf("resolving conflicts: %w", err)
	}
	b.logger.Info("conflicts resolved", "conflicts", len(conflicts), "resolution", res.String())

	switch res {
	case ResolutionSkip:
		if len(ungrouped) == 0 {
			return model.GroupType{}, errors.NewSelectionError("skip grouped walls")
		}
		return b.group(ids(ungrouped), desiredName)
	case ResolutionDissolve:
		if err := b.dissolve(conflicting); err != nil {
			return model.GroupType{}, err
		}
		return b.group(ids(walls), desiredName)
	case ResolutionAbort:
		return model.GroupType{}, errors.NewCancelledError("conflicting groups left in place")
	default:
		return model.GroupType{}, errors.NewValidationError("unknown conflict resolution").
			WithField("resolution").
			WithValue(int(res))
	}
}

func (b *Builder) dissolve(conflicting []model.Wall) error {
	for _, gid := range DistinctGroups(conflicting) {
		freed, err := b.acc.Dissolve(gid)
		if err != nil {
			return errors.NewModelError("dissolve group", err).WithElementID(int64(gid))
		}
		b.logger.Info("dissolved group", "group", int64(gid), "freed", len(freed))
	}
	if err := b.acc.Regenerate(); err != nil {
		return errors.NewModelError("regenerate", err)
	}
	for _, w := range conflicting {
		fresh, err := b.acc.Wall(w.ID)
		if err != nil {
			return err
		}
		if fresh.Grouped() {
			return errors.NewModelError("dissolve group",
				fmt.Errorf("wall still belongs to group %d", fresh.GroupID)).WithElementID(int64(w.ID))
		}
	}
	return nil
}

func (b *Builder) group(wallIDs []model.ID, name string) (model.GroupType, error) {
	g, err := b.acc.CreateGroup(wallIDs)
	if err != nil {
		return model.GroupType{}, err
	}
	if err := b.acc.SetName(g.TypeID, name); err != nil {
		return model.GroupType{}, err
	}
	b.logger.Info("created group", "group_type", int64(g.TypeID), "name", name, "walls", len(wallIDs))
	return b.acc.GroupType(g.TypeID)
}

// CheckGroupName reports whether name can be given to a new group type: it
// must be a valid element name and no group type may already hold it.
func CheckGroupName(acc model.Accessor, name string) error {
	if err := model.ValidateName(name); err != nil {
		return err
	}
	types, err := acc.ListElementsByKind(model.KindGroupType)
	if err != nil {
		return err
	}
	for _, t := range types {
		if t.Name == name {
			return errors.NewNameConflictError("group type", name)
		}
	}
	return nil
}

func ids(walls []model.Wall) []model.ID {
	out := make([]model.ID, len(walls))
	for i, w := range walls {
		out[i] = w.ID
	}
	return out
}
