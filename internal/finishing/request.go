package finishing

import (
	"slices"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// Mode says where the assembly to copy comes from.
type Mode int

const (
	// ModeReuseGroup copies an existing finishing group.
	ModeReuseGroup Mode = iota
	// ModeFromLevel builds a new group from wall types on a level, then copies it.
	ModeFromLevel
)

func (m Mode) String() string {
	switch m {
	case ModeReuseGroup:
		return "group"
	case ModeFromLevel:
		return "level"
	default:
		return "unknown"
	}
}

// SelectionRequest is the frozen user selection a Workflow runs. Build it
// with NewReuseRequest or NewLevelRequest; it cannot be changed afterwards.
type SelectionRequest struct {
	mode        Mode
	sourceGroup model.ID
	sourceLevel model.ID
	wallTypes   []model.ID
	targets     []model.ID
	groupName   string
}

// NewReuseRequest copies an existing finishing group type onto the targets.
func NewReuseRequest(groupTypeID model.ID, targetLevelIDs []model.ID) SelectionRequest {
	return SelectionRequest{
		mode:        ModeReuseGroup,
		sourceGroup: groupTypeID,
		sourceLevel: model.InvalidID,
		targets:     slices.Clone(targetLevelIDs),
	}
}

// NewLevelRequest groups the walls of the given types on a level under
// groupName and copies the new group onto the targets.
func NewLevelRequest(levelID model.ID, wallTypeIDs, targetLevelIDs []model.ID, groupName string) SelectionRequest {
	return SelectionRequest{
		mode:        ModeFromLevel,
		sourceGroup: model.InvalidID,
		sourceLevel: levelID,
		wallTypes:   slices.Clone(wallTypeIDs),
		targets:     slices.Clone(targetLevelIDs),
		groupName:   groupName,
	}
}

func (r SelectionRequest) Mode() Mode                { return r.mode }
func (r SelectionRequest) SourceGroupType() model.ID { return r.sourceGroup }
func (r SelectionRequest) SourceLevel() model.ID     { return r.sourceLevel }
func (r SelectionRequest) WallTypes() []model.ID     { return slices.Clone(r.wallTypes) }
func (r SelectionRequest) TargetLevels() []model.ID  { return slices.Clone(r.targets) }
func (r SelectionRequest) GroupName() string         { return r.groupName }

// Validate performs the checks that need no model access: a target is
// chosen, the source is complete for its mode, and the new group's name is
// acceptable.
func (r SelectionRequest) Validate() error {
	if len(r.targets) == 0 {
		return errors.NewValidationError("select at least one target level").WithField("targetLevels")
	}
	switch r.mode {
	case ModeReuseGroup:
		if !r.sourceGroup.Valid() {
			return errors.NewValidationError("select a finishing group").WithField("sourceGroup")
		}
	case ModeFromLevel:
		if !r.sourceLevel.Valid() {
			return errors.NewValidationError("select a source level").WithField("sourceLevel")
		}
		if len(r.wallTypes) == 0 {
			return errors.NewValidationError("select at least one wall type").WithField("wallTypes")
		}
		if slices.Contains(r.targets, r.sourceLevel) {
			return errors.NewValidationError("target level is the source level").
				WithField("targetLevels").
				WithValue(r.sourceLevel)
		}
		if err := model.ValidateName(r.groupName); err != nil {
			return err
		}
	default:
		return errors.NewValidationError("unknown selection mode").WithField("mode").WithValue(int(r.mode))
	}
	return nil
}
