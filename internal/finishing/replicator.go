package finishing

import (
	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// ReplicaResult is one successfully placed copy.
type ReplicaResult struct {
	LevelID   model.ID
	LevelName string
	GroupID   model.ID
	Origin    model.Point
}

// Replicator places copies of a group type on other levels.
type Replicator struct {
	acc    model.Accessor
	logger *logging.Logger
}

// NewReplicator returns a Replicator. A nil logger discards output.
func NewReplicator(acc model.Accessor, logger *logging.Logger) *Replicator {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Replicator{acc: acc, logger: logger}
}

// Replicate places one instance of the source type on each target level and
// returns how many were placed.
func Replicate(acc model.Accessor, sourceTypeID model.ID, targetLevelIDs []model.ID) (int, error) {
	results, err := NewReplicator(acc, nil).Run(sourceTypeID, targetLevelIDs)
	return len(results), err
}

// Run places one instance of the source type per target level. The copy for a
// level at elevation E is anchored at the source anchor raised by E - E0,
// where E0 is the elevation of the level of the first wall in the source
// type's first instance.
//
// Targets are checked before anything is placed: the list must be non-empty,
// free of duplicates, and must not contain the source level. After that every
// target is attempted; failures are returned together as a
// *errors.ReplicationError alongside the results that did succeed.
func (r *Replicator) Run(sourceTypeID model.ID, targetLevelIDs []model.ID) ([]ReplicaResult, error) {
	anchor, sourceLevel, err := r.source(sourceTypeID)
	if err != nil {
		return nil, err
	}
	targets, err := r.targets(sourceLevel, targetLevelIDs)
	if err != nil {
		return nil, err
	}

	var results []ReplicaResult
	var failures []*errors.PlacementError
	for _, lvl := range targets {
		at := anchor.OffsetZ(lvl.Elevation - sourceLevel.Elevation)
		g, err := r.acc.PlaceGroupInstance(sourceTypeID, at)
		if err != nil {
			r.logger.Warn("placement failed", "target_level", lvl.Name, "error", err.Error())
			failures = append(failures, errors.NewPlacementError(int64(lvl.ID), lvl.Name, err))
			continue
		}
		r.logger.Info("placed instance", "target_level", lvl.Name, "group", int64(g.ID), "origin", at.String())
		results = append(results, ReplicaResult{LevelID: lvl.ID, LevelName: lvl.Name, GroupID: g.ID, Origin: at})
	}

	if len(failures) > 0 {
		return results, &errors.ReplicationError{Placed: len(results), Failures: failures}
	}
	return results, nil
}

// source returns the anchor of the type's first instance and the level of its
// first wall.
func (r *Replicator) source(typeID model.ID) (model.Point, model.Level, error) {
	gt, err := r.acc.GroupType(typeID)
	if err != nil {
		return model.Point{}, model.Level{}, err
	}
	if len(gt.Instances) == 0 {
		return model.Point{}, model.Level{}, errors.NewValidationError("group type has no placed instance").
			WithField("source").
			WithValue(gt.Name)
	}
	g, err := r.acc.Group(gt.Instances[0])
	if err != nil {
		return model.Point{}, model.Level{}, err
	}
	for _, id := range g.Members {
		e, err := r.acc.GetElement(id)
		if err != nil {
			return model.Point{}, model.Level{}, err
		}
		if e.Kind != model.KindWall {
			continue
		}
		lvl, err := r.acc.Level(e.LevelID)
		if err != nil {
			return model.Point{}, model.Level{}, err
		}
		return g.Origin, lvl, nil
	}
	return model.Point{}, model.Level{}, errors.NewValidationError("group type has no wall to locate its level").
		WithField("source").
		WithValue(gt.Name)
}

func (r *Replicator) targets(source model.Level, ids []model.ID) ([]model.Level, error) {
	if len(ids) == 0 {
		return nil, errors.NewValidationError("at least one target level is required").WithField("targetLevels")
	}
	seen := make(map[model.ID]bool, len(ids))
	out := make([]model.Level, 0, len(ids))
	for _, id := range ids {
		if id == source.ID {
			return nil, errors.NewValidationError("target level is the source level").
				WithField("targetLevels").
				WithValue(source.Name)
		}
		if seen[id] {
			return nil, errors.NewValidationError("target level listed twice").
				WithField("targetLevels").
				WithValue(id)
		}
		seen[id] = true
		lvl, err := r.acc.Level(id)
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	return out, nil
}
