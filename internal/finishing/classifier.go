// Package finishing classifies finishing groups, inventories the wall types
// of a level, and copies a finishing assembly onto other levels.
//
// A finishing group is a group type whose first instance consists only of
// walls that all sit on one level. Classification reads the live model and
// must be repeated after any edit to groups or walls.
package finishing

import (
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// Classifier decides which group types are finishing groups.
type Classifier struct {
	acc model.Accessor
}

// NewClassifier returns a Classifier reading from acc.
func NewClassifier(acc model.Accessor) *Classifier {
	return &Classifier{acc: acc}
}

// IsFinishingGroup reports whether every member of the type's first instance
// is a wall and all of them share one level. A type without instances is
// not a finishing group, and neither is one whose first instance is empty:
// an empty instance has no level to confine it to. Errors come only from
// stale identifiers.
func (c *Classifier) IsFinishingGroup(typeID model.ID) (bool, error) {
	_, ok, err := c.finishingLevel(typeID)
	return ok, err
}

// finishingLevel returns the shared level of a finishing group.
func (c *Classifier) finishingLevel(typeID model.ID) (model.ID, bool, error) {
	gt, err := c.acc.GroupType(typeID)
	if err != nil {
		return model.InvalidID, false, err
	}
	if len(gt.Instances) == 0 {
		return model.InvalidID, false, nil
	}
	first, err := c.acc.Group(gt.Instances[0])
	if err != nil {
		return model.InvalidID, false, err
	}

	level := model.InvalidID
	for _, id := range first.Members {
		e, err := c.acc.GetElement(id)
		if err != nil {
			return model.InvalidID, false, err
		}
		switch e.Kind {
		case model.KindWall:
			if !level.Valid() {
				level = e.LevelID
			} else if e.LevelID != level {
				return model.InvalidID, false, nil
			}
		case model.KindOther, model.KindLevel, model.KindGroup, model.KindGroupType:
			return model.InvalidID, false, nil
		default:
			return model.InvalidID, false, nil
		}
	}
	return level, level.Valid(), nil
}
