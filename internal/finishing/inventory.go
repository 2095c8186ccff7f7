package finishing

import (
	"slices"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// LevelInventory is the set of wall types present on one level, in the order
// they are first seen among the level's walls. Type selection by index refers
// to positions in that order.
type LevelInventory struct {
	Level model.Level

	types []model.WallType
	walls []model.Wall
}

// WallTypesOnLevel builds the inventory of a level. Calling it again without
// editing the model yields the same order.
func WallTypesOnLevel(acc model.Accessor, levelID model.ID) (*LevelInventory, error) {
	level, err := acc.Level(levelID)
	if err != nil {
		return nil, err
	}
	walls, err := acc.ListWallsOnLevel(levelID)
	if err != nil {
		return nil, err
	}

	inv := &LevelInventory{Level: level, walls: walls}
	seen := make(map[model.ID]bool)
	for _, w := range walls {
		if seen[w.TypeID] {
			continue
		}
		seen[w.TypeID] = true
		wt, err := acc.WallType(w.TypeID)
		if err != nil {
			return nil, err
		}
		inv.types = append(inv.types, wt)
	}
	return inv, nil
}

// Types returns the distinct wall types in first-seen order.
func (inv *LevelInventory) Types() []model.WallType {
	return slices.Clone(inv.types)
}

// Len is the number of distinct wall types.
func (inv *LevelInventory) Len() int { return len(inv.types) }

// Count is the number of walls of a type on the level.
func (inv *LevelInventory) Count(typeID model.ID) int {
	n := 0
	for _, w := range inv.walls {
		if w.TypeID == typeID {
			n++
		}
	}
	return n
}

// Select returns the wall types at the given zero-based positions, without
// duplicates, in the order requested.
func (inv *LevelInventory) Select(indices []int) ([]model.WallType, error) {
	var out []model.WallType
	picked := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(inv.types) {
			return nil, errors.NewValidationError("wall type index out of range").
				WithField("types").
				WithValue(i)
		}
		if picked[i] {
			continue
		}
		picked[i] = true
		out = append(out, inv.types[i])
	}
	return out, nil
}

// Lookup finds a wall type on the level by exact name and returns its position.
func (inv *LevelInventory) Lookup(name string) (model.WallType, int, bool) {
	for i, wt := range inv.types {
		if wt.Name == name {
			return wt, i, true
		}
	}
	return model.WallType{}, -1, false
}

// WallsOfTypes returns the level's walls whose type is in typeIDs, in the
// level's wall order.
func (inv *LevelInventory) WallsOfTypes(typeIDs []model.ID) []model.Wall {
	var out []model.Wall
	for _, w := range inv.walls {
		if slices.Contains(typeIDs, w.TypeID) {
			out = append(out, w)
		}
	}
	return out
}
