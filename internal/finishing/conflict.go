package finishing

import (
	"fmt"
	"sort"

	"github.com/Iron-Ham/finishcopy/internal/model"
)

// Partition splits walls into those without a group and those already in
// one. Input order is kept within each half.
func Partition(walls []model.Wall) (ungrouped, conflicting []model.Wall) {
	for _, w := range walls {
		if w.Grouped() {
			conflicting = append(conflicting, w)
		} else {
			ungrouped = append(ungrouped, w)
		}
	}
	return ungrouped, conflicting
}

// Conflict is a candidate wall that already belongs to a group.
type Conflict struct {
	GroupID   model.ID
	GroupName string
	WallID    model.ID
	WallName  string
}

// Label identifies the conflict for display.
func (c Conflict) Label() string {
	return fmt.Sprintf("%s: %s (%d)", c.GroupName, c.WallName, c.WallID)
}

// DescribeConflicts names the owning group of each conflicting wall and
// sorts the result by Label.
func DescribeConflicts(acc model.Accessor, conflicting []model.Wall) ([]Conflict, error) {
	names := make(map[model.ID]string)
	out := make([]Conflict, 0, len(conflicting))
	for _, w := range conflicting {
		name, ok := names[w.GroupID]
		if !ok {
			g, err := acc.Group(w.GroupID)
			if err != nil {
				return nil, err
			}
			gt, err := acc.GroupType(g.TypeID)
			if err != nil {
				return nil, err
			}
			name = gt.Name
			names[w.GroupID] = name
		}
		out = append(out, Conflict{GroupID: w.GroupID, GroupName: name, WallID: w.ID, WallName: w.Name})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label() < out[j].Label() })
	return out, nil
}

// DistinctGroups returns the groups referenced by the walls, first-seen order.
func DistinctGroups(conflicting []model.Wall) []model.ID {
	var out []model.ID
	seen := make(map[model.ID]bool)
	for _, w := range conflicting {
		if !w.Grouped() || seen[w.GroupID] {
			continue
		}
		seen[w.GroupID] = true
		out = append(out, w.GroupID)
	}
	return out
}

// ConflictSummary is the one-line description shown above the conflict list.
func ConflictSummary(conflicts []Conflict) string {
	groups := make(map[model.ID]bool)
	for _, c := range conflicts {
		groups[c.GroupID] = true
	}
	walls := fmt.Sprintf("%d selected walls already belong", len(conflicts))
	if len(conflicts) == 1 {
		walls = "1 selected wall already belongs"
	}
	groupWord := "groups"
	if len(groups) == 1 {
		groupWord = "group"
	}
	return fmt.Sprintf("%s to %d %s.", walls, len(groups), groupWord)
}
