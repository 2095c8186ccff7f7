package finishing

import (
	"sort"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/model"
	"github.com/gobwas/glob"
)

// FinishingGroup describes a group type that classified as a finishing group.
type FinishingGroup struct {
	TypeID    model.ID
	Name      string
	LevelID   model.ID
	LevelName string
	Instances int
}

// Catalog lists what a user can choose from: levels and finishing groups.
type Catalog struct {
	acc        model.Accessor
	classifier *Classifier
}

// NewCatalog returns a Catalog reading from acc.
func NewCatalog(acc model.Accessor) *Catalog {
	return &Catalog{acc: acc, classifier: NewClassifier(acc)}
}

// Levels returns every level ordered by elevation, then name.
func (c *Catalog) Levels() ([]model.Level, error) {
	elems, err := c.acc.ListElementsByKind(model.KindLevel)
	if err != nil {
		return nil, err
	}
	levels := make([]model.Level, 0, len(elems))
	for _, e := range elems {
		lvl, err := c.acc.Level(e.ID)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Elevation != levels[j].Elevation {
			return levels[i].Elevation < levels[j].Elevation
		}
		return levels[i].Name < levels[j].Name
	})
	return levels, nil
}

// TargetLevels returns Levels without the source level.
func (c *Catalog) TargetLevels(source model.ID) ([]model.Level, error) {
	levels, err := c.Levels()
	if err != nil {
		return nil, err
	}
	out := levels[:0]
	for _, lvl := range levels {
		if lvl.ID != source {
			out = append(out, lvl)
		}
	}
	return out, nil
}

// LevelByName finds a level by exact name.
func (c *Catalog) LevelByName(name string) (model.Level, error) {
	levels, err := c.Levels()
	if err != nil {
		return model.Level{}, err
	}
	for _, lvl := range levels {
		if lvl.Name == name {
			return lvl, nil
		}
	}
	return model.Level{}, errors.NewNotFoundError("level", name)
}

// MatchLevels resolves target level patterns against the levels other than
// source. A pattern without glob metacharacters must name a level exactly,
// and may name the source so that the request is rejected for it later.
// Every pattern must match at least one level. The result follows Levels
// order without duplicates.
func (c *Catalog) MatchLevels(source model.ID, patterns []string) ([]model.Level, error) {
	levels, err := c.Levels()
	if err != nil {
		return nil, err
	}

	picked := make(map[model.ID]bool)
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			lvl, err := c.LevelByName(pattern)
			if err != nil {
				return nil, err
			}
			picked[lvl.ID] = true
			continue
		}

		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewValidationError("invalid level pattern").
				WithField("targetLevels").
				WithValue(pattern).
				WithCause(err)
		}
		matched := false
		for _, lvl := range levels {
			if lvl.ID != source && g.Match(lvl.Name) {
				picked[lvl.ID] = true
				matched = true
			}
		}
		if !matched {
			return nil, errors.NewNotFoundError("level", pattern)
		}
	}

	var out []model.Level
	for _, lvl := range levels {
		if picked[lvl.ID] {
			out = append(out, lvl)
		}
	}
	return out, nil
}

// FinishingGroups runs one classification pass over every group type and
// returns the finishing groups sorted by name.
func (c *Catalog) FinishingGroups() ([]FinishingGroup, error) {
	types, err := c.acc.ListElementsByKind(model.KindGroupType)
	if err != nil {
		return nil, err
	}

	var out []FinishingGroup
	for _, t := range types {
		levelID, ok, err := c.classifier.finishingLevel(t.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		gt, err := c.acc.GroupType(t.ID)
		if err != nil {
			return nil, err
		}
		lvl, err := c.acc.Level(levelID)
		if err != nil {
			return nil, err
		}
		out = append(out, FinishingGroup{
			TypeID:    gt.ID,
			Name:      gt.Name,
			LevelID:   lvl.ID,
			LevelName: lvl.Name,
			Instances: len(gt.Instances),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FinishingGroupByName finds a finishing group by exact type name. A group
// type with that name that does not classify as a finishing group is
// reported as a validation error.
func (c *Catalog) FinishingGroupByName(name string) (FinishingGroup, error) {
	groups, err := c.FinishingGroups()
	if err != nil {
		return FinishingGroup{}, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
	}
	types, err := c.acc.ListElementsByKind(model.KindGroupType)
	if err != nil {
		return FinishingGroup{}, err
	}
	for _, t := range types {
		if t.Name == name {
			return FinishingGroup{}, errors.NewValidationError("group is not a finishing group").
				WithField("group").
				WithValue(name)
		}
	}
	return FinishingGroup{}, errors.NewNotFoundError("finishing group", name)
}
