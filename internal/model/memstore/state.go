package memstore

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// elevationTolerance is how close a level must be to a placement's
// elevation to receive the placed members.
const elevationTolerance = 1e-6

// other is any element that is neither a wall nor a level: furniture,
// annotations, openings. Only membership matters to the workflow.
type other struct {
	ID      model.ID
	Name    string
	LevelID model.ID
	GroupID model.ID
}

// state is the whole model. *state implements model.Accessor without
// locking; Store serialises access to it.
type state struct {
	nextID     model.ID
	levels     map[model.ID]model.Level
	wallTypes  map[model.ID]model.WallType
	walls      map[model.ID]model.Wall
	others     map[model.ID]other
	groupTypes map[model.ID]model.GroupType
	groups     map[model.ID]model.Group
}

var _ model.Accessor = (*state)(nil)

func newState() *state {
	return &state{
		nextID:     1,
		levels:     map[model.ID]model.Level{},
		wallTypes:  map[model.ID]model.WallType{},
		walls:      map[model.ID]model.Wall{},
		others:     map[model.ID]other{},
		groupTypes: map[model.ID]model.GroupType{},
		groups:     map[model.ID]model.Group{},
	}
}

func (s *state) clone() *state {
	c := &state{
		nextID:     s.nextID,
		levels:     make(map[model.ID]model.Level, len(s.levels)),
		wallTypes:  make(map[model.ID]model.WallType, len(s.wallTypes)),
		walls:      make(map[model.ID]model.Wall, len(s.walls)),
		others:     make(map[model.ID]other, len(s.others)),
		groupTypes: make(map[model.ID]model.GroupType, len(s.groupTypes)),
		groups:     make(map[model.ID]model.Group, len(s.groups)),
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	for k, v := range s.wallTypes {
		c.wallTypes[k] = v
	}
	for k, v := range s.walls {
		c.walls[k] = v
	}
	for k, v := range s.others {
		c.others[k] = v
	}
	for k, v := range s.groupTypes {
		v.Instances = slices.Clone(v.Instances)
		c.groupTypes[k] = v
	}
	for k, v := range s.groups {
		v.Members = slices.Clone(v.Members)
		c.groups[k] = v
	}
	return c
}

func (s *state) allocID() model.ID {
	id := s.nextID
	s.nextID++
	return id
}

// reserve keeps nextID above ids loaded from a snapshot.
func (s *state) reserve(id model.ID) {
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

func (s *state) exists(id model.ID) bool {
	if _, ok := s.levels[id]; ok {
		return true
	}
	if _, ok := s.wallTypes[id]; ok {
		return true
	}
	if _, ok := s.walls[id]; ok {
		return true
	}
	if _, ok := s.others[id]; ok {
		return true
	}
	if _, ok := s.groupTypes[id]; ok {
		return true
	}
	_, ok := s.groups[id]
	return ok
}

func sortedKeys[V any](m map[model.ID]V) []model.ID {
	keys := make([]model.ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func notFound(kind string, id model.ID) error {
	return errors.NewNotFoundError(kind, id.String())
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

func (s *state) ListElementsByKind(kind model.Kind) ([]model.Element, error) {
	var out []model.Element
	switch kind {
	case model.KindWall:
		for _, id := range sortedKeys(s.walls) {
			out = append(out, s.wallElement(s.walls[id]))
		}
	case model.KindLevel:
		for _, id := range sortedKeys(s.levels) {
			l := s.levels[id]
			out = append(out, model.Element{ID: l.ID, Kind: model.KindLevel, Name: l.Name, LevelID: model.InvalidID, GroupID: model.InvalidID})
		}
	case model.KindGroup:
		for _, id := range sortedKeys(s.groups) {
			out = append(out, s.groupElement(s.groups[id]))
		}
	case model.KindGroupType:
		for _, id := range sortedKeys(s.groupTypes) {
			gt := s.groupTypes[id]
			out = append(out, model.Element{ID: gt.ID, Kind: model.KindGroupType, Name: gt.Name, LevelID: model.InvalidID, GroupID: model.InvalidID})
		}
	case model.KindOther:
		ids := append(sortedKeys(s.others), sortedKeys(s.wallTypes)...)
		slices.Sort(ids)
		for _, id := range ids {
			e, _ := s.GetElement(id)
			out = append(out, e)
		}
	default:
		return nil, errors.NewValidationError("unknown element kind").WithField("kind").WithValue(kind)
	}
	return out, nil
}

func (s *state) ListWallsOnLevel(levelID model.ID) ([]model.Wall, error) {
	if _, ok := s.levels[levelID]; !ok {
		return nil, notFound("level", levelID)
	}
	var out []model.Wall
	for _, id := range sortedKeys(s.walls) {
		if w := s.walls[id]; w.LevelID == levelID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *state) GetElement(id model.ID) (model.Element, error) {
	if w, ok := s.walls[id]; ok {
		return s.wallElement(w), nil
	}
	if l, ok := s.levels[id]; ok {
		return model.Element{ID: l.ID, Kind: model.KindLevel, Name: l.Name, LevelID: model.InvalidID, GroupID: model.InvalidID}, nil
	}
	if g, ok := s.groups[id]; ok {
		return s.groupElement(g), nil
	}
	if gt, ok := s.groupTypes[id]; ok {
		return model.Element{ID: gt.ID, Kind: model.KindGroupType, Name: gt.Name, LevelID: model.InvalidID, GroupID: model.InvalidID}, nil
	}
	if o, ok := s.others[id]; ok {
		return model.Element{ID: o.ID, Kind: model.KindOther, Name: o.Name, LevelID: o.LevelID, GroupID: o.GroupID}, nil
	}
	if wt, ok := s.wallTypes[id]; ok {
		return model.Element{ID: wt.ID, Kind: model.KindOther, Name: wt.Name, LevelID: model.InvalidID, GroupID: model.InvalidID}, nil
	}
	return model.Element{}, notFound("element", id)
}

func (s *state) wallElement(w model.Wall) model.Element {
	return model.Element{ID: w.ID, Kind: model.KindWall, Name: w.Name, LevelID: w.LevelID, GroupID: w.GroupID}
}

func (s *state) groupElement(g model.Group) model.Element {
	name := ""
	if gt, ok := s.groupTypes[g.TypeID]; ok {
		name = gt.Name
	}
	return model.Element{ID: g.ID, Kind: model.KindGroup, Name: name, LevelID: s.groupLevel(g), GroupID: model.InvalidID}
}

// groupLevel is the level of the first member that has one.
func (s *state) groupLevel(g model.Group) model.ID {
	for _, m := range g.Members {
		if lvl := s.memberLevel(m); lvl.Valid() {
			return lvl
		}
	}
	return model.InvalidID
}

func (s *state) memberLevel(id model.ID) model.ID {
	if w, ok := s.walls[id]; ok {
		return w.LevelID
	}
	if o, ok := s.others[id]; ok {
		return o.LevelID
	}
	return model.InvalidID
}

func (s *state) Level(id model.ID) (model.Level, error) {
	l, ok := s.levels[id]
	if !ok {
		return model.Level{}, notFound("level", id)
	}
	return l, nil
}

func (s *state) WallType(id model.ID) (model.WallType, error) {
	wt, ok := s.wallTypes[id]
	if !ok {
		return model.WallType{}, notFound("wall type", id)
	}
	return wt, nil
}

func (s *state) Wall(id model.ID) (model.Wall, error) {
	w, ok := s.walls[id]
	if !ok {
		return model.Wall{}, notFound("wall", id)
	}
	return w, nil
}

func (s *state) Group(id model.ID) (model.Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return model.Group{}, notFound("group", id)
	}
	g.Members = slices.Clone(g.Members)
	return g, nil
}

func (s *state) GroupType(id model.ID) (model.GroupType, error) {
	gt, ok := s.groupTypes[id]
	if !ok {
		return model.GroupType{}, notFound("group type", id)
	}
	gt.Instances = slices.Clone(gt.Instances)
	return gt, nil
}

// -----------------------------------------------------------------------------
// Mutations
// -----------------------------------------------------------------------------

func (s *state) CreateGroup(memberIDs []model.ID) (model.Group, error) {
	if len(memberIDs) == 0 {
		return model.Group{}, errors.NewSelectionError("create group")
	}

	seen := make(map[model.ID]bool, len(memberIDs))
	members := make([]model.ID, 0, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		e, err := s.GetElement(id)
		if err != nil {
			return model.Group{}, err
		}
		if e.Kind != model.KindWall && !(e.Kind == model.KindOther && s.isOther(id)) {
			return model.Group{}, errors.NewValidationError("only walls and model elements can be grouped").
				WithField("members").WithValue(id)
		}
		if e.Grouped() {
			return model.Group{}, errors.NewValidationError("element already belongs to a group").
				WithField("members").WithValue(id)
		}
		members = append(members, id)
	}

	gt := model.GroupType{ID: s.allocID(), Name: s.freeGroupTypeName()}
	g := model.Group{ID: s.allocID(), TypeID: gt.ID, Members: members, Origin: s.originOf(members)}
	gt.Instances = []model.ID{g.ID}
	s.groupTypes[gt.ID] = gt
	s.groups[g.ID] = g
	s.assign(members, g.ID)

	out := g
	out.Members = slices.Clone(g.Members)
	return out, nil
}

func (s *state) isOther(id model.ID) bool {
	_, ok := s.others[id]
	return ok
}

func (s *state) assign(members []model.ID, groupID model.ID) {
	for _, id := range members {
		if w, ok := s.walls[id]; ok {
			w.GroupID = groupID
			s.walls[id] = w
		} else if o, ok := s.others[id]; ok {
			o.GroupID = groupID
			s.others[id] = o
		}
	}
}

// freeGroupTypeName mirrors the host's default "Group N" naming.
func (s *state) freeGroupTypeName() string {
	taken := make(map[string]bool, len(s.groupTypes))
	for _, gt := range s.groupTypes {
		taken[gt.Name] = true
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("Group %d", n)
		if !taken[name] {
			return name
		}
	}
}

// originOf is the plan centroid of the member walls at the elevation of the
// first member's level.
func (s *state) originOf(members []model.ID) model.Point {
	var p model.Point
	n := 0
	for _, id := range members {
		if w, ok := s.walls[id]; ok {
			p.X += w.Location.X
			p.Y += w.Location.Y
			n++
		}
	}
	if n > 0 {
		p.X /= float64(n)
		p.Y /= float64(n)
	}
	for _, id := range members {
		if lvl, ok := s.levels[s.memberLevel(id)]; ok {
			p.Z = lvl.Elevation
			break
		}
	}
	return p
}

func (s *state) Dissolve(groupID model.ID) ([]model.ID, error) {
	g, ok := s.groups[groupID]
	if !ok {
		return nil, notFound("group", groupID)
	}
	s.assign(g.Members, model.InvalidID)
	delete(s.groups, groupID)

	if gt, ok := s.groupTypes[g.TypeID]; ok {
		gt.Instances = slices.DeleteFunc(gt.Instances, func(id model.ID) bool { return id == groupID })
		s.groupTypes[gt.ID] = gt
	}
	return slices.Clone(g.Members), nil
}

// Regenerate verifies that membership references agree in both directions.
func (s *state) Regenerate() error {
	for _, gid := range sortedKeys(s.groups) {
		g := s.groups[gid]
		if _, ok := s.groupTypes[g.TypeID]; !ok {
			return errors.NewModelError("regenerate", notFound("group type", g.TypeID)).WithElementID(int64(gid))
		}
		for _, m := range g.Members {
			e, err := s.GetElement(m)
			if err != nil {
				return errors.NewModelError("regenerate", err).WithElementID(int64(gid))
			}
			if e.GroupID != gid {
				return errors.NewModelError("regenerate",
					fmt.Errorf("member %d does not point back at its group", m)).WithElementID(int64(gid))
			}
		}
	}
	for _, id := range sortedKeys(s.walls) {
		w := s.walls[id]
		if !w.Grouped() {
			continue
		}
		g, ok := s.groups[w.GroupID]
		if !ok || !slices.Contains(g.Members, id) {
			return errors.NewModelError("regenerate",
				fmt.Errorf("wall is not a member of group %d", w.GroupID)).WithElementID(int64(id))
		}
	}
	return nil
}

// PlaceGroupInstance copies the members of the type's first instance. Each
// copied member lands on the level whose elevation matches its own level's
// elevation shifted by the vertical offset of the placement.
func (s *state) PlaceGroupInstance(typeID model.ID, at model.Point) (model.Group, error) {
	gt, ok := s.groupTypes[typeID]
	if !ok {
		return model.Group{}, notFound("group type", typeID)
	}
	if len(gt.Instances) == 0 {
		return model.Group{}, errors.NewValidationError("group type has no instance to copy").
			WithField("groupType").WithValue(gt.Name)
	}
	tmpl := s.groups[gt.Instances[0]]
	delta := model.Point{X: at.X - tmpl.Origin.X, Y: at.Y - tmpl.Origin.Y, Z: at.Z - tmpl.Origin.Z}

	// Resolve every target level before touching the model.
	targets := make(map[model.ID]model.ID)
	for _, m := range tmpl.Members {
		src := s.memberLevel(m)
		if !src.Valid() {
			continue
		}
		if _, done := targets[src]; done {
			continue
		}
		lvl, err := s.levelAt(s.levels[src].Elevation + delta.Z)
		if err != nil {
			return model.Group{}, err
		}
		targets[src] = lvl
	}

	g := model.Group{ID: s.allocID(), TypeID: typeID, Origin: at}
	for _, m := range tmpl.Members {
		switch e, _ := s.GetElement(m); e.Kind {
		case model.KindWall:
			w := s.walls[m]
			w.ID = s.allocID()
			w.LevelID = targets[w.LevelID]
			w.Location = w.Location.Add(delta)
			w.GroupID = g.ID
			s.walls[w.ID] = w
			g.Members = append(g.Members, w.ID)
		case model.KindOther:
			o := s.others[m]
			o.ID = s.allocID()
			if o.LevelID.Valid() {
				o.LevelID = targets[o.LevelID]
			}
			o.GroupID = g.ID
			s.others[o.ID] = o
			g.Members = append(g.Members, o.ID)
		case model.KindLevel, model.KindGroup, model.KindGroupType:
			// Never group members.
		}
	}

	s.groups[g.ID] = g
	gt.Instances = append(gt.Instances, g.ID)
	s.groupTypes[typeID] = gt

	out := g
	out.Members = slices.Clone(g.Members)
	return out, nil
}

// levelAt returns the single level at elevation. Two levels at the same
// elevation make the placement ambiguous and are rejected.
func (s *state) levelAt(elevation float64) (model.ID, error) {
	var matches []string
	found := model.InvalidID
	for _, id := range sortedKeys(s.levels) {
		if math.Abs(s.levels[id].Elevation-elevation) < elevationTolerance {
			found = id
			matches = append(matches, s.levels[id].Name)
		}
	}
	switch len(matches) {
	case 0:
		return model.InvalidID, errors.NewNotFoundError("level", fmt.Sprintf("at elevation %g", elevation))
	case 1:
		return found, nil
	default:
		return model.InvalidID, errors.NewValidationError("more than one level at the target elevation").
			WithField("elevation").
			WithValue(strings.Join(matches, ", "))
	}
}

func (s *state) SetName(id model.ID, name string) error {
	if err := model.ValidateName(name); err != nil {
		return err
	}

	if gt, ok := s.groupTypes[id]; ok {
		for _, peer := range s.groupTypes {
			if peer.ID != id && peer.Name == name {
				return errors.NewNameConflictError("group type", name)
			}
		}
		gt.Name = name
		s.groupTypes[id] = gt
		return nil
	}
	if l, ok := s.levels[id]; ok {
		for _, peer := range s.levels {
			if peer.ID != id && peer.Name == name {
				return errors.NewNameConflictError("level", name)
			}
		}
		l.Name = name
		s.levels[id] = l
		return nil
	}
	if wt, ok := s.wallTypes[id]; ok {
		for _, peer := range s.wallTypes {
			if peer.ID != id && peer.Name == name {
				return errors.NewNameConflictError("wall type", name)
			}
		}
		wt.Name = name
		s.wallTypes[id] = wt
		return nil
	}
	if w, ok := s.walls[id]; ok {
		w.Name = name
		s.walls[id] = w
		return nil
	}
	if o, ok := s.others[id]; ok {
		o.Name = name
		s.others[id] = o
		return nil
	}
	if _, ok := s.groups[id]; ok {
		return errors.NewValidationError("group instances are named by their type").
			WithField("id").WithValue(id)
	}
	return notFound("element", id)
}
