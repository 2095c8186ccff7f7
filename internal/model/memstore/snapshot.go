package memstore

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

// Snapshot is the on-disk form of a model. Element ids are positive; a zero
// level on an "other" element means it is not hosted by a level. Group
// membership is stored only on groups, and the instances of a group type are
// the groups that reference it in file order, so the first listed group of a
// type is its first instance.
type Snapshot struct {
	Levels     []LevelRecord     `yaml:"levels"`
	WallTypes  []WallTypeRecord  `yaml:"wall_types"`
	Walls      []WallRecord      `yaml:"walls"`
	Others     []OtherRecord     `yaml:"others,omitempty"`
	GroupTypes []GroupTypeRecord `yaml:"group_types,omitempty"`
	Groups     []GroupRecord     `yaml:"groups,omitempty"`
}

type LevelRecord struct {
	ID        model.ID `yaml:"id"`
	Name      string   `yaml:"name"`
	Elevation float64  `yaml:"elevation"`
}

type WallTypeRecord struct {
	ID   model.ID `yaml:"id"`
	Name string   `yaml:"name"`
}

type WallRecord struct {
	ID       model.ID    `yaml:"id"`
	Name     string      `yaml:"name"`
	Level    model.ID    `yaml:"level"`
	Type     model.ID    `yaml:"type"`
	Location model.Point `yaml:"location"`
}

type OtherRecord struct {
	ID    model.ID `yaml:"id"`
	Name  string   `yaml:"name"`
	Level model.ID `yaml:"level,omitempty"`
}

type GroupTypeRecord struct {
	ID   model.ID `yaml:"id"`
	Name string   `yaml:"name"`
}

type GroupRecord struct {
	ID      model.ID    `yaml:"id"`
	Type    model.ID    `yaml:"type"`
	Origin  model.Point `yaml:"origin"`
	Members []model.ID  `yaml:"members"`
}

// FromSnapshot builds a Store from snap, checking every reference.
func FromSnapshot(snap *Snapshot) (*Store, error) {
	st := newState()

	claim := func(kind string, id model.ID) error {
		if id <= 0 {
			return errors.NewValidationError(kind + " id must be positive").WithField("id").WithValue(id)
		}
		if st.exists(id) {
			return errors.NewValidationError("duplicate element id").WithField("id").WithValue(id)
		}
		return nil
	}

	for _, r := range snap.Levels {
		if err := claim("level", r.ID); err != nil {
			return nil, err
		}
		if err := st.putLevel(model.Level{ID: r.ID, Name: r.Name, Elevation: r.Elevation}); err != nil {
			return nil, err
		}
	}
	for _, r := range snap.WallTypes {
		if err := claim("wall type", r.ID); err != nil {
			return nil, err
		}
		if err := st.putWallType(model.WallType{ID: r.ID, Name: r.Name}); err != nil {
			return nil, err
		}
	}
	for _, r := range snap.Walls {
		if err := claim("wall", r.ID); err != nil {
			return nil, err
		}
		w := model.Wall{ID: r.ID, Name: r.Name, LevelID: r.Level, TypeID: r.Type, GroupID: model.InvalidID, Location: r.Location}
		if err := st.putWall(w); err != nil {
			return nil, errors.Wrapf(err, "wall %d", r.ID)
		}
	}
	for _, r := range snap.Others {
		if err := claim("element", r.ID); err != nil {
			return nil, err
		}
		level := r.Level
		if level == 0 {
			level = model.InvalidID
		}
		if err := st.putOther(other{ID: r.ID, Name: r.Name, LevelID: level, GroupID: model.InvalidID}); err != nil {
			return nil, errors.Wrapf(err, "element %d", r.ID)
		}
	}
	for _, r := range snap.GroupTypes {
		if err := claim("group type", r.ID); err != nil {
			return nil, err
		}
		if err := model.ValidateName(r.Name); err != nil {
			return nil, err
		}
		for _, peer := range st.groupTypes {
			if peer.Name == r.Name {
				return nil, errors.NewNameConflictError("group type", r.Name)
			}
		}
		st.reserve(r.ID)
		st.groupTypes[r.ID] = model.GroupType{ID: r.ID, Name: r.Name}
	}
	for _, r := range snap.Groups {
		if err := claim("group", r.ID); err != nil {
			return nil, err
		}
		gt, ok := st.groupTypes[r.Type]
		if !ok {
			return nil, errors.Wrapf(notFound("group type", r.Type), "group %d", r.ID)
		}
		for _, m := range r.Members {
			e, err := st.GetElement(m)
			if err != nil {
				return nil, errors.Wrapf(err, "group %d", r.ID)
			}
			if e.Kind != model.KindWall && !st.isOther(m) {
				return nil, errors.NewValidationError("group member is not groupable").WithField("members").WithValue(m)
			}
			if e.Grouped() {
				return nil, errors.NewValidationError("element belongs to more than one group").WithField("members").WithValue(m)
			}
			st.assign([]model.ID{m}, r.ID)
		}
		st.reserve(r.ID)
		st.groups[r.ID] = model.Group{ID: r.ID, TypeID: r.Type, Members: append([]model.ID(nil), r.Members...), Origin: r.Origin}
		gt.Instances = append(gt.Instances, r.ID)
		st.groupTypes[gt.ID] = gt
	}

	return &Store{st: st}, nil
}

// Snapshot captures the current model. Records are ordered by id, except
// groups, which are ordered by type and then instance order.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.st

	snap := &Snapshot{}
	for _, id := range sortedKeys(st.levels) {
		l := st.levels[id]
		snap.Levels = append(snap.Levels, LevelRecord{ID: l.ID, Name: l.Name, Elevation: l.Elevation})
	}
	for _, id := range sortedKeys(st.wallTypes) {
		wt := st.wallTypes[id]
		snap.WallTypes = append(snap.WallTypes, WallTypeRecord{ID: wt.ID, Name: wt.Name})
	}
	for _, id := range sortedKeys(st.walls) {
		w := st.walls[id]
		snap.Walls = append(snap.Walls, WallRecord{ID: w.ID, Name: w.Name, Level: w.LevelID, Type: w.TypeID, Location: w.Location})
	}
	for _, id := range sortedKeys(st.others) {
		o := st.others[id]
		level := o.LevelID
		if !level.Valid() {
			level = 0
		}
		snap.Others = append(snap.Others, OtherRecord{ID: o.ID, Name: o.Name, Level: level})
	}
	for _, id := range sortedKeys(st.groupTypes) {
		gt := st.groupTypes[id]
		snap.GroupTypes = append(snap.GroupTypes, GroupTypeRecord{ID: gt.ID, Name: gt.Name})
		for _, gid := range gt.Instances {
			g := st.groups[gid]
			snap.Groups = append(snap.Groups, GroupRecord{
				ID:      g.ID,
				Type:    g.TypeID,
				Origin:  g.Origin,
				Members: append([]model.ID(nil), g.Members...),
			})
		}
	}
	return snap
}

// Load reads a model file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("model file", path).WithCause(err)
		}
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
	}
	store, err := FromSnapshot(&snap)
	if err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	return store, nil
}

// Save writes the model to path atomically.
func (s *Store) Save(path string) error {
	data, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return atomicWriteFile(path, data, 0644)
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}
