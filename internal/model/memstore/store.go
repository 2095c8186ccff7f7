// Package memstore is an in-memory building model. It implements
// model.Accessor directly and model.Transactor by running each transaction
// against a private copy of the model that replaces the live one only when
// the transaction succeeds.
package memstore

import (
	"sync"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/model"
)

var (
	_ model.Accessor   = (*Store)(nil)
	_ model.Transactor = (*Store)(nil)
)

// Store is safe for concurrent use. Accessor methods called on the Store
// itself apply immediately; use Transact to group mutations.
type Store struct {
	mu      sync.RWMutex
	st      *state
	lastTxn string
}

// New returns an empty model.
func New() *Store {
	return &Store{st: newState()}
}

// Transact runs fn against a copy of the model and commits the copy only if
// fn returns nil. fn must use the Accessor it is given, never the Store.
func (s *Store) Transact(name string, fn func(model.Accessor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx
	s.lastTxn = name
	return nil
}

// View runs fn against a copy of the model. Mutations made by fn are discarded.
func (s *Store) View(fn func(model.Accessor) error) error {
	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()
	return fn(snapshot)
}

// DryRun returns a Transactor that runs transactions exactly like Transact
// but never commits them.
func (s *Store) DryRun() model.Transactor {
	return dryRun{s}
}

type dryRun struct{ s *Store }

func (d dryRun) Transact(_ string, fn func(model.Accessor) error) error {
	return d.s.View(fn)
}

// LastTransaction returns the name of the most recently committed transaction.
func (s *Store) LastTransaction() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTxn
}

// -----------------------------------------------------------------------------
// Model construction
// -----------------------------------------------------------------------------

// AddLevel adds a level. Level names are unique.
func (s *Store) AddLevel(name string, elevation float64) (model.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.st.allocID()
	return id, s.st.putLevel(model.Level{ID: id, Name: name, Elevation: elevation})
}

// AddWallType adds a wall type. Wall type names are unique.
func (s *Store) AddWallType(name string) (model.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.st.allocID()
	return id, s.st.putWallType(model.WallType{ID: id, Name: name})
}

// AddWall adds an ungrouped wall.
func (s *Store) AddWall(name string, levelID, typeID model.ID, at model.Point) (model.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.st.allocID()
	return id, s.st.putWall(model.Wall{ID: id, Name: name, LevelID: levelID, TypeID: typeID, GroupID: model.InvalidID, Location: at})
}

// AddOther adds an ungrouped non-wall element. levelID may be model.InvalidID.
func (s *Store) AddOther(name string, levelID model.ID) (model.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.st.allocID()
	return id, s.st.putOther(other{ID: id, Name: name, LevelID: levelID, GroupID: model.InvalidID})
}

func (s *state) putLevel(l model.Level) error {
	if err := model.ValidateName(l.Name); err != nil {
		return err
	}
	for _, peer := range s.levels {
		if peer.Name == l.Name {
			return errors.NewNameConflictError("level", l.Name)
		}
	}
	s.reserve(l.ID)
	s.levels[l.ID] = l
	return nil
}

func (s *state) putWallType(wt model.WallType) error {
	if err := model.ValidateName(wt.Name); err != nil {
		return err
	}
	for _, peer := range s.wallTypes {
		if peer.Name == wt.Name {
			return errors.NewNameConflictError("wall type", wt.Name)
		}
	}
	s.reserve(wt.ID)
	s.wallTypes[wt.ID] = wt
	return nil
}

func (s *state) putWall(w model.Wall) error {
	if _, ok := s.levels[w.LevelID]; !ok {
		return notFound("level", w.LevelID)
	}
	if _, ok := s.wallTypes[w.TypeID]; !ok {
		return notFound("wall type", w.TypeID)
	}
	s.reserve(w.ID)
	s.walls[w.ID] = w
	return nil
}

func (s *state) putOther(o other) error {
	if o.LevelID.Valid() {
		if _, ok := s.levels[o.LevelID]; !ok {
			return notFound("level", o.LevelID)
		}
	}
	s.reserve(o.ID)
	s.others[o.ID] = o
	return nil
}

// -----------------------------------------------------------------------------
// model.Accessor
// -----------------------------------------------------------------------------

func (s *Store) ListElementsByKind(kind model.Kind) ([]model.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.ListElementsByKind(kind)
}

func (s *Store) ListWallsOnLevel(levelID model.ID) ([]model.Wall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.ListWallsOnLevel(levelID)
}

func (s *Store) GetElement(id model.ID) (model.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.GetElement(id)
}

func (s *Store) Level(id model.ID) (model.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Level(id)
}

func (s *Store) WallType(id model.ID) (model.WallType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.WallType(id)
}

func (s *Store) Wall(id model.ID) (model.Wall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Wall(id)
}

func (s *Store) Group(id model.ID) (model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Group(id)
}

func (s *Store) GroupType(id model.ID) (model.GroupType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.GroupType(id)
}

func (s *Store) CreateGroup(wallIDs []model.ID) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateGroup(wallIDs)
}

func (s *Store) Dissolve(groupID model.ID) ([]model.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Dissolve(groupID)
}

func (s *Store) Regenerate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Regenerate()
}

func (s *Store) PlaceGroupInstance(typeID model.ID, at model.Point) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.PlaceGroupInstance(typeID, at)
}

func (s *Store) SetName(id model.ID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SetName(id, name)
}
