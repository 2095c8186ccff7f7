package finishing

import (
	"testing"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/model"
	"github.com/Iron-Ham/finishcopy/internal/model/memstore"
)

// fixedResolver answers every prompt the same way and counts the prompts.
type fixedResolver struct {
	answer Resolution
	err    error
	calls  int
	seen   []Conflict
}

func (r *fixedResolver) Resolve(conflicts []Conflict) (Resolution, error) {
	r.calls++
	r.seen = conflicts
	return r.answer, r.err
}

// failingPlacement rejects placements whose anchor elevation is listed and
// counts dissolutions.
type failingPlacement struct {
	model.Accessor
	failAtZ   map[float64]bool
	dissolved map[model.ID]int
}

func (f *failingPlacement) PlaceGroupInstance(typeID model.ID, at model.Point) (model.Group, error) {
	if f.failAtZ[at.Z] {
		return model.Group{}, errors.New("host rejected placement")
	}
	return f.Accessor.PlaceGroupInstance(typeID, at)
}

func (f *failingPlacement) Dissolve(groupID model.ID) ([]model.ID, error) {
	if f.dissolved == nil {
		f.dissolved = make(map[model.ID]int)
	}
	f.dissolved[groupID]++
	return f.Accessor.Dissolve(groupID)
}

// failingTransactor runs transactions on a store through failingPlacement.
type failingTransactor struct {
	store   *memstore.Store
	failAtZ map[float64]bool
}

func (t *failingTransactor) Transact(name string, fn func(model.Accessor) error) error {
	return t.store.Transact(name, func(acc model.Accessor) error {
		return fn(&failingPlacement{Accessor: acc, failAtZ: t.failAtZ})
	})
}

// anchoredModel has levels A (0) and B (10) and a one-wall finishing group
// "Anchored" on A whose anchor is (5,5,3).
func anchoredModel(t *testing.T) *memstore.Store {
	t.Helper()
	store, err := memstore.FromSnapshot(&memstore.Snapshot{
		Levels: []memstore.LevelRecord{
			{ID: 1, Name: "A", Elevation: 0},
			{ID: 2, Name: "B", Elevation: 10},
		},
		WallTypes:  []memstore.WallTypeRecord{{ID: 3, Name: "Plaster"}},
		Walls:      []memstore.WallRecord{{ID: 4, Name: "W1", Level: 1, Type: 3, Location: model.Point{X: 5, Y: 5}}},
		GroupTypes: []memstore.GroupTypeRecord{{ID: 5, Name: "Anchored"}},
		Groups:     []memstore.GroupRecord{{ID: 6, Type: 5, Origin: model.Point{X: 5, Y: 5, Z: 3}, Members: []model.ID{4}}},
	})
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}
	return store
}

func wallIDs(walls []model.Wall) []model.ID {
	out := make([]model.ID, len(walls))
	for i, w := range walls {
		out[i] = w.ID
	}
	return out
}

func mustWalls(t *testing.T, acc model.Accessor, ids ...model.ID) []model.Wall {
	t.Helper()
	out := make([]model.Wall, len(ids))
	for i, id := range ids {
		w, err := acc.Wall(id)
		if err != nil {
			t.Fatalf("Wall(%v) failed: %v", id, err)
		}
		out[i] = w
	}
	return out
}
