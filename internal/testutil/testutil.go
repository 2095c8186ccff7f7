// Package testutil provides model builders for finishcopy tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/finishcopy/internal/model"
	"github.com/Iron-Ham/finishcopy/internal/model/memstore"
)

// Building wraps a memstore.Store and remembers the ids of what it adds by
// name, so tests can refer to "W1" instead of whatever id it received.
// Every method fails the test on error.
type Building struct {
	t     testing.TB
	Store *memstore.Store
	ids   map[string]model.ID
}

// NewBuilding returns an empty building.
func NewBuilding(t testing.TB) *Building {
	t.Helper()
	return &Building{t: t, Store: memstore.New(), ids: make(map[string]model.ID)}
}

// ID returns the id of a named element added through the builder.
func (b *Building) ID(name string) model.ID {
	b.t.Helper()
	id, ok := b.ids[name]
	if !ok {
		b.t.Fatalf("testutil: no element named %q", name)
	}
	return id
}

// IDs maps names to ids in order.
func (b *Building) IDs(names ...string) []model.ID {
	b.t.Helper()
	out := make([]model.ID, len(names))
	for i, n := range names {
		out[i] = b.ID(n)
	}
	return out
}

func (b *Building) remember(name string, id model.ID, err error) model.ID {
	b.t.Helper()
	if err != nil {
		b.t.Fatalf("testutil: adding %q: %v", name, err)
	}
	if _, dup := b.ids[name]; dup {
		b.t.Fatalf("testutil: name %q used twice", name)
	}
	b.ids[name] = id
	return id
}

// Level adds a level.
func (b *Building) Level(name string, elevation float64) model.ID {
	b.t.Helper()
	id, err := b.Store.AddLevel(name, elevation)
	return b.remember(name, id, err)
}

// WallType adds a wall type.
func (b *Building) WallType(name string) model.ID {
	b.t.Helper()
	id, err := b.Store.AddWallType(name)
	return b.remember(name, id, err)
}

// Wall adds an ungrouped wall on a named level with a named type.
func (b *Building) Wall(name, level, wallType string, at model.Point) model.ID {
	b.t.Helper()
	id, err := b.Store.AddWall(name, b.ID(level), b.ID(wallType), at)
	return b.remember(name, id, err)
}

// Other adds a non-wall element on a named level.
func (b *Building) Other(name, level string) model.ID {
	b.t.Helper()
	id, err := b.Store.AddOther(name, b.ID(level))
	return b.remember(name, id, err)
}

// Group groups the named members and names the new group type. The type is
// remembered under name and its first instance under name+"#1".
func (b *Building) Group(name string, members ...string) model.Group {
	b.t.Helper()
	g, err := b.Store.CreateGroup(b.IDs(members...))
	if err != nil {
		b.t.Fatalf("testutil: grouping %v: %v", members, err)
	}
	if err := b.Store.SetName(g.TypeID, name); err != nil {
		b.t.Fatalf("testutil: naming group %q: %v", name, err)
	}
	b.remember(name, g.TypeID, nil)
	b.remember(name+"#1", g.ID, nil)
	return g
}

// Tower returns a building with three levels ("Level 1" at 0, "Level 2" at
// 10 and "Level 3" at 20) and two wall types, "Plaster" and "Tile".
func Tower(t testing.TB) *Building {
	t.Helper()
	b := NewBuilding(t)
	b.Level("Level 1", 0)
	b.Level("Level 2", 10)
	b.Level("Level 3", 20)
	b.WallType("Plaster")
	b.WallType("Tile")
	return b
}

// WriteModel saves the building's model into a temporary directory and
// returns the file path.
func (b *Building) WriteModel() string {
	b.t.Helper()
	dir := b.t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	if err := b.Store.Save(path); err != nil {
		b.t.Fatalf("testutil: saving model: %v", err)
	}
	return path
}
