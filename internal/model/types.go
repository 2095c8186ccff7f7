// Package model defines the building-model entities the finishing workflow
// reads and mutates, and the narrow interfaces through which it reaches the
// backing store.
package model

import (
	"fmt"
	"strconv"
)

// ID identifies an element in the model.
type ID int64

// InvalidID marks an absent reference, including "ungrouped".
const InvalidID ID = -1

// Valid reports whether id refers to an element.
func (id ID) Valid() bool { return id != InvalidID }

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// Point is a location in model space. Z is vertical.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// OffsetZ returns p moved vertically by dz.
func (p Point) OffsetZ(dz float64) Point {
	return Point{X: p.X, Y: p.Y, Z: p.Z + dz}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Element is the kind-tagged view every entity exposes.
// LevelID and GroupID are InvalidID when absent.
type Element struct {
	ID      ID
	Kind    Kind
	Name    string
	LevelID ID
	GroupID ID
}

// Grouped reports whether the element belongs to a group instance.
func (e Element) Grouped() bool { return e.GroupID.Valid() }

// Level is a horizontal reference plane.
type Level struct {
	ID        ID
	Name      string
	Elevation float64
}

// WallType names a wall assembly.
type WallType struct {
	ID   ID
	Name string
}

// Wall is a wall element. It sits on exactly one level and has exactly one type.
type Wall struct {
	ID       ID
	Name     string
	LevelID  ID
	TypeID   ID
	GroupID  ID
	Location Point
}

// Grouped reports whether the wall already belongs to a group instance.
func (w Wall) Grouped() bool { return w.GroupID.Valid() }

// GroupType is a named template shared by its placed instances.
type GroupType struct {
	ID        ID
	Name      string
	Instances []ID
}

// Group is one placement of a GroupType.
type Group struct {
	ID      ID
	TypeID  ID
	Members []ID
	Origin  Point
}
