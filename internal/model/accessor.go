package model

// Accessor is the set of model operations the finishing workflow relies on.
// Implementations return *errors.NotFoundError for stale identifiers and
// *errors.NameConflictError from SetName when the name is taken.
type Accessor interface {
	ListElementsByKind(kind Kind) ([]Element, error)
	ListWallsOnLevel(levelID ID) ([]Wall, error)
	GetElement(id ID) (Element, error)

	Level(id ID) (Level, error)
	WallType(id ID) (WallType, error)
	Wall(id ID) (Wall, error)
	Group(id ID) (Group, error)
	GroupType(id ID) (GroupType, error)

	// CreateGroup groups the walls under a new GroupType and returns its first instance.
	CreateGroup(wallIDs []ID) (Group, error)
	// Dissolve ungroups a group instance and returns the freed member ids.
	Dissolve(groupID ID) ([]ID, error)
	// Regenerate lets the model settle after structural edits such as Dissolve.
	Regenerate() error
	// PlaceGroupInstance places a new instance of the type with its origin at at.
	PlaceGroupInstance(typeID ID, at Point) (Group, error)
	// SetName renames an entity.
	SetName(id ID, name string) error
}

// Transactor runs fn inside one transaction: either every mutation fn makes
// through the Accessor is committed, or none is.
type Transactor interface {
	Transact(name string, fn func(Accessor) error) error
}
