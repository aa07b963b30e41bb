package store

import (
	"fmt"

	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
)

// Index describes a secondary index on a collection.
type Index struct {
	Name   string
	Column string
	Unique bool
}

// Collection describes one named collection of records.
type Collection struct {
	Name       string
	PrimaryKey string
	Indexes    []Index
}

// Schema is the registry of collections and their indexes. The tables and
// indexes themselves are created by the migrations in pkg/migrate.
var Schema = []Collection{
	{
		Name:       "users",
		PrimaryKey: "id",
		Indexes: []Index{
			{Name: "email", Column: "email", Unique: true},
		},
	},
	{
		Name:       "stories",
		PrimaryKey: "id",
		Indexes: []Index{
			{Name: "user_id", Column: "user_id"},
		},
	},
	{
		Name:       "activity",
		PrimaryKey: "id",
		Indexes: []Index{
			{Name: "user_id", Column: "user_id"},
			{Name: "action", Column: "action"},
		},
	},
}

// CollectionFor returns the registry entry for the named collection.
func CollectionFor(name string) (Collection, error) {
	for _, c := range Schema {
		if c.Name == name {
			return c, nil
		}
	}
	return Collection{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown collection %q", name))
}

func lookupIndex(collection, name string) (Index, error) {
	c, err := CollectionFor(collection)
	if err != nil {
		return Index{}, err
	}
	for _, idx := range c.Indexes {
		if idx.Name == name {
			return idx, nil
		}
	}
	return Index{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown index %q on %s", name, collection))
}
