package prefab_test

import (
	"github.com/plus3/prefab/prefab"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Inventory struct {
	Items []string
}

type Stats struct {
	Attributes map[string]int
}

func newTestRegistry() *prefab.Registry {
	r := prefab.NewRegistry()
	prefab.Register[Position](r, prefab.WithName("Position"))
	prefab.Register[Velocity](r, prefab.WithName("Velocity"))
	prefab.Register[Name](r, prefab.WithName("Name"))
	prefab.Register[Health](r, prefab.WithName("Health"))
	prefab.Register[Inventory](r, prefab.WithName("Inventory"))
	prefab.Register[Stats](r, prefab.WithName("Stats"))
	prefab.RegisterParent(r)
	return r
}
