package ecs_test

import "github.com/plus3/gemboard/ecs"

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Gem struct {
	Kind uint32
}

type Label string

type Player struct{}

type Selected struct{}

type Inventory struct {
	Items []string
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Gem](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Selected](registry)
	ecs.RegisterComponent[Inventory](registry)
	return registry
}
