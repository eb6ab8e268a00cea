package ecs

import "errors"

var (
	// ErrNoEntities is returned by Query.Single when nothing matches.
	ErrNoEntities = errors.New("ecs: query matched no entities")
	// ErrMultipleEntities is returned by Query.Single when more than one entity matches.
	ErrMultipleEntities = errors.New("ecs: query matched more than one entity")
)
