package ecs

import "unsafe"

// iface mirrors the runtime layout of an interface value: type word, data word.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
