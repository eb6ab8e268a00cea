package assets

import (
	"fmt"
	"reflect"
)

var imageType = reflect.TypeFor[*Image]()

// binding ties one *Image field of a collection struct to a file path.
type binding struct {
	field int
	path  string
}

// collection describes a struct type whose *Image fields carry an
// `asset:"path"` tag.
type collection struct {
	typ      reflect.Type
	bindings []binding
}

func newCollection(t reflect.Type) (*collection, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrCollection, t)
	}

	c := &collection{typ: t}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path, tagged := field.Tag.Lookup("asset")
		if !tagged {
			continue
		}
		if field.Type != imageType {
			return nil, fmt.Errorf("%w: %s.%s must be *assets.Image", ErrCollection, t.Name(), field.Name)
		}
		if path == "" {
			return nil, fmt.Errorf("%w: %s.%s has an empty asset path", ErrCollection, t.Name(), field.Name)
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is not exported", ErrCollection, t.Name(), field.Name)
		}
		c.bindings = append(c.bindings, binding{field: i, path: path})
	}

	if len(c.bindings) == 0 {
		return nil, fmt.Errorf("%w: %s has no asset fields", ErrCollection, t.Name())
	}
	return c, nil
}

// Paths lists the files of the collection in field order.
func (c *collection) Paths() []string {
	paths := make([]string, len(c.bindings))
	for i, b := range c.bindings {
		paths[i] = b.path
	}
	return paths
}

// pending is a collection value being filled in by the loader.
type pending struct {
	c         *collection
	value     reflect.Value
	remaining int
}

func (c *collection) start() *pending {
	return &pending{
		c:         c,
		value:     reflect.New(c.typ).Elem(),
		remaining: len(c.bindings),
	}
}

func (p *pending) set(binding int, img *Image) {
	p.value.Field(p.c.bindings[binding].field).Set(reflect.ValueOf(img))
	p.remaining--
}
