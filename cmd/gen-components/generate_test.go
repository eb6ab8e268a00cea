package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `package board

//ecs:component
type Tile struct{ Kind int }

// Cursor is documented.
//
//ecs:component
type Cursor struct{}

type helper struct{}

type (
	//ecs:component
	Score int

	unmarked bool
)

//ecs:component
type Generic[T any] struct{ Value T }
`

func parse(t *testing.T) []*ast.File {
	file, err := parser.ParseFile(token.NewFileSet(), "board.go", source, parser.ParseComments)
	require.NoError(t, err)
	return []*ast.File{file}
}

func TestCollect(t *testing.T) {
	assert.Equal(t, []string{"Cursor", "Score", "Tile"}, collect(parse(t)))
}

func TestRender(t *testing.T) {
	src, err := render("board", collect(parse(t)))
	require.NoError(t, err)

	assert.Equal(t, `// Code generated by gen-components. DO NOT EDIT.

package board

import "github.com/plus3/gemboard/ecs"

// RegisterComponents registers every component type declared in this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Cursor](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tile](registry)
}
`, string(src))
}

func TestRenderEmpty(t *testing.T) {
	src, err := render("empty", nil)
	require.NoError(t, err)
	assert.Contains(t, string(src), "func RegisterComponents(registry *ecs.ComponentRegistry) {\n}")
}

func TestGenerateDirMatchesCheckedInFile(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	src, names, err := generateDir("../../render", "render")
	require.NoError(t, err)
	assert.Contains(t, names, "Sprite")
	assert.Contains(t, string(src), "ecs.RegisterComponent[Transform](registry)")

	_, _, err = generateDir("../../render", "main")
	assert.Error(t, err)
}
