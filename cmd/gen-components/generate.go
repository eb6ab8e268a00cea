package main

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/token"
	"sort"
	"strings"
	"text/template"
)

const directive = "//ecs:component"

var fileTemplate = template.Must(template.New("components").Parse(`// Code generated by gen-components. DO NOT EDIT.

package {{.Package}}

import "github.com/plus3/gemboard/ecs"

// RegisterComponents registers every component type declared in this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
{{- range .Names}}
	ecs.RegisterComponent[{{.}}](registry)
{{- end}}
}
`))

// collect returns the sorted names of marked types. The directive may sit
// on a type declaration or on one spec inside a grouped declaration.
func collect(files []*ast.File) []string {
	var names []string
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				if ts.TypeParams != nil {
					continue
				}
				if hasDirective(ts.Doc) || (!gen.Lparen.IsValid() && hasDirective(gen.Doc)) {
					names = append(names, ts.Name.Name)
				}
			}
		}
	}
	sort.Strings(names)
	return names
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == directive {
			return true
		}
	}
	return false
}

func render(pkg string, names []string) ([]byte, error) {
	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		Package string
		Names   []string
	}{pkg, names})
	if err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}
