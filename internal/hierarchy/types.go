// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hierarchy

import (
	"iter"
	"reflect"
	"strings"
)

// TypeID is the fully qualified name of a declared type.
type TypeID string

// SimpleName returns the last segment of the identifier, e.g. "User" for
// "github.com/acme/app/models.User" or "app.models.User". The type arguments
// of a generic type are kept, shortened the same way: "Box[User]" for
// "github.com/acme/app/models.Box[github.com/acme/app/models.User]".
func (id TypeID) SimpleName() string {
	name := string(id)
	base, args, generic := strings.Cut(name, "[")
	if !generic {
		return lastSegment(name)
	}

	var builder strings.Builder
	builder.WriteString(lastSegment(base))
	builder.WriteByte('[')
	for len(args) > 0 {
		end := strings.IndexAny(args, typeArgSeparators)
		if end < 0 {
			builder.WriteString(lastSegment(args))
			break
		}
		builder.WriteString(lastSegment(args[:end]))
		builder.WriteByte(args[end])
		args = args[end+1:]
	}

	return builder.String()
}

const typeArgSeparators = "[],*() "

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// TypeIDOf returns the identifier of a Go type, pointers are dereferenced.
// Unnamed types have no stable identifier and return an empty TypeID.
func TypeIDOf(t reflect.Type) TypeID {
	if t == nil {
		return ""
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() == "" {
		return ""
	}
	if t.PkgPath() == "" {
		return TypeID(t.Name())
	}

	return TypeID(t.PkgPath() + "." + t.Name())
}

// TypeIDFor is the generic shorthand for TypeIDOf.
func TypeIDFor[T any]() TypeID {
	return TypeIDOf(reflect.TypeFor[T]())
}

// Type is the metadata record of a declared type.
type Type struct {
	id     TypeID
	parent *Type
}

func (t *Type) ID() TypeID {
	return t.id
}

func (t *Type) SimpleName() string {
	return t.id.SimpleName()
}

// Parent returns nil for types declared without a parent.
func (t *Type) Parent() *Type {
	return t.parent
}

// Ancestors yields the parent of t, then its parent, up to the root.
// t itself is never yielded.
func (t *Type) Ancestors() iter.Seq[*Type] {
	return func(yield func(*Type) bool) {
		for ancestor := t.parent; ancestor != nil; ancestor = ancestor.parent {
			if !yield(ancestor) {
				return
			}
		}
	}
}
