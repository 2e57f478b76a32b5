package dispatch

import (
	"fmt"
	"slices"
)

type scopeKind int

const (
	scopeSections scopeKind = iota
	scopeDynamic
	scopeAny
)

// Scope describes which sections a handler serves.
type Scope[K comparable] struct {
	kind scopeKind
	keys []K
}

// Sections scopes a handler to the named section keys.
func Sections[K comparable](keys ...K) Scope[K] {
	return Scope[K]{kind: scopeSections, keys: slices.Clone(keys)}
}

// DynamicSections scopes a handler to every section that was not explicitly
// declared, present and future.
func DynamicSections[K comparable]() Scope[K] {
	return Scope[K]{kind: scopeDynamic}
}

// AnySection scopes a handler to every section. Only kinds that report
// AllowsAnySection accept it.
func AnySection[K comparable]() Scope[K] {
	return Scope[K]{kind: scopeAny}
}

// String renders the scope for diagnostics.
func (s Scope[K]) String() string {
	switch s.kind {
	case scopeSections:
		return fmt.Sprintf("sections %v", s.keys)
	case scopeDynamic:
		return "dynamic sections"
	case scopeAny:
		return "any section"
	}
	return "unknown scope"
}
