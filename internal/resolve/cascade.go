// SPDX-License-Identifier: MPL-2.0

package resolve

import "fmt"

const (
	// OriginUnset means no layer supplied a value.
	OriginUnset Origin = iota
	// OriginVersion means the value came from the version table entry.
	OriginVersion
	// OriginPlugin means the value came from the mod-level default.
	OriginPlugin
	// OriginBuiltin means the value is the printer-specific built-in default.
	OriginBuiltin
)

type (
	// Origin identifies the cascade layer that supplied a resolved value.
	Origin uint8

	// Field is a resolved value together with its origin. A Field with
	// OriginUnset holds the zero value of T.
	Field[T any] struct {
		Value  T
		Origin Origin
	}

	// layer is one candidate of a cascade.
	layer[T any] struct {
		value  T
		origin Origin
	}
)

// String returns the layer name.
func (o Origin) String() string {
	switch o {
	case OriginUnset:
		return "unset"
	case OriginVersion:
		return "version"
	case OriginPlugin:
		return "plugin"
	case OriginBuiltin:
		return "builtin"
	default:
		return fmt.Sprintf("Origin(%d)", uint8(o))
	}
}

// IsSet reports whether any layer supplied the value.
func (f Field[T]) IsSet() bool { return f.Origin != OriginUnset }

func at[T any](origin Origin, value T) layer[T] {
	return layer[T]{value: value, origin: origin}
}

// cascade returns the first layer whose value is present. Layers are
// consulted in the order given.
func cascade[T any](present func(T) bool, layers ...layer[T]) Field[T] {
	for _, l := range layers {
		if present(l.value) {
			return Field[T]{Value: l.value, Origin: l.origin}
		}
	}
	return Field[T]{}
}

func nonEmptyString[S ~string](s S) bool { return s != "" }

func nonEmptyList(list []string) bool { return len(list) > 0 }
