// Package form holds the editable state behind the create and edit screens:
// ordered entry lists, a declared table of how each field's raw text is
// coerced, and struct validation.
package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type a raw field value is coerced to.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "integer"
	case Float:
		return "number"
	case Bool:
		return "checkbox"
	default:
		return "text"
	}
}

// Value is a coerced field value; only the member matching the Kind is set.
type Value struct {
	S string
	I int
	F float64
	B bool
}

// Coerce converts raw input to kind. Blank numeric input is zero.
func Coerce(kind Kind, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case Int:
		if raw == "" {
			return Value{}, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a whole number", raw)
		}
		return Value{I: n}, nil
	case Float:
		if raw == "" {
			return Value{}, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", raw)
		}
		return Value{F: f}, nil
	case Bool:
		switch strings.ToLower(raw) {
		case "true", "yes", "on", "1", "x":
			return Value{B: true}, nil
		case "", "false", "no", "off", "0":
			return Value{B: false}, nil
		}
		return Value{}, fmt.Errorf("%q is not a checkbox value", raw)
	default:
		return Value{S: raw}, nil
	}
}

// Field declares one editable field of T.
type Field[T any] struct {
	Name  string
	Label string
	Kind  Kind
	Set   func(*T, Value)
	Get   func(T) string
}

// Schema is the ordered field table of T.
type Schema[T any] []Field[T]

// Lookup returns the field called name.
func (s Schema[T]) Lookup(name string) (Field[T], bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Apply coerces raw per the field's kind and stores it in v.
func (s Schema[T]) Apply(v *T, name, raw string) error {
	f, ok := s.Lookup(name)
	if !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	val, err := Coerce(f.Kind, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Label, err)
	}
	f.Set(v, val)
	return nil
}

func fmtInt(n int) string { return strconv.Itoa(n) }

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func fmtBool(b bool) string {
	if b {
		return "x"
	}
	return ""
}
