package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

// ValidatingSpec is implemented by every asset payload.
type ValidatingSpec interface {
	Validate() error
}

// Identifier is the stable id of an asset (item, loot table, placement, actor).
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// Valid reports whether the identifier is non-empty and uses only the
// characters allowed in asset ids.
func (id Identifier) Valid() bool {
	return id != "" && identifierPattern.MatchString(string(id))
}

// Asset is the versioned envelope every asset file is stored in.
type Asset[T ValidatingSpec] struct {
	Version    uint       `json:"version"`
	Identifier Identifier `json:"id"`
	Spec       T          `json:"spec"`
}

func (a *Asset[T]) Id() Identifier {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !a.Identifier.Valid() {
		el.Add(fmt.Errorf("id must be alphanumeric"))
	}

	if isNil(a.Spec) {
		el.Add(fmt.Errorf("spec must be set"))
	} else {
		el.Add(a.Spec.Validate())
	}

	return el.Err()
}

// SmartIdentifier is a foreign key to another asset. It marshals as the bare
// id and is resolved against a Storer after everything is loaded.
type SmartIdentifier[T ValidatingSpec] struct {
	key Identifier
	val T
}

func NewSmartIdentifier[T ValidatingSpec](key Identifier) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key}
}

func NewResolvedSmartIdentifier[T ValidatingSpec](key Identifier, val T) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key, val: val}
}

func (id *SmartIdentifier[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &id.key)
}

func (id SmartIdentifier[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.key)
}

func (id SmartIdentifier[T]) Validate() error {
	if id.key == "" {
		return fmt.Errorf("%s identifier is required", typeName[T]())
	}
	return nil
}

// Resolve looks the key up in st and caches the value.
func (id *SmartIdentifier[T]) Resolve(st Storer[T]) error {
	val, ok := st.Get(id.key)
	if !ok {
		return fmt.Errorf("%s %q not found", typeName[T](), id.key)
	}
	id.val = val
	return nil
}

// IsSet reports whether a key was given at all.
func (id SmartIdentifier[T]) IsSet() bool {
	return id.key != ""
}

func (id SmartIdentifier[T]) Id() Identifier {
	return id.key
}

// Get returns the resolved value, or the zero value before Resolve.
func (id SmartIdentifier[T]) Get() T {
	return id.val
}

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return "value"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
