package validation

import (
	"fmt"
	"reflect"
)

// FieldDescriptor describes one member of a struct type.
type FieldDescriptor struct {
	// Name is the member name used in field paths.
	Name string
	// DisplayName is handed to rules and formatters through Context.
	DisplayName string
	// Index is the reflect field index sequence of the member (see reflect.Value.FieldByIndex).
	Index []int
	// Rules are evaluated in order; the first rule flagged AsRequired is the presence rule.
	Rules []*Rule
}

// Discovery is the rule discovery collaborator. Describe returns the members
// of a struct type that the graph walker should visit: members with rules are
// evaluated, and composite members are recursed into whether or not they carry
// rules. Members not returned are neither evaluated nor traversed.
type Discovery interface {
	Describe(t reflect.Type) ([]FieldDescriptor, error)
}

// DiscoveryFunc adapts a function to Discovery.
type DiscoveryFunc func(t reflect.Type) ([]FieldDescriptor, error)

func (f DiscoveryFunc) Describe(t reflect.Type) ([]FieldDescriptor, error) {
	return f(t)
}

// StaticDiscovery is a manually registered, fixed mapping from struct type to
// its descriptors. Types without an entry have no validatable members.
type StaticDiscovery map[reflect.Type][]FieldDescriptor

func (s StaticDiscovery) Describe(t reflect.Type) ([]FieldDescriptor, error) {
	return s[t], nil
}

// SkipFunc is the special-type predicate: it returns true for types the graph
// walker must not recurse into (framework owned objects, handles, clocks...).
type SkipFunc func(t reflect.Type) bool

// SkipNone recurses into every composite type.
func SkipNone(reflect.Type) bool { return false }

// SkipTypes returns a predicate skipping exactly the given types.
func SkipTypes(types ...reflect.Type) SkipFunc {
	set := make(map[reflect.Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(t reflect.Type) bool {
		_, ok := set[t]
		return ok
	}
}

// typeInfo is the cached, split form of a struct type's descriptors.
type typeInfo struct {
	fields []fieldInfo
}

type fieldInfo struct {
	FieldDescriptor
	required *Rule
	rules    []*Rule
}

func describe(d Discovery, t reflect.Type) (*typeInfo, error) {
	descs, err := d.Describe(t)
	if err != nil {
		return nil, configFault(ErrDiscovery, "describe %s: %w", t, err)
	}

	info := &typeInfo{fields: make([]fieldInfo, 0, len(descs))}
	for _, desc := range descs {
		if desc.Name == "" {
			return nil, configFault(ErrDiscovery, "describe %s: member with index %v has no name", t, desc.Index)
		}
		sf, err := fieldByIndex(t, desc.Index)
		if err != nil {
			return nil, configFault(ErrDiscovery, "describe %s: member %q: %w", t, desc.Name, err)
		}
		if !sf.IsExported() {
			return nil, configFault(ErrDiscovery, "describe %s: member %q is unexported", t, desc.Name)
		}
		required, rules := splitRequired(desc.Rules)
		info.fields = append(info.fields, fieldInfo{FieldDescriptor: desc, required: required, rules: rules})
	}
	return info, nil
}

// fieldByIndex is reflect.Type.FieldByIndex without the panics.
func fieldByIndex(t reflect.Type, index []int) (reflect.StructField, error) {
	if len(index) == 0 {
		return reflect.StructField{}, fmt.Errorf("empty field index")
	}
	var sf reflect.StructField
	for i, x := range index {
		if i > 0 {
			t = sf.Type
			if t.Kind() == reflect.Pointer {
				t = t.Elem()
			}
		}
		if t.Kind() != reflect.Struct {
			return reflect.StructField{}, fmt.Errorf("index %v walks through non-struct %s", index, t)
		}
		if x < 0 || x >= t.NumField() {
			return reflect.StructField{}, fmt.Errorf("index %v out of range for %s", index, t)
		}
		sf = t.Field(x)
	}
	return sf, nil
}
