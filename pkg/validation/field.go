package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unsafe"
)

// FieldID names one member of one object instance within a validation run.
// It is comparable and used as the Results key. Owner identity is the
// instance address plus its type, so two distinct instances with equal
// contents yield distinct identifiers.
type FieldID struct {
	owner ownerKey
	name  string
}

type ownerKey struct {
	addr  unsafe.Pointer
	typ   reflect.Type
	label string
}

// TopLevel builds the synthetic identifier of a bare value that has no owning
// object, such as a single operation parameter.
func TopLevel(label string) FieldID {
	return FieldID{owner: ownerKey{label: label}}
}

// memberOf identifies member name of the addressable struct value owner.
func memberOf(owner reflect.Value, name string) FieldID {
	return FieldID{
		owner: ownerKey{addr: owner.Addr().UnsafePointer(), typ: owner.Type()},
		name:  name,
	}
}

// Name returns the member name; empty for a top-level identifier.
func (f FieldID) Name() string { return f.name }

// Label returns the caller supplied label of a top-level identifier.
func (f FieldID) Label() string { return f.owner.label }

// IsTopLevel reports whether f denotes a bare value rather than an object member.
func (f FieldID) IsTopLevel() bool { return f.owner.addr == nil && f.owner.typ == nil }

func (f FieldID) String() string {
	if f.IsTopLevel() {
		return f.owner.label
	}
	return fmt.Sprintf("%s(%p).%s", f.owner.typ, f.owner.addr, f.name)
}

// joinPath renders path segments as a dotted key. Index segments
// ("[0]", "[key]") attach to the previous segment without a dot.
func joinPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// extend returns a new path with seg appended; the input is never mutated.
func extend(path []string, seg string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

func indexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func keySegment(key reflect.Value) string {
	return "[" + fmt.Sprint(key.Interface()) + "]"
}
