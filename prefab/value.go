package prefab

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Value is a type-erased component value paired with its stable type name.
// Data holds a pointer to the concrete component value.
type Value struct {
	TypeName string
	Data     any
}

// CloneValue returns an owned deep copy of a component value. The input is
// expected to be a pointer to the concrete value and the copy has the same
// shape, so snapshots never alias live state.
func CloneValue(v any) any {
	return deepCopy(reflect.ValueOf(v)).Interface()
}

// ApplyValue copies the state of src onto the value dst points at.
// Both must be pointers to the same concrete type.
func ApplyValue(dst, src any) {
	dv := reflect.ValueOf(dst)
	sv := reflect.ValueOf(src)
	if dv.Kind() != reflect.Ptr || dv.Type() != sv.Type() {
		panic(fmt.Sprintf("prefab: cannot apply %T onto %T", src, dst))
	}
	dv.Elem().Set(deepCopy(sv.Elem()))
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			if !out.Field(i).CanSet() {
				continue
			}
			out.Field(i).Set(deepCopy(v.Field(i)))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		it := v.MapRange()
		for it.Next() {
			out.SetMapIndex(deepCopy(it.Key()), deepCopy(it.Value()))
		}
		return out
	default:
		return v
	}
}

// PathGet reads the field addressed by a dotted path, e.g. "x" or
// "items[2].name", from a component value.
func PathGet(v any, path string) (any, error) {
	target, err := navigatePath(reflect.ValueOf(v), path)
	if err != nil {
		return nil, err
	}
	return target.Interface(), nil
}

// PathSet writes the field addressed by a dotted path, converting the new
// value to the field's type when needed. Field names match case-insensitively
// so paths written against the wire form ("x") resolve against Go fields ("X").
func PathSet(v any, path string, field any) error {
	target, err := navigatePath(reflect.ValueOf(v), path)
	if err != nil {
		return err
	}
	if !target.CanSet() {
		return fmt.Errorf("path %q is not settable", path)
	}

	fv := reflect.ValueOf(field)
	switch {
	case !fv.IsValid():
		target.SetZero()
	case fv.Type().AssignableTo(target.Type()):
		target.Set(fv)
	case fv.Type().ConvertibleTo(target.Type()):
		target.Set(fv.Convert(target.Type()))
	default:
		return fmt.Errorf("cannot assign %T to %s at %q", field, target.Type(), path)
	}
	return nil
}

type pathSegment struct {
	field   string
	indices []int
}

func navigatePath(v reflect.Value, path string) (reflect.Value, error) {
	segments, err := splitPath(path)
	if err != nil {
		return reflect.Value{}, err
	}

	for _, segment := range segments {
		v = indirect(v)

		if segment.field != "" {
			if v.Kind() != reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field %q of non-struct %s", segment.field, v.Type())
			}
			field := structField(v, segment.field)
			if !field.IsValid() {
				return reflect.Value{}, fmt.Errorf("no field %q in %s", segment.field, v.Type())
			}
			v = field
		}

		for _, index := range segment.indices {
			v = indirect(v)
			if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
				return reflect.Value{}, fmt.Errorf("index [%d] of non-list %s", index, v.Type())
			}
			if index < 0 || index >= v.Len() {
				return reflect.Value{}, fmt.Errorf("index [%d] out of range (len %d)", index, v.Len())
			}
			v = v.Index(index)
		}
	}
	return v, nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func structField(v reflect.Value, name string) reflect.Value {
	if field := v.FieldByName(name); field.IsValid() {
		return field
	}
	return v.FieldByNameFunc(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
}

func splitPath(path string) ([]pathSegment, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}

	parts := strings.Split(path, ".")
	segments := make([]pathSegment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty segment in path %q", path)
		}

		segment := pathSegment{field: part}
		if open := strings.IndexByte(part, '['); open >= 0 {
			segment.field = part[:open]
			rest := part[open:]
			for rest != "" {
				if rest[0] != '[' {
					return nil, fmt.Errorf("malformed index in path %q", path)
				}
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, fmt.Errorf("unterminated index in path %q", path)
				}
				index, err := strconv.Atoi(rest[1:end])
				if err != nil {
					return nil, fmt.Errorf("malformed index in path %q: %v", path, err)
				}
				segment.indices = append(segment.indices, index)
				rest = rest[end+1:]
			}
		}
		segments = append(segments, segment)
	}
	return segments, nil
}
