package config

import (
	"reflect"

	"github.com/spf13/cast"
)

// maxExactFloat is the largest integer magnitude a float64 holds exactly.
const maxExactFloat = 1 << 53

// coerce returns raw as a T. Stores that decode YAML or JSON hand back
// generic containers ([]any, map[string]any) and plain ints, so those are
// converted element by element as long as nothing is lost. Anything else that
// is not already a T is rejected.
func coerce[T any](raw any) (T, bool) {
	if value, ok := raw.(T); ok {
		return value, true
	}
	var zero T
	if raw == nil {
		return zero, false
	}
	target := reflect.TypeOf((*T)(nil)).Elem()
	converted, ok := convertValue(reflect.ValueOf(raw), target)
	if !ok {
		return zero, false
	}
	value, ok := converted.Interface().(T)
	return value, ok
}

func convertValue(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if v.Type().AssignableTo(target) {
		out := reflect.New(target).Elem()
		out.Set(v)
		return out, true
	}

	switch target.Kind() {
	case reflect.Slice:
		return convertSlice(v, target)
	case reflect.Map:
		return convertMap(v, target)
	case reflect.Float32, reflect.Float64:
		return convertFloat(v, target)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return convertInt(v, target)
	case reflect.String, reflect.Bool:
		// named string and bool types
		if v.Kind() == target.Kind() {
			return v.Convert(target), true
		}
	}
	return reflect.Value{}, false
}

func convertSlice(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return reflect.Value{}, false
	}
	out := reflect.MakeSlice(target, v.Len(), v.Len())
	for i := 0; i < v.Len(); i++ {
		elem, ok := convertValue(v.Index(i), target.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		out.Index(i).Set(elem)
	}
	return out, true
}

func convertMap(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if v.Kind() != reflect.Map {
		return reflect.Value{}, false
	}
	out := reflect.MakeMapWithSize(target, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, ok := convertValue(iter.Key(), target.Key())
		if !ok {
			return reflect.Value{}, false
		}
		elem, ok := convertValue(iter.Value(), target.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		out.SetMapIndex(key, elem)
	}
	return out, true
}

// convertFloat accepts integers a float64 represents exactly, and floats that
// survive narrowing to the target width.
func convertFloat(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := v.Int(); n > maxExactFloat || n < -maxExactFloat {
			return reflect.Value{}, false
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Uint() > maxExactFloat {
			return reflect.Value{}, false
		}
	case reflect.Float32, reflect.Float64:
	default:
		return reflect.Value{}, false
	}
	f, err := cast.ToFloat64E(v.Interface())
	if err != nil {
		return reflect.Value{}, false
	}
	out := reflect.New(target).Elem()
	if out.OverflowFloat(f) {
		return reflect.Value{}, false
	}
	out.SetFloat(f)
	if out.Float() != f {
		return reflect.Value{}, false
	}
	return out, true
}

// convertInt accepts integers of another width or signedness when the value
// fits. Floats are never truncated into ints.
func convertInt(v reflect.Value, target reflect.Type) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Uint() > 1<<63-1 {
			return reflect.Value{}, false
		}
	default:
		return reflect.Value{}, false
	}
	n, err := cast.ToInt64E(v.Interface())
	if err != nil {
		return reflect.Value{}, false
	}
	out := reflect.New(target).Elem()
	if out.OverflowInt(n) {
		return reflect.Value{}, false
	}
	out.SetInt(n)
	return out, true
}
