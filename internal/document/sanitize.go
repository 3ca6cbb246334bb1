// Package document converts Go values into plain trees of maps, slices and scalars that a document
// store can persist as is. Absent values are always explicit nulls.
package document

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

// FromValue converts v into a tree built from map[string]any, []any, string, bool, int64, uint64,
// float64 and nil. Nil pointers, nil interfaces and non-finite floats become nil, nil slices and maps
// become empty ones, and every other value is carried over unchanged. Struct fields use their json
// names and unexported or "-" fields are skipped; omitempty is ignored so that no key goes missing.
func FromValue(v any) any {
	return fromValue(reflect.ValueOf(v))
}

var (
	timeType       = reflect.TypeFor[time.Time]()
	jsonNumberType = reflect.TypeFor[json.Number]()
)

func fromValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	if k := v.Kind(); k == reflect.Pointer || k == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		return fromValue(v.Elem())
	}

	if v.Type() == timeType && v.CanInterface() {
		if t, ok := v.Interface().(time.Time); ok {
			return t.UTC().Format(time.RFC3339Nano)
		}
	}
	if v.Type() == jsonNumberType {
		return v.String()
	}

	switch v.Kind() { //nolint:exhaustive // channels and functions are dropped below
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes())
		}
		fallthrough
	case reflect.Array:
		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = fromValue(v.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = fromValue(iter.Value())
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		structFields(v, out)
		return out
	default:
		return nil
	}
}

// structFields copies the exported fields of v into out, flattening embedded structs like encoding/json.
func structFields(v reflect.Value, out map[string]any) {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() && !field.Anonymous {
			continue
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}
		fv := v.Field(i)
		if field.Anonymous && field.Tag.Get("json") == "" {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				structFields(fv, out)
				continue
			}
			if !field.IsExported() {
				continue
			}
		}
		out[name] = fromValue(fv)
	}
}

func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, false
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if !k.CanInterface() {
		return fmt.Sprint(k)
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if text, err := tm.MarshalText(); err == nil {
			return string(text)
		}
	}
	return fmt.Sprint(k.Interface())
}
