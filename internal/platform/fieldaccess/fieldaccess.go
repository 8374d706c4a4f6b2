// Package fieldaccess reads normalized entities by their JSON key. Lookups go through the
// typed struct fields, so key access and field access can never disagree.
package fieldaccess

import (
	"reflect"
	"sort"
	"strings"
)

const extraField = "Extra"

// Get returns the value stored under key. Keys without a typed field fall back to the
// entity's Extra map when it has one.
func Get(v any, key string) (any, bool) {
	value, ok := structValue(v)
	if !ok {
		return nil, false
	}
	if field, ok := lookup(value, key); ok {
		return field.Interface(), true
	}
	extra := value.FieldByName(extraField)
	if extra.IsValid() && extra.Kind() == reflect.Map && extra.Type().Key().Kind() == reflect.String {
		item := extra.MapIndex(reflect.ValueOf(key))
		if item.IsValid() {
			return item.Interface(), true
		}
	}
	return nil, false
}

// Keys lists every key Get can resolve on v, sorted.
func Keys(v any) []string {
	value, ok := structValue(v)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	collect(value.Type(), seen)
	extra := value.FieldByName(extraField)
	if extra.IsValid() && extra.Kind() == reflect.Map {
		for _, key := range extra.MapKeys() {
			if key.Kind() == reflect.String {
				seen[key.String()] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func structValue(v any) (reflect.Value, bool) {
	value := reflect.ValueOf(v)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, false
		}
		value = value.Elem()
	}
	return value, value.Kind() == reflect.Struct
}

func lookup(value reflect.Value, key string) (reflect.Value, bool) {
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := jsonName(field)
		if skip {
			continue
		}
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			if found, ok := lookup(value.Field(i), key); ok {
				return found, true
			}
			continue
		}
		if name == "" {
			name = field.Name
		}
		if name == key {
			return value.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func collect(typ reflect.Type, seen map[string]struct{}) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := jsonName(field)
		if skip || field.Name == extraField {
			continue
		}
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			collect(field.Type, seen)
			continue
		}
		if name == "" {
			name = field.Name
		}
		seen[name] = struct{}{}
	}
}

func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}
