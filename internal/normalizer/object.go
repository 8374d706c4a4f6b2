package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
)

// Object is one decoded JSON object. The pop helpers consume a key so a raw field and
// its decoded form never coexist in the output.
type Object map[string]any

func (o Object) clone() Object {
	out := make(Object, len(o))
	for key, value := range o {
		out[key] = value
	}
	return out
}

func (o Object) pop(key string) (any, bool) {
	value, ok := o[key]
	if ok {
		delete(o, key)
	}
	return value, ok
}

func (o Object) has(key string) bool {
	_, ok := o[key]
	return ok
}

func (o Object) popInt64(key string) int64 {
	value, _ := o.pop(key)
	v, _ := asInt64(value)
	return v
}

// popInt64Any consumes every listed key and returns the first parseable value.
func (o Object) popInt64Any(keys ...string) int64 {
	var out int64
	found := false
	for _, key := range keys {
		value, ok := o.pop(key)
		if !ok || found {
			continue
		}
		if v, ok := asInt64(value); ok {
			out, found = v, true
		}
	}
	return out
}

func (o Object) popOptionalID(key string) entity.OptionalID {
	value, _ := o.pop(key)
	return asOptionalID(value)
}

func (o Object) popFloat64(key string) float64 {
	value, _ := o.pop(key)
	return asFloat64(value)
}

func (o Object) popString(key string) string {
	value, _ := o.pop(key)
	return asString(value)
}

func (o Object) popStringAny(keys ...string) string {
	out := ""
	for _, key := range keys {
		if v := o.popString(key); out == "" {
			out = v
		}
	}
	return out
}

func (o Object) popBool(key string) bool {
	value, _ := o.pop(key)
	return asBool(value)
}

func (o Object) popObject(key string) Object {
	value, _ := o.pop(key)
	return asObject(value)
}

func (o Object) popObjects(key string) []Object {
	value, _ := o.pop(key)
	list, _ := value.([]any)
	out := make([]Object, 0, len(list))
	for _, item := range list {
		if obj := asObject(item); obj != nil {
			out = append(out, obj)
		}
	}
	return out
}

// subset copies only the listed keys that are present.
func (o Object) subset(keys ...string) Object {
	out := make(Object, len(keys))
	for _, key := range keys {
		if value, ok := o[key]; ok {
			out[key] = value
		}
	}
	return out
}

// rest returns the keys nothing consumed, or nil.
func (o Object) rest() map[string]any {
	if len(o) == 0 {
		return nil
	}
	out := make(map[string]any, len(o))
	for key, value := range o {
		out[key] = plain(value)
	}
	return out
}

// plain converts decoded values into types any JSON encoder handles the same way.
func plain(value any) any {
	switch typed := value.(type) {
	case Object:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plain(item)
		}
		return out
	case json.Number:
		if v, err := typed.Int64(); err == nil {
			return v
		}
		if v, err := typed.Float64(); err == nil {
			return v
		}
		return typed.String()
	default:
		return value
	}
}

func asObject(value any) Object {
	switch typed := value.(type) {
	case Object:
		return typed
	case map[string]any:
		return Object(typed)
	default:
		return nil
	}
}

func asInt64(value any) (int64, bool) {
	switch typed := value.(type) {
	case json.Number:
		if v, err := typed.Int64(); err == nil {
			return v, true
		}
		if v, err := typed.Float64(); err == nil && !math.IsNaN(v) {
			return int64(v), true
		}
		return 0, false
	case float64:
		return int64(typed), true
	case float32:
		return int64(typed), true
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func asOptionalID(value any) entity.OptionalID {
	if v, ok := asInt64(value); ok {
		return entity.ID(v)
	}
	return entity.OptionalID{}
}

func asFloat64(value any) float64 {
	switch typed := value.(type) {
	case json.Number:
		v, err := typed.Float64()
		if err != nil {
			return 0
		}
		return v
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func asString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

func asBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	default:
		v, ok := asInt64(value)
		return ok && v != 0
	}
}
