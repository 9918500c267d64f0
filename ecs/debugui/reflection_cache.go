package debugui

import (
	"reflect"
	"strings"
	"sync"
)

// FieldInfo describes one exported field shown by the inspector. Fields of
// embedded structs are flattened, so Index is a path for FieldByIndex.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     []int
	IsPointer bool
	// ReadOnly is set by the `inspect:"readonly"` tag.
	ReadOnly bool
}

type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

// GetFields returns the exported fields of t, or nil if t is not a struct.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}
	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		fields = collectFields(t, nil, "")
	}
	actual, _ := rc.fields.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

func collectFields(t reflect.Type, parent []int, prefix string) []FieldInfo {
	var out []FieldInfo
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		index := append(append([]int(nil), parent...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			out = append(out, collectFields(field.Type, index, prefix)...)
			continue
		}

		fieldType := field.Type
		isPointer := fieldType.Kind() == reflect.Ptr
		if isPointer {
			fieldType = fieldType.Elem()
		}
		out = append(out, FieldInfo{
			Name:      prefix + field.Name,
			Type:      fieldType,
			Index:     index,
			IsPointer: isPointer,
			ReadOnly:  hasTagOption(field.Tag.Get("inspect"), "readonly"),
		})
	}
	return out
}

func hasTagOption(tag, option string) bool {
	for opt := range strings.SplitSeq(tag, ",") {
		if opt == option {
			return true
		}
	}
	return false
}

var globalReflectionCache = NewReflectionCache()
