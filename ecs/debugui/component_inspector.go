package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/firebitsbr/singularity/ecs"
)

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

// Render shows every component of the selected entity. Numeric, bool and string
// fields are edited in place through the component pointer.
func (ci *ComponentInspector) Render(storage *ecs.Storage, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	ci.selectedEntityId = selectedEntityId
	if ci.selectedEntityId.IsZero() {
		imgui.Text("No entity selected")
		return
	}
	if !storage.Alive(ci.selectedEntityId) {
		imgui.Text(fmt.Sprintf("Entity %d is no longer alive", ci.selectedEntityId.Index()))
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d (generation %d)", ci.selectedEntityId.Index(), ci.selectedEntityId.Generation()))
	imgui.Separator()

	for _, compType := range storage.ComponentTypes(ci.selectedEntityId) {
		component := storage.GetComponent(ci.selectedEntityId, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			renderValue(compType.String(), reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	}
}

// renderValue draws val, which must be addressable for edits to stick.
func renderValue(name string, val reflect.Value) {
	label := "##" + name

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		for _, field := range globalReflectionCache.GetFields(val.Type()) {
			fieldVal := val.FieldByIndex(field.Index)
			if field.IsPointer {
				if fieldVal.IsNil() {
					imgui.Text(field.Name + ": nil")
					continue
				}
				fieldVal = fieldVal.Elem()
			}
			if field.ReadOnly {
				imgui.Text(fmt.Sprintf("%s: %v", field.Name, fieldVal.Interface()))
				continue
			}
			if fieldVal.Kind() == reflect.Struct {
				if imgui.TreeNodeStr(field.Name) {
					renderValue(name+"."+field.Name, fieldVal)
					imgui.TreePop()
				}
				continue
			}
			renderValue(name+"."+field.Name, fieldVal)
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(name + ": func")

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
