package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/gemboard/ecs"
)

// maxInspectDepth bounds how far nested structs and pointers are expanded.
const maxInspectDepth = 4

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

// Render shows the components of the entity selected in a browser. Numeric,
// bool and string fields are edited in place.
func (ci *ComponentInspectorComponent) Render(storage *ecs.Storage, entity EntityInfo, selected bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !selected {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	ci.selectedEntityId = entity.ID

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity.ID))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", entity.ArchetypeID))
	imgui.Separator()

	for _, compType := range entity.types {
		component := storage.GetComponent(entity.ID, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderValue(compType.Name(), reflect.ValueOf(component).Elem(), 0)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderValue(name string, val reflect.Value, depth int) {
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		val = val.Elem()
	}

	id := fmt.Sprintf("##%s%d", name, depth)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(numberOf(val))
		labelled(name, 150)
		if imgui.InputInt(id, &v) {
			applyEdit(val, float64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		labelled(name, 150)
		if imgui.InputFloat(id, &v) {
			applyEdit(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			applyEdit(val, v)
		}

	case reflect.String:
		v := val.String()
		labelled(name, 200)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) {
			applyEdit(val, v)
		}

	case reflect.Struct:
		fields := globalReflectionCache.GetFields(val.Type())
		if depth >= maxInspectDepth || len(fields) == 0 {
			imgui.Text(fmt.Sprintf("%s: %s", name, val.Type()))
			return
		}
		if depth == 0 {
			for _, f := range fields {
				ci.renderValue(f.Name, val.Field(f.Index), depth+1)
			}
			return
		}
		if imgui.TreeNodeStr(name) {
			for _, f := range fields {
				ci.renderValue(f.Name, val.Field(f.Index), depth+1)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %s", name, val.Type()))
	}
}

func labelled(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}

func numberOf(val reflect.Value) int64 {
	if val.CanInt() {
		return val.Int()
	}
	return int64(val.Uint())
}

// applyEdit writes an edited widget value into val, converting to the
// field's kind. Unsettable values, mismatched kinds and negative unsigned
// values are ignored.
func applyEdit(val reflect.Value, input any) bool {
	if !val.CanSet() {
		return false
	}

	switch v := input.(type) {
	case float64:
		switch {
		case val.CanInt():
			val.SetInt(int64(v))
		case val.CanUint():
			if v < 0 {
				return false
			}
			val.SetUint(uint64(v))
		case val.CanFloat():
			val.SetFloat(v)
		default:
			return false
		}
	case bool:
		if val.Kind() != reflect.Bool {
			return false
		}
		val.SetBool(v)
	case string:
		if val.Kind() != reflect.String {
			return false
		}
		val.SetString(v)
	default:
		return false
	}
	return true
}
