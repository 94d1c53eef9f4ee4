// internal/core/domain/value.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ValueKind etiqueta el tipo de un nodo del árbol de payload.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueList
	ValueMap
)

// Value es un árbol etiquetado de valores heterogéneos (scalar | lista | mapa).
// Es la representación del payload de una unit: el core no conoce el esquema
// concreto de cada unit, solo recorre y serializa este árbol.
// Un Value es inmutable por convención una vez adjuntado a un ResultRecord.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	boo  bool
	list []Value
	obj  map[string]Value
}

// Constructores

// NullValue retorna el valor nulo.
func NullValue() Value {
	return Value{kind: ValueNull}
}

// StringValue construye un scalar string.
func StringValue(s string) Value {
	return Value{kind: ValueString, str: s}
}

// NumberValue construye un scalar numérico.
func NumberValue(f float64) Value {
	return Value{kind: ValueNumber, num: f}
}

// IntValue construye un scalar numérico desde un entero.
func IntValue(i int) Value {
	return Value{kind: ValueNumber, num: float64(i)}
}

// BoolValue construye un scalar booleano.
func BoolValue(b bool) Value {
	return Value{kind: ValueBool, boo: b}
}

// ListValue construye una lista.
func ListValue(items []Value) Value {
	return Value{kind: ValueList, list: items}
}

// StringListValue construye una lista de scalars string.
func StringListValue(items []string) Value {
	vs := make([]Value, 0, len(items))
	for _, s := range items {
		vs = append(vs, StringValue(s))
	}
	return Value{kind: ValueList, list: vs}
}

// MapValue construye un mapa.
func MapValue(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: ValueMap, obj: m}
}

// FromAny convierte un valor decodificado de JSON (any) en un Value.
// Tipos no reconocidos se representan como su fmt.Sprint.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case int:
		return IntValue(t)
	case int64:
		return NumberValue(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return StringValue(t.String())
		}
		return NumberValue(f)
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, FromAny(item))
		}
		return Value{kind: ValueList, list: items}
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = FromAny(item)
		}
		return Value{kind: ValueMap, obj: m}
	default:
		return StringValue(fmt.Sprint(t))
	}
}

// Accessors

// Kind retorna la etiqueta del nodo.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull indica si el nodo es nulo.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// IsEmpty indica si el árbol no contiene datos (nulo, lista vacía o mapa vacío).
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueNull:
		return true
	case ValueList:
		return len(v.list) == 0
	case ValueMap:
		return len(v.obj) == 0
	default:
		return false
	}
}

// Str retorna el scalar string (vacío si no es string).
func (v Value) Str() string { return v.str }

// Num retorna el scalar numérico (0 si no es number).
func (v Value) Num() float64 { return v.num }

// Bool retorna el scalar booleano (false si no es bool).
func (v Value) Bool() bool { return v.boo }

// List retorna los elementos de la lista (nil si no es lista).
func (v Value) List() []Value { return v.list }

// Map retorna las entradas del mapa (nil si no es mapa).
func (v Value) Map() map[string]Value { return v.obj }

// Keys retorna las claves del mapa ordenadas (determinista).
func (v Value) Keys() []string {
	if v.kind != ValueMap {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get retorna la entrada del mapa bajo key, y si existe.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != ValueMap {
		return NullValue(), false
	}
	child, ok := v.obj[key]
	return child, ok
}

// ScalarString renderiza un scalar como string para salidas tabulares.
// Listas y mapas retornan vacío; usar Flatten para estructuras.
func (v Value) ScalarString() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.boo)
	default:
		return ""
	}
}

// Equal compara dos árboles estructuralmente.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueNull:
		return true
	case ValueString:
		return v.str == other.str
	case ValueNumber:
		return v.num == other.num
	case ValueBool:
		return v.boo == other.boo
	case ValueList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case ValueMap:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, child := range v.obj {
			oc, ok := other.obj[k]
			if !ok || !child.Equal(oc) {
				return false
			}
		}
		return true
	}
	return false
}

// Flatten aplana el árbol en un mapa path->valor renderizado.
// Mapas componen paths con punto (a.b.c), listas con índice (a.0, a.1).
// El mismo árbol produce siempre el mismo conjunto de claves.
func (v Value) Flatten() map[string]string {
	out := make(map[string]string)
	flattenInto("", v, out)
	return out
}

func flattenInto(prefix string, v Value, out map[string]string) {
	switch v.kind {
	case ValueMap:
		for _, k := range v.Keys() {
			flattenInto(joinPath(prefix, k), v.obj[k], out)
		}
	case ValueList:
		for i, item := range v.list {
			flattenInto(joinPath(prefix, strconv.Itoa(i)), item, out)
		}
	case ValueNull:
		// Nulos no emiten celda: las columnas ausentes rinden vacío igualmente.
	default:
		key := prefix
		if key == "" {
			key = "value"
		}
		out[key] = v.ScalarString()
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// MarshalJSON serializa el árbol como JSON natural (sin envoltorio de tags).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueString:
		return json.Marshal(v.str)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.boo)
	case ValueList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case ValueMap:
		// Serialización con claves ordenadas para output determinista.
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := json.Marshal(v.obj[k])
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown value kind: %d", v.kind)
}

// UnmarshalJSON reconstruye el árbol desde JSON natural.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}
