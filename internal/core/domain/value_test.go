// internal/core/domain/value_test.go
package domain

import (
	"encoding/json"
	"testing"

	"kirwada/internal/testutil"
)

func samplePayload() Value {
	return MapValue(map[string]Value{
		"emails":   ListValue([]Value{StringValue("a@b.com"), StringValue("c@d.com")}),
		"breached": BoolValue(true),
		"count":    IntValue(3),
		"detail": MapValue(map[string]Value{
			"source": StringValue("hibp"),
			"score":  NumberValue(0.92),
		}),
		"note": NullValue(),
	})
}

func TestFlattenPaths(t *testing.T) {
	flat := samplePayload().Flatten()

	tests := []struct {
		path string
		want string
	}{
		{"emails.0", "a@b.com"},
		{"emails.1", "c@d.com"},
		{"breached", "true"},
		{"count", "3"},
		{"detail.source", "hibp"},
		{"detail.score", "0.92"},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, flat[tt.path], tt.want, "flatten path "+tt.path)
	}

	_, hasNote := flat["note"]
	testutil.AssertFalse(t, hasNote, "null emits no cell")
	testutil.AssertEqual(t, len(flat), 6, "exact cell count")
}

func TestFlattenRootScalar(t *testing.T) {
	flat := StringValue("hola").Flatten()
	testutil.AssertEqual(t, flat["value"], "hola", "root scalar keyed as value")
	testutil.AssertEqual(t, len(flat), 1, "single cell")
}

func TestMarshalSortedKeys(t *testing.T) {
	v := MapValue(map[string]Value{
		"zeta":  IntValue(1),
		"alpha": IntValue(2),
		"mid":   IntValue(3),
	})
	data, err := json.Marshal(v)
	testutil.AssertNoError(t, err, "marshal")
	testutil.AssertEqual(t, string(data), `{"alpha":2,"mid":3,"zeta":1}`, "map keys serialize sorted")
}

func TestJSONRoundTrip(t *testing.T) {
	original := samplePayload()

	data, err := json.Marshal(original)
	testutil.AssertNoError(t, err, "marshal")

	var decoded Value
	testutil.AssertNoError(t, json.Unmarshal(data, &decoded), "unmarshal")
	testutil.AssertTrue(t, original.Equal(decoded), "tree survives the round trip")
}

func TestEmptyListMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(ListValue(nil))
	testutil.AssertNoError(t, err, "marshal")
	testutil.AssertEqual(t, string(data), "[]", "nil-backed list is an empty array, not null")
}

func TestFromAnyUnknownType(t *testing.T) {
	type odd struct{ X int }
	v := FromAny(odd{X: 7})
	testutil.AssertEqual(t, v.Kind(), ValueString, "unknown types degrade to string")
}

func TestIsEmpty(t *testing.T) {
	testutil.AssertTrue(t, NullValue().IsEmpty(), "null is empty")
	testutil.AssertTrue(t, ListValue(nil).IsEmpty(), "empty list")
	testutil.AssertTrue(t, MapValue(nil).IsEmpty(), "empty map")
	testutil.AssertFalse(t, StringValue("").IsEmpty(), "empty string is still a value")
	testutil.AssertFalse(t, BoolValue(false).IsEmpty(), "false is still a value")
}

func TestEqualDistinguishesKinds(t *testing.T) {
	testutil.AssertFalse(t, StringValue("1").Equal(IntValue(1)), "string vs number")
	testutil.AssertTrue(t, IntValue(3).Equal(NumberValue(3)), "int and float share the number kind")
	testutil.AssertFalse(t,
		MapValue(map[string]Value{"a": IntValue(1)}).Equal(MapValue(map[string]Value{"b": IntValue(1)})),
		"different keys")
}

func TestScalarString(t *testing.T) {
	testutil.AssertEqual(t, NumberValue(1.5).ScalarString(), "1.5", "float rendering")
	testutil.AssertEqual(t, IntValue(42).ScalarString(), "42", "integral floats render without decimals")
	testutil.AssertEqual(t, BoolValue(true).ScalarString(), "true", "bool rendering")
	testutil.AssertEqual(t, MapValue(nil).ScalarString(), "", "structures render empty")
}

func TestGetAndKeys(t *testing.T) {
	v := samplePayload()

	child, ok := v.Get("breached")
	testutil.AssertTrue(t, ok, "existing key")
	testutil.AssertTrue(t, child.Bool(), "value preserved")

	_, ok = v.Get("missing")
	testutil.AssertFalse(t, ok, "missing key")

	keys := v.Keys()
	testutil.AssertEqual(t, len(keys), 5, "all keys")
	testutil.AssertEqual(t, keys[0], "breached", "keys come sorted")

	testutil.AssertEqual(t, len(StringValue("x").Keys()), 0, "non-map has no keys")
}
