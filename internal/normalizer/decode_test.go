package normalizer

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
)

func TestDecode_RenamesRepeatedKeysInEncounterOrder(t *testing.T) {
	t.Parallel()

	obj, err := Decode([]byte(`{"a":1,"a":2,"a":3}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(obj) != 3 {
		t.Fatalf("unexpected key count: got=%d want=3 (%v)", len(obj), obj)
	}
	for i, want := range []string{"1", "2", "3"} {
		key := "a_" + strconv.Itoa(i)
		got, ok := obj[key].(json.Number)
		if !ok || got.String() != want {
			t.Fatalf("unexpected %s: got=%v want=%s", key, obj[key], want)
		}
	}
	if _, ok := obj["a"]; ok {
		t.Fatalf("repeated key must not survive under its plain name")
	}
}

func TestDecode_RenamesInsideNestedObjectsOnly(t *testing.T) {
	t.Parallel()

	obj, err := Decode([]byte(`{"team":{"abilities":[1],"abilities":[2]},"abilities":[3]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := obj["abilities"]; !ok {
		t.Fatalf("single top-level key must keep its name")
	}
	team, ok := obj["team"].(Object)
	if !ok {
		t.Fatalf("nested value is %T, want Object", obj["team"])
	}
	if _, ok := team["abilities_0"]; !ok {
		t.Fatalf("expected abilities_0 in nested object, got %v", team)
	}
	if _, ok := team["abilities_1"]; !ok {
		t.Fatalf("expected abilities_1 in nested object, got %v", team)
	}
}

func TestDecode_KeepsRepeatedKeysInsideArraysAndScalars(t *testing.T) {
	t.Parallel()

	raw := `{"players":[{"abilities":[{"ability_id":5003}],"abilities":[{"ability_id":5004}]}],"ok":true,"skip":false,"gone":null,"name":"x"}`
	obj, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	players, ok := obj["players"].([]any)
	if !ok || len(players) != 1 {
		t.Fatalf("unexpected players: %v", obj["players"])
	}
	player := players[0].(Object)
	for _, key := range []string{"abilities_0", "abilities_1"} {
		blocks, ok := player[key].([]any)
		if !ok || len(blocks) != 1 {
			t.Fatalf("missing %s in %v", key, player)
		}
	}
	second := player["abilities_1"].([]any)[0].(Object)
	if got := second["ability_id"].(json.Number).String(); got != "5004" {
		t.Fatalf("unexpected order: got=%s want=5004", got)
	}
	if obj["ok"] != true || obj["skip"] != false || obj["name"] != "x" {
		t.Fatalf("unexpected scalars: %v", obj)
	}
	if v, present := obj["gone"]; !present || v != nil {
		t.Fatalf("null must decode to a present nil, got %v present=%v", v, present)
	}
}

func TestDecode_SkipsSuffixOwnedByLiteralSibling(t *testing.T) {
	t.Parallel()

	obj, err := Decode([]byte(`{"a":1,"a_0":"literal","a":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if obj["a_0"] != "literal" {
		t.Fatalf("literal sibling overwritten: %v", obj["a_0"])
	}
	if got := obj["a_1"].(json.Number).String(); got != "1" {
		t.Fatalf("unexpected a_1: got=%s want=1", got)
	}
	if got := obj["a_2"].(json.Number).String(); got != "2" {
		t.Fatalf("unexpected a_2: got=%s want=2", got)
	}
}

func TestDecode_KeepsSteam64Precision(t *testing.T) {
	t.Parallel()

	obj, err := Decode([]byte(`{"steamid":76561198000000001}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := asInt64(obj["steamid"])
	if !ok || got != 76561198000000001 {
		t.Fatalf("unexpected steamid: got=%d ok=%v", got, ok)
	}
}

func TestDecode_RejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":     ``,
		"array":     `[1,2]`,
		"scalar":    `42`,
		"truncated": `{"result":{"a":1}`,
		"trailing":  `{"a":1}{"b":2}`,
		"bad key":   `{1:2}`,
	}
	for name, raw := range cases {
		name, raw := name, raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := Decode([]byte(raw)); !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	if _, err := unwrap(Object{}, "result"); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
	if _, err := unwrap(Object{"result": "text"}, "result"); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for scalar envelope, got %v", err)
	}

	obj, err := unwrap(Object{"game_list": []any{}}, "result")
	if err != nil {
		t.Fatalf("unwrap without envelope: %v", err)
	}
	if !obj.has("game_list") {
		t.Fatalf("payload without envelope must pass through, got %v", obj)
	}
}
