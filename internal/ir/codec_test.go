package ir

import (
	"encoding/json"
	"testing"
)

func TestInstructionRoundTrip(t *testing.T) {
	instr := Instruction{
		Op:    "const",
		Dest:  "x",
		Type:  Type{Name: "int"},
		Value: int64(1),
	}

	data, err := json.Marshal(instr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Instruction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Op != "const" || got.Dest != "x" || got.Type.Name != "int" {
		t.Errorf("round trip changed shape: %+v", got)
	}
	if v, ok := got.Value.(int64); !ok || v != 1 {
		t.Errorf("Value = %#v (%T), expected int64(1)", got.Value, got.Value)
	}
}

func TestInstructionLabelMarker(t *testing.T) {
	data := []byte(`{"label": "entry"}`)

	var instr Instruction
	if err := json.Unmarshal(data, &instr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !instr.IsLabel() {
		t.Errorf("expected label marker, got %+v", instr)
	}
}

func TestBoolVsIntLiteralDoNotAlias(t *testing.T) {
	intZero := Instruction{Op: "const", Dest: "x", Type: Type{Name: "int"}, Value: int64(0)}
	boolFalse := Instruction{Op: "const", Dest: "y", Type: Type{Name: "bool"}, Value: false}

	data1, _ := json.Marshal(intZero)
	data2, _ := json.Marshal(boolFalse)

	var got1, got2 Instruction
	if err := json.Unmarshal(data1, &got1); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data2, &got2); err != nil {
		t.Fatal(err)
	}

	if got1.Value == got2.Value {
		t.Errorf("int(0) and bool(false) values must not compare equal, got %#v == %#v", got1.Value, got2.Value)
	}
}

func TestPointerTypeRoundTrip(t *testing.T) {
	instr := Instruction{Op: "alloc", Dest: "p", Type: Type{Ptr: &Type{Name: "int"}}, Args: []string{"n"}}

	data, err := json.Marshal(instr)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Instruction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type.Ptr == nil || got.Type.Ptr.Name != "int" {
		t.Errorf("Type.Ptr = %+v, expected ptr<int>", got.Type)
	}
}

func TestProgramRoundTripOrderedSections(t *testing.T) {
	src := []byte(`{"functions": [{"name": "main", "instrs": [
		{"label": "entry"},
		{"op": "const", "dest": "x", "type": "int", "value": 1},
		{"op": "jmp", "labels": ["end"]},
		{"label": "end"},
		{"op": "ret"}
	]}]}`)

	var prog Program
	if err := json.Unmarshal(src, &prog); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Name != "main" {
		t.Fatalf("unexpected program: %+v", prog)
	}

	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var roundTripped Program
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if len(roundTripped.Functions[0].Instrs) != 5 {
		t.Errorf("expected 5 instrs after round trip, got %d", len(roundTripped.Functions[0].Instrs))
	}
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	data := []byte(`{"b": [1], "a": [2], "c": [3]}`)

	m := NewOrderedMap[[]int]()
	if err := json.Unmarshal(data, m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	keys := m.Keys()
	want := []string{"b", "a", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, expected %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %s, expected %s", i, keys[i], want[i])
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"b":[1],"a":[2],"c":[3]}` {
		t.Errorf("MarshalJSON() = %s, expected key order preserved", out)
	}
}

func TestOrderedMapMoveToFront(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.MoveToFront("c")

	got := m.Keys()
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, expected %v", got, want)
		}
	}
}
