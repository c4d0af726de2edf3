package tdce

import (
	"testing"

	"birlc/internal/ir"
)

func TestRemoveDeadDefsDropsUnusedConst(t *testing.T) {
	instrs := []ir.Instruction{
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "const", Dest: "y", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "print", Args: []string{"y"}},
		{Op: "ret"},
	}

	out := RemoveDeadDefs(instrs)
	for _, instr := range out {
		if instr.Dest == "x" {
			t.Fatalf("expected dead def of x to be removed, got %+v", out)
		}
	}
	if len(out) != 3 {
		t.Errorf("expected 3 instructions remaining, got %d: %+v", len(out), out)
	}
}

func TestRemoveDeadDefsConvergesOnChains(t *testing.T) {
	// x is unused; y only exists to be used by the now-dead x def's
	// chain, so removing x should expose y as dead too.
	instrs := []ir.Instruction{
		{Op: "const", Dest: "y", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "id", Dest: "x", Args: []string{"y"}},
		{Op: "ret"},
	}

	out := RemoveDeadDefs(instrs)
	if len(out) != 1 || out[0].Op != "ret" {
		t.Fatalf("expected fixed point to remove both defs, got %+v", out)
	}
}

func TestRemoveLocalDeadStoresDropsRedefinitionWithNoUse(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "print", Args: []string{"x"}},
		{Op: "ret"},
	}

	out := RemoveLocalDeadStores(instrs)
	count := 0
	for _, instr := range out {
		if instr.Dest == "x" {
			count++
			if v, ok := instr.Value.(int64); !ok || v != 2 {
				t.Errorf("surviving def of x = %+v, expected value 2", instr)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one surviving def of x, got %d", count)
	}
}

func TestRemoveLocalDeadStoresKeepsDefUsedBetween(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "print", Args: []string{"x"}},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "print", Args: []string{"x"}},
		{Op: "ret"},
	}

	out := RemoveLocalDeadStores(instrs)
	if len(out) != len(instrs) {
		t.Fatalf("expected no removal when both defs are used, got %+v", out)
	}
}

func TestRunAggressiveCombinesBothPasses(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "ret"},
	}

	out := RunAggressive(instrs)
	if len(out) != 2 {
		t.Fatalf("expected label + ret only, got %+v", out)
	}
}
