package ssa

import (
	"strings"
	"testing"

	"birlc/internal/cfg"
	"birlc/internal/ir"
)

// diamondAssigningX builds the S6 scenario: x is assigned in both arms of
// a diamond and used after the join.
func diamondAssigningX() []ir.Instruction {
	return []ir.Instruction{
		{Label: "entry"},
		{Op: "br", Args: []string{"cond"}, Labels: []string{"a", "b"}},
		{Label: "a"},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "jmp", Labels: []string{"join"}},
		{Label: "b"},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "jmp", Labels: []string{"join"}},
		{Label: "join"},
		{Op: "print", Args: []string{"x"}},
		{Op: "ret"},
	}
}

func TestToSSAInsertsSinglePhiAtJoin(t *testing.T) {
	g := cfg.New(diamondAssigningX())
	ToSSA(g, nil)

	join := g.Block("join")
	var phis []ir.Instruction
	for _, instr := range join.Instrs {
		if instr.Op == "phi" {
			phis = append(phis, instr)
		}
	}
	if len(phis) != 1 {
		t.Fatalf("expected exactly one phi at join, got %d", len(phis))
	}
	phi := phis[0]
	if len(phi.Args) != 2 || len(phi.Labels) != 2 {
		t.Fatalf("phi = %+v, expected 2 args and labels", phi)
	}
	labels := map[string]bool{phi.Labels[0]: true, phi.Labels[1]: true}
	if !labels["a"] || !labels["b"] {
		t.Errorf("phi labels = %v, expected {a, b}", phi.Labels)
	}
}

func TestToSSARenamesEveryDefinitionUniquely(t *testing.T) {
	g := cfg.New(diamondAssigningX())
	ToSSA(g, nil)

	seen := map[string]int{}
	for _, name := range g.BlockNames() {
		for _, instr := range g.Block(name).Instrs {
			if instr.IsAssignment() {
				seen[instr.Dest]++
			}
		}
	}
	for dest, count := range seen {
		if count != 1 {
			t.Errorf("variable %s defined %d times, expected exactly once in SSA form", dest, count)
		}
	}
}

func TestFromSSADestroysPhiIntoEdgeCopies(t *testing.T) {
	g := cfg.New(diamondAssigningX())
	ToSSA(g, nil)
	FromSSA(g)

	join := g.Block("join")
	for _, instr := range join.Instrs {
		if instr.Op == "phi" {
			t.Fatalf("phi remained after FromSSA: %+v", instr)
		}
	}

	var copyBlocks []string
	for _, name := range g.BlockNames() {
		if strings.HasPrefix(name, "b.") && strings.HasSuffix(name, ".join") {
			copyBlocks = append(copyBlocks, name)
		}
	}
	if len(copyBlocks) != 2 {
		t.Fatalf("expected 2 synthesized edge blocks into join, got %v", copyBlocks)
	}
	for _, name := range copyBlocks {
		block := g.Block(name)
		foundID := false
		for _, instr := range block.Instrs {
			if instr.Op == "id" {
				foundID = true
			}
		}
		if !foundID {
			t.Errorf("edge block %s has no id copy: %+v", name, block.Instrs)
		}
	}
}

// diamondWithUnmodifiedParam builds a diamond where parameter x is
// reassigned on one arm and left untouched on the other, then used after
// the join. A phi is correctly placed for x at the join (DF(a) = {join}),
// so the arm that never redefines x must resolve that phi argument back to
// the parameter itself rather than "no reaching definition".
func diamondWithUnmodifiedParam() []ir.Instruction {
	return []ir.Instruction{
		{Label: "entry"},
		{Op: "br", Args: []string{"cond"}, Labels: []string{"a", "b"}},
		{Label: "a"},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(5)},
		{Op: "jmp", Labels: []string{"join"}},
		{Label: "b"},
		{Op: "jmp", Labels: []string{"join"}},
		{Label: "join"},
		{Op: "print", Args: []string{"x"}},
		{Op: "ret"},
	}
}

func TestToSSASeedsArgumentStackForUnmodifiedParam(t *testing.T) {
	g := cfg.New(diamondWithUnmodifiedParam())
	args := []ir.Param{{Name: "x", Type: ir.Type{Name: "int"}}}
	ToSSA(g, args)

	join := g.Block("join")
	var phi *ir.Instruction
	for i, instr := range join.Instrs {
		if instr.Op == "phi" {
			phi = &join.Instrs[i]
		}
	}
	if phi == nil {
		t.Fatalf("expected a phi for x at join, block = %+v", join.Instrs)
	}
	for i, lbl := range phi.Labels {
		if lbl == "b" {
			if strings.HasSuffix(phi.Args[i], ".undef") {
				t.Errorf("phi arg for unmodified-parameter arm %q resolved to %q, want the seeded parameter name", lbl, phi.Args[i])
			}
			if oldName(phi.Args[i]) != "x" {
				t.Errorf("phi arg for arm %q = %q, want a renaming of parameter x", lbl, phi.Args[i])
			}
		}
	}
}

func TestSequentializeBreaksCycleWithTemp(t *testing.T) {
	// a <- b, b <- a: a genuine swap cycle. Both original values must
	// survive, which a "drop the whole cycle" policy would lose.
	copies := []copy{
		{Dest: "a", Src: "b", Type: ir.Type{Name: "int"}},
		{Dest: "b", Src: "a", Type: ir.Type{Name: "int"}},
	}
	tmpNames := 0
	instrs := sequentialize(copies, func(base string) string {
		tmpNames++
		return base + ".tmp"
	})

	if len(instrs) != 3 {
		t.Fatalf("expected 3 instructions (1 temp save + 2 copies), got %d: %+v", len(instrs), instrs)
	}
	if tmpNames != 1 {
		t.Errorf("expected exactly one temporary introduced, got %d", tmpNames)
	}
}
