package lvn

import (
	"testing"

	"birlc/internal/cfg"
	"birlc/internal/ir"
)

func TestLVNRedundantAddBecomesID(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "const", Dest: "a", Type: ir.Type{Name: "int"}, Value: int64(4)},
		{Op: "const", Dest: "b", Type: ir.Type{Name: "int"}, Value: int64(4)},
		{Op: "add", Dest: "c", Type: ir.Type{Name: "int"}, Args: []string{"a", "b"}},
		{Op: "add", Dest: "d", Type: ir.Type{Name: "int"}, Args: []string{"a", "b"}},
		{Op: "ret"},
	}
	g := cfg.New(instrs)
	Run(g, false)

	block := g.Block("entry")
	var d *ir.Instruction
	for i := range block.Instrs {
		if block.Instrs[i].Dest == "d" {
			d = &block.Instrs[i]
		}
	}
	if d == nil {
		t.Fatal("no instruction assigning d found")
	}
	if d.Op != "id" || len(d.Args) != 1 || d.Args[0] != "c" {
		t.Errorf("d = %+v, expected id of c", d)
	}
}

func TestLVNCommutativeCanonicalization(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "const", Dest: "a", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "const", Dest: "b", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "add", Dest: "c", Type: ir.Type{Name: "int"}, Args: []string{"a", "b"}},
		{Op: "add", Dest: "d", Type: ir.Type{Name: "int"}, Args: []string{"b", "a"}},
		{Op: "ret"},
	}
	g := cfg.New(instrs)
	Run(g, false)

	block := g.Block("entry")
	var d *ir.Instruction
	for i := range block.Instrs {
		if block.Instrs[i].Dest == "d" {
			d = &block.Instrs[i]
		}
	}
	if d == nil || d.Op != "id" {
		t.Errorf("d = %+v, expected id (commutative operands should match c)", d)
	}
}

func TestLVNReassignmentRenamesOutOfTheWay(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(1)},
		{Op: "id", Dest: "y", Args: []string{"x"}},
		{Op: "const", Dest: "x", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "print", Args: []string{"y"}},
		{Op: "ret"},
	}
	g := cfg.New(instrs)
	Run(g, false)

	block := g.Block("entry")
	if block.Instrs[0].Dest == "x" {
		t.Errorf("first const assigning x should have been renamed before the reassignment, got %+v", block.Instrs[0])
	}
}

func TestLVNWithConstantFolding(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "const", Dest: "a", Type: ir.Type{Name: "int"}, Value: int64(2)},
		{Op: "const", Dest: "b", Type: ir.Type{Name: "int"}, Value: int64(3)},
		{Op: "add", Dest: "c", Type: ir.Type{Name: "int"}, Args: []string{"a", "b"}},
		{Op: "ret"},
	}
	g := cfg.New(instrs)
	Run(g, true)

	block := g.Block("entry")
	var c *ir.Instruction
	for i := range block.Instrs {
		if block.Instrs[i].Dest == "c" {
			c = &block.Instrs[i]
		}
	}
	if c == nil || c.Op != "const" {
		t.Fatalf("c = %+v, expected folded const", c)
	}
	if v, ok := c.Value.(int64); !ok || v != 5 {
		t.Errorf("c.Value = %#v, expected int64(5)", c.Value)
	}
}
