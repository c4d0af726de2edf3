package dom

import (
	"reflect"
	"testing"

	"birlc/internal/cfg"
	"birlc/internal/ir"
)

// diamond builds the S3 scenario: entry -> a, entry -> b, a -> c, b -> c.
func diamond(t *testing.T) *cfg.Graph {
	t.Helper()
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "br", Args: []string{"cond"}, Labels: []string{"a", "b"}},
		{Label: "a"},
		{Op: "jmp", Labels: []string{"c"}},
		{Label: "b"},
		{Op: "jmp", Labels: []string{"c"}},
		{Label: "c"},
		{Op: "ret"},
	}
	return cfg.New(instrs)
}

func sortedKeys(s map[string]bool) []string {
	var out []string
	for k := range s {
		out = append(out, k)
	}
	sortStrings(out)
	return out
}

func TestDominatorsDiamond(t *testing.T) {
	g := diamond(t)
	doms := Dominators(g)

	got := sortedKeys(doms["c"])
	want := []string{"c", "entry"}
	sortStrings(got)
	sortStrings(want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dom[c] = %v, expected %v", got, want)
	}
}

func TestFrontierDiamond(t *testing.T) {
	g := diamond(t)
	doms := Dominators(g)
	df := Frontier(g, doms)

	if got, want := df["a"], []string{"c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("DF[a] = %v, expected %v", got, want)
	}
	if got, want := df["b"], []string{"c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("DF[b] = %v, expected %v", got, want)
	}
}

func TestTreeDiamond(t *testing.T) {
	g := diamond(t)
	doms := Dominators(g)
	tree := Tree(g, doms)

	if tree.Name != "entry" {
		t.Fatalf("tree root = %s, expected entry", tree.Name)
	}
	var childNames []string
	for _, c := range tree.Children {
		childNames = append(childNames, c.Name)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(childNames, want) {
		t.Fatalf("tree children of entry = %v, expected %v", childNames, want)
	}
}

func TestDominatorsReflexivity(t *testing.T) {
	g := diamond(t)
	doms := Dominators(g)
	for _, n := range g.BlockNames() {
		if !doms[n][n] {
			t.Errorf("dom[%s] does not contain itself: %v", n, doms[n])
		}
	}
}

func TestDominatorsUnreachableBlockIsSentinel(t *testing.T) {
	instrs := []ir.Instruction{
		{Label: "entry"},
		{Op: "ret"},
		{Label: "dead"},
		{Op: "ret"},
	}
	g := cfg.New(instrs)
	doms := Dominators(g)

	if len(doms["dead"]) != len(g.BlockNames()) {
		t.Errorf("dom[dead] = %v, expected the full unreached sentinel set", doms["dead"])
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
