// Package dom computes dominator sets, the immediate-dominator tree, and
// dominance frontiers over a cfg.Graph.
package dom

import (
	"sort"

	"birlc/internal/cfg"
)

// Dominators computes dom[B] for every block in g by iterating the
// dataflow-style fixed point dom[entry] = {entry}, dom[B] = {B} ∪
// ⋂ dom[P] for P ranging over predecessors of B, until nothing changes.
//
// A non-entry block with no predecessors is left at its initial
// full-block-set value: this is a deliberate sentinel for unreachable
// code, so it neither dominates nor is dominated by any reachable
// block. Callers that need sound dominance over the whole graph should
// call g.RemoveUnreachableBlocks() first.
func Dominators(g *cfg.Graph) map[string]map[string]bool {
	names := g.BlockNames()
	all := map[string]bool{}
	for _, n := range names {
		all[n] = true
	}

	dom := make(map[string]map[string]bool, len(names))
	for _, n := range names {
		dom[n] = cloneSet(all)
	}
	entry := g.Entry()
	dom[entry] = map[string]bool{entry: true}

	changed := true
	for changed {
		changed = false
		for _, n := range names {
			if n == entry {
				continue
			}
			newDom := intersectPreds(g, dom, all, n)
			newDom[n] = true
			if !setsEqual(newDom, dom[n]) {
				dom[n] = newDom
				changed = true
			}
		}
	}
	return dom
}

// intersectPreds computes the intersection of dom[P] over block's
// predecessors. A block with no predecessors that isn't the entry is
// unreachable code: by the standard empty-intersection-is-universal
// convention it returns all (every block name), which, combined with the
// full-set initialization above, leaves that block's dominator set pinned
// at the sentinel value rather than collapsing to {block}.
func intersectPreds(g *cfg.Graph, dom map[string]map[string]bool, all map[string]bool, block string) map[string]bool {
	preds := g.PredecessorsOf(block)
	if len(preds) == 0 {
		return cloneSet(all)
	}
	result := cloneSet(dom[preds[0]])
	for _, p := range preds[1:] {
		for k := range result {
			if !dom[p][k] {
				delete(result, k)
			}
		}
	}
	return result
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// Node is one entry in an immediate-dominator tree: a block and its
// (sorted) immediately dominated children.
type Node struct {
	Name     string
	Children []*Node
}

// Tree builds the immediate-dominator tree from a dominator-set map. For
// each block B other than the entry, its immediate dominator is the
// unique member of dom[B] \ {B} that is itself dominated by every other
// member of dom[B] \ {B}. Children lists are sorted by name.
func Tree(g *cfg.Graph, dominators map[string]map[string]bool) *Node {
	entry := g.Entry()
	nodes := map[string]*Node{}
	for _, n := range g.BlockNames() {
		nodes[n] = &Node{Name: n}
	}

	for _, b := range g.BlockNames() {
		if b == entry {
			continue
		}
		strict := make([]string, 0, len(dominators[b]))
		for d := range dominators[b] {
			if d != b {
				strict = append(strict, d)
			}
		}
		idom, ok := immediateDominator(strict, dominators)
		if !ok {
			continue
		}
		nodes[idom].Children = append(nodes[idom].Children, nodes[b])
	}

	for _, node := range nodes {
		sort.Slice(node.Children, func(i, j int) bool {
			return node.Children[i].Name < node.Children[j].Name
		})
	}
	return nodes[entry]
}

// immediateDominator finds the member of strict that is dominated by
// every other member of strict.
func immediateDominator(strict []string, dominators map[string]map[string]bool) (string, bool) {
	for _, candidate := range strict {
		isIdom := true
		for _, other := range strict {
			if other == candidate {
				continue
			}
			if !dominators[candidate][other] {
				isIdom = false
				break
			}
		}
		if isIdom {
			return candidate, true
		}
	}
	return "", false
}

// Frontier computes the dominance frontier for every block: DF[A] = { C :
// exists B in preds(C) with A in dom[B], and (A not in dom[C] or A == C) }.
// The A == C clause produces the self-frontier natural loop headers need.
func Frontier(g *cfg.Graph, dominators map[string]map[string]bool) map[string][]string {
	df := map[string]map[string]bool{}
	for _, n := range g.BlockNames() {
		df[n] = map[string]bool{}
	}

	for _, c := range g.BlockNames() {
		for _, b := range g.PredecessorsOf(c) {
			for a := range dominators[b] {
				if !dominators[c][a] || a == c {
					df[a][c] = true
				}
			}
		}
	}

	out := make(map[string][]string, len(df))
	for a, set := range df {
		list := make([]string, 0, len(set))
		for c := range set {
			list = append(list, c)
		}
		sort.Strings(list)
		out[a] = list
	}
	return out
}
