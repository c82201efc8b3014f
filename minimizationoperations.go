package fsm

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// Minimize shrinks an acyclic automaton: weights are pushed forward from
// Init, states are merged along shared prefixes, then along shared suffixes
// via a transpose round-trip, and the result is renormalized.
//
// The input must be acyclic. Minimize on a cyclic automaton does not
// terminate; use MinimizeChecked when the input is not known to be acyclic.
func Minimize(f *FSM) *FSM {
	g := pushWeights(f)
	g = leftMerge(g)
	g = Transpose(g)
	g = leftMerge(g)
	g = Transpose(g)
	return Normalize(g)
}

// ErrCyclic is returned by MinimizeChecked when its input contains a cycle.
var ErrCyclic = errors.New("cycle detected")

// MinimizeChecked is Minimize with a cycle pre-check: instead of hanging on
// cyclic input it fails fast with an error wrapping ErrCyclic.
func MinimizeChecked(f *FSM) (*FSM, error) {
	if !IsAcyclic(f) {
		return nil, errors.Wrap(ErrCyclic, "minimize")
	}
	return Minimize(f), nil
}

// IsAcyclic reports whether f contains no directed cycle. Iterative
// depth-first search; states on the current search path and finished states
// are tracked in bit sets.
func IsAcyclic(f *FSM) bool {
	n := uint(f.NumStates())
	done := bitset.New(n)
	onPath := bitset.New(n)

	type frame struct {
		s    int
		next int
	}

	for root := 0; root < f.NumStates(); root++ {
		if done.Test(uint(root)) {
			continue
		}
		stack := []frame{{s: root}}
		onPath.Set(uint(root))
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			links := f.OutLinks(top.s)
			if top.next < len(links) {
				dest := links[top.next].Dest
				top.next++
				if onPath.Test(uint(dest)) {
					return false
				}
				if !done.Test(uint(dest)) {
					onPath.Set(uint(dest))
					stack = append(stack, frame{s: dest})
				}
				continue
			}
			onPath.Clear(uint(top.s))
			done.Set(uint(top.s))
			stack = stack[:len(stack)-1]
		}
	}
	return true
}

// pushWeights re-weights every link with the cumulative sum of weights along
// the path taken to reach it from Init, link's own weight included. The
// traversal is a breadth-first worklist that re-enqueues a state on every
// arrival: when a state is reachable via multiple paths, later visits
// overwrite the weights of the links they touch, so the outcome for such
// links is last-visited-wins in traversal order. Non-terminating on cyclic
// input.
func pushWeights(f *FSM) *FSM {
	pushed := make([][]float64, f.NumStates())
	for s := 0; s < f.NumStates(); s++ {
		links := f.OutLinks(s)
		pushed[s] = make([]float64, len(links))
		for j, l := range links {
			pushed[s][j] = l.Weight
		}
	}

	type item struct {
		s   int
		acc float64
	}
	queue := []item{{s: Init}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		for j, l := range f.OutLinks(it.s) {
			cum := it.acc + l.Weight
			pushed[it.s][j] = cum
			queue = append(queue, item{s: l.Dest, acc: cum})
		}
	}

	r := New()
	m := remap(r, f, Init, Final)
	for s := 0; s < f.NumStates(); s++ {
		for j, l := range f.OutLinks(s) {
			r.AddLink(m[s], m[l.Dest], pushed[s][j])
		}
	}
	return r
}

// trieNode is one arena slot of the prefix tree built by leftMerge: the
// (emission index, label) key of the edge leading into it is implied by
// dest, the state the node stands for in the source automaton.
type trieNode struct {
	parent   int
	dest     int
	weight   float64
	children []int
}

// leftMerge builds a prefix tree over the (emission index, label) sequences
// reachable from Init and replays it into a fresh automaton. At each tree
// node, sibling edges sharing the same key are merged only when they also
// lead to the same destination state; since the key is a property of the
// destination, siblings merge exactly when their destinations coincide, and
// the merged edge carries the log-sum of the folded weights.
//
// The replay creates one state per distinct destination encountered (Final
// maps to the Final sentinel) and one link per distinct (src, dest) pair;
// duplicate links are suppressed, first writer wins. States never reached
// from Init are dropped. Non-terminating on cyclic input.
func leftMerge(f *FSM) *FSM {
	arena := []trieNode{{parent: -1, dest: Init, weight: LogZero}}
	queue := []int{0}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, l := range f.OutLinks(arena[n].dest) {
			child := -1
			for _, c := range arena[n].children {
				if arena[c].dest == l.Dest {
					child = c
					break
				}
			}
			if child >= 0 {
				arena[child].weight = LogAdd(arena[child].weight, l.Weight)
				continue
			}
			child = len(arena)
			arena = append(arena, trieNode{parent: n, dest: l.Dest, weight: l.Weight})
			arena[n].children = append(arena[n].children, child)
			queue = append(queue, child)
		}
	}

	r := New()
	mapped := make([]int, f.NumStates())
	for s := range mapped {
		mapped[s] = -1
	}
	mapped[Init] = Init
	mapped[Final] = Final

	linkSeen := make(map[[2]int]struct{})
	for i := 1; i < len(arena); i++ {
		nd := arena[i]
		if mapped[nd.dest] < 0 {
			mapped[nd.dest] = r.addState(f.ID(nd.dest), f.PdfIndex(nd.dest), f.LabelOf(nd.dest))
		}
		// the parent's slot precedes i in the arena, so its mapping exists
		key := [2]int{mapped[arena[nd.parent].dest], mapped[nd.dest]}
		if _, dup := linkSeen[key]; dup {
			continue
		}
		linkSeen[key] = struct{}{}
		r.AddLink(key[0], key[1], nd.weight)
	}
	return r
}
