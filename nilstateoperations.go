package fsm

import "github.com/bits-and-blooms/bitset"

// RemoveNilStates returns an automaton without the nil states of f: interior
// states carrying neither a label nor an emission index, pure routing nodes.
// Every non-nil state is kept (sentinels always). Starting from Init, the
// search follows links and accumulates weight across chains of consecutive
// nil states; when it reaches a non-nil state it emits one direct link from
// the current root carrying the accumulated weight plus the link's own, and
// that state becomes a root in turn with accumulation restarted at zero.
//
// Each (root, state) combination is visited at most once per root, which
// bounds the work; chains of nil states are fine as long as they terminate
// in a non-nil state or a sentinel. The total weight of every accepted
// sequence is preserved.
func RemoveNilStates(f *FSM) *FSM {
	r := New()
	mapped := make([]int, f.NumStates())
	for s := range mapped {
		mapped[s] = -1
	}
	mapped[Init] = Init
	mapped[Final] = Final
	for s := Final + 1; s < f.NumStates(); s++ {
		if !f.IsNil(s) {
			mapped[s] = r.addState(f.ID(s), f.PdfIndex(s), f.LabelOf(s))
		}
	}

	type item struct {
		s   int
		acc float64
	}

	rooted := bitset.New(uint(f.NumStates()))
	rooted.Set(Init)
	roots := []int{Init}
	for len(roots) > 0 {
		root := roots[0]
		roots = roots[1:]

		visited := bitset.New(uint(f.NumStates()))
		visited.Set(uint(root))
		stack := []item{{s: root}}
		for len(stack) > 0 {
			it := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, l := range f.OutLinks(it.s) {
				if mapped[l.Dest] < 0 {
					// nil state: carry the weight forward, emit nothing
					if !visited.Test(uint(l.Dest)) {
						visited.Set(uint(l.Dest))
						stack = append(stack, item{s: l.Dest, acc: it.acc + l.Weight})
					}
					continue
				}
				r.AddLink(mapped[root], mapped[l.Dest], it.acc+l.Weight)
				if !rooted.Test(uint(l.Dest)) {
					rooted.Set(uint(l.Dest))
					roots = append(roots, l.Dest)
				}
			}
		}
	}
	return r
}
