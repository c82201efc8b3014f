package fsm

// remap copies every non-sentinel state of src into dst, preserving carried
// ids, emission indices and labels, and returns a table from src state index
// to dst state index. The src sentinels map to initTo and finalTo, which
// must already exist in dst. Links are not copied; each caller recreates
// them through the returned table.
func remap(dst, src *FSM, initTo, finalTo int) []int {
	m := make([]int, src.NumStates())
	m[Init] = initTo
	m[Final] = finalTo
	for s := Final + 1; s < src.NumStates(); s++ {
		m[s] = dst.addState(src.ID(s), src.PdfIndex(s), src.LabelOf(s))
	}
	return m
}

func copyLinks(dst, src *FSM, m []int) {
	for s := 0; s < src.NumStates(); s++ {
		for _, l := range src.OutLinks(s) {
			dst.AddLink(m[s], m[l.Dest], l.Weight)
		}
	}
}

// Transpose returns a new automaton accepting the reverse of every sequence
// accepted by f: the sentinel roles are swapped and every link (src, dest, w)
// is recreated as (dest, src, w). Non-sentinel states keep their carried id,
// so a transposed automaton can be matched back against the original by id.
func Transpose(f *FSM) *FSM {
	r := New()
	m := remap(r, f, Final, Init)
	for s := 0; s < f.NumStates(); s++ {
		for _, l := range f.OutLinks(s) {
			r.AddLink(m[l.Dest], m[s], l.Weight)
		}
	}
	return r
}

// Union returns a new automaton accepting any sequence accepted by any
// input, at its original weight; no renormalization is applied. All inputs
// share the target's sentinels. Commutative over acceptance (not over
// internal layout) and associative; with more than two inputs it is
// equivalent to a left fold.
func Union(fs ...*FSM) *FSM {
	r := New()
	for _, f := range fs {
		m := remap(r, f, Init, Final)
		copyLinks(r, f, m)
	}
	return r
}

// Concat returns a new automaton accepting the concatenations of one
// sequence from each input, in order. Between consecutive inputs a single
// unlabeled, non-emitting splice state is created; the earlier input's Final
// and the later input's Init both map onto it, forcing every accepted
// sequence through the splice. Associative, not commutative.
func Concat(fs ...*FSM) *FSM {
	if len(fs) == 0 {
		panic("fsm: Concat requires at least one input")
	}
	r := New()
	entry := Init
	for i, f := range fs {
		exit := Final
		if i < len(fs)-1 {
			exit = r.AddState(NoPdf, NoLabel)
		}
		m := remap(r, f, entry, exit)
		copyLinks(r, f, m)
		entry = exit
	}
	return r
}

// Normalize returns a copy of f in which every state with at least one
// outgoing link has its outgoing weights rescaled to log-sum to zero.
// States with no outgoing links are left untouched; in particular an empty
// automaton passes through unchanged.
func Normalize(f *FSM) *FSM {
	r := New()
	m := remap(r, f, Init, Final)
	for s := 0; s < f.NumStates(); s++ {
		total := LogZero
		for _, l := range f.OutLinks(s) {
			total = LogAdd(total, l.Weight)
		}
		for _, l := range f.OutLinks(s) {
			r.AddLink(m[s], m[l.Dest], l.Weight-total)
		}
	}
	return r
}

// Determinize merges parallel links: the result has at most one link per
// (src, dest) pair, weighted with the log-sum of all the pair's original
// weights. Idempotent.
//
// This is arc coalescing only, not subset-construction determinization over
// labels; two distinct states reachable under the same label stay distinct.
// Callers needing label-level determinism must first merge equivalent
// states, e.g. via Minimize.
func Determinize(f *FSM) *FSM {
	r := New()
	m := remap(r, f, Init, Final)
	for s := 0; s < f.NumStates(); s++ {
		var order []int
		acc := make(map[int]float64)
		for _, l := range f.OutLinks(s) {
			w, seen := acc[l.Dest]
			if !seen {
				w = LogZero
				order = append(order, l.Dest)
			}
			acc[l.Dest] = LogAdd(w, l.Weight)
		}
		for _, dest := range order {
			r.AddLink(m[s], m[dest], acc[dest])
		}
	}
	return r
}
