package fsm

// Compose splices sub-automata into host wherever a host state's label is a
// key of subs. For such a state s, the sub-automaton's body replaces s: its
// Init sentinel becomes a fresh unlabeled, non-emitting entry state that
// absorbs s's incoming host links, its Final sentinel becomes a fresh exit
// state labeled with s's label (and carrying s's emission index) that
// supplies s's outgoing host links, and the interior states and links are
// copied with unchanged weights. A host state whose label is not a key is
// copied unchanged and serves as both its own entry and exit. Host
// sentinels map directly to the target sentinels.
//
// Every host link is recreated from the exit of its source to the entry of
// its destination with unchanged weight: the host weight is the transition
// cost into and out of the spliced block, separate from the block's own
// internal costs. A sub-automaton keyed by several host states is copied
// afresh for each of them.
func Compose(subs map[Label]*FSM, host *FSM) *FSM {
	r := New()
	entry := make([]int, host.NumStates())
	exit := make([]int, host.NumStates())
	entry[Init], exit[Init] = Init, Init
	entry[Final], exit[Final] = Final, Final

	for s := Final + 1; s < host.NumStates(); s++ {
		sub, ok := subs[host.LabelOf(s)]
		if !ok || !host.IsLabeled(s) {
			c := r.addState(host.ID(s), host.PdfIndex(s), host.LabelOf(s))
			entry[s], exit[s] = c, c
			continue
		}
		in := r.AddState(NoPdf, NoLabel)
		out := r.AddState(host.PdfIndex(s), host.LabelOf(s))
		m := remap(r, sub, in, out)
		copyLinks(r, sub, m)
		entry[s], exit[s] = in, out
	}

	for s := 0; s < host.NumStates(); s++ {
		for _, l := range host.OutLinks(s) {
			r.AddLink(exit[s], entry[l.Dest], l.Weight)
		}
	}
	return r
}
