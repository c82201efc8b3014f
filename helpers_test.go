package fsm

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// paths enumerates every Init-to-Final path of an acyclic automaton and
// returns the accepted label sequences (labels joined by spaces) with their
// total log-domain weight; paths sharing a sequence are log-added.
func paths(f *FSM) map[string]float64 {
	out := make(map[string]float64)
	var walk func(s int, labels []string, acc float64)
	walk = func(s int, labels []string, acc float64) {
		if s == Final {
			key := strings.Join(labels, " ")
			if w, ok := out[key]; ok {
				out[key] = LogAdd(w, acc)
			} else {
				out[key] = acc
			}
			return
		}
		for _, l := range f.OutLinks(s) {
			next := labels
			if f.IsLabeled(l.Dest) {
				next = append(labels[:len(labels):len(labels)], string(f.LabelOf(l.Dest)))
			}
			walk(l.Dest, next, acc+l.Weight)
		}
	}
	walk(Init, nil, 0)
	return out
}

func assertSamePaths(t *testing.T, want, got *FSM) {
	t.Helper()
	wp, gp := paths(want), paths(got)
	assert.Len(t, gp, len(wp))
	for seq, w := range wp {
		g, ok := gp[seq]
		if assert.True(t, ok, "missing sequence %q", seq) {
			assert.InDelta(t, w, g, 1e-9, "weight of %q", seq)
		}
	}
}

type linkTriple struct {
	src, dest int
	weight    float64
}

func sortedLinks(f *FSM) []linkTriple {
	var ls []linkTriple
	for s := 0; s < f.NumStates(); s++ {
		for _, l := range f.OutLinks(s) {
			ls = append(ls, linkTriple{src: s, dest: l.Dest, weight: l.Weight})
		}
	}
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].src != ls[j].src {
			return ls[i].src < ls[j].src
		}
		if ls[i].dest != ls[j].dest {
			return ls[i].dest < ls[j].dest
		}
		return ls[i].weight < ls[j].weight
	})
	return ls
}

// assertSameFSM compares two automata index-wise: same states in the same
// slots, same link multiset within tolerance.
func assertSameFSM(t *testing.T, want, got *FSM) {
	t.Helper()
	if !assert.Equal(t, want.NumStates(), got.NumStates()) {
		return
	}
	for s := 0; s < want.NumStates(); s++ {
		assert.Equal(t, want.ID(s), got.ID(s), "id of state %d", s)
		assert.Equal(t, want.PdfIndex(s), got.PdfIndex(s), "pdf of state %d", s)
		assert.Equal(t, want.LabelOf(s), got.LabelOf(s), "label of state %d", s)
	}
	wl, gl := sortedLinks(want), sortedLinks(got)
	if !assert.Equal(t, len(wl), len(gl)) {
		return
	}
	for i := range wl {
		assert.Equal(t, wl[i].src, gl[i].src)
		assert.Equal(t, wl[i].dest, gl[i].dest)
		assert.InDelta(t, wl[i].weight, gl[i].weight, 1e-9)
	}
}

// assertIsomorphicByID compares two automata through the carried state ids,
// ignoring state ordering. Both automata must have unique ids, which holds
// for any automaton built here from a single source.
func assertIsomorphicByID(t *testing.T, want, got *FSM) {
	t.Helper()
	type info struct {
		pdf   int
		label Label
	}
	states := func(f *FSM) map[int]info {
		m := make(map[int]info, f.NumStates())
		for s := 0; s < f.NumStates(); s++ {
			m[f.ID(s)] = info{pdf: f.PdfIndex(s), label: f.LabelOf(s)}
		}
		return m
	}
	links := func(f *FSM) []linkTriple {
		var ls []linkTriple
		for s := 0; s < f.NumStates(); s++ {
			for _, l := range f.OutLinks(s) {
				ls = append(ls, linkTriple{src: f.ID(s), dest: f.ID(l.Dest), weight: l.Weight})
			}
		}
		sort.Slice(ls, func(i, j int) bool {
			if ls[i].src != ls[j].src {
				return ls[i].src < ls[j].src
			}
			if ls[i].dest != ls[j].dest {
				return ls[i].dest < ls[j].dest
			}
			return ls[i].weight < ls[j].weight
		})
		return ls
	}
	assert.Equal(t, states(want), states(got))
	wl, gl := links(want), links(got)
	if !assert.Equal(t, len(wl), len(gl)) {
		return
	}
	for i := range wl {
		assert.Equal(t, wl[i].src, gl[i].src)
		assert.Equal(t, wl[i].dest, gl[i].dest)
		assert.InDelta(t, wl[i].weight, gl[i].weight, 1e-9)
	}
}

// snapshot records an automaton's observable content so purity checks can
// verify an operation left its input untouched.
func snapshot(f *FSM) ([]linkTriple, int) {
	return sortedLinks(f), f.NumStates()
}

func assertUnchanged(t *testing.T, f *FSM, links []linkTriple, numStates int) {
	t.Helper()
	assert.Equal(t, numStates, f.NumStates())
	assert.Equal(t, links, sortedLinks(f))
}
