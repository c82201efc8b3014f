package fsm

import (
	"fmt"
	"math"
)

// Label is the symbol emitted when a state is entered. The empty string
// means the state carries no label.
type Label string

// NoLabel marks an unlabeled state.
const NoLabel Label = ""

// NoPdf marks a non-emitting state. Any other emission index is a reference
// into an external emission-probability table and must be nonnegative.
const NoPdf = -1

// Init and Final are the state indices of the two sentinel states. Every FSM
// has exactly one of each, created by New and fixed for the automaton's
// lifetime. Neither sentinel carries an emission index or a label.
const (
	Init  = 0
	Final = 1
)

// Link is a directed arc to Dest with a log-domain weight. The source state
// is implicit: links are stored on their source. Parallel links between the
// same pair of states are permitted until merged by Determinize.
type Link struct {
	Dest   int
	Weight float64
}

type state struct {
	// id is the numeric id the state carries. It starts equal to the state's
	// index within its owner but is distinct from it: operations that copy
	// states between automata preserve id while assigning a new index, and
	// two automata being merged may independently reuse the same id.
	id    int
	pdf   int
	label Label
}

// FSM represents a weighted automaton and owns all its states and links.
// States are integers and must be created using AddState; state Init is
// always the initial sentinel and state Final the final sentinel. Add links
// using AddLink. Iteration order over states and links is unspecified;
// algorithms must not rely on it for correctness.
//
// States and links are never deleted individually. Every operation in this
// package builds a new FSM and leaves its inputs untouched, so an FSM that
// is no longer needed is discarded wholesale.
type FSM struct {
	states []state
	out    [][]Link
	nLinks int
}

// New creates an automaton holding only the two sentinel states.
func New() *FSM {
	f := &FSM{}
	f.addState(Init, NoPdf, NoLabel)
	f.addState(Final, NoPdf, NoLabel)
	return f
}

func (f *FSM) addState(id, pdf int, label Label) int {
	f.states = append(f.states, state{id: id, pdf: pdf, label: label})
	f.out = append(f.out, nil)
	return len(f.states) - 1
}

// AddState creates a new non-sentinel state carrying the given emission
// index (NoPdf for non-emitting) and label (NoLabel for none) and returns
// its index. The carried id of a freshly created state equals its index.
func (f *FSM) AddState(pdf int, label Label) int {
	return f.addState(len(f.states), pdf, label)
}

// AddLink adds a directed arc from src to dest with a log-domain weight.
// Referencing an unknown state or passing a NaN weight is a caller bug and
// panics.
func (f *FSM) AddLink(src, dest int, weight float64) {
	if src < 0 || src >= len(f.states) {
		panic(fmt.Sprintf("fsm: link source %d is not a state of this automaton", src))
	}
	if dest < 0 || dest >= len(f.states) {
		panic(fmt.Sprintf("fsm: link destination %d is not a state of this automaton", dest))
	}
	if math.IsNaN(weight) {
		panic(fmt.Sprintf("fsm: NaN weight on link %d -> %d", src, dest))
	}
	f.out[src] = append(f.out[src], Link{Dest: dest, Weight: weight})
	f.nLinks++
}

// NumStates returns the number of states, sentinels included.
func (f *FSM) NumStates() int {
	return len(f.states)
}

// NumLinks returns the total number of links.
func (f *FSM) NumLinks() int {
	return f.nLinks
}

// OutLinks returns the outgoing links of a state. The returned slice is
// owned by the FSM and must not be mutated.
func (f *FSM) OutLinks(src int) []Link {
	return f.out[src]
}

// ID returns the numeric id carried by a state.
func (f *FSM) ID(s int) int {
	return f.states[s].id
}

// PdfIndex returns a state's emission index, or NoPdf if non-emitting.
func (f *FSM) PdfIndex(s int) int {
	return f.states[s].pdf
}

// LabelOf returns a state's label, or NoLabel.
func (f *FSM) LabelOf(s int) Label {
	return f.states[s].label
}

// IsSentinel reports whether s is the Init or Final sentinel.
func (f *FSM) IsSentinel(s int) bool {
	return s == Init || s == Final
}

// IsEmitting reports whether a state carries an emission index.
func (f *FSM) IsEmitting(s int) bool {
	return f.states[s].pdf != NoPdf
}

// IsLabeled reports whether a state carries a label.
func (f *FSM) IsLabeled(s int) bool {
	return f.states[s].label != NoLabel
}

// IsNil reports whether a state is a pure routing node: non-sentinel,
// unlabeled and non-emitting.
func (f *FSM) IsNil(s int) bool {
	return !f.IsSentinel(s) && !f.IsLabeled(s) && !f.IsEmitting(s)
}
