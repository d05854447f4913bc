package runner

import (
	"github.com/ezrec/asmsim/asm"
	"github.com/ezrec/asmsim/semantics"
	"github.com/ezrec/asmsim/sim"
)

// step parses and executes one line. prev, regular and branch are the
// versions of the updates.
func step(text string, tools *sim.Tools, prev, regular, branch sim.Key, resolve func(*semantics.Step)) (st *semantics.Step, err error) {
	line, err := asm.ParseLine(text)
	if err != nil {
		return
	}
	st = semantics.NewStep(&line, tools, prev, regular, branch)
	if resolve != nil {
		resolve(st)
	}
	err = semantics.Apply(st)
	return
}

// StepForward executes one line after state and returns the new state.
// A taken jump is followed when the line cannot fall through.
func StepForward(text string, state *sim.State) (next *sim.State, err error) {
	tools := state.Tools()
	key := tools.FreshKey()
	st, err := step(text, tools, state.HeadKey(), key, key, func(st *semantics.Step) {
		st.Resolve = state.ResolveBV
	})
	if err != nil {
		return
	}

	next = state.Copy()
	switch {
	case st.HasRegular:
		err = next.UpdateForward(st.Regular)
	case st.HasBranch:
		err = next.UpdateForward(st.Branch)
	default:
		next, err = nil, ErrHalted
	}
	return
}

// StepBackward executes one line before state and returns the new state.
func StepBackward(text string, state *sim.State) (prev *sim.State, err error) {
	tools := state.Tools()
	st, err := step(text, tools, tools.FreshKey(), state.TailKey(), state.TailKey(), nil)
	if err != nil {
		return
	}

	prev = state.Copy()
	switch {
	case st.HasRegular:
		err = prev.UpdateBackward(st.Regular)
	case st.HasBranch:
		err = prev.UpdateBackward(st.Branch)
	default:
		prev, err = nil, ErrHalted
	}
	return
}
