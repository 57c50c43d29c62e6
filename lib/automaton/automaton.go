package automaton

// CompiledAutomaton is a Transitions table flattened for lookup and bound
// to the State variable it advances in place.
type CompiledAutomaton struct {
	state *State
	edges map[interface{}]map[State]State
}

// Compile flattens transitions into a CompiledAutomaton bound to
// statePointer: a later call to Transition mutates *statePointer
// directly rather than returning a value the caller must remember to
// store. Compile panics if two transitions for the same key both claim
// the same origin state — an ambiguous table is a programming error in
// the caller, not a runtime condition to recover from.
func Compile(statePointer *State, transitions Transitions) CompiledAutomaton {
	edges := make(map[interface{}]map[State]State, len(transitions))
	for key, ts := range transitions {
		byOrigin := make(map[State]State, len(ts))
		for _, t := range ts {
			for _, at := range t.At {
				if _, exists := byOrigin[at]; exists {
					panic(AmbiguousTransitions)
				}
				byOrigin[at] = t.To
			}
		}
		edges[key] = byOrigin
	}
	return CompiledAutomaton{state: statePointer, edges: edges}
}

// Transition advances the bound state along key, given its current value
// is from. It reports BadTransitionKey if key was never compiled and
// BadTransitionState if key is defined but not from the current state;
// otherwise it mutates the bound state to the target and returns it.
func (c CompiledAutomaton) Transition(key interface{}, from State) (State, error) {
	byOrigin, ok := c.edges[key]
	if !ok {
		return NoState, BadTransitionKey
	}
	to, ok := byOrigin[from]
	if !ok {
		return NoState, BadTransitionState
	}
	*c.state = to
	return to, nil
}
