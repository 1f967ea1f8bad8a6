package flow

import (
	"errors"
	"fmt"

	"github.com/cellworks/mesflow/pkg/api"
	"github.com/cellworks/mesflow/pkg/util"
)

type (
	// Transition is one declared, authorized move between two states
	Transition struct {
		From   api.State
		Action api.Action
		To     api.State
		Roles  util.Set[api.Role]
	}

	// Definition is the immutable description of one flow type: its states,
	// transitions, and the roles permitted to perform each transition. Built
	// at process start, read-only thereafter
	Definition struct {
		Type          api.FlowType
		Name          string
		RolloutStatus string
		Initial       api.State
		States        util.Set[api.State]
		Terminals     util.Set[api.State]
		Transitions   []Transition
	}
)

var (
	ErrInitialNotDeclared  = errors.New("initial state not declared")
	ErrUndeclaredState     = errors.New("transition references undeclared state")
	ErrTerminalHasOutgoing = errors.New("terminal state has outgoing transition")
	ErrUnreachableState    = errors.New("state unreachable from initial")
	ErrDuplicateTransition = errors.New("duplicate (fromState, action) pair")
)

// Find returns the transition matching the current state and action, or nil
// if no such transition is declared
func (d *Definition) Find(from api.State, action api.Action) *Transition {
	for i := range d.Transitions {
		t := &d.Transitions[i]
		if t.From == from && t.Action == action {
			return t
		}
	}
	return nil
}

// Authorize decides whether an action is legal for the acting role given the
// current state, returning the declared target state. A missing transition
// covers both "wrong state" and "unknown action"; the two are not
// distinguished to the caller
func (d *Definition) Authorize(
	state api.State, action api.Action, role api.Role,
) (api.State, *api.Error) {
	t := d.Find(state, action)
	if t == nil {
		return "", api.NewError(api.CodeNoSuchTransition,
			"action %q is not available from state %q", action, state)
	}
	if !t.Roles.Contains(role) {
		return "", api.NewError(api.CodeRoleNotPermitted,
			"role %q may not perform %q", role, action)
	}
	return t.To, nil
}

// AllowedActions enumerates the actions the role may currently perform, in
// table declaration order. A UI can render its action set from this instead
// of calling each handler speculatively
func (d *Definition) AllowedActions(
	state api.State, role api.Role,
) []api.Action {
	var actions []api.Action
	for _, t := range d.Transitions {
		if t.From == state && t.Roles.Contains(role) {
			actions = append(actions, t.Action)
		}
	}
	return actions
}

// IsTerminal returns true if the state has no outgoing transitions
func (d *Definition) IsTerminal(state api.State) bool {
	return d.Terminals.Contains(state)
}

// Validate checks the structural invariants of the definition: the initial
// state is declared, every transition references declared states, terminal
// states have no outgoing transitions, every state is reachable from the
// initial state, and no (fromState, action) pair is declared twice
func (d *Definition) Validate() error {
	if !d.States.Contains(d.Initial) {
		return fmt.Errorf("%w: %s/%s", ErrInitialNotDeclared, d.Type, d.Initial)
	}

	seen := util.Set[string]{}
	for _, t := range d.Transitions {
		if !d.States.Contains(t.From) || !d.States.Contains(t.To) {
			return fmt.Errorf("%w: %s/%s -> %s",
				ErrUndeclaredState, d.Type, t.From, t.To)
		}
		if d.Terminals.Contains(t.From) {
			return fmt.Errorf("%w: %s/%s",
				ErrTerminalHasOutgoing, d.Type, t.From)
		}
		key := string(t.From) + "\x00" + string(t.Action)
		if seen.Contains(key) {
			return fmt.Errorf("%w: %s/%s %s",
				ErrDuplicateTransition, d.Type, t.From, t.Action)
		}
		seen.Add(key)
	}

	reached := util.SetOf(d.Initial)
	frontier := []api.State{d.Initial}
	for len(frontier) > 0 {
		from := frontier[0]
		frontier = frontier[1:]
		for _, t := range d.Transitions {
			if t.From != from || reached.Contains(t.To) {
				continue
			}
			reached.Add(t.To)
			frontier = append(frontier, t.To)
		}
	}
	for state := range d.States {
		if !reached.Contains(state) {
			return fmt.Errorf("%w: %s/%s", ErrUnreachableState, d.Type, state)
		}
	}

	return nil
}
