package client

import (
	"fmt"

	imapkit "github.com/imapkit/imapkit"
)

// TransitionHook is called immediately after a successful state change.
type TransitionHook func(from, to imapkit.ConnState)

// stateMachine tracks a Session's connection state and the legal moves
// out of it. It carries no lock: the single-command-in-flight model
// (spec §5) means a Session, and therefore its state machine, is never
// touched from two goroutines at once, so a mutex would protect nothing
// that isn't already guaranteed by the calling convention.
type stateMachine struct {
	state       imapkit.ConnState
	transitions map[imapkit.ConnState][]imapkit.ConnState
	afterHooks  []TransitionHook
}

func newStateMachine(initial imapkit.ConnState) *stateMachine {
	return &stateMachine{
		state:       initial,
		transitions: defaultTransitions(),
	}
}

// defaultTransitions encodes the IMAP4rev1 connection state diagram
// (RFC 3501 §3): not-authenticated -> authenticated -> selected, with
// logout and failure paths back to (not) authenticated.
func defaultTransitions() map[imapkit.ConnState][]imapkit.ConnState {
	return map[imapkit.ConnState][]imapkit.ConnState{
		imapkit.StateUnconnected: {
			imapkit.StateConnected,
		},
		imapkit.StateConnected: {
			imapkit.StateAuthenticated,
			imapkit.StateUnconnected,
		},
		imapkit.StateAuthenticated: {
			imapkit.StateSelected,
			imapkit.StateUnconnected,
			imapkit.StateAuthenticated,
		},
		imapkit.StateSelected: {
			imapkit.StateAuthenticated,
			imapkit.StateUnconnected,
			imapkit.StateSelected,
		},
	}
}

func (m *stateMachine) State() imapkit.ConnState {
	return m.state
}

func (m *stateMachine) CanTransition(target imapkit.ConnState) bool {
	for _, s := range m.transitions[m.state] {
		if s == target {
			return true
		}
	}
	return false
}

func (m *stateMachine) Transition(target imapkit.ConnState) error {
	if !m.CanTransition(target) {
		return fmt.Errorf("imapkit: invalid state transition from %s to %s", m.state, target)
	}
	from := m.state
	m.state = target
	for _, h := range m.afterHooks {
		h(from, target)
	}
	return nil
}

func (m *stateMachine) RequireState(allowed ...imapkit.ConnState) error {
	for _, s := range allowed {
		if m.state == s {
			return nil
		}
	}
	return imapkit.NewStateError(fmt.Sprintf("command not allowed in %s state", m.state))
}

func (m *stateMachine) OnAfter(hook TransitionHook) {
	m.afterHooks = append(m.afterHooks, hook)
}
