package statemachine

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

var ErrUnknownEvent error = errors.New("unknown event")
var ErrUnsupportedTransition error = errors.New("unsupported transition from current state")

type State string
type Event string

const StateIdle State = "Idle"
const EventIdle Event = "Idle"

type Transition struct {
	From []State
	To   State
}

type TransitionsList map[Event]Transition

type StateMachine struct {
	initState   State
	machine     *fsm.FSM
	Transitions TransitionsList
}

// Create new StateMachine instance.
func NewFSM(initState State, transitions TransitionsList) StateMachine {
	events := make(fsm.Events, 0, len(transitions))

	for event, transition := range transitions {
		if event == EventIdle || len(transition.From) == 0 {
			continue
		}

		src := make([]string, 0, len(transition.From))
		for _, state := range transition.From {
			src = append(src, string(state))
		}

		events = append(events, fsm.EventDesc{
			Name: string(event),
			Src:  src,
			Dst:  string(transition.To),
		})
	}

	return StateMachine{
		initState:   initState,
		machine:     fsm.NewFSM(string(initState), events, fsm.Callbacks{}),
		Transitions: transitions,
	}
}

// Get current state name.
func (sm *StateMachine) GetCurrentState() State {
	if sm.machine == nil || sm.machine.Current() == "" {
		return StateIdle
	}

	return State(sm.machine.Current())
}

// Check if state machine is one of states.
func (sm *StateMachine) IsInOneOfStates(states []State) bool {
	currentState := sm.GetCurrentState()

	for _, state := range states {
		if currentState == state {
			return true
		}
	}

	return false
}

// Trigger an event to make a transition to state.
func (sm *StateMachine) TriggerEvent(event Event) (State, error) {
	if event == EventIdle {
		return sm.GetCurrentState(), nil
	}

	err := sm.machine.Event(context.Background(), string(event))

	var noTransition fsm.NoTransitionError
	var unknownEvent fsm.UnknownEventError
	var invalidEvent fsm.InvalidEventError

	switch {
	case err == nil, errors.As(err, &noTransition):
		return sm.GetCurrentState(), nil
	case errors.As(err, &unknownEvent):
		return sm.GetCurrentState(), ErrUnknownEvent
	case errors.As(err, &invalidEvent):
		return sm.GetCurrentState(), ErrUnsupportedTransition
	}

	return sm.GetCurrentState(), err
}

// Check if event can be triggered from the current state.
func (sm *StateMachine) Can(event Event) bool {
	if event == EventIdle {
		return true
	}

	return sm.machine.Can(string(event))
}

// Reset state machine to it's initial state.
func (sm *StateMachine) Reset() {
	sm.machine.SetState(string(sm.initState))
}

// Check if state machine is initialized.
func (sm *StateMachine) IsInitialized() bool {
	return sm.machine != nil
}
