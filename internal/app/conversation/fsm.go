package conversation

import "searchbot/internal/app/statemachine"

const (
	StateMainMenu         statemachine.State = "MainMenu"
	StateSearch           statemachine.State = "Search"
	StateViewingResults   statemachine.State = "ViewingResults"
	StateFiltering        statemachine.State = "Filtering"
	StateSetPriceAlert    statemachine.State = "SetPriceAlert"
	StateSetFrequency     statemachine.State = "SetFrequency"
	StateViewTrackedItems statemachine.State = "ViewTrackedItems"
	StateEditTrackedItem  statemachine.State = "EditTrackedItem"
)

const (
	EventStart          statemachine.Event = "Start"
	EventShowMenu       statemachine.Event = "ShowMenu"
	EventAskSearchTerm  statemachine.Event = "AskSearchTerm"
	EventShowResults    statemachine.Event = "ShowResults"
	EventAskFilter      statemachine.Event = "AskFilter"
	EventAskAlert       statemachine.Event = "AskAlert"
	EventAskFrequency   statemachine.Event = "AskFrequency"
	EventShowTracked    statemachine.Event = "ShowTracked"
	EventEditTracked    statemachine.Event = "EditTracked"
	EventStay           statemachine.Event = statemachine.EventIdle
)

// States where main menu buttons are handled.
var menuStates = []statemachine.State{
	StateMainMenu,
	StateSetFrequency,
	StateViewTrackedItems,
}

var allStates = []statemachine.State{
	statemachine.StateIdle,
	StateMainMenu,
	StateSearch,
	StateViewingResults,
	StateFiltering,
	StateSetPriceAlert,
	StateSetFrequency,
	StateViewTrackedItems,
	StateEditTrackedItem,
}

func NewFsm() statemachine.StateMachine {
	transitions := statemachine.TransitionsList{
		EventStart: {
			From: allStates,
			To:   StateMainMenu,
		},

		EventShowMenu: {
			From: allStates,
			To:   StateMainMenu,
		},

		EventAskSearchTerm: {
			From: append([]statemachine.State{StateViewingResults}, menuStates...),
			To:   StateSearch,
		},

		EventShowResults: {
			From: []statemachine.State{
				StateSearch,
				StateViewingResults,
				StateFiltering,
			},
			To: StateViewingResults,
		},

		EventAskFilter: {
			From: []statemachine.State{
				StateViewingResults,
			},
			To: StateFiltering,
		},

		EventAskAlert: {
			From: menuStates,
			To:   StateSetPriceAlert,
		},

		EventAskFrequency: {
			From: menuStates,
			To:   StateSetFrequency,
		},

		EventShowTracked: {
			From: append([]statemachine.State{StateEditTrackedItem}, menuStates...),
			To:   StateViewTrackedItems,
		},

		EventEditTracked: {
			From: []statemachine.State{
				StateViewTrackedItems,
			},
			To: StateEditTrackedItem,
		},
	}

	return statemachine.NewFSM(statemachine.StateIdle, transitions)
}
