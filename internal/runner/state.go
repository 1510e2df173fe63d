package runner

import "fmt"

// State is a phase of one scan run.
type State int

const (
	Idle State = iota
	Starting
	Running
	Draining
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

var transitions = map[State][]State{
	Idle:      {Starting},
	Starting:  {Running, Failed},
	Running:   {Draining, Succeeded, Failed},
	Draining:  {Succeeded, Failed},
	Succeeded: {Idle},
	Failed:    {Idle},
}

// CanTransition reports whether the machine may move from one state to another.
func CanTransition(from, to State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// EventKind identifies what an Event carries.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventProgress
	EventWarning
	EventDiagnostic
)

// Event is delivered synchronously to the runner's observer.
type Event struct {
	RunID string
	Kind  EventKind

	// State is the new state of an EventStateChanged.
	State State
	// Percent and Elapsed are set on EventProgress.
	Percent int
	Elapsed string
	// Message is set on EventWarning and EventDiagnostic.
	Message string
}

// Observer receives runner events.
type Observer func(Event)
