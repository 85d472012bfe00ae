package machine

type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StateCancelling State = "cancelling"
)

func (s State) String() string {
	return string(s)
}

// transitions lists the events each state reacts to. Everything else is ignored.
var transitions = map[State]map[EventType]bool{
	StateIdle: {
		EventSetValues:    true,
		EventStartAll:     true,
		EventPin:          true,
		EventUnpin:        true,
		EventSave:         true,
		EventLoadFromFile: true,
		EventSelectStory:  true,
	},
	StateRunning: {
		EventCancel:      true,
		eventRunProgress: true,
		eventRunFinished: true,
	},
	StateCancelling: {
		eventRunProgress: true,
		eventRunFinished: true,
	},
}

func (s State) Accepts(t EventType) bool {
	return transitions[s][t]
}
