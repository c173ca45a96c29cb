package dispatch

// State is a phase of one user-initiated exchange
type State int

const (
	Idle State = iota
	Composing
	AwaitingResponse
	Settled
	Failed
)

var stateNames = map[State]string{
	Idle:             "idle",
	Composing:        "composing",
	AwaitingResponse: "awaiting_response",
	Settled:          "settled",
	Failed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Route is the outbound call an exchange was sent to
type Route string

const (
	RouteChat         Route = "chat"
	RouteFileAnalysis Route = "file_analysis"
)

// TransitionHook observes every state change. It runs outside the dispatcher lock
type TransitionHook func(from, to State)
