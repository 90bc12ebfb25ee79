package session

// State is the session controller's current phase. Paused is not a phase:
// it is an orthogonal flag that gates triggers and is reported through
// status updates only.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateProcessing
	StateTextReady
	StateImproving
	StateTyping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRecording:
		return "Recording"
	case StateProcessing:
		return "Processing"
	case StateTextReady:
		return "Text Ready"
	case StateImproving:
		return "Improving"
	case StateTyping:
		return "Typing"
	default:
		return "Unknown"
	}
}

// Trigger is an external event delivered by the hotkey source.
type Trigger int

const (
	TriggerRecord Trigger = iota
	TriggerType
	TriggerImprove
	TriggerPause
)

func (t Trigger) String() string {
	switch t {
	case TriggerRecord:
		return "record-toggle"
	case TriggerType:
		return "confirm-type"
	case TriggerImprove:
		return "improve-text"
	case TriggerPause:
		return "pause-toggle"
	default:
		return "unknown"
	}
}
