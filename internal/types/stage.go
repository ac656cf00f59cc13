package types

import "fmt"

// Stage is the local lifecycle state of a transcription job.
//
// finalizing is an internal guard stage: the poller compare-and-sets
// processing -> finalizing before materializing a completed remote result, so
// a second pass observing the same remote completion cannot reprocess it.
// Status responses report finalizing as processing.
type Stage string

const (
	StagePending    Stage = "pending"
	StageProcessing Stage = "processing"
	StageFinalizing Stage = "finalizing"
	StageCompleted  Stage = "completed"
	StageFailed     Stage = "failed"
)

// ActiveStages are the stages that count against the one-job-per-audio limit.
var ActiveStages = []Stage{StagePending, StageProcessing, StageFinalizing}

func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

func (s Stage) Active() bool {
	return s == StagePending || s == StageProcessing || s == StageFinalizing
}

// Public maps internal stages onto the four externally visible ones.
func (s Stage) Public() Stage {
	if s == StageFinalizing {
		return StageProcessing
	}
	return s
}

type StageEvent string

const (
	EventEnqueueOK         StageEvent = "enqueue_ok"
	EventEnqueueFailed     StageEvent = "enqueue_failed"
	EventRemoteProgress    StageEvent = "remote_progress"
	EventRemoteCompleted   StageEvent = "remote_completed"
	EventRemoteFailed      StageEvent = "remote_failed"
	EventMaterializeOK     StageEvent = "materialize_ok"
	EventMaterializeFailed StageEvent = "materialize_failed"
	EventTimeout           StageEvent = "timeout"
)

var stageTransitions = map[Stage]map[StageEvent]Stage{
	StagePending: {
		EventEnqueueOK:     StageProcessing,
		EventEnqueueFailed: StageFailed,
	},
	StageProcessing: {
		EventRemoteProgress:  StageProcessing,
		EventRemoteCompleted: StageFinalizing,
		EventRemoteFailed:    StageFailed,
		EventTimeout:         StageFailed,
	},
	StageFinalizing: {
		EventMaterializeOK:     StageCompleted,
		EventMaterializeFailed: StageFailed,
	},
}

// NextStage is the single transition function for job stages. Every stage
// write in the orchestrator goes through it; terminal stages accept no event.
func NextStage(current Stage, event StageEvent) (Stage, error) {
	events, ok := stageTransitions[current]
	if !ok {
		return "", fmt.Errorf("stage %q accepts no events", current)
	}
	next, ok := events[event]
	if !ok {
		return "", fmt.Errorf("invalid transition: stage %q, event %q", current, event)
	}
	return next, nil
}
