package generation

import "time"

// ActionPhase is the lifecycle phase of a caller action.
type ActionPhase string

const (
	ActionIdle       ActionPhase = "idle"
	ActionInProgress ActionPhase = "in_progress"
	ActionResolved   ActionPhase = "resolved"
)

// ActionState tracks one caller action (e.g. "generate video"). It is a value
// type: transitions return a new state and never mutate the receiver.
type ActionState struct {
	capability Capability
	phase      ActionPhase
	startedAt  time.Time
	resolvedAt time.Time
	result     *Result
}

// NewActionState returns an idle action for the capability.
func NewActionState(c Capability) ActionState {
	return ActionState{capability: c, phase: ActionIdle}
}

// StartAction returns an action that is already in progress. Callers that
// own a single call, such as the domain, use it instead of Begin.
func StartAction(c Capability, now time.Time) ActionState {
	return ActionState{capability: c, phase: ActionInProgress, startedAt: now}
}

// Begin moves the action to in-progress. Starting an action that is already
// in progress fails, which is what disables re-submission.
func (s ActionState) Begin(now time.Time) (ActionState, error) {
	if s.phase == ActionInProgress {
		return s, ErrActionInProgress
	}
	return StartAction(s.capability, now), nil
}

// Resolve records the result of an in-progress action.
func (s ActionState) Resolve(result *Result, now time.Time) (ActionState, error) {
	if s.phase != ActionInProgress {
		return s, ErrActionNotStarted
	}
	return s.finish(result, now), nil
}

func (s ActionState) finish(result *Result, now time.Time) ActionState {
	s.phase = ActionResolved
	s.resolvedAt = now
	s.result = result
	return s
}

// Capability returns the capability of the action.
func (s ActionState) Capability() Capability { return s.capability }

// Phase returns the current phase.
func (s ActionState) Phase() ActionPhase { return s.phase }

// InProgress reports whether the action awaits its result.
func (s ActionState) InProgress() bool { return s.phase == ActionInProgress }

// Result returns the result of a resolved action, or nil.
func (s ActionState) Result() *Result { return s.result }

// Elapsed returns the time between Begin and Resolve, or zero if unresolved.
func (s ActionState) Elapsed() time.Duration {
	if s.phase != ActionResolved {
		return 0
	}
	return s.resolvedAt.Sub(s.startedAt)
}
