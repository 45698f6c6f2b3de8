package entities

import (
	"time"

	apperrors "blaze/internal/shared_kernel/errors"
)

type ActionState string

const (
	ActionStateIdle                   ActionState = "idle"
	ActionStateAwaitingWalletApproval ActionState = "awaiting-wallet-approval"
	ActionStateBroadcasting           ActionState = "broadcasting"
	ActionStateConfirmed              ActionState = "confirmed"
	ActionStateCancelled              ActionState = "cancelled"
	ActionStateErrored                ActionState = "errored"
)

var actionTransitions = map[ActionState][]ActionState{
	ActionStateIdle:                   {ActionStateAwaitingWalletApproval},
	ActionStateAwaitingWalletApproval: {ActionStateBroadcasting, ActionStateCancelled, ActionStateErrored},
	ActionStateBroadcasting:           {ActionStateConfirmed, ActionStateErrored},
}

func (s ActionState) IsTerminal() bool {
	return s == ActionStateConfirmed || s == ActionStateCancelled || s == ActionStateErrored
}

func (s ActionState) CanTransitionTo(next ActionState) bool {
	for _, allowed := range actionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Action tracks one user-initiated contract call from descriptor to outcome.
type Action struct {
	ID        string      `json:"id"`
	Operation string      `json:"operation"`
	State     ActionState `json:"state"`
	TxID      string      `json:"txId,omitempty"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func NewAction(id, operation string, now time.Time) Action {
	return Action{
		ID:        id,
		Operation: operation,
		State:     ActionStateIdle,
		UpdatedAt: now,
	}
}

func (a *Action) Transition(next ActionState, now time.Time) *apperrors.AppError {
	if !a.State.CanTransitionTo(next) {
		return apperrors.NewConflict(
			"illegal_action_transition",
			"action cannot move to the requested state",
			map[string]any{"action_id": a.ID, "from": string(a.State), "to": string(next)},
		)
	}
	a.State = next
	a.UpdatedAt = now
	return nil
}

func (a *Action) Confirm(txID string, now time.Time) *apperrors.AppError {
	if appErr := a.Transition(ActionStateConfirmed, now); appErr != nil {
		return appErr
	}
	a.TxID = txID
	return nil
}

func (a *Action) Fail(reason string, now time.Time) *apperrors.AppError {
	if appErr := a.Transition(ActionStateErrored, now); appErr != nil {
		return appErr
	}
	a.Error = reason
	return nil
}
