package schedule

import "errors"

var (
	ErrMatchAlreadySelected = errors.New("another match is already selected")
	ErrNoMatchSelected      = errors.New("no match is selected")
	ErrMatchNotFound        = errors.New("match not found in the loaded rounds")
	ErrMatchLocked          = errors.New("match has ended and its score can no longer be edited")
	ErrDialogBusy           = errors.New("a score submission is already in progress")
	ErrRoundsNotLoaded      = errors.New("rounds have not been loaded")
	ErrSectionNotFound      = errors.New("stage item not found in the schedule")
	ErrInvalidStatusFilter  = errors.New("invalid status filter")
	ErrInvalidSlot          = errors.New("team slot must be 1 or 2")
)
