package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации
	ErrValidationFailed = errors.New("validation failed")

	// Повторная отправка, пока предыдущая ещё выполняется
	ErrAlreadyCreating = errors.New("a tournament is already being created")
	ErrAlreadySaving   = errors.New("team assignment is already being saved")

	// Ошибки, специфичные для сущностей
	ErrStageNotFound     = errors.New("stage not found")
	ErrStageItemNotFound = errors.New("stage item not found")
	ErrTeamNotFound      = errors.New("team not found")

	// Ошибки бизнес-правил
	ErrTeamsLocked        = errors.New("teams cannot be changed once rounds have been generated")
	ErrAssignmentNotReady = errors.New("team assignment has not been loaded")
	ErrUnknownStageType   = errors.New("unknown stage type")
)

// GenericErrorMessage is shown when a failure carries no message of its own.
const GenericErrorMessage = "Something went wrong!"

// SuccessMessage is shown after a mutation is confirmed by the backend.
const SuccessMessage = "Done!"
