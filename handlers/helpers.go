package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trunkcat/fixtures/apiclient"
	"github.com/trunkcat/fixtures/middleware"
	"github.com/trunkcat/fixtures/schedule"
	"github.com/trunkcat/fixtures/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		middleware.LoggerFromContext(r.Context()).Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	middleware.LoggerFromContext(r.Context()).Error("internal server error", slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func badGatewayResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusBadGateway, message)
}

func unavailableResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusServiceUnavailable, message)
}

// requiredParam reads a chi URL parameter that the route guarantees but
// that may still be blank.
func requiredParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return value, nil
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs services.ValidationErrors
	if errors.As(err, &validationErrs) {
		failedValidationResponse(w, r, validationErrs)
		return
	}

	// Ошибки бэкенда передаём клиенту как есть.
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		errorResponse(w, r, apiErr.Status, apiErr.Message)
		return
	}

	switch {
	case errors.Is(err, services.ErrStageNotFound),
		errors.Is(err, services.ErrStageItemNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, schedule.ErrMatchNotFound),
		errors.Is(err, schedule.ErrSectionNotFound):
		notFoundResponse(w, r, err.Error())

	// Конфликты состояния
	case errors.Is(err, services.ErrAlreadyCreating),
		errors.Is(err, services.ErrAlreadySaving),
		errors.Is(err, services.ErrTeamsLocked),
		errors.Is(err, schedule.ErrMatchAlreadySelected),
		errors.Is(err, schedule.ErrMatchLocked),
		errors.Is(err, schedule.ErrDialogBusy),
		errors.Is(err, schedule.ErrNoMatchSelected),
		errors.Is(err, schedule.ErrRoundsNotLoaded):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrUnknownStageType),
		errors.Is(err, services.ErrAssignmentNotReady),
		errors.Is(err, schedule.ErrInvalidStatusFilter),
		errors.Is(err, schedule.ErrInvalidSlot):
		badRequestResponse(w, r, err)

	case errors.Is(err, apiclient.ErrUnavailable):
		unavailableResponse(w, r, err.Error())
	case errors.Is(err, apiclient.ErrUnexpectedStatus),
		errors.Is(err, apiclient.ErrInvalidResponse):
		badGatewayResponse(w, r, services.GenericErrorMessage)
	case errors.Is(err, context.DeadlineExceeded):
		errorResponse(w, r, http.StatusGatewayTimeout, "the tournament API did not respond in time")

	default:
		serverErrorResponse(w, r, err)
	}
}
