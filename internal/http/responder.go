package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/seat-planner/internal/application"
)

var (
	errBadRequestBody  = errors.New("Ungültiges Anfrageformat.")
	errRequestTooLarge = errors.New("Die Anfrage ist zu groß.")
)

const (
	errNotLoadedMessage = "Die Planungsdaten sind noch nicht geladen."
	// saveWarningMessage accompanies a result whose change could not be persisted.
	saveWarningMessage = "Die Änderung wurde übernommen, konnte aber nicht gespeichert werden."
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: localizedStatusMessage(http.StatusNotFound)})
	case errors.Is(err, application.ErrNotLoaded):
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{
			ErrorCode: "NOT_LOADED",
			Message:   errNotLoadedMessage,
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: localizedStatusMessage(http.StatusUnprocessableEntity),
				Errors:  localizeValidationErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: localizedStatusMessage(http.StatusInternalServerError)})
	}
}

// writeApplied answers a change without a result body: 204, or 200 with the
// warning when the change was not saved.
func (r responder) writeApplied(ctx context.Context, w http.ResponseWriter, err error) {
	if warning := saveWarning(err); warning != "" {
		r.writeJSON(ctx, w, http.StatusOK, warningResponse{Warning: warning})
		return
	}
	r.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (r responder) writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	status, public := bodyErrorStatus(err)
	r.writeError(ctx, w, status, public)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// failed reports whether err should abort the response. A failed save does
// not: the change is live and the client only gets a warning.
func failed(err error) bool {
	return err != nil && !errors.Is(err, application.ErrSaveFailed)
}

func saveWarning(err error) string {
	if errors.Is(err, application.ErrSaveFailed) {
		return saveWarningMessage
	}
	return ""
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Die Anfrage ist ungültig."
	case http.StatusNotFound:
		return "Die angeforderte Ressource wurde nicht gefunden."
	case http.StatusRequestEntityTooLarge:
		return errRequestTooLarge.Error()
	case http.StatusUnprocessableEntity:
		return "Die Eingaben sind fehlerhaft."
	case http.StatusServiceUnavailable:
		return errNotLoadedMessage
	default:
		return "Auf dem Server ist ein Fehler aufgetreten."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "date is required":
		return "Das Datum ist erforderlich."
	case "date must use the YYYY-MM-DD format":
		return "Das Datum muss im Format JJJJ-MM-TT angegeben werden."
	case "name is required", "name must not be empty":
		return "Der Name ist erforderlich."
	case "seat count is required":
		return "Die Platzanzahl ist erforderlich."
	case "seat count must be a number":
		return "Die Platzanzahl muss eine Zahl sein."
	case "seat count must not be negative":
		return "Die Platzanzahl darf nicht negativ sein."
	case "room does not exist":
		return "Der angegebene Raum existiert nicht."
	case "unknown seat feature":
		return "Unbekannte Platzausstattung."
	case "day must be one of Mo, Di, Mi, Do, Fr":
		return "Der Tag muss einer von Mo, Di, Mi, Do, Fr sein."
	case "present is required":
		return "Die Anwesenheit ist erforderlich."
	default:
		if field, ok := strings.CutSuffix(message, " is required"); ok {
			return "Das Feld " + field + " ist erforderlich."
		}
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

type warningResponse struct {
	Warning string `json:"warning"`
}
