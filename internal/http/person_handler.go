package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/seatplan"
)

type personService interface {
	AddPerson(ctx context.Context, name string) (seatplan.Person, error)
	RenamePerson(ctx context.Context, personID, name string) (seatplan.Person, error)
	SetPersonDay(ctx context.Context, personID, day string, present bool) (seatplan.Person, error)
	DeletePerson(ctx context.Context, personID string) error
}

type PersonHandler struct {
	service   personService
	responder responder
	logger    *slog.Logger
}

func NewPersonHandler(service personService, logger *slog.Logger) *PersonHandler {
	base := defaultLogger(logger)
	return &PersonHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PersonHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PersonHandler", operation, attrs...)
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req personRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode person request", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create")
	if err := validateRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "invalid person request", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	person, err := h.service.AddPerson(r.Context(), req.Name)
	if failed(err) {
		logger.ErrorContext(r.Context(), "person creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("person_id", person.ID).InfoContext(r.Context(), "person created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, personResponse{Person: person, Warning: saveWarning(err)})
}

func (h *PersonHandler) Rename(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	personID := r.PathValue("id")
	var req personRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Rename", "person_id", personID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode person update", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Rename", "person_id", personID)
	if err := validateRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "invalid person update", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	person, err := h.service.RenamePerson(r.Context(), personID, req.Name)
	if failed(err) {
		logger.ErrorContext(r.Context(), "person rename failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "person renamed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, personResponse{Person: person, Warning: saveWarning(err)})
}

func (h *PersonHandler) SetDay(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	personID := r.PathValue("id")
	day := r.PathValue("day")
	var req personDayRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "SetDay", "person_id", personID, "day", day, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode attendance", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "SetDay", "person_id", personID, "day", day)
	if err := validateRequest(dayPath{Day: day}); err != nil {
		logger.ErrorContext(r.Context(), "invalid weekday", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if err := validateRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "invalid attendance", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	person, err := h.service.SetPersonDay(r.Context(), personID, day, *req.Present)
	if failed(err) {
		logger.ErrorContext(r.Context(), "attendance update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("present", *req.Present).InfoContext(r.Context(), "attendance updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, personResponse{Person: person, Warning: saveWarning(err)})
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	personID := r.PathValue("id")
	logger := h.log(r.Context(), "Delete", "person_id", personID)
	err := h.service.DeletePerson(r.Context(), personID)
	if failed(err) {
		logger.ErrorContext(r.Context(), "person delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "person deleted")
	h.responder.writeApplied(r.Context(), w, err)
}

type personRequest struct {
	Name string `json:"name" validate:"required"`
}

type personDayRequest struct {
	Present *bool `json:"present" validate:"required"`
}

type personResponse struct {
	Person  seatplan.Person `json:"person"`
	Warning string          `json:"warning,omitempty"`
}
