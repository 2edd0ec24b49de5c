package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/seatplan"
)

type planService interface {
	Snapshot(ctx context.Context) (seatplan.Document, error)
	Replace(ctx context.Context, doc seatplan.Document) error
	AutoAssign(ctx context.Context, date string) (application.AutoAssignResult, error)
	SetAssignment(ctx context.Context, date, seatID, personID string) (seatplan.DayAssignments, error)
	ClearDay(ctx context.Context, date string) error
	Candidates(ctx context.Context, date, seatID string) ([]seatplan.Person, error)
	DaySheet(ctx context.Context, date string) ([]seatplan.SheetLine, error)
	Week(ctx context.Context, date string) (application.WeekPlan, error)
}

// PlanHandler serves the whole document and the per-day planning endpoints.
type PlanHandler struct {
	service      planService
	responder    responder
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewPlanHandler builds the handler. maxBodyBytes limits POST /api/data; zero
// or less disables the limit.
func NewPlanHandler(service planService, maxBodyBytes int64, logger *slog.Logger) *PlanHandler {
	base := defaultLogger(logger)
	return &PlanHandler{service: service, responder: newResponder(base), logger: base, maxBodyBytes: maxBodyBytes}
}

func (h *PlanHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PlanHandler", operation, attrs...)
}

func (h *PlanHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

// date validates the {date} path value and answers 422 when it is unusable.
func (h *PlanHandler) date(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	date := r.PathValue("date")
	if err := validateRequest(datePath{Date: date}); err != nil {
		h.log(r.Context(), operation, "date", date, "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "invalid date in path", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return "", false
	}
	return date, true
}

// GetData returns the whole document.
func (h *PlanHandler) GetData(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	logger := h.log(r.Context(), "GetData")
	doc, err := h.service.Snapshot(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "document read failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, doc)
}

// PostData replaces the whole document.
func (h *PlanHandler) PostData(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var doc seatplan.Document
	if err := decodeBody(r, &doc); err != nil {
		h.log(r.Context(), "PostData", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode document", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "PostData", "rooms", len(doc.Rooms), "seats", len(doc.Seats), "people", len(doc.People))
	err := h.service.Replace(r.Context(), doc)
	if failed(err) {
		logger.ErrorContext(r.Context(), "document replace failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "document replaced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true, Warning: saveWarning(err)})
}

// AutoAssign seats everyone present on the date who is not yet seated.
func (h *PlanHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	date, ok := h.date(w, r, "AutoAssign")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "AutoAssign", "date", date)
	result, err := h.service.AutoAssign(r.Context(), date)
	if failed(err) {
		logger.ErrorContext(r.Context(), "auto-assignment failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("assigned", len(result.Assignments), "unseated", len(result.Unseated)).InfoContext(r.Context(), "auto-assignment completed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, autoAssignResponse{
		Date:        result.Date,
		Assignments: dayAssignments(result.Assignments),
		Unseated:    result.Unseated,
		Warning:     saveWarning(err),
	})
}

// ClearDay removes every assignment of the date.
func (h *PlanHandler) ClearDay(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	date, ok := h.date(w, r, "ClearDay")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "ClearDay", "date", date)
	err := h.service.ClearDay(r.Context(), date)
	if failed(err) {
		logger.ErrorContext(r.Context(), "clearing day failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "day cleared")
	h.responder.writeApplied(r.Context(), w, err)
}

// AssignSeat sets or clears the occupant of one seat on the date.
func (h *PlanHandler) AssignSeat(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	date, ok := h.date(w, r, "AssignSeat")
	if !ok {
		return
	}
	seatID := r.PathValue("seatId")

	var req assignRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "AssignSeat", "date", date, "seat_id", seatID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode assignment", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	h.setAssignment(w, r, "AssignSeat", date, seatID, req.personID())
}

// UnassignSeat clears the occupant of one seat on the date.
func (h *PlanHandler) UnassignSeat(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	date, ok := h.date(w, r, "UnassignSeat")
	if !ok {
		return
	}

	h.setAssignment(w, r, "UnassignSeat", date, r.PathValue("seatId"), "")
}

func (h *PlanHandler) setAssignment(w http.ResponseWriter, r *http.Request, operation, date, seatID, personID string) {
	logger := h.log(r.Context(), operation, "date", date, "seat_id", seatID, "person_id", personID)
	day, err := h.service.SetAssignment(r.Context(), date, seatID, personID)
	if failed(err) {
		logger.ErrorContext(r.Context(), "assignment failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "assignment updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dayResponse{
		Date:        date,
		Assignments: dayAssignments(day),
		Warning:     saveWarning(err),
	})
}

// Candidates lists the people a selection for the seat should offer.
func (h *PlanHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	date, ok := h.date(w, r, "Candidates")
	if !ok {
		return
	}
	seatID := r.PathValue("seatId")

	logger := h.log(r.Context(), "Candidates", "date", date, "seat_id", seatID)
	people, err := h.service.Candidates(r.Context(), date, seatID)
	if err != nil {
		logger.ErrorContext(r.Context(), "candidate lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, candidatesResponse{Candidates: people})
}

// DaySheet returns the printable list of everyone present on the date.
func (h *PlanHandler) DaySheet(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	date, ok := h.date(w, r, "DaySheet")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "DaySheet", "date", date)
	lines, err := h.service.DaySheet(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "day sheet failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if lines == nil {
		lines = []seatplan.SheetLine{}
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, daySheetResponse{Date: date, Lines: lines})
}

// Week returns the Monday to Friday overview around the date.
func (h *PlanHandler) Week(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	date, ok := h.date(w, r, "Week")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Week", "date", date)
	plan, err := h.service.Week(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "week view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if plan.Rows == nil {
		plan.Rows = []seatplan.WeekRow{}
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, plan)
}

type assignRequest struct {
	PersonID *string `json:"personId"`
}

func (r assignRequest) personID() string {
	if r.PersonID == nil {
		return ""
	}
	return *r.PersonID
}

type successResponse struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

type autoAssignResponse struct {
	Date        string                  `json:"date"`
	Assignments seatplan.DayAssignments `json:"assignments"`
	Unseated    []seatplan.Person       `json:"unseated"`
	Warning     string                  `json:"warning,omitempty"`
}

type dayResponse struct {
	Date        string                  `json:"date"`
	Assignments seatplan.DayAssignments `json:"assignments"`
	Warning     string                  `json:"warning,omitempty"`
}

type candidatesResponse struct {
	Candidates []seatplan.Person `json:"candidates"`
}

type daySheetResponse struct {
	Date  string               `json:"date"`
	Lines []seatplan.SheetLine `json:"lines"`
}

// dayAssignments keeps empty days serialised as {} rather than null.
func dayAssignments(day seatplan.DayAssignments) seatplan.DayAssignments {
	if day == nil {
		return seatplan.DayAssignments{}
	}
	return day
}
