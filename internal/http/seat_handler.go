package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/seatplan"
)

type seatService interface {
	AddSeat(ctx context.Context, input application.SeatInput) (seatplan.Seat, error)
	UpdateSeat(ctx context.Context, seatID string, patch seatplan.SeatPatch) (seatplan.Seat, error)
	ToggleSeatFeature(ctx context.Context, seatID, feature string) (seatplan.Seat, error)
	DeleteSeat(ctx context.Context, seatID string) error
}

type SeatHandler struct {
	service   seatService
	responder responder
	logger    *slog.Logger
}

func NewSeatHandler(service seatService, logger *slog.Logger) *SeatHandler {
	base := defaultLogger(logger)
	return &SeatHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SeatHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SeatHandler", operation, attrs...)
}

func (h *SeatHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req seatCreateRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode seat request", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create")
	seat, err := h.service.AddSeat(r.Context(), application.SeatInput{X: req.X, Y: req.Y, RoomID: req.RoomID})
	if failed(err) {
		logger.ErrorContext(r.Context(), "seat creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("seat_id", seat.ID).InfoContext(r.Context(), "seat created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, seatResponse{Seat: seat, Warning: saveWarning(err)})
}

func (h *SeatHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	seatID := r.PathValue("id")
	var req seatPatchRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Update", "seat_id", seatID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode seat update", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "seat_id", seatID)
	seat, err := h.service.UpdateSeat(r.Context(), seatID, req.toPatch())
	if failed(err) {
		logger.ErrorContext(r.Context(), "seat update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "seat updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, seatResponse{Seat: seat, Warning: saveWarning(err)})
}

func (h *SeatHandler) ToggleFeature(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	seatID := r.PathValue("id")
	feature := r.PathValue("feature")
	logger := h.log(r.Context(), "ToggleFeature", "seat_id", seatID, "feature", feature)
	if err := validateRequest(featurePath{Feature: feature}); err != nil {
		logger.ErrorContext(r.Context(), "invalid seat feature", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	seat, err := h.service.ToggleSeatFeature(r.Context(), seatID, feature)
	if failed(err) {
		logger.ErrorContext(r.Context(), "seat feature toggle failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("enabled", seat.HasFeature(feature)).InfoContext(r.Context(), "seat feature toggled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, seatResponse{Seat: seat, Warning: saveWarning(err)})
}

func (h *SeatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	seatID := r.PathValue("id")
	logger := h.log(r.Context(), "Delete", "seat_id", seatID)
	err := h.service.DeleteSeat(r.Context(), seatID)
	if failed(err) {
		logger.ErrorContext(r.Context(), "seat delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "seat deleted")
	h.responder.writeApplied(r.Context(), w, err)
}

type seatCreateRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	RoomID *string `json:"roomId"`
}

type seatPatchRequest struct {
	X      *float64       `json:"x"`
	Y      *float64       `json:"y"`
	RoomID optionalString `json:"roomId"`
}

func (r seatPatchRequest) toPatch() seatplan.SeatPatch {
	patch := seatplan.SeatPatch{X: r.X, Y: r.Y}
	if r.RoomID.Set {
		if r.RoomID.Value == nil {
			patch.DetachRoom = true
		} else {
			patch.RoomID = r.RoomID.Value
		}
	}
	return patch
}

// optionalString tells an absent member apart from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type seatResponse struct {
	Seat    seatplan.Seat `json:"seat"`
	Warning string        `json:"warning,omitempty"`
}
