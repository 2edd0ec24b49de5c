package http

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/seat-planner/internal/application"
	"github.com/example/seat-planner/internal/seatplan"
)

type roomService interface {
	AddRoom(ctx context.Context, name string) (seatplan.Room, error)
	UpdateRoom(ctx context.Context, roomID string, patch seatplan.RoomPatch) (seatplan.Room, error)
	SetRoomSeatCount(ctx context.Context, roomID string, count int) ([]seatplan.Seat, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req roomCreateRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create")
	if err := validateRequest(req); err != nil {
		logger.ErrorContext(r.Context(), "invalid room request", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	room, err := h.service.AddRoom(r.Context(), req.Name)
	if failed(err) {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: room, Warning: saveWarning(err)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := r.PathValue("id")
	var req roomPatchRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Update", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "room_id", roomID)
	room, err := h.service.UpdateRoom(r.Context(), roomID, req.toPatch())
	if failed(err) {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: room, Warning: saveWarning(err)})
}

func (h *RoomHandler) SetSeatCount(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := r.PathValue("id")
	var req seatCountRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "SetSeatCount", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode seat count", "error", err)
		h.responder.writeBodyError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "SetSeatCount", "room_id", roomID)
	count, err := req.count()
	if err != nil {
		logger.ErrorContext(r.Context(), "invalid seat count", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	seats, err := h.service.SetRoomSeatCount(r.Context(), roomID, count)
	if failed(err) {
		logger.ErrorContext(r.Context(), "seat count update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("seat_count", count).InfoContext(r.Context(), "room seats resized")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, seatsResponse{Seats: seats, Warning: saveWarning(err)})
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := r.PathValue("id")
	logger := h.log(r.Context(), "Delete", "room_id", roomID)
	err := h.service.DeleteRoom(r.Context(), roomID)
	if failed(err) {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeApplied(r.Context(), w, err)
}

type roomCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type roomPatchRequest struct {
	Name *string  `json:"name"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	W    *float64 `json:"w"`
	H    *float64 `json:"h"`
}

func (r roomPatchRequest) toPatch() seatplan.RoomPatch {
	return seatplan.RoomPatch{Name: r.Name, X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// seatCountRequest accepts a number or a numeric string, as the planner UI
// sends the raw input field value.
type seatCountRequest struct {
	SeatCount any `json:"seatCount"`
}

func (r seatCountRequest) count() (int, error) {
	switch v := r.SeatCount.(type) {
	case nil:
		return 0, seatCountError("seat count is required")
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, seatCountError("seat count must be a number")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n > math.MaxInt32 {
			return 0, seatCountError("seat count must be a number")
		}
		return n, nil
	default:
		return 0, seatCountError("seat count must be a number")
	}
}

func seatCountError(message string) error {
	return &application.ValidationError{FieldErrors: map[string]string{"seatCount": message}}
}

type roomResponse struct {
	Room    seatplan.Room `json:"room"`
	Warning string        `json:"warning,omitempty"`
}

type seatsResponse struct {
	Seats   []seatplan.Seat `json:"seats"`
	Warning string          `json:"warning,omitempty"`
}
