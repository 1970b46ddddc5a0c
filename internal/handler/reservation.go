package handler // reservation endpoints: booking, seat attach, listing, status

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmontufar/cine-reservas/internal/queue"
	"github.com/rmontufar/cine-reservas/internal/repository"
	publisher "github.com/rmontufar/cine-reservas/internal/service"
)

// ReservationHandler serves reservation creation and queries. After a
// successful booking it publishes a reserva.creada event; publish
// failures are logged but never fail the request.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(r *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: r}
}

type reserveReq struct {
	RoomID      *uint64  `json:"id_sala"`
	ScreeningID *uint64  `json:"id_funcion"`
	Status      string   `json:"estado"`
	Date        string   `json:"fecha"`
	SeatIDs     []uint64 `json:"id_asientos"`
}

// Reserve handles POST /reservarSala. When id_asientos is present the
// reservation and all its seats are created atomically: one taken seat
// fails the whole request with 409 and nothing is written. Without
// id_asientos only the reservation header is created and seats are
// attached later via POST /asientoReservado.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == nil || req.ScreeningID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}
	for _, id := range req.SeatIDs {
		if id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "id_asientos contiene un id invalido"})
		}
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "pendiente"
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	res := &repository.Reservation{
		UserID:      userID,
		RoomID:      *req.RoomID,
		ScreeningID: *req.ScreeningID,
		Status:      status,
		Date:        date,
	}
	if err := h.Reservations.Create(c.Request().Context(), res, req.SeatIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrScreeningNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcion no encontrada"})
		case errors.Is(err, repository.ErrScreeningMismatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "La funcion no pertenece a la sala indicada"})
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Algun asiento no pertenece a la sala"})
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Algun asiento ya esta reservado para la funcion"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al realizar la reserva"})
	}

	go publishCreated(res, req.SeatIDs)

	return c.JSON(http.StatusCreated, echo.Map{"message": "Reserva realizada", "id": res.ID})
}

// publishCreated emits the reserva.creada event on its own context so a
// slow broker cannot hold the HTTP response.
func publishCreated(res *repository.Reservation, seatIDs []uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		RoomID:        res.RoomID,
		ScreeningID:   res.ScreeningID,
		Status:        res.Status,
		Date:          res.Date,
		SeatIDs:       seatIDs,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := publisher.PublishReservationCreated(ctx, ev); err != nil {
		log.Printf("reservation %d: event publish skipped: %v", res.ID, err)
	}
}

// AddSeat handles POST /asientoReservado, attaching one seat to an
// existing reservation with the same checks as Reserve.
func (h *ReservationHandler) AddSeat(c echo.Context) error {
	var req struct {
		ReservationID *uint64 `json:"id_reservacion"`
		SeatID        *uint64 `json:"id_asiento"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ReservationID == nil || req.SeatID == nil || *req.ReservationID == 0 || *req.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}

	id, err := h.Reservations.AddSeat(c.Request().Context(), *req.ReservationID, *req.SeatID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reservacion no encontrada"})
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "El asiento no pertenece a la sala de la reservacion"})
		case errors.Is(err, repository.ErrSeatConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "El asiento ya esta reservado para la funcion"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al reservar el asiento"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Asiento reservado", "id": id})
}

// ListReservations handles GET /reservaciones.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	out, err := h.Reservations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las reservaciones"})
	}
	return c.JSON(http.StatusOK, out)
}

// GetReservation handles GET /reservaciones/:id_reservacion.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c, "id_reservacion")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reservacion no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener la reservacion"})
	}
	return c.JSON(http.StatusOK, res)
}

// ListReservedSeats handles GET /asientosReservados.
func (h *ReservationHandler) ListReservedSeats(c echo.Context) error {
	out, err := h.Reservations.ListAllSeats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los asientos reservados"})
	}
	return c.JSON(http.StatusOK, out)
}

// ListReservationSeats handles GET /asientosReservados/:id_reservacion.
func (h *ReservationHandler) ListReservationSeats(c echo.Context) error {
	id, err := parseID(c, "id_reservacion")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	out, err := h.Reservations.ListSeats(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los asientos reservados"})
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus handles PUT /reservacion/:id_reservacion/estado. Moving a
// reservation to a cancelled estado frees its seats.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id_reservacion")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Status string `json:"estado"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Status = strings.TrimSpace(req.Status)
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}

	if err := h.Reservations.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Reservacion no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar la reservacion"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservacion actualizada"})
}
