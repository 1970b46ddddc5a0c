package handler // admin room handlers: create and resize salas

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmontufar/cine-reservas/internal/grid"
	"github.com/rmontufar/cine-reservas/internal/repository"
)

// AdminHandler bundles repositories for administrator mutations on
// salas, peliculas and funciones.
type AdminHandler struct {
	Rooms      *repository.RoomRepo
	Movies     *repository.MovieRepo
	Screenings *repository.ScreeningRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(rooms *repository.RoomRepo, movies *repository.MovieRepo, screenings *repository.ScreeningRepo) *AdminHandler {
	if rooms == nil || movies == nil || screenings == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Rooms: rooms, Movies: movies, Screenings: screenings}
}

type roomReq struct {
	Name string  `json:"nombre"`
	Rows *uint32 `json:"capacidad_filas"`
	Cols *uint32 `json:"capacidad_columnas"`
}

// validate checks the shared field requirements of create and resize.
func (r roomReq) validate() string {
	if strings.TrimSpace(r.Name) == "" || r.Rows == nil || r.Cols == nil {
		return "Faltan datos requeridos"
	}
	if *r.Rows == 0 || *r.Cols == 0 {
		return "Las capacidades deben ser mayores a cero"
	}
	return ""
}

// CreateRoom handles POST /sala. It creates the sala and its full seat
// grid in one transaction and reports the number of generated seats.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	room := &repository.Room{Name: strings.TrimSpace(req.Name), Rows: *req.Rows, Cols: *req.Cols}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if errors.Is(err, grid.ErrInvalidDimension) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Las capacidades deben ser mayores a cero"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear la sala y generar asientos"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":        "Sala creada con asientos generados automáticamente",
		"id":             room.ID,
		"total_asientos": room.Rows * room.Cols,
	})
}

// UpdateRoom handles PUT /sala/:id. The seat grid is reconciled against
// the new dimensions: surviving seats keep their IDs and reservations,
// and a shrink that would drop reserved seats is rejected with 409.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	room := &repository.Room{ID: id, Name: strings.TrimSpace(req.Name), Rows: *req.Rows, Cols: *req.Cols}
	if err := h.Rooms.Update(c.Request().Context(), room); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Sala no encontrada"})
		case errors.Is(err, repository.ErrSeatsReserved):
			return c.JSON(http.StatusConflict, echo.Map{"error": "La sala tiene asientos reservados fuera de la nueva capacidad"})
		case errors.Is(err, grid.ErrInvalidDimension):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Las capacidades deben ser mayores a cero"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al modificar la sala"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Sala modificada", "result": room})
}
