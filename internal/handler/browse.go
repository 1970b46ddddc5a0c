package handler // read-only catalog and availability endpoints

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmontufar/cine-reservas/internal/repository"
)

// BrowseHandler serves the public read side: salas, asientos,
// peliculas, funciones and the seat availability check.
type BrowseHandler struct {
	Rooms        *repository.RoomRepo
	Seats        *repository.SeatRepo
	Movies       *repository.MovieRepo
	Screenings   *repository.ScreeningRepo
	Reservations *repository.ReservationRepo
}

// NewBrowseHandler constructs a BrowseHandler.
func NewBrowseHandler(rooms *repository.RoomRepo, seats *repository.SeatRepo, movies *repository.MovieRepo, screenings *repository.ScreeningRepo, reservations *repository.ReservationRepo) *BrowseHandler {
	return &BrowseHandler{Rooms: rooms, Seats: seats, Movies: movies, Screenings: screenings, Reservations: reservations}
}

// ListRooms handles GET /salas.
func (h *BrowseHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las salas"})
	}
	return c.JSON(http.StatusOK, rooms)
}

// GetRoom handles GET /salas/:id_sala.
func (h *BrowseHandler) GetRoom(c echo.Context) error {
	id, err := parseID(c, "id_sala")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Sala no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener la sala"})
	}
	return c.JSON(http.StatusOK, room)
}

// ListSeats handles GET /asientos.
func (h *BrowseHandler) ListSeats(c echo.Context) error {
	seats, err := h.Seats.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los asientos"})
	}
	return c.JSON(http.StatusOK, seats)
}

// ListRoomSeats handles GET /asientos/:id_sala. A sala that does not
// exist, or has no seats, yields 404 with an explanatory message.
func (h *BrowseHandler) ListRoomSeats(c echo.Context) error {
	id, err := parseID(c, "id_sala")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seats, err := h.Seats.ListByRoom(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los asientos"})
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No hay asientos para la sala indicada"})
	}
	return c.JSON(http.StatusOK, seats)
}

// SeatAvailability handles GET /asientos/:id_asiento/disponible/:id_funcion.
// Both the seat and the funcion must exist; availability means no active
// reservation holds the seat for that funcion.
func (h *BrowseHandler) SeatAvailability(c echo.Context) error {
	seatID, err := parseID(c, "id_asiento")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id_asiento"})
	}
	screeningID, err := parseID(c, "id_funcion")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id_funcion"})
	}

	ctx := c.Request().Context()
	if _, err := h.Seats.GetByID(ctx, seatID); err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Asiento no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al consultar el asiento"})
	}
	if _, err := h.Screenings.GetByID(ctx, screeningID); err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcion no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al consultar la funcion"})
	}

	free, err := h.Reservations.IsSeatAvailable(ctx, seatID, screeningID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al consultar disponibilidad"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id_asiento": seatID,
		"id_funcion": screeningID,
		"disponible": free,
	})
}

// ListMovies handles GET /peliculas.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las peliculas"})
	}
	return c.JSON(http.StatusOK, movies)
}

// ListScreenings handles GET /funciones.
func (h *BrowseHandler) ListScreenings(c echo.Context) error {
	out, err := h.Screenings.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las funciones"})
	}
	return c.JSON(http.StatusOK, out)
}

// GetScreening handles GET /funciones/:id_funcion.
func (h *BrowseHandler) GetScreening(c echo.Context) error {
	id, err := parseID(c, "id_funcion")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Screenings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcion no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener la funcion"})
	}
	return c.JSON(http.StatusOK, s)
}

// ListRoomScreenings handles GET /funciones/sala/:id_sala.
func (h *BrowseHandler) ListRoomScreenings(c echo.Context) error {
	id, err := parseID(c, "id_sala")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	out, err := h.Screenings.ListByRoom(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener las funciones"})
	}
	return c.JSON(http.StatusOK, out)
}
