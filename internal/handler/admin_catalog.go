package handler // admin catalog handlers: peliculas and funciones

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmontufar/cine-reservas/internal/repository"
)

// CreateMovie handles POST /pelicula.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req struct {
		Title       string `json:"titulo"`
		HasPoster   *bool  `json:"imagen_poster"`
		Description string `json:"descripcion"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || req.HasPoster == nil || strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}

	m := &repository.Movie{Title: strings.TrimSpace(req.Title), HasPoster: *req.HasPoster, Description: req.Description}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear la pelicula"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Pelicula creada", "id": m.ID})
}

// CreateScreening handles POST /funcion. It verifies the sala and
// pelicula exist; overlapping schedules in the same sala are accepted.
func (h *AdminHandler) CreateScreening(c echo.Context) error {
	var req struct {
		MovieID *uint64 `json:"id_pelicula"`
		RoomID  *uint64 `json:"id_sala"`
		Date    string  `json:"fecha"`
		Time    string  `json:"hora"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == nil || req.RoomID == nil || req.Date == "" || req.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}

	s := &repository.Screening{RoomID: *req.RoomID, MovieID: *req.MovieID, Date: req.Date, Time: req.Time}
	if err := h.Screenings.Create(c.Request().Context(), s); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Sala no encontrada"})
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Pelicula no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al crear la funcion"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Funcion creada", "id": s.ID})
}

// UpdateScreening handles PUT /funcion/:id_funcion, rescheduling a
// funcion or moving it to another sala/pelicula.
func (h *AdminHandler) UpdateScreening(c echo.Context) error {
	id, err := parseID(c, "id_funcion")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		MovieID *uint64 `json:"id_pelicula"`
		RoomID  *uint64 `json:"id_sala"`
		Date    string  `json:"fecha"`
		Time    string  `json:"hora"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == nil || req.RoomID == nil || req.Date == "" || req.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}

	s := &repository.Screening{ID: id, RoomID: *req.RoomID, MovieID: *req.MovieID, Date: req.Date, Time: req.Time}
	if err := h.Screenings.Update(c.Request().Context(), s); err != nil {
		switch {
		case errors.Is(err, repository.ErrScreeningNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcion no encontrada"})
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Sala no encontrada"})
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Pelicula no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al modificar la funcion"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Funcion modificada", "id": s.ID})
}
