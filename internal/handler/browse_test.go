package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmontufar/cine-reservas/internal/repository"
)

func newBrowseHandler(t *testing.T) (*BrowseHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBrowseHandler(
		repository.NewRoomRepo(db),
		repository.NewSeatRepo(db),
		repository.NewMovieRepo(db),
		repository.NewScreeningRepo(db),
		repository.NewReservationRepo(db),
	), mock
}

func doGet(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSeatAvailabilityFree(t *testing.T) {
	h, mock := newBrowseHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT id_asiento, id_sala, fila, columna FROM asiento").
		WithArgs(14).
		WillReturnRows(sqlmock.NewRows([]string{"id_asiento", "id_sala", "fila", "columna"}).
			AddRow(14, 2, 1, 2))
	mock.ExpectQuery("SELECT f.id_funcion").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id_funcion", "id_sala", "id_pelicula", "fecha", "hora", "titulo"}).
			AddRow(9, 2, 1, "2026-09-01", "19:30", "Una pelicula"))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"taken"}).AddRow(false))

	c, rec := doGet(e, "/asientos/14/disponible/9")
	c.SetParamNames("id_asiento", "id_funcion")
	c.SetParamValues("14", "9")
	require.NoError(t, h.SeatAvailability(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"disponible":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatAvailabilityTaken(t *testing.T) {
	h, mock := newBrowseHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT id_asiento, id_sala, fila, columna FROM asiento").
		WillReturnRows(sqlmock.NewRows([]string{"id_asiento", "id_sala", "fila", "columna"}).
			AddRow(14, 2, 1, 2))
	mock.ExpectQuery("SELECT f.id_funcion").
		WillReturnRows(sqlmock.NewRows([]string{"id_funcion", "id_sala", "id_pelicula", "fecha", "hora", "titulo"}).
			AddRow(9, 2, 1, "2026-09-01", "19:30", "Una pelicula"))
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"taken"}).AddRow(true))

	c, rec := doGet(e, "/asientos/14/disponible/9")
	c.SetParamNames("id_asiento", "id_funcion")
	c.SetParamValues("14", "9")
	require.NoError(t, h.SeatAvailability(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"disponible":false`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatAvailabilityUnknownSeat(t *testing.T) {
	h, mock := newBrowseHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT id_asiento, id_sala, fila, columna FROM asiento").
		WillReturnError(sql.ErrNoRows)

	c, rec := doGet(e, "/asientos/999/disponible/9")
	c.SetParamNames("id_asiento", "id_funcion")
	c.SetParamValues("999", "9")
	require.NoError(t, h.SeatAvailability(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoomSeatsEmptyIs404(t *testing.T) {
	h, mock := newBrowseHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT id_asiento, id_sala, fila, columna FROM asiento").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id_asiento", "id_sala", "fila", "columna"}))

	c, rec := doGet(e, "/asientos/5")
	c.SetParamNames("id_sala")
	c.SetParamValues("5")
	require.NoError(t, h.ListRoomSeats(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
