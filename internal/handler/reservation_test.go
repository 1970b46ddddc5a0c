package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmontufar/cine-reservas/internal/repository"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewReservationHandler(repository.NewReservationRepo(db)), mock
}

func TestReserveMissingFields(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/reservarSala", `{"id_sala":2}`)
	c.Set("user_id", float64(5))
	require.NoError(t, h.Reserve(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Faltan datos requeridos")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUnauthenticated(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/reservarSala",
		`{"id_sala":2,"id_funcion":9,"id_asientos":[14]}`)
	require.NoError(t, h.Reserve(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSeatConflict(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_sala FROM funcion").
		WillReturnRows(sqlmock.NewRows([]string{"id_sala"}).AddRow(2))
	mock.ExpectExec("INSERT INTO reservacion").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT COUNT.+FOR SHARE").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery("SELECT ar.id_asiento").
		WillReturnRows(sqlmock.NewRows([]string{"id_asiento"}).AddRow(14))
	mock.ExpectRollback()

	c, rec := doJSON(e, http.MethodPost, "/reservarSala",
		`{"id_sala":2,"id_funcion":9,"estado":"pendiente","fecha":"2026-09-01","id_asientos":[14]}`)
	c.Set("user_id", float64(5))
	require.NoError(t, h.Reserve(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSeatConflict(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_sala, id_funcion FROM reservacion").
		WillReturnRows(sqlmock.NewRows([]string{"id_sala", "id_funcion"}).AddRow(2, 9))
	mock.ExpectQuery("SELECT COUNT.+FOR SHARE").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery("SELECT ar.id_asiento").
		WillReturnRows(sqlmock.NewRows([]string{"id_asiento"}).AddRow(16))
	mock.ExpectRollback()

	c, rec := doJSON(e, http.MethodPost, "/asientoReservado",
		`{"id_reservacion":11,"id_asiento":16}`)
	require.NoError(t, h.AddSeat(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSeatMissingFields(t *testing.T) {
	h, mock := newReservationHandler(t)
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/asientoReservado", `{"id_reservacion":11}`)
	require.NoError(t, h.AddSeat(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
