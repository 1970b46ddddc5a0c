package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmontufar/cine-reservas/internal/grid"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func seatRows(rows, cols uint32) *sqlmock.Rows {
	out := sqlmock.NewRows([]string{"id_asiento", "fila", "columna"})
	id := 1
	for r := uint32(1); r <= rows; r++ {
		for c := uint32(1); c <= cols; c++ {
			out.AddRow(id, r, c)
			id++
		}
	}
	return out
}

func TestRoomCreateGeneratesSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sala").
		WithArgs("Sala A", 2, 3).
		WillReturnResult(sqlmock.NewResult(7, 1))
	// One bulk statement covering all 6 seats of the 2x3 grid.
	mock.ExpectExec("INSERT INTO asiento").
		WithArgs(7, 1, 1, 7, 1, 2, 7, 1, 3, 7, 2, 1, 7, 2, 2, 7, 2, 3).
		WillReturnResult(sqlmock.NewResult(1, 6))
	mock.ExpectCommit()

	room := &Room{Name: "Sala A", Rows: 2, Cols: 3}
	require.NoError(t, repo.Create(context.Background(), room))
	assert.Equal(t, uint64(7), room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomCreateRollsBackOnSeatFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sala").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO asiento").WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &Room{Name: "Sala A", Rows: 2, Cols: 2})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomCreateInvalidDimensions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	// Validation fires before any SQL runs.
	err := repo.Create(context.Background(), &Room{Name: "Sala A", Rows: 0, Cols: 3})
	assert.ErrorIs(t, err, grid.ErrInvalidDimension)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateSameDimensionsTouchesNoSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_sala FROM sala").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id_sala"}).AddRow(3))
	mock.ExpectQuery("SELECT id_asiento, fila, columna FROM asiento").
		WithArgs(3).
		WillReturnRows(seatRows(2, 2))
	// No DELETE and no INSERT: the diff is empty, only the sala row changes.
	mock.ExpectExec("UPDATE sala").
		WithArgs("Sala renombrada", 2, 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room := &Room{ID: 3, Name: "Sala renombrada", Rows: 2, Cols: 2}
	require.NoError(t, repo.Update(context.Background(), room))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateGrowInsertsOnlyNewSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_sala FROM sala").
		WillReturnRows(sqlmock.NewRows([]string{"id_sala"}).AddRow(3))
	mock.ExpectQuery("SELECT id_asiento, fila, columna FROM asiento").
		WillReturnRows(seatRows(2, 2))
	mock.ExpectExec("INSERT INTO asiento").
		WithArgs(3, 1, 3, 3, 2, 3).
		WillReturnResult(sqlmock.NewResult(5, 2))
	mock.ExpectExec("UPDATE sala").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room := &Room{ID: 3, Name: "Sala A", Rows: 2, Cols: 3}
	require.NoError(t, repo.Update(context.Background(), room))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateShrinkDeletesFreeSeats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_sala FROM sala").
		WillReturnRows(sqlmock.NewRows([]string{"id_sala"}).AddRow(3))
	mock.ExpectQuery("SELECT id_asiento, fila, columna FROM asiento").
		WillReturnRows(seatRows(2, 2))
	// Row 2 goes away: seats 3 and 4 carry no active reservations.
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("DELETE FROM asiento").
		WithArgs(3, 4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE sala").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room := &Room{ID: 3, Name: "Sala A", Rows: 1, Cols: 2}
	require.NoError(t, repo.Update(context.Background(), room))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateShrinkRejectedWhenSeatsReserved(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_sala FROM sala").
		WillReturnRows(sqlmock.NewRows([]string{"id_sala"}).AddRow(3))
	mock.ExpectQuery("SELECT id_asiento, fila, columna FROM asiento").
		WillReturnRows(seatRows(2, 2))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	room := &Room{ID: 3, Name: "Sala A", Rows: 1, Cols: 1}
	err := repo.Update(context.Background(), room)
	assert.ErrorIs(t, err, ErrSeatsReserved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id_sala FROM sala").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &Room{ID: 99, Name: "x", Rows: 2, Cols: 2})
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectQuery("SELECT id_sala, nombre").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
