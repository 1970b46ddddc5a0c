package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUpdateWithoutPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
	// No contrasena column in the SET list when the password is empty.
	mock.ExpectExec("UPDATE usuarios SET nombre=\\?, correo=\\?, telefono=\\?, rol=\\? WHERE id_usuario=\\?").
		WithArgs("ana", "ana@mail.com", "5551234", "usuario", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 7, "ana", "ana@mail.com", "5551234", "usuario", "", 4)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateWithPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
	mock.ExpectExec("UPDATE usuarios SET nombre=\\?, correo=\\?, telefono=\\?, rol=\\?, contrasena=\\?").
		WithArgs("ana", "ana@mail.com", "5551234", "administrador", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 7, "ana", "ana@mail.com", "5551234", "administrador", "nuevo-secreto", 4)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))

	err := repo.Update(context.Background(), 404, "ana", "ana@mail.com", "5551234", "usuario", "", 4)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateDuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
	mock.ExpectExec("UPDATE usuarios SET").
		WillReturnError(errors.New("Error 1062: Duplicate entry 'ana' for key 'nombre'"))

	err := repo.Update(context.Background(), 7, "ana", "ana@mail.com", "5551234", "usuario", "", 4)
	assert.ErrorIs(t, err, ErrNameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("DELETE FROM usuarios").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 7))

	mock.ExpectExec("DELETE FROM usuarios").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
