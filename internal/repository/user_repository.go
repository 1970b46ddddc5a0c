package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rmontufar/cine-reservas/internal/utils"
)

// User mirrors the 'usuarios' table. Name doubles as the login handle
// and is unique. Password holds the bcrypt hash, never the plain text.
type User struct {
	ID       uint64 `json:"id_usuario"`
	Name     string `json:"nombre"`
	Password string `json:"-"`
	Email    string `json:"correo"`
	Phone    string `json:"telefono"`
	Role     string `json:"rol"`
}

// UserRepo provides persistence for usuarios.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.
// A duplicate nombre surfaces as ErrNameExists.
func (r *UserRepo) Create(ctx context.Context, name, password, email, phone, role string, cost int) (uint64, error) {
	name = strings.TrimSpace(name)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO usuarios (nombre, contrasena, correo, telefono, rol) VALUES (?,?,?,?,?)",
		name, hash, email, phone, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrNameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites a user's profile fields. The password is replaced only
// when a new one is supplied; an empty password keeps the stored hash.
// A duplicate nombre surfaces as ErrNameExists.
func (r *UserRepo) Update(ctx context.Context, id uint64, name, email, phone, role, password string, cost int) error {
	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM usuarios WHERE id_usuario=?)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	name = strings.TrimSpace(name)
	query := "UPDATE usuarios SET nombre=?, correo=?, telefono=?, rol=?"
	args := []interface{}{name, email, phone, role}
	if password != "" {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return err
		}
		query += ", contrasena=?"
		args = append(args, hash)
	}
	query += " WHERE id_usuario=?"
	args = append(args, id)

	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNameExists
		}
		return err
	}
	return nil
}

// Delete removes a user. It returns ErrUserNotFound when the ID does not
// exist.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM usuarios WHERE id_usuario=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetByName fetches a user by login name. It returns ErrUserNotFound
// when no row is found.
func (r *UserRepo) GetByName(ctx context.Context, name string) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id_usuario, nombre, contrasena, correo, telefono, rol FROM usuarios WHERE nombre=? LIMIT 1",
		strings.TrimSpace(name)).Scan(&u.ID, &u.Name, &u.Password, &u.Email, &u.Phone, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// List returns all users ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id_usuario, nombre, contrasena, correo, telefono, rol FROM usuarios ORDER BY id_usuario")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Password, &u.Email, &u.Phone, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
