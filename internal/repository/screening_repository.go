package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Screening represents a funcion: one movie shown in one sala at a
// date/time. MovieTitle is populated on reads that join pelicula.
// Overlapping funciones in the same sala are not rejected; scheduling
// conflicts are left to the administrator.
type Screening struct {
	ID         uint64 `json:"id_funcion"`
	RoomID     uint64 `json:"id_sala"`
	MovieID    uint64 `json:"id_pelicula"`
	Date       string `json:"fecha"`
	Time       string `json:"hora"`
	MovieTitle string `json:"titulo_pelicula,omitempty"`
}

// ScreeningRepo provides persistence for funciones.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
	return &ScreeningRepo{db: db}
}

// Create inserts a new funcion after verifying that its sala and
// pelicula exist. On success the screening's ID is populated.
func (r *ScreeningRepo) Create(ctx context.Context, s *Screening) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM sala WHERE id_sala = ?)`, s.RoomID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRoomNotFound
	}
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pelicula WHERE id_pelicula = ?)`, s.MovieID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrMovieNotFound
	}
	const q = `INSERT INTO funcion (id_sala, id_pelicula, fecha, hora) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.RoomID, s.MovieID, s.Date, s.Time)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update rewrites a funcion's sala, pelicula and schedule after the same
// existence checks as Create. It returns ErrScreeningNotFound when the
// funcion does not exist.
func (r *ScreeningRepo) Update(ctx context.Context, s *Screening) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM funcion WHERE id_funcion = ?)`, s.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrScreeningNotFound
	}
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM sala WHERE id_sala = ?)`, s.RoomID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrRoomNotFound
	}
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pelicula WHERE id_pelicula = ?)`, s.MovieID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrMovieNotFound
	}
	const q = `UPDATE funcion SET id_sala = ?, id_pelicula = ?, fecha = ?, hora = ? WHERE id_funcion = ?`
	_, err := r.db.ExecContext(ctx, q, s.RoomID, s.MovieID, s.Date, s.Time, s.ID)
	return err
}

// GetByID retrieves a funcion with its movie title. It returns
// ErrScreeningNotFound when no row is found.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*Screening, error) {
	const q = `SELECT f.id_funcion, f.id_sala, f.id_pelicula, f.fecha, f.hora, p.titulo
	           FROM funcion f
	           JOIN pelicula p ON p.id_pelicula = f.id_pelicula
	           WHERE f.id_funcion = ?`
	var s Screening
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.RoomID, &s.MovieID, &s.Date, &s.Time, &s.MovieTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all funciones with their movie titles ordered by ID.
func (r *ScreeningRepo) List(ctx context.Context) ([]Screening, error) {
	const q = `SELECT f.id_funcion, f.id_sala, f.id_pelicula, f.fecha, f.hora, p.titulo
	           FROM funcion f
	           JOIN pelicula p ON p.id_pelicula = f.id_pelicula
	           ORDER BY f.id_funcion`
	return r.scanScreenings(ctx, q)
}

// ListByRoom returns all funciones scheduled in one sala.
func (r *ScreeningRepo) ListByRoom(ctx context.Context, roomID uint64) ([]Screening, error) {
	const q = `SELECT f.id_funcion, f.id_sala, f.id_pelicula, f.fecha, f.hora, p.titulo
	           FROM funcion f
	           JOIN pelicula p ON p.id_pelicula = f.id_pelicula
	           WHERE f.id_sala = ?
	           ORDER BY f.id_funcion`
	return r.scanScreenings(ctx, q, roomID)
}

func (r *ScreeningRepo) scanScreenings(ctx context.Context, query string, args ...interface{}) ([]Screening, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Screening
	for rows.Next() {
		var s Screening
		if err := rows.Scan(&s.ID, &s.RoomID, &s.MovieID, &s.Date, &s.Time, &s.MovieTitle); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
