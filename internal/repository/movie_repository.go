package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Movie represents a pelicula in the catalog. HasPoster records whether
// a poster image was uploaded for it.
type Movie struct {
	ID          uint64 `json:"id_pelicula"`
	Title       string `json:"titulo"`
	HasPoster   bool   `json:"imagen_poster"`
	Description string `json:"descripcion"`
}

// MovieRepo provides persistence for the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a new pelicula. On success the movie's ID is populated.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	const q = `INSERT INTO pelicula (titulo, imagen_poster, descripcion) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.HasPoster, m.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID retrieves a pelicula by its ID. It returns ErrMovieNotFound
// when no row is found.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT id_pelicula, titulo, imagen_poster, descripcion FROM pelicula WHERE id_pelicula = ?`
	var m Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.HasPoster, &m.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all peliculas ordered by ID.
func (r *MovieRepo) List(ctx context.Context) ([]Movie, error) {
	const q = `SELECT id_pelicula, titulo, imagen_poster, descripcion FROM pelicula ORDER BY id_pelicula`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movie
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.HasPoster, &m.Description); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
