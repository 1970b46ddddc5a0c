package repository // repository defines read access for seats

import (
	"context"
	"database/sql"
	"errors"
)

// Seat represents an asiento: one bookable position inside a sala,
// identified by its 1-based fila/columna coordinates. Seats are created
// and destroyed only as a side effect of sala create/resize; this
// repository exposes reads.
type Seat struct {
	ID     uint64 `json:"id_asiento"`
	RoomID uint64 `json:"id_sala"`
	Row    uint32 `json:"fila"`
	Col    uint32 `json:"columna"`
}

// SeatRepo provides lookup methods for seats.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GetByID retrieves a seat by its ID. It returns ErrSeatNotFound when no
// row is found.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*Seat, error) {
	const q = `SELECT id_asiento, id_sala, fila, columna FROM asiento WHERE id_asiento = ?`
	var s Seat
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.RoomID, &s.Row, &s.Col)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByRoom retrieves all seats of a sala ordered by fila then columna.
func (r *SeatRepo) ListByRoom(ctx context.Context, roomID uint64) ([]Seat, error) {
	const q = `SELECT id_asiento, id_sala, fila, columna FROM asiento WHERE id_sala = ? ORDER BY fila, columna`
	return r.scanSeats(ctx, q, roomID)
}

// ListAll retrieves every seat in the system ordered by sala, fila, columna.
func (r *SeatRepo) ListAll(ctx context.Context) ([]Seat, error) {
	const q = `SELECT id_asiento, id_sala, fila, columna FROM asiento ORDER BY id_sala, fila, columna`
	return r.scanSeats(ctx, q)
}

func (r *SeatRepo) scanSeats(ctx context.Context, query string, args ...interface{}) ([]Seat, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Seat
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Row, &s.Col); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
