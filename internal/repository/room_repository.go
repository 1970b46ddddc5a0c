package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rmontufar/cine-reservas/internal/grid"
)

// Room represents a sala: a screening room with a fixed seat grid.
// Rows and Cols are the grid capacities; the seats belonging to the room
// always cover exactly {1..Rows} x {1..Cols}.
type Room struct {
	ID   uint64 `json:"id_sala"`
	Name string `json:"nombre"`
	Rows uint32 `json:"capacidad_filas"`
	Cols uint32 `json:"capacidad_columnas"`
}

// RoomRepo persists salas and owns the transactional boundary around
// create and resize. Seats are never edited directly: they are generated
// on create and reconciled on resize, inside the same transaction as the
// sala row so readers never observe a room with a partial grid.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new sala and its full seat grid atomically. On success
// the ID field of the room is populated. Dimension validation happens in
// grid.Generate before anything is written.
func (r *RoomRepo) Create(ctx context.Context, room *Room) error {
	coords, err := grid.Generate(room.Rows, room.Cols)
	if err != nil {
		return err
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		const q = `INSERT INTO sala (nombre, capacidad_filas, capacidad_columnas) VALUES (?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, room.Name, room.Rows, room.Cols)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		room.ID = uint64(id)
		return insertSeatsTx(ctx, tx, room.ID, coords)
	})
}

// Update renames and/or resizes a sala. The current seats are read under
// a row lock, diffed against the new grid, and only the difference is
// applied: seats whose coordinates survive the resize keep their IDs and
// any reservations on them. A shrink that would delete seats with active
// reservations fails with ErrSeatsReserved and changes nothing.
func (r *RoomRepo) Update(ctx context.Context, room *Room) error {
	if _, err := grid.Generate(room.Rows, room.Cols); err != nil {
		return err
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Lock the sala row for the whole read-diff-write sequence so a
		// concurrent reservation cannot target a seat being removed.
		var cur uint64
		const lockQ = `SELECT id_sala FROM sala WHERE id_sala = ? FOR UPDATE`
		if err := tx.QueryRowContext(ctx, lockQ, room.ID).Scan(&cur); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRoomNotFound
			}
			return err
		}

		existing, err := seatsForUpdateTx(ctx, tx, room.ID)
		if err != nil {
			return err
		}
		diff, err := grid.Reconcile(existing, room.Rows, room.Cols)
		if err != nil {
			return err
		}

		if len(diff.ToDelete) > 0 {
			n, err := countActiveSeatReservationsTx(ctx, tx, diff.ToDelete)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrSeatsReserved
			}
			if err := deleteSeatsTx(ctx, tx, diff.ToDelete); err != nil {
				return err
			}
		}
		if err := insertSeatsTx(ctx, tx, room.ID, diff.ToInsert); err != nil {
			return err
		}

		const upd = `UPDATE sala SET nombre = ?, capacidad_filas = ?, capacidad_columnas = ? WHERE id_sala = ?`
		_, err = tx.ExecContext(ctx, upd, room.Name, room.Rows, room.Cols, room.ID)
		return err
	})
}

// GetByID retrieves a sala by its ID. It returns ErrRoomNotFound when no
// row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*Room, error) {
	const q = `SELECT id_sala, nombre, capacidad_filas, capacidad_columnas FROM sala WHERE id_sala = ?`
	var room Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(&room.ID, &room.Name, &room.Rows, &room.Cols)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List returns all salas ordered by ID.
func (r *RoomRepo) List(ctx context.Context) ([]Room, error) {
	const q = `SELECT id_sala, nombre, capacidad_filas, capacidad_columnas FROM sala ORDER BY id_sala`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Rows, &room.Cols); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// seatsForUpdateTx reads a sala's seats under a row lock so the diff the
// reconciler computes stays valid until commit.
func seatsForUpdateTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]grid.Seat, error) {
	const q = `SELECT id_asiento, fila, columna FROM asiento WHERE id_sala = ? FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []grid.Seat
	for rows.Next() {
		var s grid.Seat
		if err := rows.Scan(&s.ID, &s.Row, &s.Col); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// insertSeatsTx bulk-inserts seat rows for the given coordinates in a
// single statement. Passing an empty slice has no effect.
func insertSeatsTx(ctx context.Context, tx *sql.Tx, roomID uint64, coords []grid.Coord) error {
	if len(coords) == 0 {
		return nil
	}
	query := `INSERT INTO asiento (id_sala, fila, columna) VALUES `
	args := make([]interface{}, 0, len(coords)*3)
	for i, c := range coords {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, roomID, c.Row, c.Col)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// deleteSeatsTx removes the given seat IDs in a single statement.
func deleteSeatsTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	placeholders := make([]string, len(seatIDs))
	args := make([]interface{}, len(seatIDs))
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `DELETE FROM asiento WHERE id_asiento IN (` + strings.Join(placeholders, ",") + `)`
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// countActiveSeatReservationsTx counts asiento_reservado rows whose owning
// reservacion is still in an active state, for the given seats.
func countActiveSeatReservationsTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) (int, error) {
	placeholders := make([]string, len(seatIDs))
	args := make([]interface{}, len(seatIDs))
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `SELECT COUNT(*)
	          FROM asientoreservado ar
	          JOIN reservacion r ON r.id_reservacion = ar.id_reservacion
	          WHERE ar.id_asiento IN (` + strings.Join(placeholders, ",") + `)
	            AND r.estado IN (` + activeStatusPlaceholders + `)`
	for _, st := range activeStatuses {
		args = append(args, st)
	}
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
