package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Reservation statuses that count toward seat occupancy. The original
// data contains both spellings of the confirmed state, so both stay in
// the active set.
var activeStatuses = []string{"pendiente", "confirmada", "confirmado"}

// activeStatusPlaceholders is the "?,?,?" fragment matching activeStatuses.
var activeStatusPlaceholders = strings.TrimSuffix(strings.Repeat("?,", len(activeStatuses)), ",")

// activeStatusArgs appends the active statuses to a query argument list.
func activeStatusArgs(args []interface{}) []interface{} {
	for _, st := range activeStatuses {
		args = append(args, st)
	}
	return args
}

// Reservation represents a reservacion: one booking transaction by a
// user for a funcion in a sala, potentially covering multiple seats via
// asientoreservado rows.
type Reservation struct {
	ID          uint64 `json:"id_reservacion"`
	UserID      uint64 `json:"id_usuario"`
	RoomID      uint64 `json:"id_sala"`
	ScreeningID uint64 `json:"id_funcion"`
	Status      string `json:"estado"`
	Date        string `json:"fecha"`
}

// SeatReservation represents an asientoreservado row binding one seat to
// a reservation.
type SeatReservation struct {
	ID            uint64 `json:"id_asiento_reservado"`
	ReservationID uint64 `json:"id_reservacion"`
	SeatID        uint64 `json:"id_asiento"`
}

// ReservationRepo provides CRUD operations for reservations and their
// seats, plus the availability check used before booking. Multi-row
// writes run inside a transaction so a reservation header is never
// visible without its seats.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a reservation and optionally its seats as one atomic
// unit. It validates that the funcion exists and is scheduled in the
// reservation's sala, that every seat belongs to that sala, and that no
// seat already carries an active reservation for the funcion. Any
// violation rolls the whole operation back: a partial booking is never
// left visible. On success the reservation's ID is populated.
func (r *ReservationRepo) Create(ctx context.Context, res *Reservation, seatIDs []uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var screeningRoom uint64
		const q = `SELECT id_sala FROM funcion WHERE id_funcion = ?`
		if err := tx.QueryRowContext(ctx, q, res.ScreeningID).Scan(&screeningRoom); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScreeningNotFound
			}
			return err
		}
		if screeningRoom != res.RoomID {
			return ErrScreeningMismatch
		}

		const ins = `INSERT INTO reservacion (id_usuario, id_sala, id_funcion, estado, fecha) VALUES (?, ?, ?, ?, ?)`
		result, err := tx.ExecContext(ctx, ins, res.UserID, res.RoomID, res.ScreeningID, res.Status, res.Date)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		res.ID = uint64(id)

		if len(seatIDs) == 0 {
			return nil
		}
		if err := verifySeatsInRoomTx(ctx, tx, res.RoomID, seatIDs); err != nil {
			return err
		}
		if err := lockAndCheckSeatsFreeTx(ctx, tx, res.ScreeningID, seatIDs); err != nil {
			return err
		}
		return insertSeatReservationsTx(ctx, tx, res.ID, seatIDs)
	})
}

// AddSeat attaches one seat to an existing reservation, enforcing the
// same checks as Create: the seat must belong to the reservation's sala
// and must be free for its funcion. On success the generated
// asientoreservado ID is returned.
func (r *ReservationRepo) AddSeat(ctx context.Context, reservationID, seatID uint64) (uint64, error) {
	var srID uint64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var roomID, screeningID uint64
		const q = `SELECT id_sala, id_funcion FROM reservacion WHERE id_reservacion = ?`
		if err := tx.QueryRowContext(ctx, q, reservationID).Scan(&roomID, &screeningID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
		if err := verifySeatsInRoomTx(ctx, tx, roomID, []uint64{seatID}); err != nil {
			return err
		}
		if err := lockAndCheckSeatsFreeTx(ctx, tx, screeningID, []uint64{seatID}); err != nil {
			return err
		}
		const ins = `INSERT INTO asientoreservado (id_reservacion, id_asiento) VALUES (?, ?)`
		result, err := tx.ExecContext(ctx, ins, reservationID, seatID)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		srID = uint64(id)
		return nil
	})
	return srID, err
}

// IsSeatAvailable reports whether a seat is free for a funcion: no
// asientoreservado row for the seat may belong to an active-status
// reservation of that funcion. A seat or funcion that does not exist
// reads as available; callers validate existence separately. Read-only.
func (r *ReservationRepo) IsSeatAvailable(ctx context.Context, seatID, screeningID uint64) (bool, error) {
	query := `SELECT EXISTS(
	            SELECT 1
	            FROM asientoreservado ar
	            JOIN reservacion r ON r.id_reservacion = ar.id_reservacion
	            WHERE ar.id_asiento = ? AND r.id_funcion = ?
	              AND r.estado IN (` + activeStatusPlaceholders + `))`
	args := activeStatusArgs([]interface{}{seatID, screeningID})
	var taken bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&taken); err != nil {
		return false, err
	}
	return !taken, nil
}

// UpdateStatus changes a reservation's estado. Moving a reservation out
// of the active set frees its seats for the funcion. Returns
// ErrReservationNotFound when the ID does not exist.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE reservacion SET estado = ? WHERE id_reservacion = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// GetByID retrieves a reservation by its ID. It returns
// ErrReservationNotFound when no row is found.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*Reservation, error) {
	const q = `SELECT id_reservacion, id_usuario, id_sala, id_funcion, estado, fecha FROM reservacion WHERE id_reservacion = ?`
	var res Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.UserID, &res.RoomID, &res.ScreeningID, &res.Status, &res.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// List returns all reservations ordered by ID.
func (r *ReservationRepo) List(ctx context.Context) ([]Reservation, error) {
	const q = `SELECT id_reservacion, id_usuario, id_sala, id_funcion, estado, fecha FROM reservacion ORDER BY id_reservacion`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.RoomID, &res.ScreeningID, &res.Status, &res.Date); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSeats returns the asientoreservado rows of one reservation.
func (r *ReservationRepo) ListSeats(ctx context.Context, reservationID uint64) ([]SeatReservation, error) {
	const q = `SELECT id_asiento_reservado, id_reservacion, id_asiento FROM asientoreservado WHERE id_reservacion = ? ORDER BY id_asiento_reservado`
	return r.scanSeatReservations(ctx, q, reservationID)
}

// ListAllSeats returns every asientoreservado row.
func (r *ReservationRepo) ListAllSeats(ctx context.Context) ([]SeatReservation, error) {
	const q = `SELECT id_asiento_reservado, id_reservacion, id_asiento FROM asientoreservado ORDER BY id_asiento_reservado`
	return r.scanSeatReservations(ctx, q)
}

func (r *ReservationRepo) scanSeatReservations(ctx context.Context, query string, args ...interface{}) ([]SeatReservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeatReservation
	for rows.Next() {
		var sr SeatReservation
		if err := rows.Scan(&sr.ID, &sr.ReservationID, &sr.SeatID); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// verifySeatsInRoomTx confirms every seat ID belongs to the given sala.
// The read takes shared locks on the asiento rows: a resize holds those
// rows FOR UPDATE for its whole read-diff-write sequence, so a booking
// that races a shrink blocks here and then sees the seat gone instead of
// inserting against a row that is about to be deleted.
func verifySeatsInRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64, seatIDs []uint64) error {
	placeholders := make([]string, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+1)
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, roomID)
	query := `SELECT COUNT(*) FROM asiento WHERE id_asiento IN (` + strings.Join(placeholders, ",") + `) AND id_sala = ? FOR SHARE`
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return err
	}
	if n != len(seatIDs) {
		return ErrSeatNotFound
	}
	return nil
}

// lockAndCheckSeatsFreeTx locks any active seat-reservation rows for the
// given seats and funcion and fails with ErrSeatConflict when one exists.
// The FOR UPDATE read serializes concurrent attempts to book the same
// seat: of two simultaneous transactions, the second blocks on the lock
// and then sees the first one's row.
func lockAndCheckSeatsFreeTx(ctx context.Context, tx *sql.Tx, screeningID uint64, seatIDs []uint64) error {
	placeholders := make([]string, len(seatIDs))
	args := make([]interface{}, 0, len(seatIDs)+len(activeStatuses)+1)
	args = append(args, screeningID)
	for i, id := range seatIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = activeStatusArgs(args)
	query := `SELECT ar.id_asiento
	          FROM asientoreservado ar
	          JOIN reservacion r ON r.id_reservacion = ar.id_reservacion
	          WHERE r.id_funcion = ? AND ar.id_asiento IN (` + strings.Join(placeholders, ",") + `)
	            AND r.estado IN (` + activeStatusPlaceholders + `)
	          FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		return ErrSeatConflict
	}
	return rows.Err()
}

// insertSeatReservationsTx bulk-inserts asientoreservado rows in a single
// statement.
func insertSeatReservationsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, seatIDs []uint64) error {
	query := `INSERT INTO asientoreservado (id_reservacion, id_asiento) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reservationID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
